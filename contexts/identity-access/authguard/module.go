package authguard

import (
	"log/slog"
	"time"

	"vantage/contexts/identity-access/authguard/adapters/memory"
	"vantage/contexts/identity-access/authguard/application"
	"vantage/contexts/identity-access/authguard/ports"
	"vantage/internal/shared/identity"
)

type Module struct {
	Guard application.Service
	Store *memory.Store
}

type Dependencies struct {
	Roles    ports.RoleDirectory
	Cache    ports.RoleCache
	Tokens   ports.TokenParser
	CacheTTL time.Duration
	Logger   *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Guard: application.Service{
			Roles:    deps.Roles,
			Cache:    deps.Cache,
			Tokens:   deps.Tokens,
			CacheTTL: deps.CacheTTL,
			Logger:   deps.Logger,
		},
	}
}

func NewInMemoryModule(seed map[string]identity.Role, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Roles:    store,
		Cache:    memory.NewCache(),
		CacheTTL: 5 * time.Minute,
		Logger:   logger,
	})
	module.Store = store
	return module
}
