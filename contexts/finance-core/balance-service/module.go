package balanceservice

import (
	"log/slog"

	httpadapter "vantage/contexts/finance-core/balance-service/adapters/http"
	"vantage/contexts/finance-core/balance-service/adapters/memory"
	application "vantage/contexts/finance-core/balance-service/application"
	"vantage/contexts/finance-core/balance-service/ports"
	"vantage/internal/shared/identity"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Balances    ports.BalanceRepository
	Guard       identity.Guard
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Balances: deps.Balances,
		Guard:    deps.Guard,
		Clock:    deps.Clock,
		IDGen:    deps.IDGenerator,
		Logger:   deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
	}
}

func NewInMemoryModule(guard identity.Guard, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Balances:    store,
		Guard:       guard,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
