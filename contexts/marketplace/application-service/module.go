package applicationservice

import (
	"log/slog"

	httpadapter "vantage/contexts/marketplace/application-service/adapters/http"
	"vantage/contexts/marketplace/application-service/adapters/memory"
	"vantage/contexts/marketplace/application-service/application/commands"
	"vantage/contexts/marketplace/application-service/application/queries"
	"vantage/contexts/marketplace/application-service/domain/entities"
	"vantage/contexts/marketplace/application-service/ports"
	"vantage/internal/shared/identity"
	"vantage/internal/shared/outbox"
	"vantage/internal/shared/workflow"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Applications ports.ApplicationRepository
	History      ports.HistoryRepository
	Campaigns    ports.CampaignDirectory
	Guard        identity.Guard
	Table        *workflow.Table
	Dispatcher   *workflow.Dispatcher
	Outbox       outbox.Writer
	Clock        ports.Clock
	IDGenerator  ports.IDGenerator
	Logger       *slog.Logger
}

func NewModule(deps Dependencies) Module {
	apply := commands.ApplyUseCase{
		Applications: deps.Applications,
		Campaigns:    deps.Campaigns,
		Guard:        deps.Guard,
		Outbox:       deps.Outbox,
		Clock:        deps.Clock,
		IDGen:        deps.IDGenerator,
		Logger:       deps.Logger,
	}
	transition := commands.TransitionUseCase{
		Applications: deps.Applications,
		History:      deps.History,
		Guard:        deps.Guard,
		Table:        deps.Table,
		Dispatcher:   deps.Dispatcher,
		Outbox:       deps.Outbox,
		Clock:        deps.Clock,
		IDGen:        deps.IDGenerator,
		Logger:       deps.Logger,
	}
	queryUseCase := queries.QueryUseCase{
		Applications: deps.Applications,
		Guard:        deps.Guard,
		Logger:       deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			Apply:      apply,
			Transition: transition,
			Queries:    queryUseCase,
			Logger:     deps.Logger,
		},
	}
}

func NewInMemoryModule(
	seed []entities.Application,
	campaigns ports.CampaignDirectory,
	guard identity.Guard,
	table *workflow.Table,
	dispatcher *workflow.Dispatcher,
	logger *slog.Logger,
) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Applications: store,
		History:      store,
		Campaigns:    campaigns,
		Guard:        guard,
		Table:        table,
		Dispatcher:   dispatcher,
		Outbox:       store,
		Clock:        store,
		IDGenerator:  store,
		Logger:       logger,
	})
	module.Store = store
	return module
}
