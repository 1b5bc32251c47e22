package campaignservice

import (
	"log/slog"

	httpadapter "vantage/contexts/marketplace/campaign-service/adapters/http"
	"vantage/contexts/marketplace/campaign-service/adapters/memory"
	"vantage/contexts/marketplace/campaign-service/application/commands"
	"vantage/contexts/marketplace/campaign-service/application/queries"
	"vantage/contexts/marketplace/campaign-service/application/workers"
	"vantage/contexts/marketplace/campaign-service/domain/entities"
	"vantage/contexts/marketplace/campaign-service/ports"
	"vantage/internal/shared/identity"
	"vantage/internal/shared/workflow"
)

type Module struct {
	Handler        httpadapter.Handler
	DeadlineCloser workers.DeadlineCloser
	Engagement     ports.EngagementRepository
	Store          *memory.Store
}

type Dependencies struct {
	Campaigns         ports.CampaignRepository
	Engagement        ports.EngagementRepository
	History           ports.HistoryRepository
	Deadlines         ports.DeadlineRepository
	Guard             identity.Guard
	Table             *workflow.Table
	Clock             ports.Clock
	IDGenerator       ports.IDGenerator
	DeadlineBatchSize int
	DeadlineDisabled  bool
	Logger            *slog.Logger
}

func NewModule(deps Dependencies) Module {
	createCampaign := commands.CreateCampaignUseCase{
		Campaigns: deps.Campaigns,
		Clock:     deps.Clock,
		IDGen:     deps.IDGenerator,
		Logger:    deps.Logger,
	}
	changeStatus := commands.ChangeStatusUseCase{
		Campaigns: deps.Campaigns,
		History:   deps.History,
		Guard:     deps.Guard,
		Table:     deps.Table,
		Clock:     deps.Clock,
		IDGen:     deps.IDGenerator,
		Logger:    deps.Logger,
	}
	engagement := commands.TrackEngagementUseCase{
		Engagement: deps.Engagement,
		Logger:     deps.Logger,
	}
	queryUseCase := queries.QueryUseCase{
		Campaigns: deps.Campaigns,
		Logger:    deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			CreateCampaign: createCampaign,
			ChangeStatus:   changeStatus,
			Engagement:     engagement,
			Queries:        queryUseCase,
			Logger:         deps.Logger,
		},
		DeadlineCloser: workers.DeadlineCloser{
			Deadlines: deps.Deadlines,
			Clock:     deps.Clock,
			BatchSize: deps.DeadlineBatchSize,
			Disabled:  deps.DeadlineDisabled,
			Logger:    deps.Logger,
		},
		Engagement: deps.Engagement,
	}
}

func NewInMemoryModule(seed []entities.Campaign, guard identity.Guard, table *workflow.Table, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Campaigns:   store,
		Engagement:  store,
		History:     store,
		Deadlines:   store,
		Guard:       guard,
		Table:       table,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
