package submissionservice

import (
	"log/slog"

	httpadapter "vantage/contexts/marketplace/submission-service/adapters/http"
	"vantage/contexts/marketplace/submission-service/adapters/memory"
	"vantage/contexts/marketplace/submission-service/application/commands"
	"vantage/contexts/marketplace/submission-service/application/queries"
	"vantage/contexts/marketplace/submission-service/application/workers"
	"vantage/contexts/marketplace/submission-service/domain/entities"
	"vantage/contexts/marketplace/submission-service/ports"
	"vantage/internal/shared/identity"
	"vantage/internal/shared/outbox"
	"vantage/internal/shared/workflow"
)

type Module struct {
	Handler        httpadapter.Handler
	AutoApproveJob workers.AutoApproveJob
	Store          *memory.Store
}

type Dependencies struct {
	Submissions          ports.SubmissionRepository
	History              ports.HistoryRepository
	Applications         ports.ApplicationDirectory
	Guard                identity.Guard
	Table                *workflow.Table
	Dispatcher           *workflow.Dispatcher
	Outbox               outbox.Writer
	Clock                ports.Clock
	IDGenerator          ports.IDGenerator
	AutoApproveBatchSize int
	AutoApproveDisabled  bool
	Logger               *slog.Logger
}

func NewModule(deps Dependencies) Module {
	create := commands.CreateSubmissionUseCase{
		Submissions:  deps.Submissions,
		Applications: deps.Applications,
		Clock:        deps.Clock,
		IDGen:        deps.IDGenerator,
		Logger:       deps.Logger,
	}
	transition := commands.TransitionUseCase{
		Submissions: deps.Submissions,
		History:     deps.History,
		Guard:       deps.Guard,
		Table:       deps.Table,
		Dispatcher:  deps.Dispatcher,
		Outbox:      deps.Outbox,
		Clock:       deps.Clock,
		IDGen:       deps.IDGenerator,
		Logger:      deps.Logger,
	}
	queryUseCase := queries.QueryUseCase{
		Submissions: deps.Submissions,
		Guard:       deps.Guard,
		Logger:      deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			Create:     create,
			Transition: transition,
			Queries:    queryUseCase,
			Logger:     deps.Logger,
		},
		AutoApproveJob: workers.AutoApproveJob{
			Submissions: deps.Submissions,
			Transition:  transition,
			Clock:       deps.Clock,
			BatchSize:   deps.AutoApproveBatchSize,
			Disabled:    deps.AutoApproveDisabled,
			Logger:      deps.Logger,
		},
	}
}

func NewInMemoryModule(
	seed []entities.Submission,
	applications ports.ApplicationDirectory,
	guard identity.Guard,
	table *workflow.Table,
	dispatcher *workflow.Dispatcher,
	logger *slog.Logger,
) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Submissions:  store,
		History:      store,
		Applications: applications,
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
