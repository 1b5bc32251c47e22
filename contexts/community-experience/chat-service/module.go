package chatservice

import (
	"log/slog"

	httpadapter "vantage/contexts/community-experience/chat-service/adapters/http"
	"vantage/contexts/community-experience/chat-service/adapters/memory"
	application "vantage/contexts/community-experience/chat-service/application"
	"vantage/contexts/community-experience/chat-service/ports"
	"vantage/internal/shared/identity"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Conversations ports.ConversationRepository
	Messages      ports.MessageRepository
	Guard         identity.Guard
	Clock         ports.Clock
	IDGenerator   ports.IDGenerator
	Logger        *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Conversations: deps.Conversations,
		Messages:      deps.Messages,
		Guard:         deps.Guard,
		Clock:         deps.Clock,
		IDGen:         deps.IDGenerator,
		Logger:        deps.Logger,
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
		Conversations: store,
		Messages:      store,
		Guard:         guard,
		Clock:         store,
		IDGenerator:   store,
		Logger:        logger,
	})
	module.Store = store
	return module
}
