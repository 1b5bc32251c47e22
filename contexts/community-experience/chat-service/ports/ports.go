package ports

import (
	"context"
	"time"

	"vantage/contexts/community-experience/chat-service/domain/entities"
)

type ConversationRepository interface {
	// EnsureConversation returns the existing conversation for the
	// application or creates it. Idempotent under concurrent calls; the
	// store resolves races on the application id.
	EnsureConversation(ctx context.Context, conversation entities.Conversation) (entities.Conversation, error)
	GetConversation(ctx context.Context, conversationID string) (entities.Conversation, error)
	GetConversationByApplication(ctx context.Context, applicationID string) (entities.Conversation, error)
	ListConversationsForUser(ctx context.Context, userID string) ([]entities.Conversation, error)
}

type MessageRepository interface {
	AppendMessage(ctx context.Context, message entities.Message) error
	// ListMessages returns messages ascending by created_at.
	ListMessages(ctx context.Context, conversationID string, limit int) ([]entities.Message, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
