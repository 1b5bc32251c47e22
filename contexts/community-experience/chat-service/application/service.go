package application

import (
	"context"
	"log/slog"
	"strings"

	"vantage/contexts/community-experience/chat-service/domain/entities"
	domainerrors "vantage/contexts/community-experience/chat-service/domain/errors"
	"vantage/contexts/community-experience/chat-service/ports"
	"vantage/internal/shared/identity"
)

// Service covers the chat surface: lazy conversation creation, posting and
// listing. EnsureConversation and PostSystemNotice are also called by the
// workflow dispatcher, so both are idempotent-friendly.
type Service struct {
	Conversations ports.ConversationRepository
	Messages      ports.MessageRepository
	Guard         identity.Guard
	Clock         ports.Clock
	IDGen         ports.IDGenerator
	Logger        *slog.Logger
}

func (s Service) EnsureConversation(ctx context.Context, businessID string, influencerID string, applicationID string) (entities.Conversation, error) {
	conversationID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.Conversation{}, err
	}
	conversation, err := s.Conversations.EnsureConversation(ctx, entities.Conversation{
		ConversationID: conversationID,
		ApplicationID:  strings.TrimSpace(applicationID),
		BusinessID:     strings.TrimSpace(businessID),
		InfluencerID:   strings.TrimSpace(influencerID),
		CreatedAt:      s.Clock.Now().UTC(),
	})
	if err != nil {
		return entities.Conversation{}, err
	}
	ResolveLogger(s.Logger).Debug("conversation ensured",
		"event", "conversation_ensured",
		"module", "community-experience/chat-service",
		"layer", "application",
		"conversation_id", conversation.ConversationID,
		"application_id", conversation.ApplicationID,
	)
	return conversation, nil
}

func (s Service) PostMessage(ctx context.Context, actor identity.Actor, conversationID string, body string) (entities.Message, error) {
	conversation, err := s.Conversations.GetConversation(ctx, strings.TrimSpace(conversationID))
	if err != nil {
		return entities.Message{}, err
	}
	decision := s.Guard.Authorize(ctx, actor, identity.ActionView, identity.Target{
		Entity:       "conversation",
		BusinessID:   conversation.BusinessID,
		InfluencerID: conversation.InfluencerID,
	})
	if err := decision.Err(); err != nil {
		return entities.Message{}, err
	}

	trimmed := strings.TrimSpace(body)
	if trimmed == "" || len(trimmed) > 4000 {
		return entities.Message{}, domainerrors.ErrInvalidMessageInput
	}

	messageID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.Message{}, err
	}
	message := entities.Message{
		MessageID:      messageID,
		ConversationID: conversation.ConversationID,
		SenderID:       actor.ID,
		SenderKind:     entities.SenderUser,
		Body:           trimmed,
		CreatedAt:      s.Clock.Now().UTC(),
	}
	if err := s.Messages.AppendMessage(ctx, message); err != nil {
		return entities.Message{}, err
	}
	return message, nil
}

// PostSystemNotice drops a system message into the conversation attached to
// an application, for review outcomes and revision notes.
func (s Service) PostSystemNotice(ctx context.Context, applicationID string, body string) error {
	conversation, err := s.Conversations.GetConversationByApplication(ctx, strings.TrimSpace(applicationID))
	if err != nil {
		return err
	}
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return domainerrors.ErrInvalidMessageInput
	}

	messageID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	return s.Messages.AppendMessage(ctx, entities.Message{
		MessageID:      messageID,
		ConversationID: conversation.ConversationID,
		SenderID:       "system",
		SenderKind:     entities.SenderSystem,
		Body:           trimmed,
		CreatedAt:      s.Clock.Now().UTC(),
	})
}

func (s Service) ListMessages(ctx context.Context, actor identity.Actor, conversationID string, limit int) ([]entities.Message, error) {
	conversation, err := s.Conversations.GetConversation(ctx, strings.TrimSpace(conversationID))
	if err != nil {
		return nil, err
	}
	decision := s.Guard.Authorize(ctx, actor, identity.ActionView, identity.Target{
		Entity:       "conversation",
		BusinessID:   conversation.BusinessID,
		InfluencerID: conversation.InfluencerID,
	})
	if err := decision.Err(); err != nil {
		return nil, err
	}
	return s.Messages.ListMessages(ctx, conversation.ConversationID, limit)
}

func (s Service) ListConversations(ctx context.Context, actor identity.Actor) ([]entities.Conversation, error) {
	if actor.IsZero() {
		return nil, identity.ErrUnauthenticated
	}
	return s.Conversations.ListConversationsForUser(ctx, actor.ID)
}
