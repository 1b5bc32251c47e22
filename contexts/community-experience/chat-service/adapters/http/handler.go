package httpadapter

import (
	"context"
	"log/slog"
	"time"

	application "vantage/contexts/community-experience/chat-service/application"
	"vantage/contexts/community-experience/chat-service/domain/entities"
	httptransport "vantage/contexts/community-experience/chat-service/transport/http"
	"vantage/internal/shared/identity"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) ListConversationsHandler(ctx context.Context, actor identity.Actor) (httptransport.ListConversationsResponse, error) {
	items, err := h.Service.ListConversations(ctx, actor)
	if err != nil {
		return httptransport.ListConversationsResponse{}, err
	}
	result := make([]httptransport.ConversationDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapConversation(item))
	}
	return httptransport.ListConversationsResponse{Items: result}, nil
}

func (h Handler) PostMessageHandler(
	ctx context.Context,
	actor identity.Actor,
	conversationID string,
	req httptransport.PostMessageRequest,
) (httptransport.PostMessageResponse, error) {
	message, err := h.Service.PostMessage(ctx, actor, conversationID, req.Body)
	if err != nil {
		return httptransport.PostMessageResponse{}, err
	}
	return httptransport.PostMessageResponse{Message: mapMessage(message)}, nil
}

func (h Handler) ListMessagesHandler(ctx context.Context, actor identity.Actor, conversationID string) (httptransport.ListMessagesResponse, error) {
	items, err := h.Service.ListMessages(ctx, actor, conversationID, 0)
	if err != nil {
		return httptransport.ListMessagesResponse{}, err
	}
	result := make([]httptransport.MessageDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapMessage(item))
	}
	return httptransport.ListMessagesResponse{Items: result}, nil
}

func mapConversation(item entities.Conversation) httptransport.ConversationDTO {
	return httptransport.ConversationDTO{
		ConversationID: item.ConversationID,
		ApplicationID:  item.ApplicationID,
		BusinessID:     item.BusinessID,
		InfluencerID:   item.InfluencerID,
		CreatedAt:      item.CreatedAt.Format(time.RFC3339),
	}
}

func mapMessage(item entities.Message) httptransport.MessageDTO {
	return httptransport.MessageDTO{
		MessageID:      item.MessageID,
		ConversationID: item.ConversationID,
		SenderID:       item.SenderID,
		SenderKind:     item.SenderKind,
		Body:           item.Body,
		CreatedAt:      item.CreatedAt.Format(time.RFC3339),
	}
}
