package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	chaterrors "vantage/contexts/community-experience/chat-service/domain/errors"
	chathttp "vantage/contexts/community-experience/chat-service/transport/http"
	"vantage/internal/shared/identity"
)

func (s *Server) handleListConversations(w http.ResponseWriter, r *http.Request) {
	actor, err := s.resolveActor(r)
	if err != nil {
		writeActorError(w, err)
		return
	}
	resp, err := s.chat.Handler.ListConversationsHandler(r.Context(), actor)
	if err != nil {
		writeChatDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	actor, err := s.resolveActor(r)
	if err != nil {
		writeActorError(w, err)
		return
	}
	resp, err := s.chat.Handler.ListMessagesHandler(r.Context(), actor, r.PathValue("conversation_id"))
	if err != nil {
		writeChatDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePostMessage(w http.ResponseWriter, r *http.Request) {
	actor, err := s.resolveActor(r)
	if err != nil {
		writeActorError(w, err)
		return
	}

	var req chathttp.PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeChatError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.chat.Handler.PostMessageHandler(r.Context(), actor, r.PathValue("conversation_id"), req)
	if err != nil {
		writeChatDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func writeChatError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, chathttp.ErrorResponse{Code: code, Message: message})
}

func writeChatDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, identity.ErrUnauthenticated):
		writeChatError(w, http.StatusUnauthorized, "unauthenticated", err.Error())
	case errors.Is(err, identity.ErrForbidden):
		writeChatError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, chaterrors.ErrConversationNotFound):
		writeChatError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, chaterrors.ErrInvalidMessageInput):
		writeChatError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeChatError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
