package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	applicationerrors "vantage/contexts/marketplace/application-service/domain/errors"
	applicationhttp "vantage/contexts/marketplace/application-service/transport/http"
	"vantage/internal/shared/identity"
	"vantage/internal/shared/workflow"
)

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	actor, err := s.resolveActor(r)
	if err != nil {
		writeActorError(w, err)
		return
	}

	var req applicationhttp.ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeApplicationError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.applications.Handler.ApplyHandler(r.Context(), actor, req)
	if err != nil {
		writeApplicationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	actor, err := s.resolveActor(r)
	if err != nil {
		writeActorError(w, err)
		return
	}
	resp, err := s.applications.Handler.GetApplicationHandler(r.Context(), actor, r.PathValue("application_id"))
	if err != nil {
		writeApplicationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	actor, err := s.resolveActor(r)
	if err != nil {
		writeActorError(w, err)
		return
	}
	query := r.URL.Query()
	resp, err := s.applications.Handler.ListApplicationsHandler(r.Context(), actor, query.Get("campaign_id"), query.Get("status"))
	if err != nil {
		writeApplicationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTransitionApplication(w http.ResponseWriter, r *http.Request) {
	actor, err := s.resolveActor(r)
	if err != nil {
		writeActorError(w, err)
		return
	}

	var req applicationhttp.TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeApplicationError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.applications.Handler.TransitionHandler(r.Context(), actor, r.PathValue("application_id"), req)
	if err != nil {
		writeApplicationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeApplicationError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, applicationhttp.ErrorResponse{Code: code, Message: message})
}

func writeApplicationDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, identity.ErrUnauthenticated):
		writeApplicationError(w, http.StatusUnauthorized, "unauthenticated", err.Error())
	case errors.Is(err, identity.ErrForbidden):
		writeApplicationError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, applicationerrors.ErrApplicationNotFound):
		writeApplicationError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, applicationerrors.ErrInvalidApplicationInput):
		writeApplicationError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, applicationerrors.ErrDuplicateApplication),
		errors.Is(err, identity.ErrAlreadyExists):
		writeApplicationError(w, http.StatusConflict, "already_exists", err.Error())
	case errors.Is(err, applicationerrors.ErrStatusConflict):
		writeApplicationError(w, http.StatusConflict, "status_conflict", err.Error())
	case errors.Is(err, applicationerrors.ErrCampaignNotOpen),
		errors.Is(err, identity.ErrInvalidState):
		writeApplicationError(w, http.StatusUnprocessableEntity, "invalid_state", err.Error())
	case errors.Is(err, workflow.ErrInvalidTransition),
		errors.Is(err, workflow.ErrTerminalStatus),
		errors.Is(err, workflow.ErrUnknownStatus):
		writeApplicationError(w, http.StatusUnprocessableEntity, "invalid_transition", err.Error())
	case errors.Is(err, workflow.ErrSideEffectFailed):
		writeApplicationError(w, http.StatusInternalServerError, "side_effect_failed", err.Error())
	default:
		writeApplicationError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
