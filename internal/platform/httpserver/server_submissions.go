package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	submissionerrors "vantage/contexts/marketplace/submission-service/domain/errors"
	submissionhttp "vantage/contexts/marketplace/submission-service/transport/http"
	"vantage/internal/shared/identity"
	"vantage/internal/shared/workflow"
)

func (s *Server) handleCreateSubmission(w http.ResponseWriter, r *http.Request) {
	actor, err := s.resolveActor(r)
	if err != nil {
		writeActorError(w, err)
		return
	}

	var req submissionhttp.CreateSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSubmissionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.submissions.Handler.CreateSubmissionHandler(r.Context(), actor, req)
	if err != nil {
		writeSubmissionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetSubmission(w http.ResponseWriter, r *http.Request) {
	actor, err := s.resolveActor(r)
	if err != nil {
		writeActorError(w, err)
		return
	}
	resp, err := s.submissions.Handler.GetSubmissionHandler(r.Context(), actor, r.PathValue("submission_id"))
	if err != nil {
		writeSubmissionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	actor, err := s.resolveActor(r)
	if err != nil {
		writeActorError(w, err)
		return
	}
	query := r.URL.Query()
	resp, err := s.submissions.Handler.ListSubmissionsHandler(
		r.Context(),
		actor,
		query.Get("application_id"),
		query.Get("campaign_id"),
		query.Get("status"),
	)
	if err != nil {
		writeSubmissionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTransitionSubmission(w http.ResponseWriter, r *http.Request) {
	actor, err := s.resolveActor(r)
	if err != nil {
		writeActorError(w, err)
		return
	}

	var req submissionhttp.TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSubmissionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.submissions.Handler.TransitionHandler(r.Context(), actor, r.PathValue("submission_id"), req)
	if err != nil {
		writeSubmissionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeSubmissionError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, submissionhttp.ErrorResponse{Code: code, Message: message})
}

func writeSubmissionDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, identity.ErrUnauthenticated):
		writeSubmissionError(w, http.StatusUnauthorized, "unauthenticated", err.Error())
	case errors.Is(err, identity.ErrForbidden):
		writeSubmissionError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, submissionerrors.ErrSubmissionNotFound):
		writeSubmissionError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, submissionerrors.ErrInvalidSubmissionInput):
		writeSubmissionError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, submissionerrors.ErrStatusConflict):
		writeSubmissionError(w, http.StatusConflict, "status_conflict", err.Error())
	case errors.Is(err, submissionerrors.ErrApplicationNotApproved),
		errors.Is(err, identity.ErrInvalidState):
		writeSubmissionError(w, http.StatusUnprocessableEntity, "invalid_state", err.Error())
	case errors.Is(err, workflow.ErrInvalidTransition),
		errors.Is(err, workflow.ErrTerminalStatus),
		errors.Is(err, workflow.ErrUnknownStatus):
		writeSubmissionError(w, http.StatusUnprocessableEntity, "invalid_transition", err.Error())
	case errors.Is(err, workflow.ErrSideEffectFailed):
		writeSubmissionError(w, http.StatusInternalServerError, "side_effect_failed", err.Error())
	default:
		writeSubmissionError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
