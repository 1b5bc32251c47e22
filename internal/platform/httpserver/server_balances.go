package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	balanceerrors "vantage/contexts/finance-core/balance-service/domain/errors"
	balancehttp "vantage/contexts/finance-core/balance-service/transport/http"
	"vantage/internal/shared/identity"
)

func (s *Server) handleGetMyBalance(w http.ResponseWriter, r *http.Request) {
	actor, err := s.resolveActor(r)
	if err != nil {
		writeActorError(w, err)
		return
	}
	resp, err := s.balances.Handler.GetMyBalanceHandler(r.Context(), actor)
	if err != nil {
		writeBalanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAdjustBalance(w http.ResponseWriter, r *http.Request) {
	actor, err := s.resolveActor(r)
	if err != nil {
		writeActorError(w, err)
		return
	}

	var req balancehttp.AdjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBalanceError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.balances.Handler.AdjustHandler(r.Context(), actor, req)
	if err != nil {
		writeBalanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeBalanceError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, balancehttp.ErrorResponse{Code: code, Message: message})
}

func writeBalanceDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, identity.ErrUnauthenticated):
		writeBalanceError(w, http.StatusUnauthorized, "unauthenticated", err.Error())
	case errors.Is(err, identity.ErrForbidden):
		writeBalanceError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, balanceerrors.ErrBalanceNotFound):
		writeBalanceError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, balanceerrors.ErrInvalidAmount):
		writeBalanceError(w, http.StatusBadRequest, "invalid_amount", err.Error())
	case errors.Is(err, balanceerrors.ErrInsufficientPending),
		errors.Is(err, balanceerrors.ErrInconsistentBalance):
		writeBalanceError(w, http.StatusUnprocessableEntity, "invalid_state", err.Error())
	default:
		writeBalanceError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
