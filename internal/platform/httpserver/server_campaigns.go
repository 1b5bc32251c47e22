package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	campaignerrors "vantage/contexts/marketplace/campaign-service/domain/errors"
	campaignhttp "vantage/contexts/marketplace/campaign-service/transport/http"
	"vantage/internal/shared/identity"
	"vantage/internal/shared/workflow"
)

func (s *Server) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	actor, err := s.resolveActor(r)
	if err != nil {
		writeActorError(w, err)
		return
	}

	var req campaignhttp.CreateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCampaignError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.campaigns.Handler.CreateCampaignHandler(r.Context(), actor, req)
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	resp, err := s.campaigns.Handler.GetCampaignHandler(r.Context(), r.PathValue("campaign_id"))
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	resp, err := s.campaigns.Handler.ListCampaignsHandler(r.Context(), query.Get("business_id"), query.Get("status"))
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleChangeCampaignStatus(w http.ResponseWriter, r *http.Request) {
	actor, err := s.resolveActor(r)
	if err != nil {
		writeActorError(w, err)
		return
	}

	var req campaignhttp.ChangeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCampaignError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.campaigns.Handler.ChangeStatusHandler(r.Context(), actor, r.PathValue("campaign_id"), req)
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFavoriteCampaign(w http.ResponseWriter, r *http.Request) {
	actor, err := s.resolveActor(r)
	if err != nil {
		writeActorError(w, err)
		return
	}
	if err := s.campaigns.Handler.FavoriteHandler(r.Context(), actor, r.PathValue("campaign_id")); err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, struct{}{})
}

func (s *Server) handleUnfavoriteCampaign(w http.ResponseWriter, r *http.Request) {
	actor, err := s.resolveActor(r)
	if err != nil {
		writeActorError(w, err)
		return
	}
	if err := s.campaigns.Handler.UnfavoriteHandler(r.Context(), actor, r.PathValue("campaign_id")); err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, struct{}{})
}

func writeCampaignError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, campaignhttp.ErrorResponse{Code: code, Message: message})
}

func writeCampaignDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, identity.ErrUnauthenticated):
		writeCampaignError(w, http.StatusUnauthorized, "unauthenticated", err.Error())
	case errors.Is(err, identity.ErrForbidden):
		writeCampaignError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, campaignerrors.ErrCampaignNotFound),
		errors.Is(err, campaignerrors.ErrFavoriteNotFound):
		writeCampaignError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, campaignerrors.ErrInvalidCampaignInput):
		writeCampaignError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, campaignerrors.ErrAlreadyFavorited):
		writeCampaignError(w, http.StatusConflict, "already_exists", err.Error())
	case errors.Is(err, campaignerrors.ErrStatusConflict):
		writeCampaignError(w, http.StatusConflict, "status_conflict", err.Error())
	case errors.Is(err, workflow.ErrInvalidTransition),
		errors.Is(err, workflow.ErrTerminalStatus),
		errors.Is(err, workflow.ErrUnknownStatus),
		errors.Is(err, identity.ErrInvalidState):
		writeCampaignError(w, http.StatusUnprocessableEntity, "invalid_transition", err.Error())
	case errors.Is(err, workflow.ErrSideEffectFailed):
		writeCampaignError(w, http.StatusInternalServerError, "side_effect_failed", err.Error())
	default:
		writeCampaignError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
