package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"vantage/contexts/marketplace/application-service/application/commands"
	"vantage/contexts/marketplace/application-service/application/queries"
	"vantage/contexts/marketplace/application-service/domain/entities"
	"vantage/contexts/marketplace/application-service/ports"
	httptransport "vantage/contexts/marketplace/application-service/transport/http"
	"vantage/internal/shared/identity"
)

type Handler struct {
	Apply      commands.ApplyUseCase
	Transition commands.TransitionUseCase
	Queries    queries.QueryUseCase
	Logger     *slog.Logger
}

func (h Handler) ApplyHandler(
	ctx context.Context,
	actor identity.Actor,
	req httptransport.ApplyRequest,
) (httptransport.ApplyResponse, error) {
	result, err := h.Apply.Execute(ctx, commands.ApplyCommand{
		Actor:      actor,
		CampaignID: req.CampaignID,
		Pitch:      req.Pitch,
	})
	if err != nil {
		return httptransport.ApplyResponse{}, err
	}
	return httptransport.ApplyResponse{Application: mapApplication(result)}, nil
}

func (h Handler) GetApplicationHandler(ctx context.Context, actor identity.Actor, applicationID string) (httptransport.GetApplicationResponse, error) {
	item, err := h.Queries.GetApplication(ctx, actor, applicationID)
	if err != nil {
		return httptransport.GetApplicationResponse{}, err
	}
	return httptransport.GetApplicationResponse{Application: mapApplication(item)}, nil
}

func (h Handler) ListApplicationsHandler(
	ctx context.Context,
	actor identity.Actor,
	campaignID string,
	status string,
) (httptransport.ListApplicationsResponse, error) {
	items, err := h.Queries.ListApplications(ctx, actor, ports.ApplicationFilter{
		CampaignID: campaignID,
		Status:     status,
	})
	if err != nil {
		return httptransport.ListApplicationsResponse{}, err
	}
	result := make([]httptransport.ApplicationDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapApplication(item))
	}
	return httptransport.ListApplicationsResponse{Items: result}, nil
}

func (h Handler) TransitionHandler(
	ctx context.Context,
	actor identity.Actor,
	applicationID string,
	req httptransport.TransitionRequest,
) (httptransport.TransitionResponse, error) {
	result, err := h.Transition.Execute(ctx, commands.TransitionCommand{
		ApplicationID: applicationID,
		Actor:         actor,
		Target:        req.Status,
		Notes:         req.Notes,
	})
	if err != nil {
		return httptransport.TransitionResponse{Application: mapApplication(result)}, err
	}
	return httptransport.TransitionResponse{Application: mapApplication(result)}, nil
}

func mapApplication(item entities.Application) httptransport.ApplicationDTO {
	return httptransport.ApplicationDTO{
		ApplicationID: item.ApplicationID,
		CampaignID:    item.CampaignID,
		BusinessID:    item.BusinessID,
		InfluencerID:  item.InfluencerID,
		Pitch:         item.Pitch,
		AgreedAmount:  item.AgreedAmount,
		Status:        item.Status,
		CreatedAt:     item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     item.UpdatedAt.Format(time.RFC3339),
	}
}
