package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"vantage/contexts/marketplace/campaign-service/application/commands"
	"vantage/contexts/marketplace/campaign-service/application/queries"
	"vantage/contexts/marketplace/campaign-service/domain/entities"
	"vantage/contexts/marketplace/campaign-service/ports"
	httptransport "vantage/contexts/marketplace/campaign-service/transport/http"
	"vantage/internal/shared/identity"
)

type Handler struct {
	CreateCampaign commands.CreateCampaignUseCase
	ChangeStatus   commands.ChangeStatusUseCase
	Engagement     commands.TrackEngagementUseCase
	Queries        queries.QueryUseCase
	Logger         *slog.Logger
}

func (h Handler) CreateCampaignHandler(
	ctx context.Context,
	actor identity.Actor,
	req httptransport.CreateCampaignRequest,
) (httptransport.CreateCampaignResponse, error) {
	result, err := h.CreateCampaign.Execute(ctx, commands.CreateCampaignCommand{
		Actor:               actor,
		Title:               req.Title,
		Description:         req.Description,
		Niche:               req.Niche,
		BudgetTotal:         req.BudgetTotal,
		PayoutPerSubmission: req.PayoutPerSubmission,
		DeadlineAt:          req.DeadlineAt,
	})
	if err != nil {
		return httptransport.CreateCampaignResponse{}, err
	}
	return httptransport.CreateCampaignResponse{Campaign: mapCampaign(result)}, nil
}

func (h Handler) GetCampaignHandler(ctx context.Context, campaignID string) (httptransport.GetCampaignResponse, error) {
	item, err := h.Queries.GetCampaign(ctx, campaignID)
	if err != nil {
		return httptransport.GetCampaignResponse{}, err
	}
	// Public reads count as views; failures here never block the read.
	_ = h.Engagement.TrackView(ctx, campaignID)
	return httptransport.GetCampaignResponse{Campaign: mapCampaign(item)}, nil
}

func (h Handler) ListCampaignsHandler(ctx context.Context, businessID string, status string) (httptransport.ListCampaignsResponse, error) {
	items, err := h.Queries.ListCampaigns(ctx, ports.CampaignFilter{
		BusinessID: businessID,
		Status:     status,
	})
	if err != nil {
		return httptransport.ListCampaignsResponse{}, err
	}
	result := make([]httptransport.CampaignDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapCampaign(item))
	}
	return httptransport.ListCampaignsResponse{Items: result}, nil
}

func (h Handler) ChangeStatusHandler(
	ctx context.Context,
	actor identity.Actor,
	campaignID string,
	req httptransport.ChangeStatusRequest,
) (httptransport.ChangeStatusResponse, error) {
	result, err := h.ChangeStatus.Execute(ctx, commands.ChangeStatusCommand{
		CampaignID: campaignID,
		Actor:      actor,
		Target:     req.Status,
		Reason:     req.Reason,
	})
	if err != nil {
		return httptransport.ChangeStatusResponse{}, err
	}
	return httptransport.ChangeStatusResponse{Campaign: mapCampaign(result)}, nil
}

func (h Handler) FavoriteHandler(ctx context.Context, actor identity.Actor, campaignID string) error {
	return h.Engagement.Favorite(ctx, actor, campaignID)
}

func (h Handler) UnfavoriteHandler(ctx context.Context, actor identity.Actor, campaignID string) error {
	return h.Engagement.Unfavorite(ctx, actor, campaignID)
}

func mapCampaign(item entities.Campaign) httptransport.CampaignDTO {
	result := httptransport.CampaignDTO{
		CampaignID:          item.CampaignID,
		BusinessID:          item.BusinessID,
		Title:               item.Title,
		Description:         item.Description,
		Niche:               item.Niche,
		BudgetTotal:         item.BudgetTotal,
		PayoutPerSubmission: item.PayoutPerSubmission,
		ViewCount:           item.ViewCount,
		FavoriteCount:       item.FavoriteCount,
		ApplicationCount:    item.ApplicationCount,
		Status:              item.Status,
		CreatedAt:           item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           item.UpdatedAt.Format(time.RFC3339),
	}
	if item.DeadlineAt != nil {
		result.DeadlineAt = item.DeadlineAt.UTC().Format(time.RFC3339)
	}
	if item.LaunchedAt != nil {
		result.LaunchedAt = item.LaunchedAt.UTC().Format(time.RFC3339)
	}
	if item.ClosedAt != nil {
		result.ClosedAt = item.ClosedAt.UTC().Format(time.RFC3339)
	}
	return result
}
