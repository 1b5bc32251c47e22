package queries

import (
	"context"
	"log/slog"
	"strings"

	"vantage/contexts/marketplace/campaign-service/domain/entities"
	"vantage/contexts/marketplace/campaign-service/ports"
)

type QueryUseCase struct {
	Campaigns ports.CampaignRepository
	Logger    *slog.Logger
}

func (uc QueryUseCase) GetCampaign(ctx context.Context, campaignID string) (entities.Campaign, error) {
	return uc.Campaigns.GetCampaign(ctx, strings.TrimSpace(campaignID))
}

func (uc QueryUseCase) ListCampaigns(ctx context.Context, filter ports.CampaignFilter) ([]entities.Campaign, error) {
	filter.BusinessID = strings.TrimSpace(filter.BusinessID)
	filter.Status = strings.TrimSpace(filter.Status)
	return uc.Campaigns.ListCampaigns(ctx, filter)
}
