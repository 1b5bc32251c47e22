package commands

import (
	"context"
	"log/slog"
	"strings"

	application "vantage/contexts/marketplace/campaign-service/application"
	"vantage/contexts/marketplace/campaign-service/domain/entities"
	domainerrors "vantage/contexts/marketplace/campaign-service/domain/errors"
	"vantage/contexts/marketplace/campaign-service/ports"
	"vantage/internal/shared/identity"
	"vantage/internal/shared/workflow"
)

type CreateCampaignCommand struct {
	Actor               identity.Actor
	Title               string
	Description         string
	Niche               string
	BudgetTotal         float64
	PayoutPerSubmission float64
	DeadlineAt          *string
}

type CreateCampaignUseCase struct {
	Campaigns ports.CampaignRepository
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func (uc CreateCampaignUseCase) Execute(ctx context.Context, cmd CreateCampaignCommand) (entities.Campaign, error) {
	if cmd.Actor.IsZero() {
		return entities.Campaign{}, identity.ErrUnauthenticated
	}
	if cmd.Actor.Role != identity.RoleBusiness && !cmd.Actor.Elevated() {
		return entities.Campaign{}, identity.ErrForbidden
	}

	now := uc.Clock.Now().UTC()
	campaignID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Campaign{}, err
	}

	campaign := entities.Campaign{
		CampaignID:          campaignID,
		BusinessID:          cmd.Actor.ID,
		Title:               strings.TrimSpace(cmd.Title),
		Description:         strings.TrimSpace(cmd.Description),
		Niche:               strings.TrimSpace(cmd.Niche),
		BudgetTotal:         cmd.BudgetTotal,
		PayoutPerSubmission: cmd.PayoutPerSubmission,
		Status:              workflow.CampaignDraft,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if deadline, err := parseOptionalTime(cmd.DeadlineAt); err != nil {
		return entities.Campaign{}, domainerrors.ErrInvalidCampaignInput
	} else if deadline != nil {
		campaign.DeadlineAt = deadline
	}
	if !campaign.ValidateBasics() {
		return entities.Campaign{}, domainerrors.ErrInvalidCampaignInput
	}

	if err := uc.Campaigns.CreateCampaign(ctx, campaign); err != nil {
		return entities.Campaign{}, err
	}

	application.ResolveLogger(uc.Logger).Info("campaign created",
		"event", "campaign_created",
		"module", "marketplace/campaign-service",
		"layer", "application",
		"campaign_id", campaign.CampaignID,
		"business_id", campaign.BusinessID,
	)
	return campaign, nil
}
