package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "vantage/contexts/marketplace/campaign-service/application"
	"vantage/contexts/marketplace/campaign-service/domain/entities"
	"vantage/contexts/marketplace/campaign-service/ports"
	"vantage/internal/shared/identity"
	"vantage/internal/shared/workflow"
)

type ChangeStatusCommand struct {
	CampaignID string
	Actor      identity.Actor
	Target     string
	Reason     string
}

// ChangeStatusUseCase moves a campaign through the shared transition table:
// guard, table check, compare-and-swap write, state history.
type ChangeStatusUseCase struct {
	Campaigns ports.CampaignRepository
	History   ports.HistoryRepository
	Guard     identity.Guard
	Table     *workflow.Table
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func (uc ChangeStatusUseCase) Execute(ctx context.Context, cmd ChangeStatusCommand) (entities.Campaign, error) {
	campaign, err := uc.Campaigns.GetCampaign(ctx, strings.TrimSpace(cmd.CampaignID))
	if err != nil {
		return entities.Campaign{}, err
	}

	// The guard runs before every outcome, the no-op included.
	target := strings.TrimSpace(cmd.Target)
	decision := uc.Guard.Authorize(ctx, cmd.Actor, identity.ActionTransitionStatus, identity.Target{
		Entity:          "campaign",
		BusinessID:      campaign.BusinessID,
		CurrentStatus:   campaign.Status,
		RequestedStatus: target,
	})
	if err := decision.Err(); err != nil {
		return entities.Campaign{}, err
	}
	if target == campaign.Status {
		// Idempotent no-op: safe under client retries, no write, no history.
		return campaign, nil
	}
	if err := uc.Table.Validate(workflow.EntityCampaign, campaign.Status, target); err != nil {
		return entities.Campaign{}, err
	}

	now := uc.Clock.Now().UTC()
	fromStatus := campaign.Status
	campaign.Status = target
	campaign.UpdatedAt = now
	switch target {
	case workflow.CampaignActive:
		campaign.LaunchedAt = &now
	case workflow.CampaignClosed:
		campaign.ClosedAt = &now
	}

	if err := uc.Campaigns.UpdateCampaignStatusCAS(ctx, campaign, fromStatus); err != nil {
		return entities.Campaign{}, err
	}

	historyID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Campaign{}, err
	}
	if err := uc.History.AppendState(ctx, entities.StateHistory{
		HistoryID:    historyID,
		CampaignID:   campaign.CampaignID,
		FromStatus:   fromStatus,
		ToStatus:     target,
		ChangedBy:    cmd.Actor.ID,
		ChangeReason: strings.TrimSpace(cmd.Reason),
		CreatedAt:    now,
	}); err != nil {
		return entities.Campaign{}, err
	}

	application.ResolveLogger(uc.Logger).Info("campaign status changed",
		"event", "campaign_status_changed",
		"module", "marketplace/campaign-service",
		"layer", "application",
		"campaign_id", campaign.CampaignID,
		"from_status", fromStatus,
		"to_status", target,
	)
	return campaign, nil
}

func parseOptionalTime(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(*raw))
	if err != nil {
		return nil, err
	}
	utc := parsed.UTC()
	return &utc, nil
}
