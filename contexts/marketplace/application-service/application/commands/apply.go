package commands

import (
	"context"
	"log/slog"
	"strings"

	application "vantage/contexts/marketplace/application-service/application"
	"vantage/contexts/marketplace/application-service/domain/entities"
	domainerrors "vantage/contexts/marketplace/application-service/domain/errors"
	"vantage/contexts/marketplace/application-service/ports"
	"vantage/internal/shared/events"
	"vantage/internal/shared/identity"
	"vantage/internal/shared/outbox"
	"vantage/internal/shared/workflow"
)

type ApplyCommand struct {
	Actor      identity.Actor
	CampaignID string
	Pitch      string
}

// ApplyUseCase admits an influencer to a campaign. The agreed amount is
// copied from the campaign's payout at apply time so later campaign edits
// never change what an accepted influencer earns.
type ApplyUseCase struct {
	Applications ports.ApplicationRepository
	Campaigns    ports.CampaignDirectory
	Guard        identity.Guard
	Outbox       outbox.Writer
	Clock        ports.Clock
	IDGen        ports.IDGenerator
	Logger       *slog.Logger
}

func (uc ApplyUseCase) Execute(ctx context.Context, cmd ApplyCommand) (entities.Application, error) {
	summary, err := uc.Campaigns.GetCampaignSummary(ctx, strings.TrimSpace(cmd.CampaignID))
	if err != nil {
		return entities.Application{}, err
	}

	decision := uc.Guard.Authorize(ctx, cmd.Actor, identity.ActionApply, identity.Target{
		Entity:         "application",
		BusinessID:     summary.BusinessID,
		InfluencerID:   cmd.Actor.ID,
		CampaignStatus: summary.Status,
	})
	if err := decision.Err(); err != nil {
		return entities.Application{}, err
	}

	now := uc.Clock.Now().UTC()
	applicationID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Application{}, err
	}

	item := entities.Application{
		ApplicationID: applicationID,
		CampaignID:    summary.CampaignID,
		BusinessID:    summary.BusinessID,
		InfluencerID:  cmd.Actor.ID,
		Pitch:         strings.TrimSpace(cmd.Pitch),
		AgreedAmount:  summary.PayoutPerSubmission,
		Status:        workflow.ApplicationPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if !item.ValidateBasics() {
		return entities.Application{}, domainerrors.ErrInvalidApplicationInput
	}

	if err := uc.Applications.CreateApplication(ctx, item); err != nil {
		return entities.Application{}, err
	}

	logger := application.ResolveLogger(uc.Logger)
	if err := uc.Campaigns.RecordApplication(ctx, item.CampaignID); err != nil {
		// The application row is committed; the counter is advisory.
		logger.Warn("application count update failed",
			"event", "application_count_update_failed",
			"module", "marketplace/application-service",
			"layer", "application",
			"campaign_id", item.CampaignID,
			"error", err.Error(),
		)
	}
	if uc.Outbox != nil {
		eventID, idErr := uc.IDGen.NewID(ctx)
		if idErr == nil {
			envelope, envErr := events.New(eventID, "application.created", "application-service", item.ApplicationID, now, map[string]any{
				"application_id": item.ApplicationID,
				"campaign_id":    item.CampaignID,
				"business_id":    item.BusinessID,
				"influencer_id":  item.InfluencerID,
				"status":         item.Status,
			})
			if envErr == nil {
				if err := uc.Outbox.AppendOutbox(ctx, envelope); err != nil {
					logger.Warn("application outbox append failed",
						"event", "application_outbox_append_failed",
						"module", "marketplace/application-service",
						"layer", "application",
						"application_id", item.ApplicationID,
						"error", err.Error(),
					)
				}
			}
		}
	}

	logger.Info("application created",
		"event", "application_created",
		"module", "marketplace/application-service",
		"layer", "application",
		"application_id", item.ApplicationID,
		"campaign_id", item.CampaignID,
		"influencer_id", item.InfluencerID,
	)
	return item, nil
}
