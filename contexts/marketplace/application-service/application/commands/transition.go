package commands

import (
	"context"
	"log/slog"
	"strings"

	application "vantage/contexts/marketplace/application-service/application"
	"vantage/contexts/marketplace/application-service/domain/entities"
	"vantage/contexts/marketplace/application-service/ports"
	"vantage/internal/shared/events"
	"vantage/internal/shared/identity"
	"vantage/internal/shared/outbox"
	"vantage/internal/shared/workflow"
)

type TransitionCommand struct {
	ApplicationID string
	Actor         identity.Actor
	Target        string
	Notes         string
}

// TransitionUseCase is the status engine for applications: load, guard,
// table check, compare-and-swap write, history, then side effects. The
// status write commits before effects run; an effect failure surfaces as
// workflow.ErrSideEffectFailed with the entity already moved.
type TransitionUseCase struct {
	Applications ports.ApplicationRepository
	History      ports.HistoryRepository
	Guard        identity.Guard
	Table        *workflow.Table
	Dispatcher   *workflow.Dispatcher
	Outbox       outbox.Writer
	Clock        ports.Clock
	IDGen        ports.IDGenerator
	Logger       *slog.Logger
}

func (uc TransitionUseCase) Execute(ctx context.Context, cmd TransitionCommand) (entities.Application, error) {
	item, err := uc.Applications.GetApplication(ctx, strings.TrimSpace(cmd.ApplicationID))
	if err != nil {
		return entities.Application{}, err
	}

	// The guard runs before every outcome, the no-op included; otherwise a
	// retry of the current status would hand the entity to anyone.
	target := strings.TrimSpace(cmd.Target)
	decision := uc.Guard.Authorize(ctx, cmd.Actor, identity.ActionTransitionStatus, identity.Target{
		Entity:          "application",
		BusinessID:      item.BusinessID,
		InfluencerID:    item.InfluencerID,
		CurrentStatus:   item.Status,
		RequestedStatus: target,
	})
	if err := decision.Err(); err != nil {
		return entities.Application{}, err
	}
	if target == item.Status {
		// Idempotent no-op under client retries.
		return item, nil
	}
	if err := uc.Table.Validate(workflow.EntityApplication, item.Status, target); err != nil {
		return entities.Application{}, err
	}

	now := uc.Clock.Now().UTC()
	fromStatus := item.Status
	item.Status = target
	item.UpdatedAt = now

	if err := uc.Applications.UpdateApplicationStatusCAS(ctx, item, fromStatus); err != nil {
		return entities.Application{}, err
	}

	logger := application.ResolveLogger(uc.Logger)
	historyID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Application{}, err
	}
	if err := uc.History.AppendState(ctx, entities.StateHistory{
		HistoryID:     historyID,
		ApplicationID: item.ApplicationID,
		FromStatus:    fromStatus,
		ToStatus:      target,
		ChangedBy:     cmd.Actor.ID,
		ChangeReason:  strings.TrimSpace(cmd.Notes),
		CreatedAt:     now,
	}); err != nil {
		return entities.Application{}, err
	}

	if uc.Outbox != nil {
		eventID, idErr := uc.IDGen.NewID(ctx)
		if idErr == nil {
			envelope, envErr := events.New(eventID, "application.status_changed", "application-service", item.ApplicationID, now, map[string]any{
				"application_id": item.ApplicationID,
				"campaign_id":    item.CampaignID,
				"from_status":    fromStatus,
				"to_status":      target,
				"changed_by":     cmd.Actor.ID,
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

	logger.Info("application status changed",
		"event", "application_status_changed",
		"module", "marketplace/application-service",
		"layer", "application",
		"application_id", item.ApplicationID,
		"from_status", fromStatus,
		"to_status", target,
	)

	if uc.Dispatcher != nil {
		if err := uc.Dispatcher.Dispatch(ctx, workflow.Change{
			Entity:        workflow.EntityApplication,
			EntityID:      item.ApplicationID,
			From:          fromStatus,
			To:            target,
			ActorID:       cmd.Actor.ID,
			ActorRole:     string(cmd.Actor.Role),
			CampaignID:    item.CampaignID,
			ApplicationID: item.ApplicationID,
			BusinessID:    item.BusinessID,
			InfluencerID:  item.InfluencerID,
			Amount:        item.AgreedAmount,
			Notes:         strings.TrimSpace(cmd.Notes),
			OccurredAt:    now,
		}); err != nil {
			// State already changed; only the effect needs a retry.
			return item, err
		}
	}
	return item, nil
}
