package commands

import (
	"context"
	"log/slog"
	"strings"

	application "vantage/contexts/marketplace/submission-service/application"
	"vantage/contexts/marketplace/submission-service/domain/entities"
	"vantage/contexts/marketplace/submission-service/ports"
	"vantage/internal/shared/events"
	"vantage/internal/shared/identity"
	"vantage/internal/shared/outbox"
	"vantage/internal/shared/workflow"
)

type TransitionCommand struct {
	SubmissionID string
	Actor        identity.Actor
	Target       string
	Notes        string
}

// TransitionUseCase is the review engine for submissions. It shares the
// pipeline shape with applications: load, guard, table check, CAS write,
// history, outbox, side effects. The auto-approve sweep enters here too,
// with a system actor.
type TransitionUseCase struct {
	Submissions ports.SubmissionRepository
	History     ports.HistoryRepository
	Guard       identity.Guard
	Table       *workflow.Table
	Dispatcher  *workflow.Dispatcher
	Outbox      outbox.Writer
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	Logger      *slog.Logger
}

func (uc TransitionUseCase) Execute(ctx context.Context, cmd TransitionCommand) (entities.Submission, error) {
	item, err := uc.Submissions.GetSubmission(ctx, strings.TrimSpace(cmd.SubmissionID))
	if err != nil {
		return entities.Submission{}, err
	}

	// The guard runs before every outcome, the no-op included; otherwise a
	// retry of the current status would hand the entity to anyone.
	target := strings.TrimSpace(cmd.Target)
	decision := uc.Guard.Authorize(ctx, cmd.Actor, identity.ActionTransitionStatus, identity.Target{
		Entity:          "submission",
		BusinessID:      item.BusinessID,
		InfluencerID:    item.InfluencerID,
		CurrentStatus:   item.Status,
		RequestedStatus: target,
	})
	if err := decision.Err(); err != nil {
		return entities.Submission{}, err
	}
	if target == item.Status {
		// Idempotent no-op under client retries.
		return item, nil
	}
	if err := uc.Table.Validate(workflow.EntitySubmission, item.Status, target); err != nil {
		return entities.Submission{}, err
	}

	now := uc.Clock.Now().UTC()
	fromStatus := item.Status
	item.Status = target
	item.UpdatedAt = now
	switch target {
	case workflow.SubmissionApproved, workflow.SubmissionAutoApproved, workflow.SubmissionRejected, workflow.SubmissionRevisionRequested:
		item.ReviewedAt = &now
		if notes := strings.TrimSpace(cmd.Notes); notes != "" {
			item.ReviewNotes = notes
		}
	}

	if err := uc.Submissions.UpdateSubmissionStatusCAS(ctx, item, fromStatus); err != nil {
		return entities.Submission{}, err
	}

	logger := application.ResolveLogger(uc.Logger)
	historyID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Submission{}, err
	}
	if err := uc.History.AppendState(ctx, entities.StateHistory{
		HistoryID:    historyID,
		SubmissionID: item.SubmissionID,
		FromStatus:   fromStatus,
		ToStatus:     target,
		ChangedBy:    cmd.Actor.ID,
		ChangeReason: strings.TrimSpace(cmd.Notes),
		CreatedAt:    now,
	}); err != nil {
		return entities.Submission{}, err
	}

	if uc.Outbox != nil {
		eventID, idErr := uc.IDGen.NewID(ctx)
		if idErr == nil {
			envelope, envErr := events.New(eventID, "submission.status_changed", "submission-service", item.SubmissionID, now, map[string]any{
				"submission_id":  item.SubmissionID,
				"application_id": item.ApplicationID,
				"from_status":    fromStatus,
				"to_status":      target,
				"changed_by":     cmd.Actor.ID,
			})
			if envErr == nil {
				if err := uc.Outbox.AppendOutbox(ctx, envelope); err != nil {
					logger.Warn("submission outbox append failed",
						"event", "submission_outbox_append_failed",
						"module", "marketplace/submission-service",
						"layer", "application",
						"submission_id", item.SubmissionID,
						"error", err.Error(),
					)
				}
			}
		}
	}

	logger.Info("submission status changed",
		"event", "submission_status_changed",
		"module", "marketplace/submission-service",
		"layer", "application",
		"submission_id", item.SubmissionID,
		"from_status", fromStatus,
		"to_status", target,
	)

	if uc.Dispatcher != nil {
		if err := uc.Dispatcher.Dispatch(ctx, workflow.Change{
			Entity:        workflow.EntitySubmission,
			EntityID:      item.SubmissionID,
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
