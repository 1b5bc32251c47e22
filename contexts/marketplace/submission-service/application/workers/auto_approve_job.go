package workers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	application "vantage/contexts/marketplace/submission-service/application"
	"vantage/contexts/marketplace/submission-service/application/commands"
	domainerrors "vantage/contexts/marketplace/submission-service/domain/errors"
	"vantage/contexts/marketplace/submission-service/ports"
	"vantage/internal/shared/identity"
	"vantage/internal/shared/workflow"
)

// AutoApproveJob sweeps submissions whose auto-approve deadline passed while
// still submitted and pushes them through the normal transition entry point
// with a system actor, so guard, CAS, history and the exactly-once payout all
// apply unchanged.
type AutoApproveJob struct {
	Submissions ports.SubmissionRepository
	Transition  commands.TransitionUseCase
	Clock       ports.Clock
	BatchSize   int
	Disabled    bool
	Logger      *slog.Logger
}

func (j AutoApproveJob) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(j.Logger)
	if j.Disabled {
		logger.Info("submission auto-approve disabled by feature flag",
			"event", "submission_auto_approve_disabled",
			"module", "marketplace/submission-service",
			"layer", "worker",
		)
		return nil
	}

	now := time.Now().UTC()
	if j.Clock != nil {
		now = j.Clock.Now().UTC()
	}
	limit := j.BatchSize
	if limit <= 0 {
		limit = 100
	}

	due, err := j.Submissions.ListDueForAutoApprove(ctx, now, limit)
	if err != nil {
		logger.Error("auto-approve listing failed",
			"event", "submission_auto_approve_list_failed",
			"module", "marketplace/submission-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	systemActor := identity.Actor{ID: "system", Role: identity.RoleSystem}
	approved := 0
	for _, item := range due {
		_, err := j.Transition.Execute(ctx, commands.TransitionCommand{
			SubmissionID: item.SubmissionID,
			Actor:        systemActor,
			Target:       workflow.SubmissionApproved,
			Notes:        "auto_approve_deadline_reached",
		})
		if err != nil {
			// A reviewer got there first; the next sweep skips it.
			if errors.Is(err, domainerrors.ErrStatusConflict) || errors.Is(err, workflow.ErrTerminalStatus) {
				continue
			}
			logger.Error("auto-approve transition failed",
				"event", "submission_auto_approve_failed",
				"module", "marketplace/submission-service",
				"layer", "worker",
				"submission_id", item.SubmissionID,
				"error", err.Error(),
			)
			return err
		}
		approved++
	}

	if approved > 0 {
		logger.Info("submission auto-approve cycle completed",
			"event", "submission_auto_approve_cycle_completed",
			"module", "marketplace/submission-service",
			"layer", "worker",
			"approved_count", approved,
		)
	}
	return nil
}
