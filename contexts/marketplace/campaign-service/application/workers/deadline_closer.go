package workers

import (
	"context"
	"log/slog"
	"time"

	application "vantage/contexts/marketplace/campaign-service/application"
	"vantage/contexts/marketplace/campaign-service/ports"
)

// DeadlineCloser closes active campaigns whose deadline passed. The store
// applies the status change and history atomically with a system actor.
type DeadlineCloser struct {
	Deadlines ports.DeadlineRepository
	Clock     ports.Clock
	BatchSize int
	Disabled  bool
	Logger    *slog.Logger
}

func (j DeadlineCloser) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(j.Logger)
	if j.Disabled {
		logger.Info("campaign deadline closer disabled by feature flag",
			"event", "campaign_deadline_closer_disabled",
			"module", "marketplace/campaign-service",
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

	closed, err := j.Deadlines.CloseCampaignsPastDeadline(ctx, now, limit)
	if err != nil {
		logger.Error("campaign deadline close failed",
			"event", "campaign_deadline_close_failed",
			"module", "marketplace/campaign-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	if len(closed) > 0 {
		logger.Info("campaign deadline close cycle completed",
			"event", "campaign_deadline_close_cycle_completed",
			"module", "marketplace/campaign-service",
			"layer", "worker",
			"closed_count", len(closed),
		)
	}
	return nil
}
