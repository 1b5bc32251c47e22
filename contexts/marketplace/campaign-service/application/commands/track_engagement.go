package commands

import (
	"context"
	"log/slog"
	"strings"

	application "vantage/contexts/marketplace/campaign-service/application"
	"vantage/contexts/marketplace/campaign-service/ports"
	"vantage/internal/shared/identity"
)

// TrackEngagementUseCase owns the view and favorite counters. All counter
// math happens inside the store as atomic increments; this layer never reads
// a count to write count+1.
type TrackEngagementUseCase struct {
	Engagement ports.EngagementRepository
	Logger     *slog.Logger
}

func (uc TrackEngagementUseCase) TrackView(ctx context.Context, campaignID string) error {
	return uc.Engagement.IncrementViewCount(ctx, strings.TrimSpace(campaignID))
}

func (uc TrackEngagementUseCase) Favorite(ctx context.Context, actor identity.Actor, campaignID string) error {
	if actor.IsZero() {
		return identity.ErrUnauthenticated
	}
	if err := uc.Engagement.AddFavorite(ctx, strings.TrimSpace(campaignID), actor.ID); err != nil {
		return err
	}
	application.ResolveLogger(uc.Logger).Debug("campaign favorited",
		"event", "campaign_favorited",
		"module", "marketplace/campaign-service",
		"layer", "application",
		"campaign_id", campaignID,
		"user_id", actor.ID,
	)
	return nil
}

func (uc TrackEngagementUseCase) Unfavorite(ctx context.Context, actor identity.Actor, campaignID string) error {
	if actor.IsZero() {
		return identity.ErrUnauthenticated
	}
	return uc.Engagement.RemoveFavorite(ctx, strings.TrimSpace(campaignID), actor.ID)
}
