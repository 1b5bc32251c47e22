package ports

import (
	"context"
	"time"

	"vantage/contexts/marketplace/campaign-service/domain/entities"
)

type CampaignFilter struct {
	BusinessID string
	Status     string
}

type CampaignRepository interface {
	CreateCampaign(ctx context.Context, campaign entities.Campaign) error
	GetCampaign(ctx context.Context, campaignID string) (entities.Campaign, error)
	ListCampaigns(ctx context.Context, filter CampaignFilter) ([]entities.Campaign, error)
	UpdateCampaign(ctx context.Context, campaign entities.Campaign) error

	// UpdateCampaignStatusCAS persists campaign only when the stored status
	// still equals fromStatus, in one atomic write. Zero rows means the
	// caller lost a concurrent transition race.
	UpdateCampaignStatusCAS(ctx context.Context, campaign entities.Campaign, fromStatus string) error
}

// EngagementRepository covers the counters that must be atomic at the
// storage layer: increments happen in the store, never read-modify-write in
// application code.
type EngagementRepository interface {
	IncrementViewCount(ctx context.Context, campaignID string) error
	AddFavorite(ctx context.Context, campaignID string, userID string) error
	RemoveFavorite(ctx context.Context, campaignID string, userID string) error
	IncrementApplicationCount(ctx context.Context, campaignID string) error
}

type HistoryRepository interface {
	AppendState(ctx context.Context, item entities.StateHistory) error
}

type DeadlineRepository interface {
	// CloseCampaignsPastDeadline transitions active campaigns whose deadline
	// passed to closed, appending state history in the same transaction.
	CloseCampaignsPastDeadline(ctx context.Context, now time.Time, limit int) ([]string, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
