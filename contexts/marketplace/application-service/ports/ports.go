package ports

import (
	"context"
	"time"

	"vantage/contexts/marketplace/application-service/domain/entities"
)

type ApplicationFilter struct {
	CampaignID   string
	BusinessID   string
	InfluencerID string
	Status       string
}

type ApplicationRepository interface {
	// CreateApplication returns ErrDuplicateApplication when the
	// (campaign_id, influencer_id) pair already exists.
	CreateApplication(ctx context.Context, application entities.Application) error
	GetApplication(ctx context.Context, applicationID string) (entities.Application, error)
	ListApplications(ctx context.Context, filter ApplicationFilter) ([]entities.Application, error)

	// UpdateApplicationStatusCAS persists application only when the stored
	// status still equals fromStatus. Zero rows means a lost race.
	UpdateApplicationStatusCAS(ctx context.Context, application entities.Application, fromStatus string) error
}

type HistoryRepository interface {
	AppendState(ctx context.Context, item entities.StateHistory) error
}

// CampaignSummary is the slice of campaign state this context needs to
// admit an application.
type CampaignSummary struct {
	CampaignID          string
	BusinessID          string
	Status              string
	PayoutPerSubmission float64
}

type CampaignDirectory interface {
	GetCampaignSummary(ctx context.Context, campaignID string) (CampaignSummary, error)
	RecordApplication(ctx context.Context, campaignID string) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
