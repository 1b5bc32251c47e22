package ports

import (
	"context"
	"time"

	"vantage/contexts/marketplace/submission-service/domain/entities"
)

type SubmissionFilter struct {
	ApplicationID string
	CampaignID    string
	BusinessID    string
	InfluencerID  string
	Status        string
}

type SubmissionRepository interface {
	CreateSubmission(ctx context.Context, submission entities.Submission) error
	GetSubmission(ctx context.Context, submissionID string) (entities.Submission, error)
	ListSubmissions(ctx context.Context, filter SubmissionFilter) ([]entities.Submission, error)

	// UpdateSubmissionStatusCAS persists submission only when the stored
	// status still equals fromStatus. Zero rows means a lost race.
	UpdateSubmissionStatusCAS(ctx context.Context, submission entities.Submission, fromStatus string) error

	// ListDueForAutoApprove returns submissions still submitted whose
	// auto-approve deadline has passed.
	ListDueForAutoApprove(ctx context.Context, now time.Time, limit int) ([]entities.Submission, error)
}

type HistoryRepository interface {
	AppendState(ctx context.Context, item entities.StateHistory) error
}

// ApplicationSummary is the slice of application state needed to accept a
// submission.
type ApplicationSummary struct {
	ApplicationID string
	CampaignID    string
	BusinessID    string
	InfluencerID  string
	Status        string
	AgreedAmount  float64
}

type ApplicationDirectory interface {
	GetApplicationSummary(ctx context.Context, applicationID string) (ApplicationSummary, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
