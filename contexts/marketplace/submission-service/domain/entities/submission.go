package entities

import (
	"strings"
	"time"
)

// Submission is one piece of delivered content for an approved application.
// AgreedAmount is copied from the application at creation so the payout on
// approval never depends on later campaign edits.
type Submission struct {
	SubmissionID  string
	ApplicationID string
	CampaignID    string
	BusinessID    string
	InfluencerID  string
	ContentURL    string
	MediaRefs     []string
	Notes         string
	ReviewNotes   string
	AgreedAmount  float64
	AutoApproveAt *time.Time
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ReviewedAt    *time.Time
}

func (s Submission) ValidateBasics() bool {
	return strings.TrimSpace(s.ApplicationID) != "" &&
		strings.TrimSpace(s.ContentURL) != "" &&
		len(strings.TrimSpace(s.Notes)) <= 2000
}

type StateHistory struct {
	HistoryID    string
	SubmissionID string
	FromStatus   string
	ToStatus     string
	ChangedBy    string
	ChangeReason string
	CreatedAt    time.Time
}
