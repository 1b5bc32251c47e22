package entities

import (
	"strings"
	"time"
)

// Campaign statuses live in the shared workflow table; the entity stores the
// raw string so new statuses are a config change, not a schema change here.
type Campaign struct {
	CampaignID          string
	BusinessID          string
	Title               string
	Description         string
	Niche               string
	BudgetTotal         float64
	PayoutPerSubmission float64
	DeadlineAt          *time.Time
	ViewCount           int64
	FavoriteCount       int64
	ApplicationCount    int
	Status              string
	CreatedAt           time.Time
	UpdatedAt           time.Time
	LaunchedAt          *time.Time
	ClosedAt            *time.Time
}

func (c Campaign) ValidateBasics() bool {
	title := strings.TrimSpace(c.Title)
	description := strings.TrimSpace(c.Description)

	return title != "" &&
		len(title) >= 3 &&
		len(title) <= 100 &&
		description != "" &&
		len(description) <= 2000 &&
		c.BudgetTotal >= 10.0 &&
		c.BudgetTotal <= 1_000_000.0 &&
		c.PayoutPerSubmission > 0 &&
		c.PayoutPerSubmission <= c.BudgetTotal
}

// StateHistory records every campaign status change, including the system
// actor used by the deadline closer.
type StateHistory struct {
	HistoryID    string
	CampaignID   string
	FromStatus   string
	ToStatus     string
	ChangedBy    string
	ChangeReason string
	CreatedAt    time.Time
}
