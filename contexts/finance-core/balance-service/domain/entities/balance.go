package entities

import "time"

// Balance holds one influencer's money state. The ledger is the source of
// truth; the row is a materialized view of it and must always satisfy
// TotalEarnings == Available + Pending + Withdrawn.
type Balance struct {
	InfluencerID  string
	Available     float64
	Pending       float64
	TotalEarnings float64
	Withdrawn     float64
	UpdatedAt     time.Time
}

func (b Balance) Consistent() bool {
	const epsilon = 1e-9
	diff := b.TotalEarnings - (b.Available + b.Pending + b.Withdrawn)
	if diff < 0 {
		diff = -diff
	}
	return diff < epsilon &&
		b.Available >= -epsilon &&
		b.Pending >= -epsilon &&
		b.Withdrawn >= -epsilon
}

// Ledger entry kinds.
const (
	EntryReserve = "reserve"
	EntryCredit  = "credit"
	EntryAdjust  = "adjust"
)

// LedgerEntry records one balance mutation. IdempotencyKey is unique; a
// second entry with the same key is absorbed without applying anything.
type LedgerEntry struct {
	EntryID        string
	InfluencerID   string
	IdempotencyKey string
	Kind           string
	Amount         float64
	Reference      string
	Notes          string
	CreatedAt      time.Time
}
