package entities

import (
	"strings"
	"time"
)

// Application is one influencer's application to one campaign. The pair
// (CampaignID, InfluencerID) is unique; the store enforces it.
type Application struct {
	ApplicationID string
	CampaignID    string
	BusinessID    string
	InfluencerID  string
	Pitch         string
	AgreedAmount  float64
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (a Application) ValidateBasics() bool {
	return strings.TrimSpace(a.CampaignID) != "" &&
		strings.TrimSpace(a.InfluencerID) != "" &&
		len(strings.TrimSpace(a.Pitch)) <= 2000 &&
		a.AgreedAmount >= 0
}

type StateHistory struct {
	HistoryID     string
	ApplicationID string
	FromStatus    string
	ToStatus      string
	ChangedBy     string
	ChangeReason  string
	CreatedAt     time.Time
}
