package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ApplyRequest struct {
	CampaignID string `json:"campaign_id"`
	Pitch      string `json:"pitch"`
}

type TransitionRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

type ApplicationDTO struct {
	ApplicationID string  `json:"application_id"`
	CampaignID    string  `json:"campaign_id"`
	BusinessID    string  `json:"business_id"`
	InfluencerID  string  `json:"influencer_id"`
	Pitch         string  `json:"pitch"`
	AgreedAmount  float64 `json:"agreed_amount"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

type ApplyResponse struct {
	Application ApplicationDTO `json:"application"`
}

type GetApplicationResponse struct {
	Application ApplicationDTO `json:"application"`
}

type ListApplicationsResponse struct {
	Items []ApplicationDTO `json:"items"`
}

type TransitionResponse struct {
	Application ApplicationDTO `json:"application"`
}
