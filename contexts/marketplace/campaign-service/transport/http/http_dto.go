package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateCampaignRequest struct {
	Title               string  `json:"title"`
	Description         string  `json:"description"`
	Niche               string  `json:"niche"`
	BudgetTotal         float64 `json:"budget_total"`
	PayoutPerSubmission float64 `json:"payout_per_submission"`
	DeadlineAt          *string `json:"deadline_at"`
}

type ChangeStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

type CampaignDTO struct {
	CampaignID          string  `json:"campaign_id"`
	BusinessID          string  `json:"business_id"`
	Title               string  `json:"title"`
	Description         string  `json:"description"`
	Niche               string  `json:"niche"`
	BudgetTotal         float64 `json:"budget_total"`
	PayoutPerSubmission float64 `json:"payout_per_submission"`
	DeadlineAt          string  `json:"deadline_at,omitempty"`
	ViewCount           int64   `json:"view_count"`
	FavoriteCount       int64   `json:"favorite_count"`
	ApplicationCount    int     `json:"application_count"`
	Status              string  `json:"status"`
	LaunchedAt          string  `json:"launched_at,omitempty"`
	ClosedAt            string  `json:"closed_at,omitempty"`
	CreatedAt           string  `json:"created_at"`
	UpdatedAt           string  `json:"updated_at"`
}

type CreateCampaignResponse struct {
	Campaign CampaignDTO `json:"campaign"`
}

type GetCampaignResponse struct {
	Campaign CampaignDTO `json:"campaign"`
}

type ListCampaignsResponse struct {
	Items []CampaignDTO `json:"items"`
}

type ChangeStatusResponse struct {
	Campaign CampaignDTO `json:"campaign"`
}
