package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type BalanceDTO struct {
	InfluencerID  string  `json:"influencer_id"`
	Available     float64 `json:"available"`
	Pending       float64 `json:"pending"`
	TotalEarnings float64 `json:"total_earnings"`
	Withdrawn     float64 `json:"withdrawn"`
	UpdatedAt     string  `json:"updated_at,omitempty"`
}

type GetBalanceResponse struct {
	Balance BalanceDTO `json:"balance"`
}

type AdjustRequest struct {
	InfluencerID string  `json:"influencer_id"`
	Amount       float64 `json:"amount"`
	Notes        string  `json:"notes"`
}

type AdjustResponse struct {
	Balance BalanceDTO `json:"balance"`
}
