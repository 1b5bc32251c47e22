package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateSubmissionRequest struct {
	ApplicationID string   `json:"application_id"`
	ContentURL    string   `json:"content_url"`
	MediaRefs     []string `json:"media_refs"`
	Notes         string   `json:"notes"`
	AutoApproveAt *string  `json:"auto_approve_at"`
}

type TransitionRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

type SubmissionDTO struct {
	SubmissionID  string   `json:"submission_id"`
	ApplicationID string   `json:"application_id"`
	CampaignID    string   `json:"campaign_id"`
	BusinessID    string   `json:"business_id"`
	InfluencerID  string   `json:"influencer_id"`
	ContentURL    string   `json:"content_url"`
	MediaRefs     []string `json:"media_refs"`
	Notes         string   `json:"notes,omitempty"`
	ReviewNotes   string   `json:"review_notes,omitempty"`
	AgreedAmount  float64  `json:"agreed_amount"`
	AutoApproveAt string   `json:"auto_approve_at,omitempty"`
	Status        string   `json:"status"`
	ReviewedAt    string   `json:"reviewed_at,omitempty"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
}

type CreateSubmissionResponse struct {
	Submission SubmissionDTO `json:"submission"`
}

type GetSubmissionResponse struct {
	Submission SubmissionDTO `json:"submission"`
}

type ListSubmissionsResponse struct {
	Items []SubmissionDTO `json:"items"`
}

type TransitionResponse struct {
	Submission SubmissionDTO `json:"submission"`
}
