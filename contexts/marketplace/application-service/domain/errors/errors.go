package errors

import "errors"

var (
	ErrApplicationNotFound     = errors.New("application not found")
	ErrDuplicateApplication    = errors.New("application already exists for campaign and influencer")
	ErrInvalidApplicationInput = errors.New("invalid application input")
	ErrStatusConflict          = errors.New("application status changed concurrently")
	ErrCampaignNotOpen         = errors.New("campaign is not accepting applications")
)
