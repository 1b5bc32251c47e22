package errors

import "errors"

var (
	ErrCampaignNotFound     = errors.New("campaign not found")
	ErrInvalidCampaignInput = errors.New("invalid campaign input")
	ErrStatusConflict       = errors.New("campaign status changed concurrently")
	ErrAlreadyFavorited     = errors.New("campaign already favorited by this user")
	ErrFavoriteNotFound     = errors.New("campaign favorite not found")
)
