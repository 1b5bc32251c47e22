package errors

import "errors"

var (
	ErrSubmissionNotFound     = errors.New("submission not found")
	ErrInvalidSubmissionInput = errors.New("invalid submission input")
	ErrStatusConflict         = errors.New("submission status changed concurrently")
	ErrApplicationNotApproved = errors.New("application is not approved for submissions")
)
