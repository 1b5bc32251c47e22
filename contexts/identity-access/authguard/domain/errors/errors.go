package errors

import "errors"

var (
	ErrInvalidToken   = errors.New("invalid or expired access token")
	ErrUnknownSubject = errors.New("subject is not registered")
	ErrUnknownRole    = errors.New("subject has an unsupported role")
)
