package errors

import "errors"

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrInvalidMessageInput  = errors.New("invalid message input")
)
