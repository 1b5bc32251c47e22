package errors

import "errors"

var (
	ErrBalanceNotFound     = errors.New("balance not found")
	ErrInvalidAmount       = errors.New("invalid balance amount")
	ErrInsufficientPending = errors.New("pending balance is smaller than the credit amount")
	ErrInconsistentBalance = errors.New("balance does not reconcile with its ledger")
)
