// services/errors.go
package services

import "errors"

// Ledger error taxonomy. Controllers map these onto HTTP status codes;
// anything not in this list is treated as a store failure and surfaced
// as a 5xx the caller may retry.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrNotFound            = errors.New("record not found")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidState        = errors.New("invalid state for this operation")
	ErrAlreadyClaimed      = errors.New("profit already claimed in the last 24 hours")
	ErrNothingToClaim      = errors.New("no active investments to claim profit from")
	ErrActiveInvestment    = errors.New("an active investment already exists")
	ErrHoldingPeriod       = errors.New("minimum holding period not reached")
	ErrConflict            = errors.New("another operation is in progress for this user")
)
