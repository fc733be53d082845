package services

import "errors"

// Error taxonomy. Store and provider failures wrap these sentinels so callers
// can branch with errors.Is while keeping the underlying cause in the message.
var (
	// ErrDuplicateEvent is internal to the purchase transaction; callers see a
	// no-op success instead.
	ErrDuplicateEvent = errors.New("event already processed")

	ErrInvalidBundle  = errors.New("invalid bundle")
	ErrValidation     = errors.New("validation failed")
	ErrSupplyExceeded = errors.New("campaign supply exceeded")
	ErrStore          = errors.New("store failure")
	ErrProvider       = errors.New("payment provider failure")
)
