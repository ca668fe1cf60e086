package ratelimit

import "errors"

// Sentinel kinds for throttling errors.
var (
	// ErrRateLimited means the caller exhausted its per-minute budget.
	ErrRateLimited = errors.New("rate limited")

	// ErrTimedOut means the service-wide timeout_until gate is active.
	ErrTimedOut = errors.New("service timed out until configured instant")
)
