package app

import "errors"

// Sentinel kinds for service errors.
var (
	// ErrBusy means another analysis is already in flight.
	ErrBusy = errors.New("analysis already in progress")

	// ErrNoFetcher means the service was started without a data source.
	ErrNoFetcher = errors.New("no fetcher configured")
)
