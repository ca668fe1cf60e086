package aggregate

import "errors"

// Sentinel kinds for aggregation errors.
var (
	// ErrNoValidTracks is returned when a playlist contains zero
	// scoreable observations. Distinct from a summary with zero tracks,
	// which is never produced.
	ErrNoValidTracks = errors.New("no valid tracks")
)
