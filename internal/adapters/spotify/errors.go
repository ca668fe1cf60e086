package spotify

import "errors"

// Sentinel kinds for fetch errors.
var (
	// ErrNotFound means the playlist does not exist or is private.
	ErrNotFound = errors.New("playlist not found")

	// ErrUnauthorized means token acquisition or refresh failed.
	ErrUnauthorized = errors.New("spotify authorization failed")

	// ErrFetch wraps transport-level failures after retries ran out.
	ErrFetch = errors.New("spotify fetch failed")
)
