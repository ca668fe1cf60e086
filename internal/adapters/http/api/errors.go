package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest      = errors.New("bad request")
	ErrMissingPlaylist = errors.New("missing playlist_id")
	ErrLimitExceeded   = errors.New("limit exceeds maximum")
)
