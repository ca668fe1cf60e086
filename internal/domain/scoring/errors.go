package scoring

import "errors"

// Sentinel kinds for scoring errors.
var (
	// ErrNonFiniteScore marks a track whose composite score is NaN or
	// infinite, i.e. the past listener count was zero.
	ErrNonFiniteScore = errors.New("non-finite score")
)
