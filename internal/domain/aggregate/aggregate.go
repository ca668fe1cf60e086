// Package aggregate runs the scorer over every track of a playlist and
// reduces the results into playlist-level statistics.
package aggregate

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/okian/clout/internal/domain/growth"
	"github.com/okian/clout/internal/domain/model"
	"github.com/okian/clout/internal/domain/scoring"
)

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithClock overrides the time source. Tests use this to pin "now".
func WithClock(clock func() time.Time) Option {
	return func(a *Aggregator) {
		if clock != nil {
			a.clock = clock
		}
	}
}

// Aggregator scores playlists. It holds no mutable state and is safe
// for concurrent use.
type Aggregator struct {
	clock func() time.Time
}

// New creates an Aggregator with configuration options.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate scores every observation and builds the playlist summary.
//
// Observations missing an artist id or track name are skipped silently,
// as are tracks whose score comes out non-finite (past listener count
// of zero); both kinds are counted in SkippedTracks but not in
// TrackCount. Returns ErrNoValidTracks when nothing scoreable remains,
// so an empty playlist never yields a summary with TrackCount 0.
//
// Tracks in the summary are sorted by score descending; equal scores
// keep their playlist order.
func (a *Aggregator) Aggregate(ctx context.Context, playlistName string, observations []model.TrackObservation) (model.PlaylistSummary, error) {
	now := a.clock()

	breakdowns := make([]model.ScoreBreakdown, 0, len(observations))
	skipped := 0
	for _, obs := range observations {
		if err := ctx.Err(); err != nil {
			return model.PlaylistSummary{}, err
		}
		if obs.ArtistID == "" || obs.TrackName == "" {
			skipped++
			continue
		}

		listenersAtAdd := growth.EstimatePastListeners(obs.CurrentFollowers, obs.AddedAt, now)
		b, err := scoring.Score(listenersAtAdd, obs.CurrentFollowers, obs.AddedAt, now)
		if err != nil {
			skipped++
			continue
		}
		b.ArtistID = obs.ArtistID
		b.ArtistName = obs.ArtistName
		b.TrackName = obs.TrackName
		b.AddedAt = obs.AddedAt
		breakdowns = append(breakdowns, b)
	}

	if len(breakdowns) == 0 {
		return model.PlaylistSummary{}, ErrNoValidTracks
	}

	sort.SliceStable(breakdowns, func(i, j int) bool {
		return breakdowns[i].Score > breakdowns[j].Score
	})

	total := 0
	for _, b := range breakdowns {
		total += b.Score
	}
	count := len(breakdowns)
	average := float64(total) / float64(count)
	normalized := average * math.Sqrt(float64(count))

	return model.PlaylistSummary{
		PlaylistName:    playlistName,
		TrackCount:      count,
		SkippedTracks:   skipped,
		TotalScore:      total,
		AverageScore:    math.Round(average),
		NormalizedScore: math.Round(normalized),
		Tracks:          breakdowns,
	}, nil
}
