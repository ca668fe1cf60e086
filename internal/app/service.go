// Package app provides the core business service that implements the
// dependencies required by the HTTP API.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/clout/internal/adapters/cache"
	"github.com/okian/clout/internal/adapters/ratelimit"
	"github.com/okian/clout/internal/adapters/spotify"
	"github.com/okian/clout/internal/adapters/store"
	"github.com/okian/clout/internal/domain/aggregate"
	"github.com/okian/clout/internal/domain/model"
	"github.com/okian/clout/pkg/logger"
	"github.com/okian/clout/pkg/metrics"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithFetcher sets the playlist data source.
func WithFetcher(f spotify.Fetcher) Option {
	return func(s *Service) {
		if f != nil {
			s.fetcher = f
		}
	}
}

// WithCache sets the analysis result cache.
func WithCache(c cache.Cache) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithLimiter sets the per-caller request limiter.
func WithLimiter(l ratelimit.Limiter) Option {
	return func(s *Service) {
		if l != nil {
			s.limiter = l
		}
	}
}

// WithStore sets the analysis history store. Optional; without it
// history and leaderboard queries return empty results.
func WithStore(st store.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithAggregator sets the playlist aggregator.
func WithAggregator(a *aggregate.Aggregator) Option {
	return func(s *Service) {
		if a != nil {
			s.aggregator = a
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// Service runs playlist analyses. Analyses are serialized: a single
// explicit in-flight gate replaces any global processing flag, and
// concurrent callers are rejected with ErrBusy rather than queued.
type Service struct {
	mu sync.RWMutex

	fetcher    spotify.Fetcher
	cache      cache.Cache
	limiter    ratelimit.Limiter
	store      store.Store
	aggregator *aggregate.Aggregator

	inFlight atomic.Bool
	started  bool

	logger logger.Logger
}

// New constructs a Service with default collaborators where none are
// injected.
func New(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	if s.cache == nil {
		s.cache = cache.New()
	}
	if s.limiter == nil {
		s.limiter = ratelimit.New()
	}
	if s.aggregator == nil {
		s.aggregator = aggregate.New()
	}
	return s
}

// Start validates wiring and marks the service ready.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.fetcher == nil {
		return ErrNoFetcher
	}

	s.started = true
	s.logger.Info(ctx, "clout service started")
	return nil
}

// Stop releases resources held by the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn(context.Background(), "closing history store", logger.Error(err))
		}
	}
	s.started = false
	s.logger.Info(context.Background(), "clout service stopped")
}

// Analyze fetches the playlist, scores every track, persists the
// summary, and returns it. Caller identifies the requester for
// throttling purposes.
func (s *Service) Analyze(ctx context.Context, playlistID, caller string) (model.PlaylistSummary, error) {
	if err := s.limiter.Allow(ctx, caller); err != nil {
		metrics.RecordRateLimited()
		return model.PlaylistSummary{}, err
	}

	if cached, ok := s.cache.Get(ctx, playlistID); ok {
		metrics.RecordCacheHit()
		s.logger.Debug(ctx, "analysis served from cache", logger.String("playlist", playlistID))
		return cached, nil
	}
	metrics.RecordCacheMiss()

	if !s.inFlight.CompareAndSwap(false, true) {
		metrics.RecordBusyRejected()
		return model.PlaylistSummary{}, ErrBusy
	}
	defer func() {
		s.inFlight.Store(false)
		metrics.UpdateInFlight(false)
	}()
	metrics.UpdateInFlight(true)
	metrics.RecordAnalysisStarted()
	start := time.Now()

	name, observations, err := s.fetcher.FetchPlaylist(ctx, playlistID)
	if err != nil {
		metrics.RecordAnalysisFailed()
		s.logger.Warn(ctx, "playlist fetch failed",
			logger.String("playlist", playlistID), logger.Error(err))
		return model.PlaylistSummary{}, err
	}

	summary, err := s.aggregator.Aggregate(ctx, name, observations)
	if err != nil {
		metrics.RecordAnalysisFailed()
		if errors.Is(err, aggregate.ErrNoValidTracks) {
			s.logger.Info(ctx, "playlist has no scoreable tracks", logger.String("playlist", playlistID))
		}
		return model.PlaylistSummary{}, err
	}

	metrics.RecordTracksScored(summary.TrackCount)
	metrics.RecordTracksSkipped(summary.SkippedTracks)
	metrics.RecordAnalysisCompleted(time.Since(start).Seconds())

	s.cache.Put(ctx, playlistID, summary)

	if s.store != nil {
		if _, err := s.store.SaveAnalysis(ctx, playlistID, summary); err != nil {
			// History is best-effort; the analysis itself succeeded.
			s.logger.Warn(ctx, "persisting analysis failed",
				logger.String("playlist", playlistID), logger.Error(err))
		} else if n, err := s.store.Count(ctx); err == nil {
			metrics.UpdateHistoryRows(n)
		}
	}

	s.logger.Info(ctx, "playlist analyzed",
		logger.String("playlist", playlistID),
		logger.String("name", summary.PlaylistName),
		logger.Int("tracks", summary.TrackCount),
		logger.Int("skipped", summary.SkippedTracks),
		logger.Float64("normalized", summary.NormalizedScore),
		logger.Duration("took", time.Since(start)),
	)
	return summary, nil
}

// Recent returns the latest persisted analyses.
func (s *Service) Recent(ctx context.Context, limit int) ([]store.Analysis, error) {
	if s.store == nil {
		return nil, nil
	}
	recs, err := s.store.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent analyses: %w", err)
	}
	return recs, nil
}

// Leaderboard returns playlists ranked by their best normalized score.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]store.Analysis, error) {
	if s.store == nil {
		return nil, nil
	}
	recs, err := s.store.TopByNormalized(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	return recs, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":   s.started,
		"inFlight":  s.inFlight.Load(),
		"cacheSize": s.cache.Size(),
	}
	if s.store != nil {
		if n, err := s.store.Count(context.Background()); err == nil {
			stats["historyRows"] = n
		}
	}
	return stats
}
