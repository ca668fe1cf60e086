// Package ratelimit throttles analysis requests per caller and honors
// the operational timeout_until gate.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter decides whether a caller may start an analysis right now.
type Limiter interface {
	// Allow records an attempt for caller and reports whether it is
	// within the per-minute budget. The timeout gate rejects every
	// caller until it lifts.
	Allow(ctx context.Context, caller string) error
}

// Option applies a configuration option to the limiter.
type Option func(*fixedWindowLimiter)

// WithPerMinute sets the per-caller budget per one-minute window.
func WithPerMinute(n int) Option {
	return func(l *fixedWindowLimiter) {
		if n > 0 {
			l.perMinute = n
		}
	}
}

// WithTimeoutUntil rejects all requests until the given instant.
// The zero time disables the gate.
func WithTimeoutUntil(until time.Time) Option {
	return func(l *fixedWindowLimiter) {
		l.timeoutUntil = until
	}
}

// WithClock overrides the time source for tests.
func WithClock(clock func() time.Time) Option {
	return func(l *fixedWindowLimiter) {
		if clock != nil {
			l.clock = clock
		}
	}
}

type window struct {
	start time.Time
	count int
}

// fixedWindowLimiter implements Limiter with one fixed one-minute
// window per caller.
type fixedWindowLimiter struct {
	mu           sync.Mutex
	windows      map[string]*window
	perMinute    int
	timeoutUntil time.Time
	clock        func() time.Time
}

// New creates a limiter with configuration options.
func New(opts ...Option) Limiter {
	l := &fixedWindowLimiter{
		perMinute: 10,
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.windows = make(map[string]*window)
	return l
}

func (l *fixedWindowLimiter) Allow(ctx context.Context, caller string) error {
	now := l.clock()

	if !l.timeoutUntil.IsZero() && now.Before(l.timeoutUntil) {
		return ErrTimedOut
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[caller]
	if !ok || now.Sub(w.start) >= time.Minute {
		l.windows[caller] = &window{start: now, count: 1}
		return nil
	}
	if w.count >= l.perMinute {
		return ErrRateLimited
	}
	w.count++
	return nil
}
