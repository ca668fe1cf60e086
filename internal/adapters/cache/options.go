package cache

import "time"

// Option applies a configuration option to the cache.
type Option func(*inMemoryCache)

// WithMaxSize bounds the number of cached summaries.
func WithMaxSize(size int) Option {
	return func(c *inMemoryCache) {
		if size > 0 {
			c.maxSize = size
		}
	}
}

// WithTTL sets how long a cached summary stays fresh.
func WithTTL(ttl time.Duration) Option {
	return func(c *inMemoryCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock overrides the time source for tests.
func WithClock(clock func() time.Time) Option {
	return func(c *inMemoryCache) {
		if clock != nil {
			c.clock = clock
		}
	}
}
