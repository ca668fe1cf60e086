// Package cache provides a bounded TTL cache for analysis results so
// repeat requests for the same playlist skip the Spotify API entirely.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/okian/clout/internal/domain/model"
)

// Cache stores playlist summaries keyed by playlist id.
type Cache interface {
	// Get returns the cached summary for key if present and fresh.
	Get(ctx context.Context, key string) (model.PlaylistSummary, bool)

	// Put stores a summary under key, evicting the oldest entry when
	// the cache is full.
	Put(ctx context.Context, key string, summary model.PlaylistSummary)

	// Size returns the number of live entries.
	Size() int
}

type entry struct {
	summary model.PlaylistSummary
	expires time.Time
	added   time.Time
}

type inMemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	maxSize int
	ttl     time.Duration
	clock   func() time.Time
}

// New creates an in-memory cache with configuration options.
func New(opts ...Option) Cache {
	c := &inMemoryCache{
		maxSize: 1_000,
		ttl:     10 * time.Minute,
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.entries = make(map[string]entry)
	return c
}

func (c *inMemoryCache) Get(ctx context.Context, key string) (model.PlaylistSummary, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.clock().After(e.expires) {
		return model.PlaylistSummary{}, false
	}
	return e.summary, true
}

func (c *inMemoryCache) Put(ctx context.Context, key string, summary model.PlaylistSummary) {
	now := c.clock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxSize {
		c.evictLocked(now)
	}
	c.entries[key] = entry{summary: summary, expires: now.Add(c.ttl), added: now}
}

// evictLocked drops expired entries, then the oldest insertion if the
// cache is still at capacity. Caller holds the write lock.
func (c *inMemoryCache) evictLocked(now time.Time) {
	for k, e := range c.entries {
		if now.After(e.expires) {
			delete(c.entries, k)
		}
	}
	if len(c.entries) < c.maxSize {
		return
	}
	oldestKey := ""
	var oldest time.Time
	for k, e := range c.entries {
		if oldestKey == "" || e.added.Before(oldest) {
			oldestKey = k
			oldest = e.added
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

func (c *inMemoryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
