// Package reqcache holds finished recommendations for their TTL so repeated
// queries skip the whole pipeline, and coalesces concurrent identical
// queries into a single computation.
package reqcache

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/1di210299/pricing-intelligence-system/pkg/types"
)

// DefaultTTL is how long a recommendation stays valid in the cache.
const DefaultTTL = 3600 * time.Second

// ComputeFunc produces a recommendation on a cache miss.
type ComputeFunc func(ctx context.Context) (*types.Recommendation, error)

type entry struct {
	rec     *types.Recommendation
	expires time.Time
}

// Cache is a thread-safe TTL cache keyed by normalized query text. A
// singleflight.Group prevents duplicate in-flight computations for the same
// key; errors are never stored.
type Cache struct {
	ttl    time.Duration
	logger *zap.Logger

	mu      sync.RWMutex
	entries map[string]entry
	group   singleflight.Group

	hits   atomic.Int64
	misses atomic.Int64
}

// Config holds request cache configuration.
type Config struct {
	TTL    time.Duration
	Logger *zap.Logger
}

// Stats is the wire shape served by the cache stats endpoint.
type Stats struct {
	Size       int   `json:"size"`
	Hits       int64 `json:"hits"`
	Misses     int64 `json:"misses"`
	TTLSeconds int   `json:"ttl_seconds"`
}

// New creates a request cache. A non-positive TTL falls back to DefaultTTL.
func New(cfg Config) *Cache {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	cfg.Logger.Info("request-cache-initialized",
		zap.Duration("ttl", ttl))
	return &Cache{
		ttl:     ttl,
		logger:  cfg.Logger,
		entries: make(map[string]entry),
	}
}

// Key normalizes a query for cache lookup: lowercased, runs of whitespace
// collapsed to single spaces.
func Key(raw string) string {
	return strings.Join(strings.Fields(strings.ToLower(raw)), " ")
}

// GetOrCompute returns the cached recommendation for the key, or runs
// compute and stores the result for the TTL. Concurrent callers with the
// same key share one computation; every waiter receives its result. The
// returned flag reports whether the value came from the cache. Failed
// computations are not cached.
func (c *Cache) GetOrCompute(ctx context.Context, rawKey string, compute ComputeFunc) (*types.Recommendation, bool, error) {
	key := Key(rawKey)

	if rec, ok := c.lookup(key); ok {
		c.hits.Add(1)
		HitsTotal.Inc()
		return rec, true, nil
	}
	c.misses.Add(1)
	MissesTotal.Inc()

	ch := c.group.DoChan(key, func() (interface{}, error) {
		// A racing caller may have stored the value between our miss and
		// this flight starting.
		if rec, ok := c.lookup(key); ok {
			return rec, nil
		}
		rec, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		c.store(key, rec)
		return rec, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		return res.Val.(*types.Recommendation), false, nil
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
}

// Clear drops every entry and reports how many were removed.
func (c *Cache) Clear() int {
	c.mu.Lock()
	n := len(c.entries)
	c.entries = make(map[string]entry)
	c.mu.Unlock()

	EntriesGauge.Set(0)
	c.logger.Info("request-cache-cleared",
		zap.Int("entries", n))
	return n
}

// Stats reports the live entry count and hit counters.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	now := time.Now()
	size := 0
	for _, e := range c.entries {
		if now.Before(e.expires) {
			size++
		}
	}
	c.mu.RUnlock()

	return Stats{
		Size:       size,
		Hits:       c.hits.Load(),
		Misses:     c.misses.Load(),
		TTLSeconds: int(c.ttl / time.Second),
	}
}

func (c *Cache) lookup(key string) (*types.Recommendation, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expires) {
		return nil, false
	}
	return e.rec, true
}

// store replaces the entry for key. Expired entries are overwritten here on
// the next computation rather than swept in the background.
func (c *Cache) store(key string, rec *types.Recommendation) {
	c.mu.Lock()
	c.entries[key] = entry{rec: rec, expires: time.Now().Add(c.ttl)}
	size := len(c.entries)
	c.mu.Unlock()

	EntriesGauge.Set(float64(size))
	c.logger.Debug("request-cache-stored",
		zap.String("key", key),
		zap.Duration("ttl", c.ttl))
}
