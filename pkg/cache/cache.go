package cache

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Backend names accepted by New.
const (
	BackendRistretto = "ristretto"
	BackendRedis     = "redis"
	BackendMemory    = "memory"
)

// Cache is the interface for caching scraped market samples.
type Cache interface {
	// Get retrieves a value from the cache.
	// Returns (value, true) if found, (nil, false) if not found.
	Get(key string) (interface{}, bool)

	// Set stores a value in the cache with a TTL.
	Set(key string, value interface{}, ttl time.Duration) bool

	// Delete removes a value from the cache.
	Delete(key string)

	// Clear removes all values from the cache.
	Clear()

	// Close closes the cache and releases resources.
	Close()
}

// Config selects and parameterizes a cache backend.
type Config struct {
	Backend  string
	RedisURL string
	Logger   *zap.Logger
}

// New builds the configured backend. An empty backend name selects Ristretto.
func New(cfg Config) (Cache, error) {
	switch cfg.Backend {
	case BackendRistretto, "":
		return NewRistrettoCache(&RistrettoConfig{
			NumCounters: 10000, // 10x expected max items (1000 queries)
			MaxCost:     1000,  // Maximum 1000 items in cache
			BufferItems: 64,    // Buffer size for Get operations
			Logger:      cfg.Logger,
		})
	case BackendRedis:
		return NewRedisCache(&RedisConfig{
			URL:    cfg.RedisURL,
			Logger: cfg.Logger,
		})
	case BackendMemory:
		return NewMemoryCache(cfg.Logger), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
