package cache

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// MemoryCache is a mutex-guarded map backend for single-process deployments
// and tests. Unlike Ristretto it admits every set and applies it
// synchronously.
type MemoryCache struct {
	logger *zap.Logger

	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value   interface{}
	expires time.Time
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache(logger *zap.Logger) Cache {
	return &MemoryCache{
		logger:  logger,
		entries: make(map[string]memoryEntry),
	}
}

// Get retrieves a value from the cache.
func (m *MemoryCache) Get(key string) (interface{}, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok || time.Now().After(e.expires) {
		CacheMissesTotal.Inc()
		m.logger.Debug("cache-miss", zap.String("key", key))
		return nil, false
	}
	CacheHitsTotal.Inc()
	m.logger.Debug("cache-hit", zap.String("key", key))
	return e.value, true
}

// Set stores a value in the cache with a TTL.
func (m *MemoryCache) Set(key string, value interface{}, ttl time.Duration) bool {
	m.mu.Lock()
	m.entries[key] = memoryEntry{value: value, expires: time.Now().Add(ttl)}
	m.mu.Unlock()

	CacheSetsTotal.Inc()
	m.logger.Debug("cache-set",
		zap.String("key", key),
		zap.Duration("ttl", ttl))
	return true
}

// Delete removes a value from the cache.
func (m *MemoryCache) Delete(key string) {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()

	CacheDeletesTotal.Inc()
	m.logger.Debug("cache-delete", zap.String("key", key))
}

// Clear removes all values from the cache.
func (m *MemoryCache) Clear() {
	m.mu.Lock()
	m.entries = make(map[string]memoryEntry)
	m.mu.Unlock()

	m.logger.Info("cache-cleared")
}

// Close releases resources. A no-op for the in-memory backend.
func (m *MemoryCache) Close() {
	m.logger.Info("cache-closed")
}
