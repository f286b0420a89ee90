package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// opTimeout bounds every Redis round trip issued through the Cache
// interface, which carries no context of its own.
const opTimeout = 5 * time.Second

// RedisCache is the shared backend for multi-process deployments. Values
// are stored as JSON, so Get returns []byte for the caller to decode.
type RedisCache struct {
	client *redis.Client
	logger *zap.Logger
}

// RedisConfig holds configuration for the Redis backend.
type RedisConfig struct {
	URL    string // redis://[user:pass@]host:port/db
	Logger *zap.Logger
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(cfg *RedisConfig) (Cache, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	cfg.Logger.Info("redis-cache-connected",
		zap.String("addr", opts.Addr),
		zap.Int("db", opts.DB))
	return &RedisCache{
		client: client,
		logger: cfg.Logger,
	}, nil
}

// Get retrieves the JSON bytes stored under key.
func (r *RedisCache) Get(key string) (interface{}, bool) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	raw, err := r.client.Get(ctx, key).Bytes()
	CacheOperationDuration.WithLabelValues("get").Observe(time.Since(start).Seconds())
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("redis-get-failed",
				zap.String("key", key),
				zap.Error(err))
		}
		CacheMissesTotal.Inc()
		return nil, false
	}
	CacheHitsTotal.Inc()
	r.logger.Debug("cache-hit", zap.String("key", key))
	return raw, true
}

// Set stores the value as JSON with the given TTL.
func (r *RedisCache) Set(key string, value interface{}, ttl time.Duration) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		r.logger.Warn("redis-marshal-failed",
			zap.String("key", key),
			zap.Error(err))
		return false
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := r.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		r.logger.Warn("redis-set-failed",
			zap.String("key", key),
			zap.Error(err))
		return false
	}
	CacheOperationDuration.WithLabelValues("set").Observe(time.Since(start).Seconds())
	CacheSetsTotal.Inc()
	r.logger.Debug("cache-set",
		zap.String("key", key),
		zap.Duration("ttl", ttl))
	return true
}

// Delete removes a value from the cache.
func (r *RedisCache) Delete(key string) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Warn("redis-delete-failed",
			zap.String("key", key),
			zap.Error(err))
		return
	}
	CacheOperationDuration.WithLabelValues("delete").Observe(time.Since(start).Seconds())
	CacheDeletesTotal.Inc()
}

// Clear flushes the logical database. The service assumes a database
// dedicated to this cache.
func (r *RedisCache) Clear() {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := r.client.FlushDB(ctx).Err(); err != nil {
		r.logger.Warn("redis-flush-failed", zap.Error(err))
		return
	}
	r.logger.Info("cache-cleared")
}

// Close closes the connection pool.
func (r *RedisCache) Close() {
	if err := r.client.Close(); err != nil {
		r.logger.Warn("redis-close-failed", zap.Error(err))
		return
	}
	r.logger.Info("cache-closed")
}
