package pricing

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"github.com/1di210299/pricing-intelligence-system/pkg/cache"
	"github.com/1di210299/pricing-intelligence-system/pkg/types"
)

// MarketFetcher produces a market sample for a query string. Failures are
// encoded in the sample status, never returned as errors.
type MarketFetcher interface {
	Fetch(ctx context.Context, query string) *types.MarketSample
}

// CachedMarketFetcher wraps a MarketFetcher with sample caching, so repeated
// queries inside the TTL skip the scrape entirely.
type CachedMarketFetcher struct {
	fetcher MarketFetcher
	cache   cache.Cache
	ttl     time.Duration
}

// NewCachedMarketFetcher creates a caching wrapper around fetcher. A nil
// cache disables caching.
func NewCachedMarketFetcher(fetcher MarketFetcher, c cache.Cache, ttl time.Duration) *CachedMarketFetcher {
	return &CachedMarketFetcher{
		fetcher: fetcher,
		cache:   c,
		ttl:     ttl,
	}
}

// Fetch returns the cached sample for the query or scrapes a fresh one.
// Failed scrapes are never cached; empty ones are, so a query with no
// listings does not hammer the marketplace for the whole TTL.
func (c *CachedMarketFetcher) Fetch(ctx context.Context, query string) *types.MarketSample {
	key := fmt.Sprintf("market:%s", query)
	if c.cache != nil {
		if cached, ok := c.cache.Get(key); ok {
			if sample := decodeSample(cached); sample != nil {
				SampleCacheHitsTotal.Inc()
				return sample
			}
		}
		SampleCacheMissesTotal.Inc()
	}

	sample := c.fetcher.Fetch(ctx, query)
	if c.cache != nil && sample.Status != types.SampleError {
		c.cache.Set(key, sample, c.ttl)
	}
	return sample
}

// decodeSample handles both cache value shapes: in-process backends hand
// back the stored instance, Redis hands back JSON bytes.
func decodeSample(cached interface{}) *types.MarketSample {
	switch v := cached.(type) {
	case *types.MarketSample:
		return v
	case []byte:
		var sample types.MarketSample
		if err := json.Unmarshal(v, &sample); err != nil {
			return nil
		}
		return &sample
	default:
		return nil
	}
}
