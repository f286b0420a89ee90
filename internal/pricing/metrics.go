package pricing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts pricing requests received.
	RequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pricing_service_requests_total",
		Help: "Total pricing requests received",
	})

	// RequestErrorsTotal counts requests that returned an error.
	RequestErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pricing_service_request_errors_total",
		Help: "Total pricing requests that failed",
	})

	// RequestDurationSeconds tracks end-to-end request latency.
	RequestDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pricing_service_request_duration_seconds",
		Help:    "End-to-end pricing request latency",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
	})

	// SampleCacheHitsTotal counts market samples served from cache.
	SampleCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pricing_service_sample_cache_hits_total",
		Help: "Market sample cache hits",
	})

	// SampleCacheMissesTotal counts market samples that required a scrape.
	SampleCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pricing_service_sample_cache_misses_total",
		Help: "Market sample cache misses",
	})

	// DecisionsStoredTotal counts decisions persisted to the store.
	DecisionsStoredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pricing_service_decisions_stored_total",
		Help: "Pricing decisions persisted",
	})
)
