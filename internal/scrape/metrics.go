package scrape

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FetchesTotal tracks fetch outcomes by sample status.
	FetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_scrape_fetches_total",
		Help: "Total number of scrape fetches by outcome",
	}, []string{"status"})

	// FetchDurationSeconds tracks navigation plus extraction latency.
	FetchDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pricing_scrape_fetch_duration_seconds",
		Help:    "Duration of scrape fetches",
		Buckets: prometheus.DefBuckets,
	})

	// QueueWaitSeconds tracks how long fetches wait behind the session lock.
	QueueWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pricing_scrape_queue_wait_seconds",
		Help:    "Time fetch requests spend queued before the session serves them",
		Buckets: prometheus.DefBuckets,
	})

	// ListingsExtractedTotal tracks listings that survived parsing.
	ListingsExtractedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pricing_scrape_listings_extracted_total",
		Help: "Total number of listings extracted from result pages",
	})

	// CardsDroppedTotal tracks malformed cards discarded during parsing.
	CardsDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pricing_scrape_cards_dropped_total",
		Help: "Total number of listing cards dropped as malformed",
	})

	// BreakerState exposes the scrape circuit breaker state (0 closed,
	// 0.5 half-open, 1 open).
	BreakerState = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pricing_scrape_breaker_state",
		Help: "Scrape circuit breaker state",
	})
)
