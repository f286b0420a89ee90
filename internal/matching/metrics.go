package matching

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MatchesTotal counts match calls by outcome (upc, scored, fallback, none).
	MatchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_matching_matches_total",
		Help: "Total match calls by outcome",
	}, []string{"outcome"})

	// MatchDurationSeconds tracks how long a match takes.
	MatchDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pricing_matching_duration_seconds",
		Help:    "Duration of match calls",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	})

	// MatchedRecords tracks how many records back each aggregate.
	MatchedRecords = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pricing_matching_matched_records",
		Help:    "Records aggregated per successful match",
		Buckets: []float64{1, 2, 5, 10, 25, 50},
	})

	// RecordsLoaded reports the size of the in-memory index.
	RecordsLoaded = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pricing_matching_records_loaded",
		Help: "Internal records in the matching index",
	})
)
