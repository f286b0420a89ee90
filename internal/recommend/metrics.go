package recommend

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecommendationsTotal counts recommendations by prediction method,
	// plus the failed outcome when no signal was usable.
	RecommendationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_recommend_recommendations_total",
		Help: "Total recommendations computed by prediction method",
	}, []string{"method"})

	// ConfidenceScore tracks the distribution of emitted confidence scores.
	ConfidenceScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pricing_recommend_confidence_score",
		Help:    "Distribution of recommendation confidence scores",
		Buckets: prometheus.LinearBuckets(0, 10, 11),
	})

	// RecommendDurationSeconds tracks time spent computing a recommendation.
	RecommendDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pricing_recommend_duration_seconds",
		Help:    "Time taken to compute a recommendation",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
	})
)
