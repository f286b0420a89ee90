package model

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ArtifactLoaded reports whether a model artifact is loaded (1) or not (0).
	ArtifactLoaded = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pricing_model_artifact_loaded",
		Help: "Whether a model artifact is loaded",
	})

	// PredictionsTotal counts predict calls by outcome (ok, unavailable).
	PredictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_model_predictions_total",
		Help: "Total predict calls by outcome",
	}, []string{"outcome"})

	// PredictionDurationSeconds tracks ensemble walk latency.
	PredictionDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pricing_model_prediction_duration_seconds",
		Help:    "Duration of predict calls",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
	})
)
