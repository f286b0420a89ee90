package recommend

import (
	"testing"
)

// TestMetrics_Registration tests all metrics are initialized
func TestMetrics_Registration(t *testing.T) {
	if RecommendationsTotal == nil {
		t.Error("RecommendationsTotal not registered")
	}

	if ConfidenceScore == nil {
		t.Error("ConfidenceScore not registered")
	}

	if RecommendDurationSeconds == nil {
		t.Error("RecommendDurationSeconds not registered")
	}
}

// TestMetrics_CounterIncrement tests counters can be incremented
func TestMetrics_CounterIncrement(t *testing.T) {
	RecommendationsTotal.WithLabelValues("internal").Inc()
	RecommendationsTotal.WithLabelValues("ml").Inc()
}

// TestMetrics_HistogramObserve tests histograms can observe values
func TestMetrics_HistogramObserve(t *testing.T) {
	ConfidenceScore.Observe(70)
	RecommendDurationSeconds.Observe(0.0001)
}
