package pricing

import (
	"testing"
)

// TestMetrics_Registration tests all metrics are initialized
func TestMetrics_Registration(t *testing.T) {
	if RequestsTotal == nil {
		t.Error("RequestsTotal not registered")
	}

	if RequestErrorsTotal == nil {
		t.Error("RequestErrorsTotal not registered")
	}

	if RequestDurationSeconds == nil {
		t.Error("RequestDurationSeconds not registered")
	}

	if SampleCacheHitsTotal == nil {
		t.Error("SampleCacheHitsTotal not registered")
	}

	if SampleCacheMissesTotal == nil {
		t.Error("SampleCacheMissesTotal not registered")
	}

	if DecisionsStoredTotal == nil {
		t.Error("DecisionsStoredTotal not registered")
	}
}

// TestMetrics_CounterIncrement tests counters can be incremented
func TestMetrics_CounterIncrement(t *testing.T) {
	RequestsTotal.Inc()
	SampleCacheHitsTotal.Inc()
	SampleCacheMissesTotal.Inc()
}

// TestMetrics_HistogramObserve tests histograms can observe values
func TestMetrics_HistogramObserve(t *testing.T) {
	RequestDurationSeconds.Observe(0.05)
}
