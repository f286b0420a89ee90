package scrape

import (
	"testing"
)

// TestMetrics_Registration tests all metrics are initialized
func TestMetrics_Registration(t *testing.T) {
	if FetchesTotal == nil {
		t.Error("FetchesTotal not registered")
	}

	if FetchDurationSeconds == nil {
		t.Error("FetchDurationSeconds not registered")
	}

	if QueueWaitSeconds == nil {
		t.Error("QueueWaitSeconds not registered")
	}

	if ListingsExtractedTotal == nil {
		t.Error("ListingsExtractedTotal not registered")
	}

	if CardsDroppedTotal == nil {
		t.Error("CardsDroppedTotal not registered")
	}

	if BreakerState == nil {
		t.Error("BreakerState not registered")
	}
}

// TestMetrics_CounterIncrement tests counters can be incremented
func TestMetrics_CounterIncrement(t *testing.T) {
	FetchesTotal.WithLabelValues("ok").Inc()
	ListingsExtractedTotal.Add(3)
	CardsDroppedTotal.Inc()
}

// TestMetrics_HistogramObserve tests histograms can observe values
func TestMetrics_HistogramObserve(t *testing.T) {
	FetchDurationSeconds.Observe(0.5)
	QueueWaitSeconds.Observe(0.1)
}
