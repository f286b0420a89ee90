package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/1di210299/pricing-intelligence-system/internal/model"
	"github.com/1di210299/pricing-intelligence-system/internal/pricing"
	"github.com/1di210299/pricing-intelligence-system/internal/scrape"
	"github.com/1di210299/pricing-intelligence-system/pkg/types"
)

// MockDriver is an in-memory scrape.Driver implementation for testing.
// It returns canned cards and records every query it serves.
type MockDriver struct {
	Cards        []scrape.Card
	CardsByQuery map[string][]scrape.Card
	Err          error
	OpenErr      error
	Latency      time.Duration

	mu          sync.Mutex
	opened      bool
	closed      bool
	queries     []string
	inFlight    int
	maxInFlight int
}

// NewMockDriver creates a mock driver that serves the given cards for every query.
func NewMockDriver(cards []scrape.Card) *MockDriver {
	return &MockDriver{Cards: cards}
}

// Open marks the driver as opened.
func (m *MockDriver) Open(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.OpenErr != nil {
		return m.OpenErr
	}
	m.opened = true
	return nil
}

// NavigateAndExtract returns the canned cards for the query, honoring Latency and Err.
func (m *MockDriver) NavigateAndExtract(ctx context.Context, query string) (*scrape.PageExtract, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.inFlight++
	if m.inFlight > m.maxInFlight {
		m.maxInFlight = m.inFlight
	}
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight--
		m.mu.Unlock()
	}()

	if m.Latency > 0 {
		select {
		case <-time.After(m.Latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if m.Err != nil {
		return nil, m.Err
	}

	cards := m.Cards
	if m.CardsByQuery != nil {
		if c, ok := m.CardsByQuery[query]; ok {
			cards = c
		}
	}
	return &scrape.PageExtract{Cards: cards, Locale: "en-US"}, nil
}

// Close marks the driver as closed.
func (m *MockDriver) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Opened reports whether Open was called.
func (m *MockDriver) Opened() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opened
}

// Closed reports whether Close was called.
func (m *MockDriver) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Queries returns every query served so far.
func (m *MockDriver) Queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.queries))
	copy(out, m.queries)
	return out
}

// Calls returns the number of NavigateAndExtract calls.
func (m *MockDriver) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queries)
}

// MaxConcurrent returns the highest number of overlapping NavigateAndExtract calls observed.
func (m *MockDriver) MaxConcurrent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxInFlight
}

// MockFetcher is an in-memory pricing.MarketFetcher. It returns canned
// samples and counts calls per query.
type MockFetcher struct {
	Sample         *types.MarketSample
	SamplesByQuery map[string]*types.MarketSample
	Latency        time.Duration

	mu      sync.Mutex
	queries []string
}

// NewMockFetcher creates a mock fetcher serving the given sample for every query.
func NewMockFetcher(sample *types.MarketSample) *MockFetcher {
	return &MockFetcher{Sample: sample}
}

// Fetch returns the canned sample for the query, honoring Latency.
func (m *MockFetcher) Fetch(ctx context.Context, query string) *types.MarketSample {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()

	if m.Latency > 0 {
		select {
		case <-time.After(m.Latency):
		case <-ctx.Done():
			return types.ErrorSample(query, "scrape failure: "+ctx.Err().Error())
		}
	}

	if m.SamplesByQuery != nil {
		if s, ok := m.SamplesByQuery[query]; ok {
			return s
		}
	}
	if m.Sample != nil {
		return m.Sample
	}
	return types.ErrorSample(query, "scrape failure: no canned sample")
}

// Calls returns the number of Fetch calls.
func (m *MockFetcher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queries)
}

// MockPredictor is a canned pricing.Predictor.
type MockPredictor struct {
	Prediction model.Prediction
}

// Available reports the canned availability.
func (m *MockPredictor) Available() bool {
	return m.Prediction.Available
}

// Predict returns the canned prediction.
func (m *MockPredictor) Predict(_ *types.InternalAggregate, _ *types.MarketSample) model.Prediction {
	return m.Prediction
}

// MockDecisionStore is an in-memory pricing.DecisionStore.
type MockDecisionStore struct {
	Err error

	mu        sync.Mutex
	decisions []*pricing.Decision
	closed    bool
}

// StoreDecision records the decision, honoring Err.
func (m *MockDecisionStore) StoreDecision(_ context.Context, d *pricing.Decision) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decisions = append(m.decisions, d)
	return nil
}

// Close marks the store as closed.
func (m *MockDecisionStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Decisions returns every stored decision so far.
func (m *MockDecisionStore) Decisions() []*pricing.Decision {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*pricing.Decision, len(m.decisions))
	copy(out, m.decisions)
	return out
}

// Closed reports whether Close was called.
func (m *MockDecisionStore) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
