package app

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap/zaptest"

	"github.com/1di210299/pricing-intelligence-system/internal/reqcache"
	"github.com/1di210299/pricing-intelligence-system/internal/scrape"
	"github.com/1di210299/pricing-intelligence-system/internal/testutil"
	"github.com/1di210299/pricing-intelligence-system/pkg/types"
)

// TestE2E_PricingHappyPath_WithRecommendationOutput demonstrates the
// complete pricing flow from an HTTP request through scrape, match and blend.
//
// Flow:
// 1. Internal history loads from a CSV fixture (two sold Nike records)
// 2. A mock driver serves canned marketplace cards (sold at 48/50/52)
// 3. POST /price-recommendation prices the query end to end
// 4. A repeat request is answered from the request cache without scraping
// 5. Cache stats and clear endpoints reflect both requests
// 6. Test prints the recommendation breakdown.
func TestE2E_PricingHappyPath_WithRecommendationOutput(t *testing.T) {
	logger := zaptest.NewLogger(t)

	cards := []scrape.Card{
		{Title: "Nike Air Max 90 white size 10", PriceText: "$52.00", ConditionText: "Pre-Owned", SoldDateText: "Sold Aug 1, 2026", URL: "https://example.com/itm/1"},
		{Title: "Nike Air Max 90 black size 9", PriceText: "$48.00", ConditionText: "Pre-Owned", SoldDateText: "Sold Jul 30, 2026", URL: "https://example.com/itm/2"},
		{Title: "Nike Air Max 90 red size 8", PriceText: "$50.00", ConditionText: "Brand New", SoldDateText: "Sold Jul 28, 2026", URL: "https://example.com/itm/3"},
	}
	driver := testutil.NewMockDriver(cards)

	cfg := testConfig(t)
	cfg.HTTPPort = freePort(t)

	a, err := New(context.Background(), cfg, logger, &Options{Driver: driver})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	err = a.startComponents()
	if err != nil {
		t.Fatalf("startComponents() error: %v", err)
	}

	shutdownDone := false
	defer func() {
		if !shutdownDone {
			_ = a.Shutdown()
		}
	}()

	base := "http://127.0.0.1:" + cfg.HTTPPort
	waitForServer(t, base)
	client := &http.Client{Timeout: 5 * time.Second}

	// First request runs the full pipeline.
	rec := postRecommendation(t, client, base, `{"upc": "nike sneakers"}`)

	if rec.UPC != "nike sneakers" {
		t.Errorf("expected canonical query %q, got %q", "nike sneakers", rec.UPC)
	}
	if rec.RecommendedPrice <= 0 {
		t.Errorf("expected positive price, got %f", rec.RecommendedPrice)
	}
	if rec.Weighting < 0 || rec.Weighting > 1 {
		t.Errorf("weighting out of range: %f", rec.Weighting)
	}
	if rec.ConfidenceScore < 0 || rec.ConfidenceScore > 100 {
		t.Errorf("confidence out of range: %d", rec.ConfidenceScore)
	}

	if rec.MarketData == nil {
		t.Fatal("expected market data from mock scrape")
	}
	if rec.MarketData.MedianPrice != 50.00 {
		t.Errorf("expected market median 50.00, got %f", rec.MarketData.MedianPrice)
	}
	if rec.MarketData.SampleSize != 3 {
		t.Errorf("expected sample size 3, got %d", rec.MarketData.SampleSize)
	}

	if rec.InternalData == nil {
		t.Fatal("expected internal data from history fixture")
	}
	if rec.InternalData.InternalPrice != 45.00 {
		t.Errorf("expected internal price 45.00, got %f", rec.InternalData.InternalPrice)
	}
	if rec.InternalData.MatchedCount != 2 {
		t.Errorf("expected 2 matched records, got %d", rec.InternalData.MatchedCount)
	}

	t.Logf("✓ Recommendation: price=%.2f weighting=%.2f confidence=%d method=%s",
		rec.RecommendedPrice, rec.Weighting, rec.ConfidenceScore, rec.PredictionMethod)
	t.Logf("✓ Rationale: %s", rec.Rationale)

	// Second identical request must come from the request cache.
	_ = postRecommendation(t, client, base, `{"upc": "nike sneakers"}`)
	if driver.Calls() != 1 {
		t.Errorf("expected 1 scrape for 2 identical requests, got %d", driver.Calls())
	}
	t.Logf("✓ Repeat request served from cache (%d scrape)", driver.Calls())

	// Cache stats reflect one miss and one hit.
	var stats reqcache.Stats
	getJSON(t, client, base+"/cache/stats", &stats)
	if stats.Size != 1 {
		t.Errorf("expected cache size 1, got %d", stats.Size)
	}
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("expected 1 hit and 1 miss, got %d/%d", stats.Hits, stats.Misses)
	}

	// Clearing the cache removes the entry.
	req, err := http.NewRequest(http.MethodDelete, base+"/cache/clear", nil)
	if err != nil {
		t.Fatalf("build clear request: %v", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("clear cache: %v", err)
	}
	var cleared struct {
		Cleared int `json:"cleared"`
	}
	decodeBody(t, resp, &cleared)
	if cleared.Cleared != 1 {
		t.Errorf("expected 1 cleared entry, got %d", cleared.Cleared)
	}

	getJSON(t, client, base+"/cache/stats", &stats)
	if stats.Size != 0 {
		t.Errorf("expected empty cache after clear, got size %d", stats.Size)
	}
	t.Logf("✓ Cache cleared: %d entries removed", cleared.Cleared)

	err = a.Shutdown()
	shutdownDone = true
	if err != nil {
		t.Fatalf("Shutdown() error: %v", err)
	}
	if !driver.Closed() {
		t.Error("driver was not closed on shutdown")
	}
}

// freePort reserves an ephemeral port and returns it for the app to bind.
func freePort(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("reserve port: %v", err)
	}
	defer l.Close()

	_, port, err := net.SplitHostPort(l.Addr().String())
	if err != nil {
		t.Fatalf("split host port: %v", err)
	}
	return port
}

func waitForServer(t *testing.T, base string) {
	t.Helper()

	client := &http.Client{Timeout: time.Second}
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := client.Get(base + "/health")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("server never became reachable")
}

func postRecommendation(t *testing.T, client *http.Client, base, body string) *types.Recommendation {
	t.Helper()

	resp, err := client.Post(base+"/price-recommendation", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("post recommendation: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	var rec types.Recommendation
	decodeBody(t, resp, &rec)
	return &rec
}

func getJSON(t *testing.T, client *http.Client, url string, out interface{}) {
	t.Helper()

	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	decodeBody(t, resp, out)
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}
