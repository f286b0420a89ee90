package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/1di210299/pricing-intelligence-system/internal/storage"
	"github.com/1di210299/pricing-intelligence-system/internal/testutil"
	"github.com/1di210299/pricing-intelligence-system/pkg/config"
)

// writeHistoryCSV writes a small internal sales export and returns its path.
func writeHistoryCSV(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "history.csv")
	data := `item_id,upc,department,category,subcategory,brand,production_date,production_price,sold_date,days_to_sell,sold_price
A-1,,Footwear,Sneakers,Running,Nike,2026-01-10,24.00,2026-02-01,22,40.00
A-2,,Footwear,Sneakers,Running,Nike,2026-01-15,30.00,2026-02-10,26,50.00
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write history csv: %v", err)
	}
	return path
}

// testConfig returns a valid console-mode configuration that never touches
// the network.
func testConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		LogLevel:           "info",
		HTTPPort:           "0",
		InternalDataPath:   writeHistoryCSV(t),
		MarketplaceURL:     "https://www.ebay.com/sch/i.html",
		Headless:           true,
		MaxListings:        10,
		ScrapeTimeout:      2 * time.Second,
		ScrapeDelayMin:     0,
		ScrapeDelayMax:     0,
		MaxInternalMatches: 10,
		CacheTTL:           time.Minute,
		CacheBackend:       "memory",
		StorageMode:        "console",
	}
}

func TestNew_WiresComponents(t *testing.T) {
	cfg := testConfig(t)
	logger := zaptest.NewLogger(t)
	driver := testutil.NewMockDriver(nil)

	a, err := New(context.Background(), cfg, logger, &Options{Driver: driver})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if a.service == nil {
		t.Error("pricing service not wired")
	}
	if a.session == nil {
		t.Error("scrape session not wired")
	}
	if a.requests == nil {
		t.Error("request cache not wired")
	}
	if a.sampleCache == nil {
		t.Error("sample cache not wired")
	}
	if a.store == nil {
		t.Error("decision store not wired")
	}
	if a.httpServer == nil {
		t.Error("http server not wired")
	}

	if err := a.Shutdown(); err != nil {
		t.Errorf("Shutdown() error: %v", err)
	}
}

func TestNew_MissingHistoryFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.InternalDataPath = filepath.Join(t.TempDir(), "does-not-exist.csv")

	_, err := New(context.Background(), cfg, zaptest.NewLogger(t), &Options{Driver: testutil.NewMockDriver(nil)})
	if err == nil {
		t.Fatal("expected error for missing history file")
	}
	if !strings.Contains(err.Error(), "load internal data") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNew_HistoryNotConfigured(t *testing.T) {
	cfg := testConfig(t)
	cfg.InternalDataPath = ""

	a, err := New(context.Background(), cfg, zaptest.NewLogger(t), &Options{Driver: testutil.NewMockDriver(nil)})
	if err != nil {
		t.Fatalf("New() without history should degrade, got error: %v", err)
	}
	defer func() { _ = a.Shutdown() }()

	if a.service == nil {
		t.Error("pricing service not wired")
	}
}

func TestSetupSampleCache_RedisUnavailableFallsBack(t *testing.T) {
	cfg := testConfig(t)
	cfg.CacheBackend = "redis"
	cfg.RedisURL = "redis://127.0.0.1:1"

	sampleCache, err := setupSampleCache(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("setupSampleCache() should fall back, got error: %v", err)
	}
	defer sampleCache.Close()
}

func TestSetupSampleCache_UnknownBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.CacheBackend = "memcached"

	_, err := setupSampleCache(cfg, zaptest.NewLogger(t))
	if err == nil {
		t.Fatal("expected error for unknown cache backend")
	}
}

func TestSetupMatcher_LoadsRecords(t *testing.T) {
	cfg := testConfig(t)

	matcher, err := setupMatcher(context.Background(), cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("setupMatcher() error: %v", err)
	}

	stats := matcher.Stats()
	if stats.RecordCount != 2 {
		t.Errorf("expected 2 records loaded, got %d", stats.RecordCount)
	}
}

func TestSetupStorage_ConsoleMode(t *testing.T) {
	cfg := testConfig(t)

	store, err := setupStorage(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("setupStorage() error: %v", err)
	}
	defer func() { _ = store.Close() }()

	if _, ok := store.(*storage.ConsoleStorage); !ok {
		t.Errorf("expected console storage, got %T", store)
	}
}

func TestShutdown_ClosesDriver(t *testing.T) {
	cfg := testConfig(t)
	driver := testutil.NewMockDriver(nil)

	a, err := New(context.Background(), cfg, zaptest.NewLogger(t), &Options{Driver: driver})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if err := a.startComponents(); err != nil {
		t.Fatalf("startComponents() error: %v", err)
	}
	if !driver.Opened() {
		t.Error("driver was not opened on start")
	}

	if err := a.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error: %v", err)
	}
	if !driver.Closed() {
		t.Error("driver was not closed on shutdown")
	}
}
