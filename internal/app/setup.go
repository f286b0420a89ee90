package app

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/1di210299/pricing-intelligence-system/internal/matching"
	"github.com/1di210299/pricing-intelligence-system/internal/model"
	"github.com/1di210299/pricing-intelligence-system/internal/pricing"
	"github.com/1di210299/pricing-intelligence-system/internal/recommend"
	"github.com/1di210299/pricing-intelligence-system/internal/reqcache"
	"github.com/1di210299/pricing-intelligence-system/internal/scrape"
	"github.com/1di210299/pricing-intelligence-system/internal/storage"
	"github.com/1di210299/pricing-intelligence-system/pkg/browser"
	"github.com/1di210299/pricing-intelligence-system/pkg/cache"
	"github.com/1di210299/pricing-intelligence-system/pkg/config"
	"github.com/1di210299/pricing-intelligence-system/pkg/healthprobe"
	"github.com/1di210299/pricing-intelligence-system/pkg/httpserver"
)

// New creates a new application instance. The internal history load and the
// storage connection happen here; either failing is fatal to startup.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts *Options) (*App, error) {
	if opts == nil {
		opts = &Options{}
	}

	appCtx, cancel := context.WithCancel(context.Background())

	// Initialize components
	healthChecker := setupHealthChecker()

	matcher, err := setupMatcher(ctx, cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup matcher: %w", err)
	}

	// Setup sample cache
	sampleCache, err := setupSampleCache(cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup cache: %w", err)
	}

	session := setupScrapeSession(cfg, logger, opts)
	fetcher := pricing.NewCachedMarketFetcher(session, sampleCache, cfg.CacheTTL)

	// Setup storage
	store, err := setupStorage(cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup storage: %w", err)
	}

	requests := setupRequestCache(cfg, logger)
	service := setupPricingService(cfg, logger, matcher, fetcher, requests, store)

	// Setup HTTP server (needs pricing service and request cache)
	httpServer := setupHTTPServer(cfg, logger, healthChecker, service, requests)

	return &App{
		cfg:           cfg,
		logger:        logger,
		healthChecker: healthChecker,
		httpServer:    httpServer,
		sampleCache:   sampleCache,
		session:       session,
		requests:      requests,
		service:       service,
		store:         store,
		ctx:           appCtx,
		cancel:        cancel,
	}, nil
}

func setupHealthChecker() *healthprobe.HealthChecker {
	return healthprobe.New()
}

// setupMatcher loads the internal sales history once and builds the match
// index. An unset path runs the service without internal data; a configured
// path that fails to load is fatal.
func setupMatcher(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*matching.Engine, error) {
	engineCfg := matching.Config{
		MaxMatches: cfg.MaxInternalMatches,
		Logger:     logger,
	}

	if cfg.InternalDataPath == "" {
		logger.Warn("internal-data-not-configured",
			zap.String("note", "recommendations will rely on market data only"))
		return matching.NewEngine(nil, engineCfg), nil
	}

	source, err := matching.NewSource(cfg.InternalDataPath, logger)
	if err != nil {
		return nil, fmt.Errorf("open internal data source: %w", err)
	}

	records, err := source.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load internal data: %w", err)
	}

	return matching.NewEngine(records, engineCfg), nil
}

func setupSampleCache(cfg *config.Config, logger *zap.Logger) (cache.Cache, error) {
	sampleCache, err := cache.New(cache.Config{
		Backend:  cfg.CacheBackend,
		RedisURL: cfg.RedisURL,
		Logger:   logger,
	})
	if err != nil && cfg.CacheBackend == cache.BackendRedis {
		// A dead Redis is not fatal; degrade to the in-process cache.
		logger.Warn("redis-unavailable-falling-back",
			zap.String("redis-url", cfg.RedisURL),
			zap.Error(err))
		return cache.New(cache.Config{
			Backend: cache.BackendRistretto,
			Logger:  logger,
		})
	}

	return sampleCache, err
}

func setupScrapeSession(cfg *config.Config, logger *zap.Logger, opts *Options) *scrape.Session {
	driver := opts.Driver
	if driver == nil {
		driver = browser.New(browser.Config{
			MarketplaceURL: cfg.MarketplaceURL,
			ChromePath:     cfg.ChromePath,
			Headless:       cfg.Headless,
			Logger:         logger,
		})
	}

	return scrape.New(driver, scrape.Config{
		MaxListings:  cfg.MaxListings,
		FetchTimeout: cfg.ScrapeTimeout,
		DelayMin:     cfg.ScrapeDelayMin,
		DelayMax:     cfg.ScrapeDelayMax,
		Logger:       logger,
	})
}

func setupStorage(cfg *config.Config, logger *zap.Logger) (pricing.DecisionStore, error) {
	if cfg.StorageMode == "postgres" {
		pgStorage, err := storage.NewPostgresStorage(&storage.PostgresConfig{
			Host:     cfg.PostgresHost,
			Port:     cfg.PostgresPort,
			User:     cfg.PostgresUser,
			Password: cfg.PostgresPass,
			Database: cfg.PostgresDB,
			SSLMode:  cfg.PostgresSSL,
			Logger:   logger,
		})
		if err != nil {
			return nil, fmt.Errorf("create postgres storage: %w", err)
		}
		return pgStorage, nil
	}

	return storage.NewConsoleStorage(logger), nil
}

func setupRequestCache(cfg *config.Config, logger *zap.Logger) *reqcache.Cache {
	return reqcache.New(reqcache.Config{
		TTL:    cfg.CacheTTL,
		Logger: logger,
	})
}

func setupPricingService(
	cfg *config.Config,
	logger *zap.Logger,
	matcher *matching.Engine,
	fetcher pricing.MarketFetcher,
	requests *reqcache.Cache,
	store pricing.DecisionStore,
) *pricing.Service {
	// Model artifacts can live behind http(s), so the adapter gets a client.
	adapter := model.New(model.Config{
		Path:   cfg.ModelPath,
		Client: resty.New().SetTimeout(30 * time.Second),
		Logger: logger,
	})

	engine := recommend.New(recommend.Config{Logger: logger})

	return pricing.New(pricing.Config{
		Matcher:  matcher,
		Fetcher:  fetcher,
		Model:    adapter,
		Engine:   engine,
		Requests: requests,
		Store:    store,
		Logger:   logger,
	})
}

func setupHTTPServer(
	cfg *config.Config,
	logger *zap.Logger,
	healthChecker *healthprobe.HealthChecker,
	service *pricing.Service,
	requests *reqcache.Cache,
) *httpserver.Server {
	return httpserver.New(&httpserver.Config{
		Port:          cfg.HTTPPort,
		Logger:        logger,
		HealthChecker: healthChecker,
		Pricing:       service,
		Requests:      requests,
	})
}
