package app

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/1di210299/pricing-intelligence-system/internal/pricing"
	"github.com/1di210299/pricing-intelligence-system/internal/reqcache"
	"github.com/1di210299/pricing-intelligence-system/internal/scrape"
	"github.com/1di210299/pricing-intelligence-system/pkg/cache"
	"github.com/1di210299/pricing-intelligence-system/pkg/config"
	"github.com/1di210299/pricing-intelligence-system/pkg/healthprobe"
	"github.com/1di210299/pricing-intelligence-system/pkg/httpserver"
)

// App is the main application orchestrator.
type App struct {
	cfg           *config.Config
	logger        *zap.Logger
	healthChecker *healthprobe.HealthChecker
	httpServer    *httpserver.Server
	sampleCache   cache.Cache
	session       *scrape.Session
	requests      *reqcache.Cache
	service       *pricing.Service
	store         pricing.DecisionStore
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
}

// Options holds application options.
type Options struct {
	Driver scrape.Driver // Overrides the Chrome driver; used by aux commands and tests
}
