package scrape

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/1di210299/pricing-intelligence-system/pkg/types"
)

// Session owns the shared browser driver. All fetches flow through a
// capacity-1 FIFO request channel serviced by a single goroutine: at most one
// navigation runs at a time, queued fetches are served in arrival order, and
// a randomized delay is enforced between successive navigations.
type Session struct {
	driver   Driver
	config   Config
	logger   *zap.Logger
	breaker  *gobreaker.CircuitBreaker
	requests chan fetchRequest
	wg       sync.WaitGroup

	// fetch loop state, touched only by the run goroutine
	lastFetch time.Time
}

// Config holds session configuration.
type Config struct {
	MaxListings  int
	FetchTimeout time.Duration
	DelayMin     time.Duration
	DelayMax     time.Duration
	Logger       *zap.Logger
}

// fetchRequest carries one query through the session queue. The reply channel
// is buffered so a caller that abandoned its wait never blocks the loop.
type fetchRequest struct {
	ctx    context.Context
	query  string
	reply  chan *types.MarketSample
	queued time.Time
}

// New creates a session around the given driver. Repeated driver failures
// trip a circuit breaker; while it is open, fetches fail fast without
// touching the browser.
func New(driver Driver, cfg Config) *Session {
	s := &Session{
		driver:   driver,
		config:   cfg,
		logger:   cfg.Logger,
		requests: make(chan fetchRequest, 1),
	}

	s.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     "scrape-driver",
		Interval: time.Minute,
		Timeout:  time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			BreakerState.Set(breakerStateValue(to))
			cfg.Logger.Warn("scrape-breaker-state-changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return s
}

// Start opens the driver and launches the fetch loop. A driver that cannot
// open is a startup failure; callers treat it as fatal.
func (s *Session) Start(ctx context.Context) error {
	s.logger.Info("scrape-session-starting",
		zap.Duration("fetch-timeout", s.config.FetchTimeout),
		zap.Int("max-listings", s.config.MaxListings))

	err := s.driver.Open(ctx)
	if err != nil {
		return fmt.Errorf("open driver: %w", err)
	}

	s.wg.Add(1)
	go s.run(ctx)

	s.logger.Info("scrape-session-started")
	return nil
}

// Fetch enqueues the query and waits for the session loop to reply. Failures
// are encoded in the sample status; Fetch itself never returns an error. A
// caller whose context expires abandons its wait; when the abandoned
// request's turn comes the loop sees the dead context and discards it
// without navigating.
func (s *Session) Fetch(ctx context.Context, query string) *types.MarketSample {
	req := fetchRequest{
		ctx:    ctx,
		query:  query,
		reply:  make(chan *types.MarketSample, 1),
		queued: time.Now(),
	}

	select {
	case s.requests <- req:
	case <-ctx.Done():
		FetchesTotal.WithLabelValues("abandoned").Inc()
		return types.ErrorSample(query, "scrape failure: "+ctx.Err().Error())
	}

	select {
	case sample := <-req.reply:
		return sample
	case <-ctx.Done():
		FetchesTotal.WithLabelValues("abandoned").Inc()
		return types.ErrorSample(query, "scrape failure: "+ctx.Err().Error())
	}
}

// Close waits for the fetch loop to drain and releases the driver. The
// application cancels the loop context before calling Close.
func (s *Session) Close() error {
	s.wg.Wait()
	err := s.driver.Close()
	if err != nil {
		return fmt.Errorf("close driver: %w", err)
	}
	s.logger.Info("scrape-session-closed")
	return nil
}

func (s *Session) run(ctx context.Context) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scrape-session-stopping")
			return
		case req := <-s.requests:
			QueueWaitSeconds.Observe(time.Since(req.queued).Seconds())
			req.reply <- s.serve(req)
		}
	}
}

// serve runs one fetch under the inter-fetch delay, the per-fetch deadline
// and the circuit breaker.
func (s *Session) serve(req fetchRequest) *types.MarketSample {
	err := s.pace(req.ctx)
	if err != nil {
		FetchesTotal.WithLabelValues("cancelled").Inc()
		return types.ErrorSample(req.query, "scrape failure: "+err.Error())
	}

	fetchCtx, cancel := context.WithTimeout(req.ctx, s.config.FetchTimeout)
	defer cancel()

	start := time.Now()
	result, err := s.breaker.Execute(func() (interface{}, error) {
		return s.driver.NavigateAndExtract(fetchCtx, req.query)
	})
	s.lastFetch = time.Now()
	FetchDurationSeconds.Observe(time.Since(start).Seconds())

	if err != nil {
		FetchesTotal.WithLabelValues("error").Inc()
		s.logger.Warn("scrape-fetch-failed",
			zap.String("query", req.query),
			zap.Error(err))
		return types.ErrorSample(req.query, "scrape failure: "+err.Error())
	}

	extract := result.(*PageExtract)
	listings := s.parseCards(req.query, extract)
	sample := Aggregate(req.query, listings, time.Now())

	FetchesTotal.WithLabelValues(string(sample.Status)).Inc()
	ListingsExtractedTotal.Add(float64(len(listings)))
	s.logger.Debug("scrape-fetch-complete",
		zap.String("query", req.query),
		zap.Int("cards", len(extract.Cards)),
		zap.Int("listings", len(listings)),
		zap.String("status", string(sample.Status)))

	return sample
}

// pace enforces the randomized minimum spacing between successive
// navigations. The first fetch of a session is not delayed.
func (s *Session) pace(ctx context.Context) error {
	if s.lastFetch.IsZero() {
		return nil
	}

	delay := s.config.DelayMin
	if spread := s.config.DelayMax - s.config.DelayMin; spread > 0 {
		delay += time.Duration(rand.Int63n(int64(spread)))
	}

	elapsed := time.Since(s.lastFetch)
	if elapsed >= delay {
		return nil
	}

	timer := time.NewTimer(delay - elapsed)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// parseCards converts extracted cards into listings, dropping malformed ones.
// The result is capped at MaxListings.
func (s *Session) parseCards(query string, extract *PageExtract) []types.Listing {
	listings := make([]types.Listing, 0, len(extract.Cards))
	for _, card := range extract.Cards {
		if len(listings) >= s.config.MaxListings {
			break
		}
		listing, err := parseCard(card, extract.Locale)
		if err != nil {
			CardsDroppedTotal.Inc()
			s.logger.Debug("scrape-card-dropped",
				zap.String("query", query),
				zap.String("reason", err.Error()))
			continue
		}
		listings = append(listings, listing)
	}
	return listings
}

func breakerStateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 0.5
	default:
		return 0
	}
}
