package pricing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/1di210299/pricing-intelligence-system/internal/matching"
	"github.com/1di210299/pricing-intelligence-system/internal/model"
	"github.com/1di210299/pricing-intelligence-system/internal/recommend"
	"github.com/1di210299/pricing-intelligence-system/internal/reqcache"
	"github.com/1di210299/pricing-intelligence-system/internal/upc"
	"github.com/1di210299/pricing-intelligence-system/pkg/types"
)

// Predictor is the model surface the service needs.
type Predictor interface {
	Available() bool
	Predict(internal *types.InternalAggregate, market *types.MarketSample) model.Prediction
}

// Request is one pricing query. Override, when set, replaces internal
// matching with caller-supplied history.
type Request struct {
	Query    string
	Override *types.InternalAggregate
}

// Service runs the full pricing pipeline: classify, match, scrape, predict,
// recommend, persist.
type Service struct {
	matcher  *matching.Engine
	fetcher  MarketFetcher
	model    Predictor
	engine   *recommend.Engine
	requests *reqcache.Cache
	store    DecisionStore
	logger   *zap.Logger
}

// Config holds service dependencies.
type Config struct {
	Matcher  *matching.Engine
	Fetcher  MarketFetcher
	Model    Predictor
	Engine   *recommend.Engine
	Requests *reqcache.Cache
	Store    DecisionStore
	Logger   *zap.Logger
}

// New creates a pricing service.
func New(cfg Config) *Service {
	return &Service{
		matcher:  cfg.Matcher,
		fetcher:  cfg.Fetcher,
		model:    cfg.Model,
		engine:   cfg.Engine,
		requests: cfg.Requests,
		store:    cfg.Store,
		logger:   cfg.Logger,
	}
}

// Price validates, classifies and prices one query. Identical queries
// within the cache TTL share one computation; requests carrying an override
// bypass the request cache since their history is caller-specific.
func (s *Service) Price(ctx context.Context, req Request) (*types.Recommendation, error) {
	start := time.Now()
	RequestsTotal.Inc()

	query, err := upc.Classify(req.Query)
	if err != nil {
		RequestErrorsTotal.Inc()
		return nil, err
	}

	var (
		rec    *types.Recommendation
		cached bool
	)
	if req.Override != nil {
		rec, err = s.compute(ctx, query, req.Override)
	} else {
		rec, cached, err = s.requests.GetOrCompute(ctx, query.Canonical, func(ctx context.Context) (*types.Recommendation, error) {
			return s.compute(ctx, query, nil)
		})
	}
	if err != nil {
		RequestErrorsTotal.Inc()
		return nil, err
	}

	s.persist(ctx, query, rec, cached)
	RequestDurationSeconds.Observe(time.Since(start).Seconds())

	s.logger.Info("pricing-decision",
		zap.String("query", query.Canonical),
		zap.String("kind", string(query.Kind)),
		zap.String("method", string(rec.PredictionMethod)),
		zap.Float64("price", rec.RecommendedPrice),
		zap.Float64("weighting", rec.Weighting),
		zap.Int("confidence", rec.ConfidenceScore),
		zap.Strings("warnings", rec.Warnings),
		zap.Bool("cached", cached))

	return rec, nil
}

// compute gathers the signals for one query and blends them. The market
// fetch runs concurrently with internal matching; both must finish before
// the engine runs.
func (s *Service) compute(ctx context.Context, query types.Query, override *types.InternalAggregate) (*types.Recommendation, error) {
	marketCh := make(chan *types.MarketSample, 1)
	go func() {
		marketCh <- s.fetcher.Fetch(ctx, query.Canonical)
	}()

	var (
		internal *types.InternalAggregate
		fallback float64
	)
	if override != nil {
		internal = override
	} else {
		internal, fallback = s.matcher.Match(query)
	}

	market := <-marketCh
	prediction := s.model.Predict(internal, market)

	return s.engine.Recommend(recommend.Input{
		Query:              query,
		Market:             market,
		Internal:           internal,
		ML:                 prediction,
		FallbackProduction: fallback,
	})
}

// persist writes the decision for audit. Store failures degrade to a
// warning; the caller still gets its recommendation.
func (s *Service) persist(ctx context.Context, query types.Query, rec *types.Recommendation, cached bool) {
	if s.store == nil {
		return
	}
	decision := &Decision{
		ID:             uuid.New().String(),
		Query:          query.Canonical,
		Kind:           query.Kind,
		Recommendation: rec,
		Cached:         cached,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.store.StoreDecision(ctx, decision); err != nil {
		s.logger.Warn("decision-store-failed",
			zap.String("id", decision.ID),
			zap.Error(err))
		return
	}
	DecisionsStoredTotal.Inc()
}
