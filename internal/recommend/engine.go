package recommend

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/1di210299/pricing-intelligence-system/internal/model"
	"github.com/1di210299/pricing-intelligence-system/pkg/types"
)

const (
	// Model output below this confidence is ignored in favor of the blend.
	mlGate = 0.7

	mlWeightModel    = 0.6
	mlWeightMarket   = 0.3
	mlWeightInternal = 0.1

	// Markup applied to production price on the rules fallback path.
	rulesMarkup = 1.5

	thinSampleSize     = 5
	deepSampleSize     = 10
	staleShelfDays     = 60.0
	deviationTolerance = 0.30
)

// Input gathers the per-query signals the engine blends. Market is never
// usable after a failed or empty scrape; Internal is nil when matching found
// nothing. FallbackProduction carries the production price of a single
// matched unsold record, zero otherwise.
type Input struct {
	Query              types.Query
	Market             *types.MarketSample
	Internal           *types.InternalAggregate
	ML                 model.Prediction
	FallbackProduction float64
}

// Engine turns market, internal and model signals into a Recommendation.
type Engine struct {
	logger *zap.Logger
}

// Config holds engine configuration.
type Config struct {
	Logger *zap.Logger
}

// New creates a recommendation engine.
func New(cfg Config) *Engine {
	return &Engine{logger: cfg.Logger}
}

// Recommend computes the final price for one query. It succeeds whenever at
// least one signal is usable; with every signal gone it falls back to a
// marked-up production price when exactly one record matched, otherwise the
// call fails.
func (e *Engine) Recommend(in Input) (*types.Recommendation, error) {
	start := time.Now()
	if in.Market == nil {
		in.Market = types.ErrorSample(in.Query.Canonical, "no market sample")
	}

	weighting, factors := weigh(in.Internal, in.Market)

	var (
		price  float64
		method types.PredictionMethod
	)
	switch {
	case in.ML.Available && in.ML.Confidence >= mlGate:
		price = blendWithModel(in.ML, in.Internal, in.Market)
		method = types.MethodML
	case in.Internal.Usable() || in.Market.Usable():
		price = blend(weighting, in.Internal, in.Market)
		if weighting < 0.5 {
			method = types.MethodMarket
		} else {
			method = types.MethodInternal
		}
	case in.FallbackProduction > 0:
		price = in.FallbackProduction * rulesMarkup
		method = types.MethodRules
		weighting = 1.0
	default:
		RecommendationsTotal.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("%w: no usable pricing signal for %q", types.ErrInternal, in.Query.Canonical)
	}

	price = round2(price)
	weighting = round2(weighting)
	score := confidence(in, price)
	warns := warnings(in, price)

	rec := &types.Recommendation{
		UPC:              in.Query.Canonical,
		RecommendedPrice: price,
		Weighting:        weighting,
		ConfidenceScore:  score,
		Rationale:        rationale(method, weighting, in.ML, factors),
		PredictionMethod: method,
		MarketData:       types.MarketDataFromSample(in.Market),
		InternalData:     in.Internal,
		Warnings:         warns,
	}

	RecommendationsTotal.WithLabelValues(string(method)).Inc()
	ConfidenceScore.Observe(float64(score))
	RecommendDurationSeconds.Observe(time.Since(start).Seconds())

	e.logger.Debug("recommendation-computed",
		zap.String("query", in.Query.Canonical),
		zap.String("method", string(method)),
		zap.Float64("weighting", weighting),
		zap.Int("confidence", score),
		zap.Float64("price", price),
		zap.Strings("warnings", warns))

	return rec, nil
}

// factor is one applied weighting adjustment. Overrides carry a zero delta
// since they replace the weight instead of shifting it.
type factor struct {
	reason string
	delta  float64
}

// weigh computes w_internal from the historical signals. Additive
// adjustments start at an even split; the override rows run last and win.
func weigh(internal *types.InternalAggregate, market *types.MarketSample) (float64, []factor) {
	w := 0.5
	var factors []factor
	apply := func(reason string, delta float64) {
		w += delta
		factors = append(factors, factor{reason: reason, delta: delta})
	}

	if internal != nil {
		if internal.SellThroughRate > 0.7 {
			apply("high sell-through", 0.20)
		} else if internal.SellThroughRate < 0.3 {
			apply("low sell-through", -0.15)
		}
		if internal.DaysOnShelf > staleShelfDays {
			apply("stale inventory", -0.15)
		}
	}
	if market.SampleSize < thinSampleSize {
		apply("thin market sample", 0.20)
	} else if market.SampleSize > deepSampleSize {
		apply("deep market sample", -0.10)
	}

	if internal == nil {
		w = 0.0
		factors = []factor{{reason: "no internal history"}}
	}
	if market.Status != types.SampleOK {
		w = 1.0
		factors = []factor{{reason: "no market data"}}
	}
	return clamp01(w), factors
}

// blend mixes the two price signals; an unusable side hands its weight to
// the other.
func blend(w float64, internal *types.InternalAggregate, market *types.MarketSample) float64 {
	switch {
	case internal.Usable() && market.Usable():
		return w*internal.InternalPrice + (1-w)*market.Median
	case internal.Usable():
		return internal.InternalPrice
	default:
		return market.Median
	}
}

// blendWithModel anchors the price on the model output, with the historical
// signals as secondary terms. Weights of absent terms redistribute
// proportionally.
func blendWithModel(ml model.Prediction, internal *types.InternalAggregate, market *types.MarketSample) float64 {
	price := mlWeightModel * ml.Price
	total := mlWeightModel
	if market.Usable() {
		price += mlWeightMarket * market.Median
		total += mlWeightMarket
	}
	if internal.Usable() {
		price += mlWeightInternal * internal.InternalPrice
		total += mlWeightInternal
	}
	return price / total
}

// confidence scores how much the caller should trust the price, 0 to 100.
func confidence(in Input, price float64) int {
	score := 50
	if in.Market.SampleSize >= deepSampleSize {
		score += 20
	}
	if in.Internal != nil && in.Internal.MatchedCount >= 5 {
		score += 10
	}
	if in.ML.Available {
		score += 15
	}
	if deviates(price, in.Market) {
		score -= 15
	}
	if in.Market.Status == types.SampleError {
		score -= 20
	}
	if in.Internal == nil {
		score -= 10
	}
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// warnings lists data-quality caveats in a fixed order. A failed scrape
// subsumes the thin-sample warning.
func warnings(in Input, price float64) []string {
	warns := []string{}
	if in.Market.Status == types.SampleError {
		warns = append(warns, "scrape failure")
	} else if in.Market.SampleSize < thinSampleSize {
		warns = append(warns, "low market sample")
	}
	if in.Internal == nil {
		warns = append(warns, "no internal data")
	} else if in.Internal.DaysOnShelf > staleShelfDays {
		warns = append(warns, "stale inventory")
	}
	if deviates(price, in.Market) {
		warns = append(warns, "large deviation from market median")
	}
	if in.ML.Degraded {
		warns = append(warns, "ml unavailable")
	}
	return warns
}

// deviates reports whether the final price strayed more than the tolerance
// from the market median. A floor of 1 on the divisor keeps cheap items from
// tripping the check on cent-level noise.
func deviates(price float64, market *types.MarketSample) bool {
	if !market.Usable() {
		return false
	}
	base := math.Max(market.Median, 1)
	return math.Abs(price-market.Median)/base > deviationTolerance
}

// rationale renders the one-sentence explanation attached to the response.
// Deterministic given the inputs.
func rationale(method types.PredictionMethod, w float64, ml model.Prediction, factors []factor) string {
	switch method {
	case types.MethodML:
		return fmt.Sprintf("Model price (confidence %.2f) blended with market median and internal history; weighting split %d%% internal / %d%% market.",
			ml.Confidence, pct(w), pct(1-w))
	case types.MethodRules:
		return "No usable market or internal history; applied standard markup to the production price of the single matched record."
	default:
		return fmt.Sprintf("Weighted %d%% internal / %d%% market; dominant factors: %s.",
			pct(w), pct(1-w), describeFactors(factors))
	}
}

// describeFactors names the top two adjustments by absolute size, in
// application order on ties.
func describeFactors(factors []factor) string {
	if len(factors) == 0 {
		return "even split, no adjustments"
	}
	ranked := make([]factor, len(factors))
	copy(ranked, factors)
	sort.SliceStable(ranked, func(i, j int) bool {
		return math.Abs(ranked[i].delta) > math.Abs(ranked[j].delta)
	})
	if len(ranked) > 2 {
		ranked = ranked[:2]
	}
	parts := make([]string, len(ranked))
	for i, f := range ranked {
		if f.delta == 0 {
			parts[i] = f.reason
		} else {
			parts[i] = fmt.Sprintf("%s (%+.2f)", f.reason, f.delta)
		}
	}
	return strings.Join(parts, ", ")
}

func pct(w float64) int {
	return int(math.Round(w * 100))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
