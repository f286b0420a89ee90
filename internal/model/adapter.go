package model

import (
	"math"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/1di210299/pricing-intelligence-system/pkg/types"
)

// Prediction is the adapter's verdict for one query. Degraded means a model
// was configured but cannot serve, which is worth a warning downstream;
// Available=false with Degraded=false just means no model is wired in.
type Prediction struct {
	Price      float64
	Available  bool
	Confidence float64
	Degraded   bool
}

// Config holds model adapter configuration.
type Config struct {
	Path   string
	Client *resty.Client
	Logger *zap.Logger
}

// Adapter wraps the loaded artifact behind the predict call the orchestrator
// uses. It is safe for concurrent use; the artifact is immutable after load.
type Adapter struct {
	artifact   *Artifact
	configured bool
	logger     *zap.Logger
}

// New loads the configured artifact. Load failures degrade the adapter
// rather than failing startup: every Predict then reports Available=false.
func New(cfg Config) *Adapter {
	a := &Adapter{
		configured: cfg.Path != "",
		logger:     cfg.Logger,
	}

	if !a.configured {
		cfg.Logger.Info("model-not-configured")
		ArtifactLoaded.Set(0)
		return a
	}

	artifact, err := LoadArtifact(cfg.Path, cfg.Client)
	if err != nil {
		cfg.Logger.Warn("model-artifact-load-failed",
			zap.String("path", cfg.Path),
			zap.Error(err))
		ArtifactLoaded.Set(0)
		return a
	}

	a.artifact = artifact
	ArtifactLoaded.Set(1)
	cfg.Logger.Info("model-artifact-loaded",
		zap.String("path", cfg.Path),
		zap.Int("trees", len(artifact.Trees)))

	return a
}

// Available reports whether the artifact is loaded and ready to predict.
func (a *Adapter) Available() bool {
	return a.artifact != nil
}

// Predict runs the ensemble over the feature vector built from the match
// aggregate and the market sample. Missing inputs are filled from the
// artifact's training means, so a loaded model always yields a price.
func (a *Adapter) Predict(internal *types.InternalAggregate, market *types.MarketSample) Prediction {
	start := time.Now()
	defer func() {
		PredictionDurationSeconds.Observe(time.Since(start).Seconds())
	}()

	if a.artifact == nil {
		PredictionsTotal.WithLabelValues("unavailable").Inc()
		return Prediction{Degraded: a.configured}
	}

	features := buildVector(&a.artifact.Metadata, internal, market)
	price := a.artifact.Predict(features)
	if price < 0 {
		price = 0
	}
	confidence := dataConfidence(internal, market)

	PredictionsTotal.WithLabelValues("ok").Inc()
	a.logger.Debug("model-prediction",
		zap.Float64("price", price),
		zap.Float64("confidence", confidence))

	return Prediction{
		Price:      price,
		Available:  true,
		Confidence: confidence,
	}
}

// dataConfidence scores how much the inputs can be trusted: up to 0.45 per
// source with diminishing returns on sample size, damped for volatile
// markets and extreme sell-through rates, plus 0.10 when both sources are
// present. Never claims full certainty.
func dataConfidence(internal *types.InternalAggregate, market *types.MarketSample) float64 {
	confidence := 0.0

	if market.Usable() {
		marketConf := 0.45 * (1 - math.Exp(-float64(market.SampleSize)/15.0))
		if market.Median > 0 {
			cv := market.StdDev / market.Median
			if cv > 0.5 {
				marketConf *= 0.7
			} else if cv > 0.3 {
				marketConf *= 0.85
			}
		}
		confidence += marketConf
	}

	if internal != nil {
		internalConf := 0.45 * (1 - math.Exp(-float64(internal.MatchedCount)/50.0))
		if internal.SellThroughRate > 0.8 || internal.SellThroughRate < 0.2 {
			internalConf *= 0.9
		}
		confidence += internalConf
	}

	if market.Usable() && internal != nil {
		confidence += 0.10
	}

	return math.Min(confidence, 0.95)
}
