package model

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-resty/resty/v2"
	json "github.com/goccy/go-json"

	"github.com/1di210299/pricing-intelligence-system/pkg/types"
)

// ArtifactFormat is the only serialization this loader understands.
const ArtifactFormat = "gbm-trees-v1"

// FeatureOrder is the fixed feature vector layout the artifact must declare.
// The first four are categorical ids, the rest numeric.
var FeatureOrder = []string{
	"category_id",
	"subcategory_id",
	"brand_id",
	"department_id",
	"production_price",
	"days_on_shelf",
	"market_median",
	"market_sample_size",
	"market_std",
}

var categoricalFeatures = []string{"category", "subcategory", "brand", "department"}

var numericFeatures = []string{
	"production_price", "days_on_shelf", "market_median",
	"market_sample_size", "market_std",
}

// Metadata carries the training-time constants bundled with the trees.
type Metadata struct {
	FeatureOrder   []string                      `json:"feature_order"`
	Vocabularies   map[string]map[string]float64 `json:"vocabularies"`
	TrainingMeans  map[string]float64            `json:"training_means"`
	UnknownID      *float64                      `json:"unknown_id,omitempty"`
	BasePrediction float64                       `json:"base_prediction"`
}

// Artifact is a serialized gradient-boosted tree ensemble.
type Artifact struct {
	Format   string   `json:"format"`
	Metadata Metadata `json:"metadata"`
	Trees    []*Node  `json:"trees"`
}

// LoadArtifact reads and validates a model artifact. The path may be a local
// file or an http(s) URL fetched through the given client. Every failure is
// wrapped in ErrModelUnavailable so callers can degrade instead of aborting.
func LoadArtifact(path string, client *resty.Client) (*Artifact, error) {
	raw, err := readArtifact(path, client)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrModelUnavailable, err)
	}

	var artifact Artifact
	if err := json.Unmarshal(raw, &artifact); err != nil {
		return nil, fmt.Errorf("%w: parse artifact: %v", types.ErrModelUnavailable, err)
	}

	if err := artifact.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrModelUnavailable, err)
	}
	return &artifact, nil
}

func readArtifact(path string, client *resty.Client) ([]byte, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		resp, err := client.R().Get(path)
		if err != nil {
			return nil, fmt.Errorf("fetch artifact: %w", err)
		}
		if resp.IsError() {
			return nil, fmt.Errorf("fetch artifact: status %d", resp.StatusCode())
		}
		return resp.Body(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	return raw, nil
}

// Validate checks the artifact is complete: right format, the exact feature
// order, a vocabulary per categorical feature, a training mean per numeric
// feature, and structurally sound trees.
func (a *Artifact) Validate() error {
	if a.Format != ArtifactFormat {
		return fmt.Errorf("unsupported artifact format %q", a.Format)
	}
	if len(a.Trees) == 0 {
		return fmt.Errorf("artifact has no trees")
	}

	if len(a.Metadata.FeatureOrder) != len(FeatureOrder) {
		return fmt.Errorf("artifact declares %d features, want %d",
			len(a.Metadata.FeatureOrder), len(FeatureOrder))
	}
	for i, name := range FeatureOrder {
		if a.Metadata.FeatureOrder[i] != name {
			return fmt.Errorf("feature %d is %q, want %q", i, a.Metadata.FeatureOrder[i], name)
		}
	}

	for _, name := range categoricalFeatures {
		if len(a.Metadata.Vocabularies[name]) == 0 {
			return fmt.Errorf("missing vocabulary for %q", name)
		}
	}
	for _, name := range numericFeatures {
		if _, ok := a.Metadata.TrainingMeans[name]; !ok {
			return fmt.Errorf("missing training mean for %q", name)
		}
	}

	for i, tree := range a.Trees {
		if err := tree.validate(len(FeatureOrder)); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}

// UnknownBucket is the categorical id used for values outside a vocabulary.
func (m *Metadata) UnknownBucket() float64 {
	if m.UnknownID != nil {
		return *m.UnknownID
	}
	return -1
}
