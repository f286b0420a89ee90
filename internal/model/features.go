package model

import (
	"strings"

	"github.com/1di210299/pricing-intelligence-system/pkg/types"
)

// buildVector assembles the fixed-order feature vector. Categorical values
// outside the artifact's vocabulary map to the unknown bucket; numerics with
// no runtime value are filled with the bundled training means.
func buildVector(meta *Metadata, internal *types.InternalAggregate, market *types.MarketSample) []float64 {
	features := make([]float64, len(FeatureOrder))

	features[0] = categoricalID(meta, "category", internalField(internal, func(a *types.InternalAggregate) string { return a.Category }))
	features[1] = categoricalID(meta, "subcategory", internalField(internal, func(a *types.InternalAggregate) string { return a.Subcategory }))
	features[2] = categoricalID(meta, "brand", internalField(internal, func(a *types.InternalAggregate) string { return a.Brand }))
	features[3] = categoricalID(meta, "department", internalField(internal, func(a *types.InternalAggregate) string { return a.Department }))

	if internal != nil && internal.ProductionPrice > 0 {
		features[4] = internal.ProductionPrice
	} else {
		features[4] = meta.TrainingMeans["production_price"]
	}
	if internal != nil && internal.DaysOnShelf > 0 {
		features[5] = internal.DaysOnShelf
	} else {
		features[5] = meta.TrainingMeans["days_on_shelf"]
	}

	if market.Usable() {
		features[6] = market.Median
		features[7] = float64(market.SampleSize)
		features[8] = market.StdDev
	} else {
		features[6] = meta.TrainingMeans["market_median"]
		features[7] = meta.TrainingMeans["market_sample_size"]
		features[8] = meta.TrainingMeans["market_std"]
	}

	return features
}

func internalField(internal *types.InternalAggregate, get func(*types.InternalAggregate) string) string {
	if internal == nil {
		return ""
	}
	return get(internal)
}

func categoricalID(meta *Metadata, vocabulary, value string) float64 {
	if value == "" {
		return meta.UnknownBucket()
	}
	if id, ok := meta.Vocabularies[vocabulary][strings.ToLower(value)]; ok {
		return id
	}
	return meta.UnknownBucket()
}
