package pricing

import (
	"time"

	"github.com/1di210299/pricing-intelligence-system/pkg/types"
)

// CreateTestDecision creates a fully-populated decision for storage tests.
// This is a test helper kept here to avoid import cycles with testutil.
func CreateTestDecision(query string) *Decision {
	return &Decision{
		ID:    "a3a5e1c0-1f2d-4b7e-9c6a-8d4f0b2e7a11",
		Query: query,
		Kind:  types.QueryKindFreeText,
		Recommendation: &types.Recommendation{
			UPC:              query,
			RecommendedPrice: 47.80,
			Weighting:        0.60,
			ConfidenceScore:  70,
			Rationale:        "Weighted 60% internal / 40% market; dominant factors: high sell-through (+0.20), deep market sample (-0.10).",
			PredictionMethod: types.MethodInternal,
			MarketData: &types.MarketData{
				MedianPrice:       52.00,
				AveragePrice:      51.20,
				MinPrice:          40.00,
				MaxPrice:          60.00,
				SampleSize:        15,
				SoldListingsCount: 15,
				Timestamp:         time.Date(2025, time.October, 1, 12, 0, 0, 0, time.UTC),
			},
			InternalData: &types.InternalAggregate{
				MatchedCount:    12,
				InternalPrice:   45.00,
				SellThroughRate: 0.85,
				DaysOnShelf:     25,
				Category:        "Shoes",
			},
			Warnings: []string{},
		},
		Cached:    false,
		CreatedAt: time.Date(2025, time.October, 1, 12, 0, 0, 0, time.UTC),
	}
}
