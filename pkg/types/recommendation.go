package types

import "time"

// PredictionMethod identifies which branch of the recommendation engine
// produced the final price.
type PredictionMethod string

const (
	MethodML       PredictionMethod = "ml"
	MethodMarket   PredictionMethod = "market"
	MethodInternal PredictionMethod = "internal"
	MethodRules    PredictionMethod = "rules"
)

// MarketData is the market side of a recommendation, shaped for the wire.
type MarketData struct {
	MedianPrice       float64   `json:"median_price"`
	AveragePrice      float64   `json:"average_price"`
	MinPrice          float64   `json:"min_price"`
	MaxPrice          float64   `json:"max_price"`
	SampleSize        int       `json:"sample_size"`
	SoldListingsCount int       `json:"sold_listings_count"`
	Timestamp         time.Time `json:"timestamp"`
}

// MarketDataFromSample projects a sample onto the wire shape. Returns nil for
// failed or empty scrapes; callers serialize that as JSON null.
func MarketDataFromSample(s *MarketSample) *MarketData {
	if !s.Usable() {
		return nil
	}
	return &MarketData{
		MedianPrice:       s.Median,
		AveragePrice:      s.Mean,
		MinPrice:          s.Min,
		MaxPrice:          s.Max,
		SampleSize:        s.SampleSize,
		SoldListingsCount: s.SoldCount,
		Timestamp:         s.Timestamp,
	}
}

// Recommendation is the final pricing artifact returned to callers and held
// by the request cache.
type Recommendation struct {
	UPC              string             `json:"upc"`
	RecommendedPrice float64            `json:"recommended_price"`
	Weighting        float64            `json:"internal_vs_market_weighting"`
	ConfidenceScore  int                `json:"confidence_score"`
	Rationale        string             `json:"rationale"`
	PredictionMethod PredictionMethod   `json:"prediction_method"`
	MarketData       *MarketData        `json:"market_data"`
	InternalData     *InternalAggregate `json:"internal_data"`
	Warnings         []string           `json:"warnings"`
}
