package types

import "time"

// SampleStatus discriminates a successful scrape, an empty-but-successful
// scrape, and a failed one.
type SampleStatus string

const (
	SampleOK    SampleStatus = "ok"
	SampleEmpty SampleStatus = "empty"
	SampleError SampleStatus = "error"
)

// MarketSample is the outcome of scraping one query: the surviving listings
// plus stats computed after outlier filtering. Serializable so it can live in
// an external cache backend.
type MarketSample struct {
	Query         string       `json:"query"`
	Listings      []Listing    `json:"listings,omitempty"`
	Median        float64      `json:"median"`
	Mean          float64      `json:"mean"`
	Min           float64      `json:"min"`
	Max           float64      `json:"max"`
	StdDev        float64      `json:"std_dev"`
	SampleSize    int          `json:"sample_size"`
	SoldCount     int          `json:"sold_count"`
	Timestamp     time.Time    `json:"timestamp"`
	Status        SampleStatus `json:"status"`
	LowConfidence bool         `json:"low_confidence"`
	Warning       string       `json:"warning,omitempty"`
}

// Usable reports whether the sample carries stats the recommendation engine
// can blend against.
func (s *MarketSample) Usable() bool {
	return s != nil && s.Status == SampleOK && s.SampleSize > 0
}

// ErrorSample builds the degraded sample emitted when a fetch fails.
func ErrorSample(query, warning string) *MarketSample {
	return &MarketSample{
		Query:     query,
		Status:    SampleError,
		Timestamp: time.Now().UTC(),
		Warning:   warning,
	}
}
