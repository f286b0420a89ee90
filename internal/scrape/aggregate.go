package scrape

import (
	"math"
	"sort"
	"time"

	"github.com/1di210299/pricing-intelligence-system/pkg/types"
)

// Outlier window around the unfiltered median: prices outside
// [0.25×median, 4×median] are discarded before stats are computed.
const (
	outlierLowerFactor = 0.25
	outlierUpperFactor = 4.0
)

const lowConfidenceThreshold = 5

// Aggregate computes sample statistics from parsed listings. The raw median
// is computed first, listings priced outside the filter window are discarded,
// and all stats (median included) are recomputed over the survivors.
func Aggregate(query string, listings []types.Listing, now time.Time) *types.MarketSample {
	sample := &types.MarketSample{
		Query:     query,
		Status:    types.SampleEmpty,
		Timestamp: now.UTC(),
	}
	if len(listings) == 0 {
		return sample
	}

	rawPrices := make([]float64, 0, len(listings))
	for _, l := range listings {
		rawPrices = append(rawPrices, l.Price)
	}
	rawMedian := median(rawPrices)

	lower := outlierLowerFactor * rawMedian
	upper := outlierUpperFactor * rawMedian
	kept := make([]types.Listing, 0, len(listings))
	for _, l := range listings {
		if l.Price >= lower && l.Price <= upper {
			kept = append(kept, l)
		}
	}
	if len(kept) == 0 {
		return sample
	}

	prices := make([]float64, 0, len(kept))
	soldCount := 0
	for _, l := range kept {
		prices = append(prices, l.Price)
		if l.Sold() {
			soldCount++
		}
	}

	sample.Status = types.SampleOK
	sample.Listings = kept
	sample.Median = median(prices)
	sample.Mean = mean(prices)
	sample.Min = minOf(prices)
	sample.Max = maxOf(prices)
	sample.StdDev = stdDev(prices)
	sample.SampleSize = len(prices)
	sample.SoldCount = soldCount
	sample.LowConfidence = sample.SampleSize < lowConfidenceThreshold

	return sample
}

// median returns the middle value of the set, or the mean of the two middle
// values for even counts. The input is not mutated.
func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func minOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// stdDev is the population standard deviation of the filtered prices.
func stdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mu := mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - mu
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}
