package model

import (
	"reflect"
	"testing"
	"time"

	"github.com/1di210299/pricing-intelligence-system/pkg/types"
)

func usableSample(median float64, size int, std float64) *types.MarketSample {
	return &types.MarketSample{
		Query:      "q",
		Median:     median,
		SampleSize: size,
		StdDev:     std,
		Status:     types.SampleOK,
		Timestamp:  time.Now(),
	}
}

func TestBuildVectorFullInputs(t *testing.T) {
	meta := &testArtifact().Metadata

	internal := &types.InternalAggregate{
		MatchedCount:    12,
		InternalPrice:   45,
		SellThroughRate: 0.8,
		DaysOnShelf:     25,
		Category:        "Shoes",
		Subcategory:     "Sneakers",
		Brand:           "Nike",
		Department:      "Mens",
		ProductionPrice: 28,
	}
	market := usableSample(52, 15, 6)

	got := buildVector(meta, internal, market)
	want := []float64{0, 0, 0, 0, 28, 25, 52, 15, 6}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("buildVector = %v, want %v", got, want)
	}
}

func TestBuildVectorUnknownCategoricals(t *testing.T) {
	meta := &testArtifact().Metadata

	internal := &types.InternalAggregate{
		MatchedCount:    3,
		InternalPrice:   45,
		DaysOnShelf:     25,
		Category:        "Couture",
		Subcategory:     "Avant-garde",
		Brand:           "Maison Margiela",
		Department:      "Atelier",
		ProductionPrice: 28,
	}

	got := buildVector(meta, internal, usableSample(52, 15, 6))
	for i := 0; i < 4; i++ {
		if got[i] != meta.UnknownBucket() {
			t.Errorf("feature %d = %f, want unknown bucket %f", i, got[i], meta.UnknownBucket())
		}
	}
}

func TestBuildVectorFillsTrainingMeans(t *testing.T) {
	meta := &testArtifact().Metadata

	got := buildVector(meta, nil, types.ErrorSample("q", "scrape failure"))
	want := []float64{
		meta.UnknownBucket(), meta.UnknownBucket(), meta.UnknownBucket(), meta.UnknownBucket(),
		meta.TrainingMeans["production_price"],
		meta.TrainingMeans["days_on_shelf"],
		meta.TrainingMeans["market_median"],
		meta.TrainingMeans["market_sample_size"],
		meta.TrainingMeans["market_std"],
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("buildVector = %v, want %v", got, want)
	}
}

func TestBuildVectorCaseInsensitiveLookup(t *testing.T) {
	meta := &testArtifact().Metadata

	internal := &types.InternalAggregate{
		Category:    "SHOES",
		Subcategory: "sneakers",
		Brand:       "NIKE",
		Department:  "Mens",
	}

	got := buildVector(meta, internal, usableSample(52, 15, 6))
	for i := 0; i < 4; i++ {
		if got[i] == meta.UnknownBucket() {
			t.Errorf("feature %d fell into the unknown bucket for a known value", i)
		}
	}
}
