package matching

import (
	"math"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/1di210299/pricing-intelligence-system/pkg/types"
)

func f64(v float64) *float64 { return &v }

func date(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func soldRec(brand, category, subcategory string, price, days float64, soldDate *time.Time) types.InternalRecord {
	return types.InternalRecord{
		ItemID:          brand + "-" + subcategory,
		Brand:           brand,
		Category:        category,
		Subcategory:     subcategory,
		Department:      "Mens",
		ProductionDate:  time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC),
		SoldDate:        soldDate,
		DaysToSell:      &days,
		ProductionPrice: price * 0.6,
		SoldPrice:       &price,
	}
}

func unsoldRec(brand, category, subcategory string, productionPrice float64) types.InternalRecord {
	return types.InternalRecord{
		ItemID:          brand + "-" + subcategory,
		Brand:           brand,
		Category:        category,
		Subcategory:     subcategory,
		Department:      "Mens",
		ProductionDate:  time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC),
		ProductionPrice: productionPrice,
	}
}

func newTestEngine(records []types.InternalRecord, maxMatches int) *Engine {
	return NewEngine(records, Config{MaxMatches: maxMatches, Logger: zap.NewNop()})
}

func freeText(q string) types.Query {
	return types.Query{Kind: types.QueryKindFreeText, Canonical: q, Raw: q}
}

func TestMatchByUPC(t *testing.T) {
	r1 := soldRec("Nike", "Shoes", "Sneakers", 60, 10, date(2025, time.July, 1))
	r1.UPC = "012345678905"
	r2 := soldRec("Nike", "Shoes", "Sneakers", 40, 20, date(2025, time.June, 1))
	r2.UPC = "012345678905"
	other := soldRec("Adidas", "Shoes", "Sneakers", 90, 5, date(2025, time.July, 2))

	engine := newTestEngine([]types.InternalRecord{r1, r2, other}, 0)

	agg, fallback := engine.Match(types.Query{Kind: types.QueryKindUPC, Canonical: "012345678905"})
	if agg == nil {
		t.Fatal("Match returned nil aggregate for an indexed UPC")
	}
	if fallback != 0 {
		t.Errorf("fallback = %f, want 0", fallback)
	}
	if agg.MatchedCount != 2 {
		t.Errorf("MatchedCount = %d, want 2", agg.MatchedCount)
	}
	if agg.InternalPrice != 50 {
		t.Errorf("InternalPrice = %f, want 50", agg.InternalPrice)
	}
}

func TestMatchTokenScoring(t *testing.T) {
	records := []types.InternalRecord{
		soldRec("Nike", "Shoes", "Sneakers", 60, 10, date(2025, time.July, 1)),
		soldRec("Adidas", "Shoes", "Sneakers", 50, 20, date(2025, time.June, 1)),
		unsoldRec("Nike", "Boots", "Hiking", 20),
		soldRec("Levi", "Jeans", "Slim", 35, 30, date(2025, time.May, 1)),
	}
	engine := newTestEngine(records, 0)

	agg, _ := engine.Match(freeText("Nike Sneakers"))
	if agg == nil {
		t.Fatal("Match returned nil aggregate")
	}
	if agg.MatchedCount != 3 {
		t.Errorf("MatchedCount = %d, want 3 (Levi excluded at score 0)", agg.MatchedCount)
	}
	if agg.InternalPrice != 55 {
		t.Errorf("InternalPrice = %f, want 55 (mean of sold prices)", agg.InternalPrice)
	}
	if want := 2.0 / 3.0; math.Abs(agg.SellThroughRate-want) > 1e-9 {
		t.Errorf("SellThroughRate = %f, want %f", agg.SellThroughRate, want)
	}
	if agg.DaysOnShelf != 15 {
		t.Errorf("DaysOnShelf = %f, want 15", agg.DaysOnShelf)
	}
	if agg.Category != "Shoes" {
		t.Errorf("Category = %q, want Shoes", agg.Category)
	}
	if agg.Brand != "Nike" || agg.Department != "Mens" {
		t.Errorf("modal Brand/Department = %q/%q, want Nike/Mens", agg.Brand, agg.Department)
	}
}

func TestMatchRanksByScoreThenRecency(t *testing.T) {
	records := []types.InternalRecord{
		soldRec("Saucony", "Shoes", "Sneakers", 30, 12, date(2025, time.May, 1)),
		soldRec("Brooks", "Shoes", "Sneakers", 40, 12, date(2025, time.August, 1)),
	}
	engine := newTestEngine(records, 1)

	agg, _ := engine.Match(freeText("sneakers"))
	if agg == nil {
		t.Fatal("Match returned nil aggregate")
	}
	if agg.MatchedCount != 1 {
		t.Fatalf("MatchedCount = %d, want 1", agg.MatchedCount)
	}
	if agg.InternalPrice != 40 {
		t.Errorf("InternalPrice = %f, want 40 (most recent sale wins the tie)", agg.InternalPrice)
	}
}

func TestMatchScoreBeatsRecency(t *testing.T) {
	records := []types.InternalRecord{
		// Scores 2 but sold long ago.
		soldRec("Nike", "Shoes", "Sneakers", 60, 10, date(2025, time.January, 1)),
		// Scores 1 but sold yesterday.
		soldRec("Adidas", "Shoes", "Sneakers", 50, 5, date(2025, time.August, 20)),
	}
	engine := newTestEngine(records, 1)

	agg, _ := engine.Match(freeText("nike sneakers"))
	if agg == nil {
		t.Fatal("Match returned nil aggregate")
	}
	if agg.InternalPrice != 60 {
		t.Errorf("InternalPrice = %f, want 60 (higher score outranks recency)", agg.InternalPrice)
	}
}

func TestMatchNoRecords(t *testing.T) {
	engine := newTestEngine([]types.InternalRecord{
		soldRec("Nike", "Shoes", "Sneakers", 60, 10, date(2025, time.July, 1)),
	}, 0)

	agg, fallback := engine.Match(freeText("quantum flux capacitor"))
	if agg != nil {
		t.Errorf("Match = %+v, want nil", agg)
	}
	if fallback != 0 {
		t.Errorf("fallback = %f, want 0", fallback)
	}

	empty := newTestEngine(nil, 0)
	if agg, _ := empty.Match(freeText("nike")); agg != nil {
		t.Errorf("empty engine Match = %+v, want nil", agg)
	}
}

func TestMatchSingleUnsoldRecordFallback(t *testing.T) {
	engine := newTestEngine([]types.InternalRecord{
		unsoldRec("Obscure", "Shoes", "Sneakers", 20),
	}, 0)

	agg, fallback := engine.Match(freeText("obscure"))
	if agg != nil {
		t.Errorf("Match = %+v, want nil for a lone unsold record", agg)
	}
	if fallback != 20 {
		t.Errorf("fallback = %f, want 20", fallback)
	}
}

func TestMatchCapsAtMaxMatches(t *testing.T) {
	var records []types.InternalRecord
	for i := 0; i < 8; i++ {
		records = append(records, soldRec("Nike", "Shoes", "Sneakers", float64(40+i), 10, date(2025, time.July, i+1)))
	}
	engine := newTestEngine(records, 5)

	agg, _ := engine.Match(freeText("nike"))
	if agg == nil {
		t.Fatal("Match returned nil aggregate")
	}
	if agg.MatchedCount != 5 {
		t.Errorf("MatchedCount = %d, want 5", agg.MatchedCount)
	}
}

func TestAggregateUnsoldFallbacks(t *testing.T) {
	records := []types.InternalRecord{
		unsoldRec("Obscure", "Shoes", "Sneakers", 20),
		unsoldRec("Obscure", "Shoes", "Boots", 40),
	}
	engine := newTestEngine(records, 0)

	agg, _ := engine.Match(freeText("obscure"))
	if agg == nil {
		t.Fatal("Match returned nil aggregate")
	}
	if agg.InternalPrice != 30 {
		t.Errorf("InternalPrice = %f, want 30 (mean production price)", agg.InternalPrice)
	}
	if agg.SellThroughRate != 0 {
		t.Errorf("SellThroughRate = %f, want 0", agg.SellThroughRate)
	}

	wantDays := time.Since(records[0].ProductionDate).Hours() / 24
	if math.Abs(agg.DaysOnShelf-wantDays) > 0.01 {
		t.Errorf("DaysOnShelf = %f, want about %f (age of unsold stock)", agg.DaysOnShelf, wantDays)
	}
}

func TestModalTie(t *testing.T) {
	counts := map[string]int{"Shoes": 1, "Boots": 1}
	if got := modal(counts); got != "Boots" {
		t.Errorf("modal = %q, want Boots (lexicographic tiebreak)", got)
	}
	counts = map[string]int{"Shoes": 3, "Boots": 1}
	if got := modal(counts); got != "Shoes" {
		t.Errorf("modal = %q, want Shoes", got)
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Nike Sneakers", []string{"nike", "sneakers"}},
		{"nike, sneakers!!", []string{"nike", "sneakers"}},
		{"nike nike NIKE", []string{"nike"}},
		{"  ", nil},
		{"---", nil},
	}
	for _, tt := range tests {
		if got := tokenize(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("tokenize(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestStats(t *testing.T) {
	r1 := soldRec("Nike", "Shoes", "Sneakers", 60, 10, date(2025, time.July, 1))
	r1.UPC = "012345678905"
	r2 := types.InternalRecord{
		ItemID:          "w-1",
		Brand:           "Gap",
		Category:        "Tops",
		Subcategory:     "T-Shirt",
		Department:      "Womens",
		ProductionDate:  time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC),
		ProductionPrice: 8,
	}
	engine := newTestEngine([]types.InternalRecord{r1, r2}, 0)

	stats := engine.Stats()
	if stats.RecordCount != 2 {
		t.Errorf("RecordCount = %d, want 2", stats.RecordCount)
	}
	if !stats.UPCIndexed {
		t.Error("UPCIndexed = false, want true")
	}
	if stats.Departments != 2 {
		t.Errorf("Departments = %d, want 2", stats.Departments)
	}
}
