package matching

import (
	"sort"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"github.com/1di210299/pricing-intelligence-system/pkg/types"
)

const defaultMaxMatches = 50

// indexedRecord pairs a record with its lowercased searchable fields.
type indexedRecord struct {
	record types.InternalRecord
	fields [4]string
}

func (r *indexedRecord) contains(token string) bool {
	for _, f := range r.fields {
		if strings.Contains(f, token) {
			return true
		}
	}
	return false
}

// Engine matches queries against an immutable in-memory view of internal
// sales records. UPC exact matches take precedence; everything else goes
// through token scoring over brand, category, subcategory and department.
type Engine struct {
	logger     *zap.Logger
	maxMatches int
	index      []indexedRecord
	byUPC      map[string][]int
}

// Config holds matching engine configuration.
type Config struct {
	MaxMatches int
	Logger     *zap.Logger
}

// Stats describes the loaded index.
type Stats struct {
	RecordCount int
	UPCIndexed  bool
	Departments int
}

// NewEngine builds the in-memory index. An empty record set is valid; every
// match then returns nil.
func NewEngine(records []types.InternalRecord, cfg Config) *Engine {
	if cfg.MaxMatches <= 0 {
		cfg.MaxMatches = defaultMaxMatches
	}

	e := &Engine{
		logger:     cfg.Logger,
		maxMatches: cfg.MaxMatches,
		index:      make([]indexedRecord, 0, len(records)),
		byUPC:      make(map[string][]int),
	}

	for i, rec := range records {
		e.index = append(e.index, indexedRecord{
			record: rec,
			fields: [4]string{
				strings.ToLower(rec.Brand),
				strings.ToLower(rec.Category),
				strings.ToLower(rec.Subcategory),
				strings.ToLower(rec.Department),
			},
		})
		if rec.UPC != "" {
			e.byUPC[rec.UPC] = append(e.byUPC[rec.UPC], i)
		}
	}

	RecordsLoaded.Set(float64(len(records)))
	e.logger.Info("matching-index-built",
		zap.Int("records", len(records)),
		zap.Int("upc-indexed", len(e.byUPC)),
		zap.Int("max-matches", e.maxMatches))

	return e
}

// Match resolves a query to an internal aggregate. It never fails: no match
// returns a nil aggregate. The second return is the production price of a
// lone unsold matched record, which feeds the rules fallback; it is 0 in
// every other case.
func (e *Engine) Match(query types.Query) (*types.InternalAggregate, float64) {
	start := time.Now()
	defer func() {
		MatchDurationSeconds.Observe(time.Since(start).Seconds())
	}()

	outcome := "upc"
	matched := e.matchUPC(query)
	if len(matched) == 0 {
		outcome = "scored"
		matched = e.matchTokens(query.Canonical)
	}

	if len(matched) == 0 {
		MatchesTotal.WithLabelValues("none").Inc()
		return nil, 0
	}

	if len(matched) > e.maxMatches {
		matched = matched[:e.maxMatches]
	}

	// A single unsold record is not usable history. Surface its production
	// price so the recommendation engine can fall back to a rules price.
	if len(matched) == 1 && matched[0].SoldPrice == nil {
		MatchesTotal.WithLabelValues("fallback").Inc()
		return nil, matched[0].ProductionPrice
	}

	MatchesTotal.WithLabelValues(outcome).Inc()
	MatchedRecords.Observe(float64(len(matched)))

	return aggregate(matched, time.Now()), 0
}

// Stats describes the engine's index for startup logs and the match command.
func (e *Engine) Stats() Stats {
	departments := make(map[string]struct{})
	for i := range e.index {
		departments[e.index[i].fields[3]] = struct{}{}
	}
	return Stats{
		RecordCount: len(e.index),
		UPCIndexed:  len(e.byUPC) > 0,
		Departments: len(departments),
	}
}

func (e *Engine) matchUPC(query types.Query) []types.InternalRecord {
	if !query.IsUPC() || len(e.byUPC) == 0 {
		return nil
	}
	indices := e.byUPC[query.Canonical]
	out := make([]types.InternalRecord, 0, len(indices))
	for _, idx := range indices {
		out = append(out, e.index[idx].record)
	}
	return out
}

func (e *Engine) matchTokens(canonical string) []types.InternalRecord {
	tokens := tokenize(canonical)
	if len(tokens) == 0 {
		return nil
	}

	type hit struct {
		idx   int
		score int
	}
	var hits []hit
	for i := range e.index {
		score := 0
		for _, token := range tokens {
			if e.index[i].contains(token) {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, hit{idx: i, score: score})
		}
	}

	// Rank by score, break ties by most recent sale. The stable sort keeps
	// load order as the final tiebreaker, so results are deterministic.
	sort.SliceStable(hits, func(a, b int) bool {
		if hits[a].score != hits[b].score {
			return hits[a].score > hits[b].score
		}
		return soldAfter(e.index[hits[a].idx].record, e.index[hits[b].idx].record)
	})

	out := make([]types.InternalRecord, 0, len(hits))
	for _, h := range hits {
		out = append(out, e.index[h.idx].record)
	}
	return out
}

// soldAfter reports whether a sold more recently than b. Unsold records rank
// last.
func soldAfter(a, b types.InternalRecord) bool {
	switch {
	case a.SoldDate == nil:
		return false
	case b.SoldDate == nil:
		return true
	default:
		return a.SoldDate.After(*b.SoldDate)
	}
}

// tokenize lowercases the query, splits on whitespace and strips punctuation.
// Tokens are deduplicated so repeated words cannot inflate scores.
func tokenize(s string) []string {
	seen := make(map[string]struct{})
	var tokens []string
	for _, raw := range strings.Fields(strings.ToLower(s)) {
		token := strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return r
			}
			return -1
		}, raw)
		if token == "" {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		tokens = append(tokens, token)
	}
	return tokens
}

func aggregate(records []types.InternalRecord, now time.Time) *types.InternalAggregate {
	var (
		soldPriceSum  float64
		soldCount     int
		productionSum float64
		daysSum       float64
		daysCount     int
		unsoldAgeSum  float64
		unsoldCount   int
	)
	categories := make(map[string]int)
	subcategories := make(map[string]int)
	brands := make(map[string]int)
	departments := make(map[string]int)

	for i := range records {
		rec := &records[i]
		productionSum += rec.ProductionPrice
		categories[rec.Category]++
		subcategories[rec.Subcategory]++
		brands[rec.Brand]++
		departments[rec.Department]++

		if rec.SoldPrice != nil {
			soldPriceSum += *rec.SoldPrice
			soldCount++
		} else {
			unsoldAgeSum += now.Sub(rec.ProductionDate).Hours() / 24
			unsoldCount++
		}
		if rec.DaysToSell != nil {
			daysSum += *rec.DaysToSell
			daysCount++
		}
	}

	n := float64(len(records))
	agg := &types.InternalAggregate{
		MatchedCount:    len(records),
		SellThroughRate: float64(soldCount) / n,
		Category:        modal(categories),
		Subcategory:     modal(subcategories),
		Brand:           modal(brands),
		Department:      modal(departments),
		ProductionPrice: productionSum / n,
	}

	if soldCount > 0 {
		agg.InternalPrice = soldPriceSum / float64(soldCount)
	} else {
		agg.InternalPrice = productionSum / n
	}

	// Shelf time comes from recorded days-to-sell; with no sold history the
	// age of the unsold stock stands in.
	if daysCount > 0 {
		agg.DaysOnShelf = daysSum / float64(daysCount)
	} else if unsoldCount > 0 {
		agg.DaysOnShelf = unsoldAgeSum / float64(unsoldCount)
	}

	return agg
}

// modal picks the most frequent value; ties resolve to the lexicographically
// smallest name so output is deterministic.
func modal(counts map[string]int) string {
	best := ""
	bestCount := -1
	for name, count := range counts {
		if count > bestCount || (count == bestCount && name < best) {
			best = name
			bestCount = count
		}
	}
	return best
}
