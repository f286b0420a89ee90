package types

import "time"

// InternalRecord is one row of historical sales data. Records are loaded once
// at process start and never mutated.
type InternalRecord struct {
	ItemID          string
	UPC             string // optional column; empty when the source has none
	Department      string
	Category        string
	Subcategory     string
	Brand           string
	ProductionDate  time.Time
	SoldDate        *time.Time
	DaysToSell      *float64
	ProductionPrice float64
	SoldPrice       *float64
}

// Sold reports whether the record was sold (non-null sold price).
func (r *InternalRecord) Sold() bool {
	return r.SoldPrice != nil
}

// InternalAggregate is the outcome of matching a query against internal
// records. Nil when nothing matched. The unserialized fields (mean production
// price and the modal subcategory, brand and department) feed the ML feature
// vector only.
type InternalAggregate struct {
	MatchedCount    int     `json:"matched_count"`
	InternalPrice   float64 `json:"internal_price"`
	SellThroughRate float64 `json:"sell_through_rate"`
	DaysOnShelf     float64 `json:"days_on_shelf"`
	Category        string  `json:"category"`

	ProductionPrice float64 `json:"-"`
	Subcategory     string  `json:"-"`
	Brand           string  `json:"-"`
	Department      string  `json:"-"`
}

// Usable reports whether the aggregate carries a price the recommendation
// engine can blend against.
func (a *InternalAggregate) Usable() bool {
	return a != nil && a.InternalPrice > 0
}
