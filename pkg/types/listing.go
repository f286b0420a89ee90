package types

import "time"

// Condition is the normalized condition of a scraped listing.
type Condition string

const (
	ConditionNew         Condition = "new"
	ConditionUsed        Condition = "used"
	ConditionRefurbished Condition = "refurbished"
	ConditionUnknown     Condition = "unknown"
)

// Listing is one scraped marketplace entry. Immutable once parsed.
type Listing struct {
	Title     string     `json:"title"`
	Price     float64    `json:"price"`
	Currency  string     `json:"currency"`
	Condition Condition  `json:"condition"`
	SoldDate  *time.Time `json:"sold_date,omitempty"`
	URL       string     `json:"url"`
}

// Sold reports whether the listing carries a parsed sold date.
func (l *Listing) Sold() bool {
	return l.SoldDate != nil
}
