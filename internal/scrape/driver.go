package scrape

import "context"

// Card is one raw listing card lifted from the result page before parsing.
type Card struct {
	Title         string `json:"title"`
	PriceText     string `json:"price"`
	ConditionText string `json:"condition"`
	SoldDateText  string `json:"sold_date"`
	URL           string `json:"url"`
}

// PageExtract is the outcome of one navigation: the raw page plus the
// structured cards found under the results root. Locale is a best-effort hint
// (for example "en-US") used to disambiguate decimal separators.
type PageExtract struct {
	RawHTML string
	Cards   []Card
	Locale  string
}

// Driver is the browser automation contract the session manager consumes.
// Open is called once at startup and Close once at shutdown; the session
// guarantees NavigateAndExtract is never invoked concurrently.
type Driver interface {
	Open(ctx context.Context) error
	NavigateAndExtract(ctx context.Context, query string) (*PageExtract, error)
	Close() error
}
