package types

import (
	"errors"
	"fmt"
)

// Error kinds for the pricing pipeline. The HTTP layer maps these to status
// codes; ScrapeFailure and ModelUnavailable are recovered inside the pipeline
// and normally reach callers only as warnings.
var (
	ErrInvalidQuery      = errors.New("invalid query")
	ErrScrapeFailure     = errors.New("scrape failure")
	ErrDataSourceFailure = errors.New("internal data source failure")
	ErrModelUnavailable  = errors.New("model unavailable")
	ErrInternal          = errors.New("internal error")
)

// InvalidQueryError reports which request field failed validation.
type InvalidQueryError struct {
	Field  string
	Reason string
}

func (e *InvalidQueryError) Error() string {
	return fmt.Sprintf("invalid query: field %q %s", e.Field, e.Reason)
}

// Unwrap ties the error to ErrInvalidQuery for errors.Is checks.
func (e *InvalidQueryError) Unwrap() error { return ErrInvalidQuery }
