package types

// QueryKind classifies a raw pricing query.
type QueryKind string

const (
	QueryKindUPC      QueryKind = "upc"
	QueryKindFreeText QueryKind = "freetext"
)

// Query is a classified pricing query. Canonical is the digit string for UPC
// inputs and the whitespace-collapsed text for free-text inputs.
type Query struct {
	Kind      QueryKind
	Canonical string
	Raw       string
}

// IsUPC reports whether the query was classified as a checksum-valid UPC.
func (q Query) IsUPC() bool {
	return q.Kind == QueryKindUPC
}
