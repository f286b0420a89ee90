// Package upc classifies raw pricing queries as checksum-valid UPC codes or
// free-text descriptors.
package upc

import (
	"fmt"
	"strings"

	"github.com/1di210299/pricing-intelligence-system/pkg/types"
)

// Classify canonicalizes a raw query string. Whitespace and dashes are
// stripped before digit inspection; 12 digits are validated as UPC-A and
// 8 digits as UPC-E. A digit string that fails its checksum is treated as
// free text rather than rejected, so near-miss barcodes still flow through
// the keyword pipeline. Only an empty input is an error.
func Classify(raw string) (types.Query, error) {
	if strings.TrimSpace(raw) == "" {
		return types.Query{}, &types.InvalidQueryError{Field: "upc", Reason: "must not be empty"}
	}

	stripped := stripSeparators(raw)
	if isDigits(stripped) {
		switch len(stripped) {
		case 12:
			if ValidUPCA(stripped) {
				return types.Query{Kind: types.QueryKindUPC, Canonical: stripped, Raw: raw}, nil
			}
		case 8:
			if ValidUPCE(stripped) {
				return types.Query{Kind: types.QueryKindUPC, Canonical: stripped, Raw: raw}, nil
			}
		}
	}

	return types.Query{
		Kind:      types.QueryKindFreeText,
		Canonical: collapseWhitespace(raw),
		Raw:       raw,
	}, nil
}

// ValidUPCA verifies the UPC-A checksum over a 12-digit string: positions are
// 1-indexed from the left, odd positions weigh 3, even positions weigh 1, and
// the weighted sum must be divisible by 10.
func ValidUPCA(digits string) bool {
	return len(digits) == 12 && isDigits(digits) && weightedSum(digits)%10 == 0
}

// ValidUPCE applies the same modular rule directly to 8 digits. This mirrors
// the historical behavior of the pricing pipeline; it is not the canonical
// UPC-E to UPC-A expansion check.
func ValidUPCE(digits string) bool {
	return len(digits) == 8 && isDigits(digits) && weightedSum(digits)%10 == 0
}

// CheckDigit computes the check digit for an 11-digit UPC-A or 7-digit UPC-E
// prefix.
func CheckDigit(prefix string) (int, error) {
	if !isDigits(prefix) || (len(prefix) != 11 && len(prefix) != 7) {
		return 0, fmt.Errorf("check digit: want 11 or 7 digits, got %q", prefix)
	}
	return (10 - weightedSum(prefix)%10) % 10, nil
}

// weightedSum multiplies digits at odd 1-indexed positions by 3 and sums.
func weightedSum(digits string) int {
	sum := 0
	for i, r := range digits {
		d := int(r - '0')
		if i%2 == 0 {
			sum += 3 * d
		} else {
			sum += d
		}
	}
	return sum
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func stripSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', '-':
			return -1
		}
		return r
	}, s)
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
