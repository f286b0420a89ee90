package scrape

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/1di210299/pricing-intelligence-system/pkg/types"
)

const minTitleLength = 5

// placeholderTitles are injected by the marketplace between organic results
// and carry no price signal.
var placeholderTitles = map[string]bool{
	"shop on ebay": true,
}

// parseCard turns one raw card into a Listing. A card survives only if both
// title and price parse; everything else degrades to zero values.
func parseCard(card Card, locale string) (types.Listing, error) {
	title := strings.TrimSpace(card.Title)
	if utf8.RuneCountInString(title) < minTitleLength {
		return types.Listing{}, fmt.Errorf("title too short: %q", title)
	}
	if placeholderTitles[strings.ToLower(title)] {
		return types.Listing{}, fmt.Errorf("placeholder card: %q", title)
	}

	price, currency, err := parsePrice(card.PriceText, locale)
	if err != nil {
		return types.Listing{}, fmt.Errorf("price %q: %w", card.PriceText, err)
	}

	return types.Listing{
		Title:     title,
		Price:     price,
		Currency:  currency,
		Condition: parseCondition(card.ConditionText),
		SoldDate:  parseSoldDate(card.SoldDateText),
		URL:       strings.TrimSpace(card.URL),
	}, nil
}

// currencyMarkers maps leading price-text markers to ISO codes. Longer
// markers are matched first so "US $" wins over "$".
var currencyMarkers = []struct {
	marker string
	code   string
}{
	{"US $", "USD"},
	{"AU $", "AUD"},
	{"C $", "CAD"},
	{"EUR", "EUR"},
	{"GBP", "GBP"},
	{"RM", "MYR"},
	{"€", "EUR"},
	{"£", "GBP"},
	{"$", "USD"},
}

// parsePrice extracts the first numeric token from a price string. Ranges
// ("$12.99 to $15.99") collapse to their lower bound. The locale hint decides
// whether "," or "." is the decimal separator.
func parsePrice(text, locale string) (float64, string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0, "", fmt.Errorf("empty price text")
	}

	currency := "USD"
	for _, m := range currencyMarkers {
		if strings.Contains(trimmed, m.marker) {
			currency = m.code
			break
		}
	}

	token := firstNumericToken(trimmed)
	if token == "" {
		return 0, "", fmt.Errorf("no numeric token")
	}

	normalized := normalizeSeparators(token, commaDecimal(locale))
	price, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, "", fmt.Errorf("parse %q: %w", normalized, err)
	}
	if price < 0 {
		return 0, "", fmt.Errorf("negative price %f", price)
	}

	return price, currency, nil
}

// firstNumericToken returns the first run of digits, commas and dots.
func firstNumericToken(s string) string {
	start := -1
	for i, r := range s {
		isNumeric := (r >= '0' && r <= '9') || r == '.' || r == ','
		if isNumeric && start < 0 {
			start = i
		}
		if !isNumeric && start >= 0 {
			return strings.Trim(s[start:i], ".,")
		}
	}
	if start >= 0 {
		return strings.Trim(s[start:], ".,")
	}
	return ""
}

// commaDecimal reports whether the locale hint implies "," as the decimal
// separator (continental European formats).
func commaDecimal(locale string) bool {
	lang := strings.ToLower(locale)
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	switch lang {
	case "de", "es", "fr", "it", "pt", "nl", "pl", "sv", "da", "fi", "tr":
		return true
	}
	return false
}

// normalizeSeparators rewrites a numeric token into strconv form: thousands
// separators removed, decimal separator as ".".
func normalizeSeparators(token string, commaIsDecimal bool) string {
	if commaIsDecimal {
		token = strings.ReplaceAll(token, ".", "")
		return strings.Replace(token, ",", ".", 1)
	}
	return strings.ReplaceAll(token, ",", "")
}

// parseCondition maps free-text condition fields onto the fixed dictionary.
// Checked most-specific first; anything unmatched is unknown.
func parseCondition(text string) types.Condition {
	lowered := strings.ToLower(text)
	switch {
	case strings.Contains(lowered, "refurbished"):
		return types.ConditionRefurbished
	case strings.Contains(lowered, "new"):
		return types.ConditionNew
	case strings.Contains(lowered, "used"):
		return types.ConditionUsed
	default:
		return types.ConditionUnknown
	}
}

// soldDateLayouts are tried in order against the text that remains after the
// "Sold" prefix is stripped.
var soldDateLayouts = []string{
	"Jan 2, 2006",
	"2 Jan 2006",
	"Jan 2 2006",
	"2006-01-02",
}

// parseSoldDate parses marketplace sold-date labels best-effort. Returns nil
// when nothing matches; an unparseable date never drops the card.
func parseSoldDate(text string) *time.Time {
	cleaned := strings.TrimSpace(text)
	if cleaned == "" {
		return nil
	}
	cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, "Sold"))
	cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, "Item sold"))
	cleaned = strings.Join(strings.Fields(cleaned), " ")

	for _, layout := range soldDateLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return &t
		}
	}
	return nil
}
