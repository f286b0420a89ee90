package testutil

import (
	"time"

	"github.com/1di210299/pricing-intelligence-system/internal/scrape"
	"github.com/1di210299/pricing-intelligence-system/pkg/types"
)

// CreateTestListing creates a sold listing at the given price.
func CreateTestListing(title string, price float64) types.Listing {
	sold := time.Date(2025, time.September, 15, 0, 0, 0, 0, time.UTC)
	return types.Listing{
		Title:     title,
		Price:     price,
		Currency:  "USD",
		Condition: types.ConditionUsed,
		SoldDate:  &sold,
		URL:       "https://www.ebay.com/itm/test",
	}
}

// CreateTestListings creates one sold listing per price.
func CreateTestListings(prices ...float64) []types.Listing {
	out := make([]types.Listing, 0, len(prices))
	for _, p := range prices {
		out = append(out, CreateTestListing("Nike Air Max 90 White Size 10", p))
	}
	return out
}

// CreateTestCards creates one extractable result card per price.
func CreateTestCards(prices ...string) []scrape.Card {
	out := make([]scrape.Card, 0, len(prices))
	for _, p := range prices {
		out = append(out, scrape.Card{
			Title:         "Nike Air Max 90 White Size 10",
			PriceText:     p,
			ConditionText: "Pre-owned",
			SoldDateText:  "Sold Sep 15, 2025",
			URL:           "https://www.ebay.com/itm/test",
		})
	}
	return out
}

// CreateTestSample creates a usable market sample built from the given prices.
func CreateTestSample(query string, prices ...float64) *types.MarketSample {
	return scrape.Aggregate(query, CreateTestListings(prices...), time.Date(2025, time.October, 1, 12, 0, 0, 0, time.UTC))
}

// CreateTestRecord creates a sold inventory record for the given item.
func CreateTestRecord(itemID string, upc string, soldPrice float64) types.InternalRecord {
	produced := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	sold := produced.AddDate(0, 0, 21)
	days := 21.0
	return types.InternalRecord{
		ItemID:          itemID,
		UPC:             upc,
		Department:      "Footwear",
		Category:        "Sneakers",
		Subcategory:     "Running",
		Brand:           "Nike",
		ProductionDate:  produced,
		SoldDate:        &sold,
		DaysToSell:      &days,
		ProductionPrice: soldPrice * 0.6,
		SoldPrice:       &soldPrice,
	}
}

// CreateTestUnsoldRecord creates an inventory record that has not sold yet.
func CreateTestUnsoldRecord(itemID string, upc string, productionPrice float64) types.InternalRecord {
	produced := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	return types.InternalRecord{
		ItemID:          itemID,
		UPC:             upc,
		Department:      "Footwear",
		Category:        "Sneakers",
		Subcategory:     "Running",
		Brand:           "Nike",
		ProductionDate:  produced,
		ProductionPrice: productionPrice,
	}
}
