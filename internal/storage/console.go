package storage

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/1di210299/pricing-intelligence-system/internal/pricing"
)

const rule = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

// ConsoleStorage implements Storage by pretty-printing to console.
type ConsoleStorage struct {
	logger *zap.Logger
}

// NewConsoleStorage creates a new console storage.
func NewConsoleStorage(logger *zap.Logger) *ConsoleStorage {
	logger.Info("console-storage-initialized")
	return &ConsoleStorage{
		logger: logger,
	}
}

// StoreDecision pretty-prints a pricing decision to console.
func (c *ConsoleStorage) StoreDecision(ctx context.Context, d *pricing.Decision) error {
	rec := d.Recommendation

	fmt.Println("\n" + rule)
	fmt.Printf("💰 PRICE RECOMMENDATION\n")
	fmt.Println(rule)
	fmt.Printf("ID:       %s\n", d.ID[:8])
	fmt.Printf("Query:    %s (%s)\n", d.Query, d.Kind)
	fmt.Printf("Time:     %s\n", d.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Println(rule)
	fmt.Printf("📊 SIGNALS\n")
	if m := rec.MarketData; m != nil {
		fmt.Printf("  Market:    $%.2f median over %d sold listings\n", m.MedianPrice, m.SoldListingsCount)
	} else {
		fmt.Printf("  Market:    unavailable\n")
	}
	if i := rec.InternalData; i != nil {
		fmt.Printf("  Internal:  $%.2f over %d matches, %.0f%% sell-through\n",
			i.InternalPrice, i.MatchedCount, i.SellThroughRate*100)
	} else {
		fmt.Printf("  Internal:  no matching history\n")
	}
	fmt.Println(rule)
	fmt.Printf("🎯 DECISION\n")
	fmt.Printf("  Price:       $%.2f\n", rec.RecommendedPrice)
	fmt.Printf("  Method:      %s\n", rec.PredictionMethod)
	fmt.Printf("  Weighting:   %.0f%% internal / %.0f%% market\n", rec.Weighting*100, (1-rec.Weighting)*100)
	fmt.Printf("  Confidence:  %d/100\n", rec.ConfidenceScore)
	if len(rec.Warnings) > 0 {
		fmt.Printf("  ⚠️  Warnings: %s\n", strings.Join(rec.Warnings, ", "))
	}
	fmt.Println(rule)

	return nil
}

// Close is a no-op for console storage.
func (c *ConsoleStorage) Close() error {
	c.logger.Info("closing-console-storage")
	return nil
}
