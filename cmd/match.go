package cmd

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/1di210299/pricing-intelligence-system/internal/matching"
	"github.com/1di210299/pricing-intelligence-system/internal/upc"
	"github.com/1di210299/pricing-intelligence-system/pkg/config"
)

var matchCmd = &cobra.Command{
	Use:   "match <query>",
	Short: "Match a query against the internal sales history",
	Long: `Loads the internal sales history and prints the aggregate the matching
engine would feed into a recommendation: matched record count, mean
internal price, sell-through rate and days on shelf.

The history source comes from INTERNAL_DATA_PATH unless --data is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runMatch,
}

var matchDataPath string

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringVarP(&matchDataPath, "data", "d", "", "History source: CSV path or postgres:// URL (overrides INTERNAL_DATA_PATH)")
}

func runMatch(cmd *cobra.Command, args []string) error {
	// Load .env
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: .env file not found\n")
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	path := cfg.InternalDataPath
	if matchDataPath != "" {
		path = matchDataPath
	}
	if path == "" {
		return fmt.Errorf("no history source: set INTERNAL_DATA_PATH or pass --data")
	}

	// Structured logs stay quiet so the summary below is the output.
	logger, err := config.NewLogger("warn")
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	source, err := matching.NewSource(path, logger)
	if err != nil {
		return fmt.Errorf("open history source: %w", err)
	}

	records, err := source.LoadAll(cmd.Context())
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	engine := matching.NewEngine(records, matching.Config{
		MaxMatches: cfg.MaxInternalMatches,
		Logger:     logger,
	})
	stats := engine.Stats()

	fmt.Printf("=== Internal History Match ===\n\n")
	fmt.Printf("Source:  %s\n", path)
	fmt.Printf("Records: %d (%d departments)\n\n", stats.RecordCount, stats.Departments)

	query, err := upc.Classify(args[0])
	if err != nil {
		return fmt.Errorf("classify query: %w", err)
	}
	fmt.Printf("Query: %s (%s)\n\n", query.Canonical, query.Kind)

	agg, fallback := engine.Match(query)
	if agg == nil {
		if fallback > 0 {
			fmt.Printf("Single unsold match; rules fallback would price from production cost $%.2f\n", fallback)
			return nil
		}
		fmt.Printf("No match\n")
		return nil
	}

	fmt.Printf("Matched: %d records\n", agg.MatchedCount)
	fmt.Printf("  Internal price:    $%.2f\n", agg.InternalPrice)
	fmt.Printf("  Sell-through rate: %.2f\n", agg.SellThroughRate)
	fmt.Printf("  Days on shelf:     %.1f\n", agg.DaysOnShelf)
	fmt.Printf("  Department:        %s\n", agg.Department)
	fmt.Printf("  Category:          %s\n", agg.Category)
	fmt.Printf("  Subcategory:       %s\n", agg.Subcategory)
	fmt.Printf("  Brand:             %s\n", agg.Brand)

	return nil
}
