package cmd

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/1di210299/pricing-intelligence-system/internal/scrape"
	"github.com/1di210299/pricing-intelligence-system/internal/upc"
	"github.com/1di210299/pricing-intelligence-system/pkg/browser"
	"github.com/1di210299/pricing-intelligence-system/pkg/config"
	"github.com/1di210299/pricing-intelligence-system/pkg/types"
)

var fetchMarketCmd = &cobra.Command{
	Use:   "fetch-market <query>",
	Short: "Scrape sold listings for one query and print the sample",
	Long: `Launches the browser, scrapes sold listings for a single query and prints
the aggregated market sample: median, mean, spread and sample size after
outlier filtering. Useful for checking what the pricing pipeline would
see for a query without starting the full service.`,
	Args: cobra.ExactArgs(1),
	RunE: runFetchMarket,
}

var fetchMarketJSON bool

func init() {
	rootCmd.AddCommand(fetchMarketCmd)

	fetchMarketCmd.Flags().BoolVarP(&fetchMarketJSON, "json", "j", false, "Print the raw sample as JSON, listings included")
}

func runFetchMarket(cmd *cobra.Command, args []string) error {
	// Load .env
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: .env file not found\n")
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Structured logs stay quiet so the summary below is the output.
	logger, err := config.NewLogger("warn")
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	query, err := upc.Classify(args[0])
	if err != nil {
		return fmt.Errorf("classify query: %w", err)
	}

	driver := browser.New(browser.Config{
		MarketplaceURL: cfg.MarketplaceURL,
		ChromePath:     cfg.ChromePath,
		Headless:       cfg.Headless,
		Logger:         logger,
	})
	session := scrape.New(driver, scrape.Config{
		MaxListings:  cfg.MaxListings,
		FetchTimeout: cfg.ScrapeTimeout,
		DelayMin:     cfg.ScrapeDelayMin,
		DelayMax:     cfg.ScrapeDelayMax,
		Logger:       logger,
	})

	ctx, cancel := context.WithCancel(cmd.Context())
	err = session.Start(ctx)
	if err != nil {
		cancel()
		return fmt.Errorf("start scrape session: %w", err)
	}

	sample := session.Fetch(ctx, query.Canonical)

	// The session loop must see the cancel before Close waits on it.
	cancel()
	err = session.Close()
	if err != nil {
		fmt.Printf("Warning: close session: %v\n", err)
	}

	if fetchMarketJSON {
		return printSampleJSON(sample)
	}

	printSample(query.Canonical, sample)
	return nil
}

func printSampleJSON(sample *types.MarketSample) error {
	out, err := json.MarshalIndent(sample, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal sample: %w", err)
	}
	fmt.Printf("%s\n", out)
	return nil
}

func printSample(query string, sample *types.MarketSample) {
	fmt.Printf("=== Market Sample ===\n\n")
	fmt.Printf("Query:  %s\n", query)
	fmt.Printf("Status: %s\n", sample.Status)
	if sample.Warning != "" {
		fmt.Printf("Warning: %s\n", sample.Warning)
	}
	if sample.Status != types.SampleOK {
		return
	}

	fmt.Printf("\nSold listings found: %d\n", sample.SoldCount)
	fmt.Printf("After outlier filter: %d\n\n", sample.SampleSize)
	fmt.Printf("  Median:  $%.2f\n", sample.Median)
	fmt.Printf("  Mean:    $%.2f\n", sample.Mean)
	fmt.Printf("  Min:     $%.2f\n", sample.Min)
	fmt.Printf("  Max:     $%.2f\n", sample.Max)
	fmt.Printf("  Std dev: $%.2f\n", sample.StdDev)

	if sample.LowConfidence {
		fmt.Printf("\nLow confidence: fewer than 5 listings survived filtering\n")
	}
}
