package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/1di210299/pricing-intelligence-system/internal/app"
	"github.com/1di210299/pricing-intelligence-system/pkg/config"
)

// Exit codes: 0 on clean shutdown, 1 on startup or runtime failure,
// 2 on invalid configuration.
const exitCodeConfig = 2

//nolint:gochecknoglobals // Cobra boilerplate
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the price recommendation service",
	Long: `Starts the price recommendation service, which will:
1. Load the internal sales history and build the matching index
2. Launch a browser session against the marketplace
3. Load the trained model artifact if one is configured
4. Serve price recommendations over HTTP

Use --headful to watch the browser while debugging scrape issues.`,
	RunE: runService,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("headful", false, "Run the browser with a visible window (for debugging)")
}

func runService(cmd *cobra.Command, args []string) error {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()

	// Load config
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(exitCodeConfig)
	}

	// Get flags
	headful, _ := cmd.Flags().GetBool("headful")
	if headful {
		cfg.Headless = false
	}

	// Create logger
	logger, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(exitCodeConfig)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Create app
	application, err := app.New(cmd.Context(), cfg, logger, nil)
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}

	// Run app
	err = application.Run()
	if err != nil {
		return fmt.Errorf("run app: %w", err)
	}

	return nil
}
