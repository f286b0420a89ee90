package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "pricing-intelligence-system",
	Short: "Resale price recommendation service",
	Long: `Resale price recommendation service that blends live marketplace data
with a retailer's own sales history to price second-hand inventory.

For each query the service scrapes recently sold listings from the
marketplace, matches the item against internal history, and blends both
signals (optionally through a trained model) into a recommended price
with a confidence score. Recommendations are served over an HTTP API.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	// Flags can be added here if needed
}
