package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/1di210299/pricing-intelligence-system/internal/upc"
	"github.com/1di210299/pricing-intelligence-system/pkg/types"
)

var checkUPCCmd = &cobra.Command{
	Use:   "check-upc <code>",
	Short: "Classify a query as UPC or free text",
	Long: `Runs a raw query through the same classification the pricing API applies.
Digit strings are checksum-validated as UPC-A (12 digits) or UPC-E
(8 digits); anything else, including a barcode that fails its checksum,
flows through the keyword pipeline as free text.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheckUPC,
}

func init() {
	rootCmd.AddCommand(checkUPCCmd)
}

func runCheckUPC(cmd *cobra.Command, args []string) error {
	query, err := upc.Classify(args[0])
	if err != nil {
		return fmt.Errorf("classify query: %w", err)
	}

	fmt.Printf("=== Query Classification ===\n\n")
	fmt.Printf("Raw:       %s\n", query.Raw)
	fmt.Printf("Canonical: %s\n", query.Canonical)
	fmt.Printf("Kind:      %s\n", query.Kind)

	if query.Kind == types.QueryKindFreeText && allDigits(query.Canonical) {
		printChecksumHint(query.Canonical)
	}

	return nil
}

// printChecksumHint explains why a pure digit string was not accepted as a
// UPC: wrong check digit, missing check digit, or unsupported length.
func printChecksumHint(digits string) {
	switch len(digits) {
	case 12, 8:
		want, err := upc.CheckDigit(digits[:len(digits)-1])
		if err == nil {
			fmt.Printf("\nChecksum failed: last digit is %c, expected %d\n", digits[len(digits)-1], want)
		}
	case 11, 7:
		want, err := upc.CheckDigit(digits)
		if err == nil {
			fmt.Printf("\nLooks like a code missing its check digit: %s%d would be valid\n", digits, want)
		}
	default:
		fmt.Printf("\nDigit strings are only validated at 12 (UPC-A) or 8 (UPC-E) digits\n")
	}
}

func allDigits(s string) bool {
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
