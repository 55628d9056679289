// Command enrich runs open-status enrichment batches and catalog checks from
// the terminal, using the same environment configuration as the locator
// service.
//
// Usage:
//
//	enrich run --category shelter
//	enrich run --category clinic --json
//	enrich validate
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "enrich",
		Short: "Open-status enrichment for the crisis resource catalog",
		Long: `enrich resolves "open now" for every catalog item of a category,
persisting live answers to the shared status cache, and validates catalog files.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(validateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
