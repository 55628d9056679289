package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/couchcryptid/crisis-locator/internal/catalog"
	"github.com/couchcryptid/crisis-locator/internal/config"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func validateCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check every catalog file for data problems",
		Long: `Check each category's catalog file for unique, non-empty ids, non-empty
names, a matching category and in-range coordinates. A missing file is
reported but is not a failure.

Examples:
  enrich validate
  enrich validate --dir testdata/catalog`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dir == "" {
				cfg, err := config.Load()
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				dir = cfg.CatalogDir
			}

			source := catalog.NewSource(dir, slog.Default())
			reports, err := source.Validate(cmd.Context())
			if err != nil {
				return err
			}

			if failed := printReports(cmd.OutOrStdout(), reports); failed > 0 {
				return fmt.Errorf("%d catalog file(s) failed validation", failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "catalog directory (default CATALOG_DIR)")

	return cmd
}

// printReports writes a PASS/FAIL block per category and returns the number
// of failing files.
func printReports(w io.Writer, reports []catalog.Report) int {
	failed := 0
	for _, r := range reports {
		switch {
		case r.Missing:
			fmt.Fprintf(w, "%s %s (no catalog file)\n", color.New(color.FgYellow).Sprint("SKIP"), r.Category)
		case r.Passed():
			fmt.Fprintf(w, "%s %s (%d items)\n", color.New(color.FgGreen).Sprint("PASS"), r.Category, r.Items)
		default:
			failed++
			fmt.Fprintf(w, "%s %s (%d items, %d problems)\n", color.New(color.FgRed).Sprint("FAIL"), r.Category, r.Items, len(r.Problems))
			for _, p := range r.Problems {
				fmt.Fprintf(w, "  - %s\n", p)
			}
		}
	}
	return failed
}
