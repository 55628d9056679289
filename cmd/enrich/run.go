package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/couchcryptid/crisis-locator/internal/adapter/places"
	"github.com/couchcryptid/crisis-locator/internal/cache"
	"github.com/couchcryptid/crisis-locator/internal/catalog"
	"github.com/couchcryptid/crisis-locator/internal/config"
	"github.com/couchcryptid/crisis-locator/internal/domain"
	"github.com/couchcryptid/crisis-locator/internal/observability"
	"github.com/couchcryptid/crisis-locator/internal/pipeline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func runCmd() *cobra.Command {
	var (
		category string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Enrich one category and print the result",
		Long: `Run a single enrichment batch for a category.

Each item is resolved from a live lookup when PLACES_API_KEY is set, then from
the status cache, then from the catalog's static value. Live answers are
written back to CACHE_PATH.

Examples:
  enrich run --category shelter
  enrich run --category food_bank --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := domain.ParseCategory(category)
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger := newLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
			metrics := observability.NewMetrics()

			lookup := places.NewClient(places.Options{
				APIKey:       cfg.PlacesAPIKey,
				BaseURL:      cfg.PlacesBaseURL,
				Timeout:      cfg.PlacesTimeout,
				RateInterval: cfg.PlacesRateInterval,
				SearchRadius: cfg.PlacesSearchRadius,
			}, logger, metrics)
			source := catalog.NewSource(cfg.CatalogDir, logger)
			store := cache.NewStore(cfg.CachePath, logger, metrics)
			p := pipeline.New(source, lookup, store, nil, logger, metrics, cfg.PlacesTimeout)

			result, err := p.Enrich(cmd.Context(), c)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			printSummary(cmd.OutOrStdout(), c, result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "category to enrich (shelter, food_bank, clinic)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw result document")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

// newLogger honors LOG_LEVEL and LOG_FORMAT like the service logger but
// writes to w, keeping stdout for command output.
func newLogger(w io.Writer, level, format string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// printSummary writes one line per item followed by the batch totals.
func printSummary(w io.Writer, category domain.Category, result domain.BatchResult) {
	fmt.Fprintf(w, "%s  %d items\n", color.New(color.Bold).Sprint(category), len(result.Results))

	for _, item := range result.Results {
		debug := result.Meta.PerItemDebug[item.ID]
		line := fmt.Sprintf("  %-8s %-12s %s", statusLabel(item.OpenNow), item.ID, item.Name)
		if debug.Method != "" {
			line += color.New(color.FgCyan).Sprintf(" [%s]", debug.Method)
		}
		if debug.Error != "" {
			line += color.New(color.FgRed).Sprintf(" %s", debug.Error)
		}
		fmt.Fprintln(w, line)
	}

	mode := color.New(color.FgGreen).Sprint("live")
	if !result.Meta.KeyPresent {
		mode = color.New(color.FgYellow).Sprint("no-key")
	}
	fmt.Fprintf(w, "\nmode: %s  updated: %d\n", mode, result.Meta.UpdatedCount)
	printMethodCounts(w, result.Meta.PerItemDebug)
}

func printMethodCounts(w io.Writer, debug map[string]domain.DiagnosticRecord) {
	counts := make(map[domain.Method]int)
	for _, d := range debug {
		counts[d.Method]++
	}
	methods := make([]string, 0, len(counts))
	for m := range counts {
		methods = append(methods, string(m))
	}
	sort.Strings(methods)
	for _, m := range methods {
		fmt.Fprintf(w, "  %-16s %d\n", m, counts[domain.Method(m)])
	}
}

func statusLabel(s domain.OpenStatus) string {
	switch s {
	case domain.StatusOpen:
		return color.New(color.FgGreen).Sprint("OPEN")
	case domain.StatusClosed:
		return color.New(color.FgRed).Sprint("CLOSED")
	default:
		return color.New(color.FgHiBlack).Sprint("UNKNOWN")
	}
}
