// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bookscan/internal/history"
	"github.com/pdiddy/bookscan/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded solver runs (list, best, export)",
	Long: `History queries the local SQLite database in which solve, batch and
compare record every run.`,
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(cmd, func(ctx context.Context, store *history.Store, opts history.QueryOptions) error {
			runs, err := store.List(ctx, opts)
			if err != nil {
				return err
			}
			return formatRuns(cmd, os.Stdout, runs)
		})
	},
}

// --- best subcommand ---

var historyBestCmd = &cobra.Command{
	Use:   "best",
	Short: "Show the best scoring run per input",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(cmd, func(ctx context.Context, store *history.Store, opts history.QueryOptions) error {
			runs, err := store.Best(ctx, opts)
			if err != nil {
				return err
			}
			return formatRuns(cmd, os.Stdout, runs)
		})
	},
}

// --- export subcommand ---

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export runs to YAML or JSON in the history directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		return withHistory(cmd, func(ctx context.Context, store *history.Store, opts history.QueryOptions) error {
			var (
				path string
				err  error
			)
			switch format {
			case "yaml", "":
				path, err = store.ExportYAML(ctx, opts)
			case "json":
				path, err = store.ExportJSON(ctx, opts)
			default:
				return fmt.Errorf("unsupported format %q: use yaml or json", format)
			}
			if err != nil {
				return err
			}
			fmt.Println("Exported to", path)
			return nil
		})
	},
}

// --- shared helpers ---

func withHistory(cmd *cobra.Command, fn func(context.Context, *history.Store, history.QueryOptions) error) error {
	e, err := setup(cmd, nil)
	if err != nil {
		return err
	}
	store, err := history.NewStore(e.cfg.History)
	if err != nil {
		return err
	}
	defer store.Close()

	return fn(context.Background(), store, historyOptsFromFlags(cmd))
}

func historyOptsFromFlags(cmd *cobra.Command) history.QueryOptions {
	input, _ := cmd.Flags().GetString("input")
	strategy, _ := cmd.Flags().GetString("by-strategy")
	limit, _ := cmd.Flags().GetInt("limit")
	return history.QueryOptions{
		Input:      input,
		Strategy:   types.Strategy(strategy),
		MaxResults: limit,
	}
}

func formatRuns(cmd *cobra.Command, w io.Writer, runs []types.RunRecord) error {
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-20s  %-24s  %-10s  %10s  %8s  %10s\n",
		"When", "Input", "Strategy", "Score", "Books", "Elapsed")
	fmt.Fprintln(w, strings.Repeat("-", 94))
	for _, r := range runs {
		input := r.Input
		if len(input) > 24 {
			input = input[:21] + "..."
		}
		fmt.Fprintf(w, "%-20s  %-24s  %-10s  %10d  %8d  %10s\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"), input, r.Strategy,
			r.Score, r.BooksScanned, r.Duration.Round(time.Microsecond))
	}
	fmt.Fprintf(w, "\n%d runs\n", len(runs))
	return nil
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	historyCmd.PersistentFlags().String("input", "", "filter by input file name")
	historyCmd.PersistentFlags().String("by-strategy", "", "filter by strategy")
	historyCmd.PersistentFlags().Int("limit", 0, "maximum results (0 = use history.max_results)")

	historyListCmd.Flags().Bool("json", false, "output results as JSON")
	historyBestCmd.Flags().Bool("json", false, "output results as JSON")
	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyBestCmd)
	historyCmd.AddCommand(historyExportCmd)

	rootCmd.AddCommand(historyCmd)
}
