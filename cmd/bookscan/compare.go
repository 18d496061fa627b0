// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bookscan/internal/batch"
	"github.com/pdiddy/bookscan/internal/history"
	"github.com/pdiddy/bookscan/internal/logger"
	"github.com/pdiddy/bookscan/internal/problem"
	"github.com/pdiddy/bookscan/pkg/types"
)

var compareCmd = &cobra.Command{
	Use:   "compare <input>...",
	Short: "Run every strategy on the inputs and compare scores",
	Long: `Compare solves each input once per strategy without writing output files,
then prints a score table and, per strategy, the total, mean and standard
deviation of scores across the inputs.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompare,
}

// comparison holds the scores of every strategy on one input, indexed like
// types.Strategies.
type comparison struct {
	input  string
	scores []int
}

func (c comparison) best() types.Strategy {
	best := 0
	for i, s := range c.scores {
		if s > c.scores[best] {
			best = i
		}
	}
	return types.Strategies[best]
}

func runCompare(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd, nil)
	if err != nil {
		return err
	}
	store, err := e.openHistory()
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	ctx := context.Background()
	log := logger.Component(e.log, "compare")
	var rows []comparison

	for _, in := range args {
		p, err := problem.Load(in)
		if err != nil {
			return err
		}
		row := comparison{input: p.Name, scores: make([]int, len(types.Strategies))}
		for i, strategy := range types.Strategies {
			sched, err := e.scheduler(strategy)
			if err != nil {
				return err
			}
			start := time.Now()
			sol := sched.Solve(p)
			elapsed := time.Since(start)
			row.scores[i] = sol.Score

			log.Debug().Str("input", p.Name).Str("strategy", string(strategy)).Int("score", sol.Score).Msg("solved")
			if store != nil {
				if _, err := store.Record(ctx, history.NewRecord(p, sol, elapsed)); err != nil {
					log.Warn().Err(err).Str("input", p.Name).Msg("recording run")
				}
			}
		}
		rows = append(rows, row)
	}

	printComparison(os.Stdout, rows)
	return nil
}

func printComparison(w io.Writer, rows []comparison) {
	fmt.Fprintf(w, "%-24s", "Input")
	for _, s := range types.Strategies {
		fmt.Fprintf(w, "  %12s", s)
	}
	fmt.Fprintf(w, "  %-10s\n", "Best")
	fmt.Fprintln(w, strings.Repeat("-", 24+14*len(types.Strategies)+12))

	for _, r := range rows {
		input := r.input
		if len(input) > 24 {
			input = input[:21] + "..."
		}
		fmt.Fprintf(w, "%-24s", input)
		for _, s := range r.scores {
			fmt.Fprintf(w, "  %12d", s)
		}
		fmt.Fprintf(w, "  %-10s\n", r.best())
	}

	fmt.Fprintf(w, "\n%-12s  %14s  %14s  %14s\n", "Strategy", "Total", "Mean", "StdDev")
	for i, strategy := range types.Strategies {
		scores := make([]float64, len(rows))
		for j, r := range rows {
			scores[j] = float64(r.scores[i])
		}
		s := batch.Summarize(scores)
		fmt.Fprintf(w, "%-12s  %14.0f  %14.1f  %14.1f\n", strategy, s.Total, s.Mean, s.StdDev)
	}
}

func init() {
	rootCmd.AddCommand(compareCmd)
}
