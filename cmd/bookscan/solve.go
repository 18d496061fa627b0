// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/bookscan/internal/batch"
	"github.com/pdiddy/bookscan/internal/history"
	"github.com/pdiddy/bookscan/internal/logger"
	"github.com/pdiddy/bookscan/internal/output"
	"github.com/pdiddy/bookscan/internal/problem"
	"github.com/pdiddy/bookscan/pkg/types"
)

var solveCmd = &cobra.Command{
	Use:   "solve <input>...",
	Short: "Solve instances and write their submission files",
	Long: `Solve parses each input, simulates the signup and scan schedule with the
configured strategy, and writes the plan to <output-dir>/<prefix><name>.
With --stdout the plan is printed instead. The first invalid input stops
the run.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSolve,
}

// solveSummary is the YAML document printed by solve --summary.
type solveSummary struct {
	Input        string         `yaml:"input"`
	Output       string         `yaml:"output,omitempty"`
	Strategy     types.Strategy `yaml:"strategy"`
	Score        int            `yaml:"score"`
	BooksScanned int            `yaml:"books_scanned"`
	SignedUp     int            `yaml:"signed_up"`
	Libraries    int            `yaml:"libraries"`
	Elapsed      string         `yaml:"elapsed"`
}

func runSolve(cmd *cobra.Command, args []string) error {
	toStdout, _ := cmd.Flags().GetBool("stdout")
	summary, _ := cmd.Flags().GetBool("summary")
	if toStdout && summary {
		return errors.New("--stdout and --summary cannot be combined")
	}

	e, err := setup(cmd, map[string]string{
		"batch.output_dir":    "output-dir",
		"batch.output_prefix": "output-prefix",
	})
	if err != nil {
		return err
	}
	sched, err := e.scheduler(e.cfg.Solver.Strategy)
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
	log := logger.Component(e.log, "solve")
	var summaries []solveSummary

	for _, in := range args {
		p, err := problem.Load(in)
		if err != nil {
			return err
		}

		start := time.Now()
		sol := sched.Solve(p)
		elapsed := time.Since(start)

		s := solveSummary{
			Input:        p.Name,
			Strategy:     sol.Strategy,
			Score:        sol.Score,
			BooksScanned: sol.BooksScanned,
			SignedUp:     sol.SignedUp,
			Libraries:    len(sol.Libraries),
			Elapsed:      elapsed.String(),
		}
		if toStdout {
			if err := output.Write(os.Stdout, sol); err != nil {
				return err
			}
		} else {
			s.Output = output.Path(e.cfg.Batch.OutputDir, in, e.cfg.Batch.OutputPrefix)
			if err := output.WriteFile(s.Output, sol); err != nil {
				return err
			}
			if !summary {
				fmt.Fprintf(os.Stdout, "solved:  %s -> %s (score %d)\n", p.Name, s.Output, sol.Score)
			}
		}
		summaries = append(summaries, s)

		log.Info().Str("input", p.Name).Int("score", sol.Score).Dur("elapsed", elapsed).Msg("solved")
		if store != nil {
			if _, err := store.Record(ctx, history.NewRecord(p, sol, elapsed)); err != nil {
				log.Warn().Err(err).Str("input", p.Name).Msg("recording run")
			}
		}
	}

	if summary {
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		return enc.Encode(summaries)
	}
	if len(summaries) > 1 && !toStdout {
		scores := make([]float64, len(summaries))
		for i, s := range summaries {
			scores[i] = float64(s.Score)
		}
		total := batch.Summarize(scores)
		fmt.Fprintf(os.Stdout, "\nTotal score: %.0f across %d inputs\n", total.Total, total.Count)
	}
	return nil
}

func init() {
	solveCmd.Flags().Bool("stdout", false, "print plans to stdout instead of writing files")
	solveCmd.Flags().Bool("summary", false, "print a YAML summary of each run")
	solveCmd.Flags().String("output-dir", "", "directory receiving output files (default: outputs)")
	solveCmd.Flags().String("output-prefix", "", "output file name prefix (default: output_)")

	rootCmd.AddCommand(solveCmd)
}
