// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch runs the solver over a directory of input files, writing
// one submission per input.
package batch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/bookscan/internal/history"
	"github.com/pdiddy/bookscan/internal/metrics"
	"github.com/pdiddy/bookscan/internal/output"
	"github.com/pdiddy/bookscan/internal/problem"
	"github.com/pdiddy/bookscan/pkg/types"
)

// Solver produces a scan plan for a parsed instance. *solver.Scheduler
// implements it.
type Solver interface {
	Strategy() types.Strategy
	Solve(p *types.Problem) *types.Solution
}

// Recorder stores finished runs. *history.Store implements it.
type Recorder interface {
	Record(ctx context.Context, rec types.RunRecord) (types.RunRecord, error)
}

// Status is the outcome of one input file.
type Status string

const (
	StatusSolved  Status = metrics.StatusSolved
	StatusSkipped Status = metrics.StatusSkipped
	StatusFailed  Status = metrics.StatusFailed
)

// FileResult is the outcome of solving one input.
type FileResult struct {
	Input    string
	Output   string
	Status   Status
	Err      error
	Solution *types.Solution
	Elapsed  time.Duration
}

// BatchResult holds the outcome of a batch run.
type BatchResult struct {
	Solved  int
	Skipped int
	Failed  int

	// Files holds one entry per input, in input order.
	Files []FileResult
}

// Total returns the number of inputs processed.
func (r BatchResult) Total() int {
	return r.Solved + r.Skipped + r.Failed
}

// HasFailures reports whether any input failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Scores returns the score of every solved input, in input order.
func (r BatchResult) Scores() []float64 {
	var scores []float64
	for _, f := range r.Files {
		if f.Status == StatusSolved {
			scores = append(scores, float64(f.Solution.Score))
		}
	}
	return scores
}

// Runner solves input files with a shared Solver.
type Runner struct {
	solver   Solver
	cfg      types.BatchConfig
	recorder Recorder
	metrics  *metrics.Collector
	log      zerolog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithRecorder records every solved input.
func WithRecorder(rec Recorder) Option {
	return func(r *Runner) { r.recorder = rec }
}

// WithMetrics counts every outcome on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(r *Runner) { r.metrics = c }
}

// WithLogger sets the runner logger.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Runner) { r.log = l }
}

// NewRunner returns a Runner writing outputs as configured by cfg.
func NewRunner(s Solver, cfg types.BatchConfig, opts ...Option) *Runner {
	if cfg.OutputPrefix == "" {
		cfg.OutputPrefix = output.DefaultPrefix
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	r := &Runner{solver: s, cfg: cfg, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ListInputs returns the regular, non-hidden files of dir, sorted by name.
func ListInputs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory: %w", err)
	}

	var inputs []string
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		inputs = append(inputs, filepath.Join(dir, e.Name()))
	}
	slices.Sort(inputs)
	return inputs, nil
}

// SolveFile loads input, solves it and writes its output. Failures are
// reported in the result, never as a panic or a returned error, so one bad
// file does not stop a batch.
func (r *Runner) SolveFile(ctx context.Context, input string) FileResult {
	res := FileResult{Input: input, Output: output.Path(r.cfg.OutputDir, input, r.cfg.OutputPrefix)}
	strategy := r.solver.Strategy()

	if err := ctx.Err(); err != nil {
		return r.fail(res, err)
	}

	if r.cfg.SkipExisting {
		if _, err := os.Stat(res.Output); err == nil {
			res.Status = StatusSkipped
			r.metrics.RecordOutcome(strategy, metrics.StatusSkipped)
			r.log.Debug().Str("input", input).Msg("output exists, skipping")
			return res
		}
	}

	p, err := problem.Load(input)
	if err != nil {
		return r.fail(res, err)
	}

	start := time.Now()
	sol := r.solver.Solve(p)
	res.Elapsed = time.Since(start)

	if err := output.WriteFile(res.Output, sol); err != nil {
		return r.fail(res, err)
	}

	res.Status = StatusSolved
	res.Solution = sol
	r.metrics.RecordSolve(p.Name, sol, res.Elapsed)
	r.log.Info().
		Str("input", p.Name).
		Str("strategy", string(strategy)).
		Int("score", sol.Score).
		Int("books", sol.BooksScanned).
		Dur("elapsed", res.Elapsed).
		Msg("solved")

	if r.recorder != nil {
		if _, err := r.recorder.Record(ctx, history.NewRecord(p, sol, res.Elapsed)); err != nil {
			r.log.Warn().Err(err).Str("input", p.Name).Msg("recording run")
		}
	}
	return res
}

func (r *Runner) fail(res FileResult, err error) FileResult {
	res.Status = StatusFailed
	res.Err = err
	r.metrics.RecordOutcome(r.solver.Strategy(), metrics.StatusFailed)
	r.log.Error().Err(err).Str("input", res.Input).Msg("solve failed")
	return res
}

// Run solves inputs with up to cfg.Workers files in flight, then prints
// one status line per input (in input order) and a summary to w. The
// returned error is non-nil only when ctx was cancelled.
func (r *Runner) Run(ctx context.Context, inputs []string, w io.Writer) (BatchResult, error) {
	result := BatchResult{Files: make([]FileResult, len(inputs))}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)
	for i, in := range inputs {
		g.Go(func() error {
			result.Files[i] = r.SolveFile(gctx, in)
			return nil
		})
	}
	_ = g.Wait()

	for _, f := range result.Files {
		name := filepath.Base(f.Input)
		switch f.Status {
		case StatusSolved:
			result.Solved++
			fmt.Fprintf(w, "solved:  %s (score %d)\n", name, f.Solution.Score)
		case StatusSkipped:
			result.Skipped++
			fmt.Fprintf(w, "skipped: %s (already exists)\n", name)
		case StatusFailed:
			result.Failed++
			fmt.Fprintf(w, "failed:  %s (%v)\n", name, f.Err)
		}
	}

	fmt.Fprintf(w, "\nBatch summary: %d solved, %d skipped, %d failed (total: %d)\n",
		result.Solved, result.Skipped, result.Failed, result.Total())
	if s := Summarize(result.Scores()); s.Count > 0 {
		fmt.Fprintf(w, "Score: total %.0f, mean %.1f, stddev %.1f, max %.0f\n",
			s.Total, s.Mean, s.StdDev, s.Max)
	}
	return result, ctx.Err()
}
