// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/pdiddy/bookscan/internal/batch"
	"github.com/pdiddy/bookscan/internal/logger"
	"github.com/pdiddy/bookscan/internal/metrics"
)

var batchCmd = &cobra.Command{
	Use:   "batch [input-dir]",
	Short: "Solve every input file in a directory",
	Long: `Batch enumerates the regular, non-hidden files of the input directory in
name order, solves each with the configured strategy, and writes one output
per input. An invalid input is reported and skipped; the command exits
non-zero when any input failed.

Runs are recorded in the history store, and metrics are written to a
node_exporter textfile when --metrics-file (or metrics.textfile) is set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBatch,
}

func runBatch(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd, map[string]string{
		"batch.output_dir":    "output-dir",
		"batch.output_prefix": "output-prefix",
		"batch.workers":       "workers",
		"batch.skip_existing": "skip-existing",
		"metrics.textfile":    "metrics-file",
	})
	if err != nil {
		return err
	}

	inputDir := e.cfg.Batch.InputDir
	if len(args) > 0 {
		inputDir = args[0]
	}
	inputs, err := batch.ListInputs(inputDir)
	if err != nil {
		return err
	}

	sched, err := e.scheduler(e.cfg.Solver.Strategy)
	if err != nil {
		return err
	}

	opts := []batch.Option{batch.WithLogger(logger.Component(e.log, "batch"))}

	store, err := e.openHistory()
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
		opts = append(opts, batch.WithRecorder(store))
	}

	var reg *prometheus.Registry
	if e.cfg.Metrics.Textfile != "" {
		reg = prometheus.NewRegistry()
		collector, err := metrics.NewCollector(reg)
		if err != nil {
			return err
		}
		opts = append(opts, batch.WithMetrics(collector))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := batch.NewRunner(sched, e.cfg.Batch, opts...)
	result, runErr := runner.Run(ctx, inputs, os.Stdout)

	if reg != nil {
		if err := metrics.WriteTextfile(e.cfg.Metrics.Textfile, reg); err != nil {
			return err
		}
	}
	if runErr != nil {
		return runErr
	}
	if result.HasFailures() {
		return fmt.Errorf("%d input(s) failed", result.Failed)
	}
	return nil
}

func init() {
	batchCmd.Flags().String("output-dir", "", "directory receiving output files (default: outputs)")
	batchCmd.Flags().String("output-prefix", "", "output file name prefix (default: output_)")
	batchCmd.Flags().Int("workers", 0, "number of inputs solved in parallel (default: 1)")
	batchCmd.Flags().Bool("skip-existing", false, "skip inputs whose output file already exists")
	batchCmd.Flags().String("metrics-file", "", "write Prometheus metrics to this textfile")

	rootCmd.AddCommand(batchCmd)
}
