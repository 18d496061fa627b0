// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics records solver runs as Prometheus metrics. Batch runs
// are short-lived, so metrics are written to a node_exporter textfile
// rather than served.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pdiddy/bookscan/pkg/types"
)

// Status labels for bookscan_solves_total.
const (
	StatusSolved  = "solved"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Collector holds the bookscan metric vectors. A nil *Collector records
// nothing.
type Collector struct {
	solves   *prometheus.CounterVec
	duration *prometheus.HistogramVec
	books    *prometheus.CounterVec
	score    *prometheus.GaugeVec
}

// NewCollector registers the bookscan metrics on reg. A nil registerer
// defaults to the global Prometheus registerer. Metrics already registered
// by an earlier collector are reused.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	solves, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bookscan_solves_total",
		Help: "Number of processed input files by outcome",
	}, []string{"strategy", "status"}))
	if err != nil {
		return nil, err
	}
	duration, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bookscan_solve_duration_seconds",
		Help:    "Wall time spent simulating one instance",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
	}, []string{"strategy"}))
	if err != nil {
		return nil, err
	}
	books, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bookscan_books_scanned_total",
		Help: "Number of books scanned across solved instances",
	}, []string{"strategy"}))
	if err != nil {
		return nil, err
	}
	score, err := register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "bookscan_score",
		Help: "Score of the latest solution per input",
	}, []string{"input", "strategy"}))
	if err != nil {
		return nil, err
	}

	return &Collector{solves: solves, duration: duration, books: books, score: score}, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("registering metric: %w", err)
	}
	return c, nil
}

// RecordSolve records a successful run for input.
func (c *Collector) RecordSolve(input string, sol *types.Solution, elapsed time.Duration) {
	if c == nil {
		return
	}
	strategy := string(sol.Strategy)
	c.solves.WithLabelValues(strategy, StatusSolved).Inc()
	c.duration.WithLabelValues(strategy).Observe(elapsed.Seconds())
	c.books.WithLabelValues(strategy).Add(float64(sol.BooksScanned))
	c.score.WithLabelValues(input, strategy).Set(float64(sol.Score))
}

// RecordOutcome counts a file that was not solved (failed or skipped).
func (c *Collector) RecordOutcome(strategy types.Strategy, status string) {
	if c == nil {
		return
	}
	c.solves.WithLabelValues(string(strategy), status).Inc()
}

// WriteTextfile writes every metric gathered by g to path in the text
// exposition format. The file is replaced atomically.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("writing metrics textfile %s: %w", path, err)
	}
	return nil
}
