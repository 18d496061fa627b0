// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
)

// Strategy names a signup selection heuristic.
type Strategy string

const (
	// StrategyThroughput picks the library maximizing
	// ParallelBooks * (remaining days - SignupTime).
	StrategyThroughput Strategy = "throughput"
	// StrategyScore picks the library whose reachable unscanned books
	// carry the highest total score.
	StrategyScore Strategy = "score"
	// StrategySignup picks the library with the shortest signup.
	StrategySignup Strategy = "signup"
)

// Strategies lists every known strategy in a stable order.
var Strategies = []Strategy{StrategyThroughput, StrategyScore, StrategySignup}

// ErrInvalidConfig is wrapped by every Validate error.
var ErrInvalidConfig = errors.New("invalid configuration")

// SolverConfig holds settings for the scheduling core.
type SolverConfig struct {
	// Strategy selects the signup heuristic (default throughput).
	Strategy Strategy `json:"strategy" yaml:"strategy" mapstructure:"strategy"`
}

// BatchConfig holds settings for the batch driver.
type BatchConfig struct {
	// InputDir is the directory enumerated for input files.
	InputDir string `json:"input_dir" yaml:"input_dir" mapstructure:"input_dir"`

	// OutputDir receives one output file per input.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// OutputPrefix is prepended to the input base name (default "output_").
	OutputPrefix string `json:"output_prefix" yaml:"output_prefix" mapstructure:"output_prefix"`

	// Workers bounds the number of instances solved in parallel.
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`

	// SkipExisting leaves inputs whose output already exists untouched.
	SkipExisting bool `json:"skip_existing" yaml:"skip_existing" mapstructure:"skip_existing"`
}

// HistoryConfig holds settings for the run history store.
type HistoryConfig struct {
	// Enabled turns run recording on.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// Dir holds the history database and exports.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// MaxResults is the default number of rows returned by queries (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// MetricsConfig holds settings for Prometheus metrics.
type MetricsConfig struct {
	// Textfile is the path written in node_exporter textfile format after
	// a run. Empty disables metrics output.
	Textfile string `json:"textfile" yaml:"textfile" mapstructure:"textfile"`
}

// LogConfig holds settings for structured logging.
type LogConfig struct {
	// Level is a zerolog level name: debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is "json" or "console".
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// Config groups every section of the bookscan configuration file.
type Config struct {
	Solver  SolverConfig  `json:"solver" yaml:"solver" mapstructure:"solver"`
	Batch   BatchConfig   `json:"batch" yaml:"batch" mapstructure:"batch"`
	History HistoryConfig `json:"history" yaml:"history" mapstructure:"history"`
	Metrics MetricsConfig `json:"metrics" yaml:"metrics" mapstructure:"metrics"`
	Log     LogConfig     `json:"log" yaml:"log" mapstructure:"log"`
}

// SetDefaults fills zero values with defaults.
func (c *Config) SetDefaults() {
	if c.Solver.Strategy == "" {
		c.Solver.Strategy = StrategyThroughput
	}
	if c.Batch.InputDir == "" {
		c.Batch.InputDir = "inputs"
	}
	if c.Batch.OutputDir == "" {
		c.Batch.OutputDir = "outputs"
	}
	if c.Batch.OutputPrefix == "" {
		c.Batch.OutputPrefix = "output_"
	}
	if c.Batch.Workers <= 0 {
		c.Batch.Workers = 1
	}
	if c.History.Dir == "" {
		c.History.Dir = ".bookscan"
	}
	if c.History.MaxResults <= 0 {
		c.History.MaxResults = 20
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
}

// Validate checks that enumerated fields hold known values.
func (c Config) Validate() error {
	if !c.Solver.Strategy.Valid() {
		return fmt.Errorf("%w: unknown strategy %q (want one of %v)", ErrInvalidConfig, c.Solver.Strategy, Strategies)
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("%w: unknown log format %q (want json or console)", ErrInvalidConfig, c.Log.Format)
	}
	return nil
}

// Valid reports whether s names a known strategy.
func (s Strategy) Valid() bool {
	for _, known := range Strategies {
		if s == known {
			return true
		}
	}
	return false
}
