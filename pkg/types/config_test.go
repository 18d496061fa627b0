// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_SetDefaults(t *testing.T) {
	var cfg Config
	cfg.SetDefaults()

	assert.Equal(t, StrategyThroughput, cfg.Solver.Strategy)
	assert.Equal(t, "inputs", cfg.Batch.InputDir)
	assert.Equal(t, "outputs", cfg.Batch.OutputDir)
	assert.Equal(t, "output_", cfg.Batch.OutputPrefix)
	assert.Equal(t, 1, cfg.Batch.Workers)
	assert.Equal(t, ".bookscan", cfg.History.Dir)
	assert.Equal(t, 20, cfg.History.MaxResults)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	require.NoError(t, cfg.Validate())
}

func TestConfig_SetDefaultsKeepsValues(t *testing.T) {
	cfg := Config{
		Solver: SolverConfig{Strategy: StrategySignup},
		Batch:  BatchConfig{Workers: 8, OutputPrefix: "out-"},
	}
	cfg.SetDefaults()

	assert.Equal(t, StrategySignup, cfg.Solver.Strategy)
	assert.Equal(t, 8, cfg.Batch.Workers)
	assert.Equal(t, "out-", cfg.Batch.OutputPrefix)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{name: "score strategy", mutate: func(c *Config) { c.Solver.Strategy = StrategyScore }},
		{
			name:    "unknown strategy",
			mutate:  func(c *Config) { c.Solver.Strategy = "random" },
			wantErr: `unknown strategy "random"`,
		},
		{
			name:    "unknown log format",
			mutate:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: `unknown log format "xml"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			cfg.SetDefaults()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestProblem_DistinctBooks(t *testing.T) {
	p := Problem{
		Books: []Book{{0, 1}, {1, 1}, {2, 1}, {3, 1}},
		Libraries: []Library{
			{Index: 0, Books: []int{0, 1}},
			{Index: 1, Books: []int{1, 2}},
		},
	}
	assert.Equal(t, 3, p.DistinctBooks())
}
