// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bookscan/pkg/types"
)

func TestComparisonBest(t *testing.T) {
	tests := []struct {
		scores []int
		want   types.Strategy
	}{
		{scores: []int{5, 9, 1}, want: types.StrategyScore},
		{scores: []int{4, 4, 4}, want: types.StrategyThroughput},
		{scores: []int{1, 2, 3}, want: types.StrategySignup},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, comparison{scores: tt.scores}.best())
	}
}

func TestPrintComparison(t *testing.T) {
	var buf bytes.Buffer
	printComparison(&buf, []comparison{
		{input: "a.txt", scores: []int{10, 20, 30}},
		{input: "b.txt", scores: []int{30, 20, 10}},
	})

	lines := strings.Split(buf.String(), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "Input"))
	assert.Contains(t, lines[0], "throughput")
	assert.Regexp(t, `^a\.txt\s+10\s+20\s+30\s+signup`, lines[2])
	assert.Regexp(t, `^b\.txt\s+30\s+20\s+10\s+throughput`, lines[3])
	assert.Regexp(t, `throughput\s+40\s+20\.0\s+14\.1`, buf.String())
	assert.Regexp(t, `score\s+40\s+20\.0\s+0\.0`, buf.String())
}

func runsCommand(jsonOutput bool) *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Flags().Bool("json", jsonOutput, "")
	return cmd
}

func TestFormatRuns(t *testing.T) {
	runs := []types.RunRecord{{
		ID: "r1", Input: "a.txt", Strategy: types.StrategyScore, Score: 21,
		BooksScanned: 5, Duration: 1500 * time.Microsecond, CreatedAt: time.Now(),
	}}

	var buf bytes.Buffer
	require.NoError(t, formatRuns(runsCommand(false), &buf, runs))
	assert.Regexp(t, `a\.txt\s+score\s+21\s+5\s+1\.5ms`, buf.String())
	assert.Contains(t, buf.String(), "1 runs")

	buf.Reset()
	require.NoError(t, formatRuns(runsCommand(true), &buf, runs))
	var decoded []types.RunRecord
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "r1", decoded[0].ID)

	buf.Reset()
	require.NoError(t, formatRuns(runsCommand(false), &buf, nil))
	assert.Equal(t, "No runs recorded.\n", buf.String())
}
