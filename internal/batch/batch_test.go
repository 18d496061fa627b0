// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bookscan/internal/metrics"
	"github.com/pdiddy/bookscan/internal/problem"
	"github.com/pdiddy/bookscan/internal/solver"
	"github.com/pdiddy/bookscan/pkg/types"
)

// --- test helpers ---

const twoBooks = "2 1 3\n3 5\n2 1 1\n0 1\n"

// fakeRecorder collects recorded runs and can be made to fail.
type fakeRecorder struct {
	mu   sync.Mutex
	runs []types.RunRecord
	err  error
}

func (f *fakeRecorder) Record(_ context.Context, rec types.RunRecord) (types.RunRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return rec, f.err
	}
	f.runs = append(f.runs, rec)
	return rec, nil
}

func writeInputs(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func newRunner(t *testing.T, cfg types.BatchConfig, opts ...Option) *Runner {
	t.Helper()
	s, err := solver.New(types.StrategyThroughput)
	require.NoError(t, err)
	return NewRunner(s, cfg, opts...)
}

// --- tests ---

func TestListInputs(t *testing.T) {
	dir := writeInputs(t, map[string]string{
		"c.txt":   twoBooks,
		"a.txt":   twoBooks,
		".hidden": twoBooks,
		"b.in":    twoBooks,
	})
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	inputs, err := ListInputs(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.txt"),
		filepath.Join(dir, "b.in"),
		filepath.Join(dir, "c.txt"),
	}, inputs)
}

func TestListInputs_MissingDir(t *testing.T) {
	_, err := ListInputs(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestSolveFile_WritesOutput(t *testing.T) {
	in := writeInputs(t, map[string]string{"a.txt": twoBooks})
	out := filepath.Join(t.TempDir(), "outputs")
	rec := &fakeRecorder{}
	r := newRunner(t, types.BatchConfig{OutputDir: out}, WithRecorder(rec))

	res := r.SolveFile(context.Background(), filepath.Join(in, "a.txt"))
	require.NoError(t, res.Err)
	assert.Equal(t, StatusSolved, res.Status)
	assert.Equal(t, filepath.Join(out, "output_a.txt"), res.Output)
	assert.Equal(t, 8, res.Solution.Score)

	data, err := os.ReadFile(res.Output)
	require.NoError(t, err)
	assert.Equal(t, "1\n0 2\n1 0\n", string(data))

	require.Len(t, rec.runs, 1)
	assert.Equal(t, "a.txt", rec.runs[0].Input)
	assert.Equal(t, 8, rec.runs[0].Score)
	assert.Equal(t, types.StrategyThroughput, rec.runs[0].Strategy)
}

func TestSolveFile_CustomPrefix(t *testing.T) {
	in := writeInputs(t, map[string]string{"a.txt": twoBooks})
	out := t.TempDir()
	r := newRunner(t, types.BatchConfig{OutputDir: out, OutputPrefix: "plan-"})

	res := r.SolveFile(context.Background(), filepath.Join(in, "a.txt"))
	assert.Equal(t, filepath.Join(out, "plan-a.txt"), res.Output)
	assert.FileExists(t, res.Output)
}

func TestSolveFile_ParseErrorLeavesNoOutput(t *testing.T) {
	in := writeInputs(t, map[string]string{"bad.txt": "2 1 3\n3\n"})
	out := t.TempDir()
	rec := &fakeRecorder{}
	r := newRunner(t, types.BatchConfig{OutputDir: out}, WithRecorder(rec))

	res := r.SolveFile(context.Background(), filepath.Join(in, "bad.txt"))
	assert.Equal(t, StatusFailed, res.Status)
	assert.True(t, problem.IsParseError(res.Err))
	assert.NoFileExists(t, res.Output)
	assert.Empty(t, rec.runs)
}

func TestSolveFile_SkipExisting(t *testing.T) {
	in := writeInputs(t, map[string]string{"a.txt": twoBooks})
	out := t.TempDir()
	existing := filepath.Join(out, "output_a.txt")
	require.NoError(t, os.WriteFile(existing, []byte("keep"), 0o644))

	r := newRunner(t, types.BatchConfig{OutputDir: out, SkipExisting: true})
	res := r.SolveFile(context.Background(), filepath.Join(in, "a.txt"))
	assert.Equal(t, StatusSkipped, res.Status)

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "keep", string(data))

	r = newRunner(t, types.BatchConfig{OutputDir: out})
	res = r.SolveFile(context.Background(), filepath.Join(in, "a.txt"))
	assert.Equal(t, StatusSolved, res.Status, "overwrites without skip-existing")
}

func TestSolveFile_RecorderErrorDoesNotFail(t *testing.T) {
	in := writeInputs(t, map[string]string{"a.txt": twoBooks})
	r := newRunner(t, types.BatchConfig{OutputDir: t.TempDir()},
		WithRecorder(&fakeRecorder{err: errors.New("disk full")}))

	res := r.SolveFile(context.Background(), filepath.Join(in, "a.txt"))
	assert.Equal(t, StatusSolved, res.Status)
}

func TestSolveFile_CancelledContext(t *testing.T) {
	in := writeInputs(t, map[string]string{"a.txt": twoBooks})
	r := newRunner(t, types.BatchConfig{OutputDir: t.TempDir()})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := r.SolveFile(ctx, filepath.Join(in, "a.txt"))
	assert.Equal(t, StatusFailed, res.Status)
	assert.ErrorIs(t, res.Err, context.Canceled)
}

func TestRun_MixedOutcomes(t *testing.T) {
	files := map[string]string{
		"a.txt": twoBooks,
		"b.txt": "1 1 0\n4\n1 1 1\n0\n",
		"c.txt": "not a number\n",
	}
	in := writeInputs(t, files)
	out := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(out, "output_b.txt"), []byte("0\n"), 0o644))

	reg := prometheus.NewRegistry()
	c, err := metrics.NewCollector(reg)
	require.NoError(t, err)

	r := newRunner(t, types.BatchConfig{OutputDir: out, SkipExisting: true, Workers: 3}, WithMetrics(c))
	inputs, err := ListInputs(in)
	require.NoError(t, err)

	var buf bytes.Buffer
	result, err := r.Run(context.Background(), inputs, &buf)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Solved)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 3, result.Total())
	assert.True(t, result.HasFailures())
	assert.Equal(t, []float64{8}, result.Scores())

	lines := strings.Split(buf.String(), "\n")
	assert.Equal(t, "solved:  a.txt (score 8)", lines[0])
	assert.Equal(t, "skipped: b.txt (already exists)", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "failed:  c.txt ("), lines[2])
	assert.Contains(t, buf.String(), "Batch summary: 1 solved, 1 skipped, 1 failed (total: 3)")
	assert.Contains(t, buf.String(), "Score: total 8, mean 8.0, stddev 0.0, max 8")

	expected := `
# HELP bookscan_solves_total Number of processed input files by outcome
# TYPE bookscan_solves_total counter
bookscan_solves_total{status="failed",strategy="throughput"} 1
bookscan_solves_total{status="skipped",strategy="throughput"} 1
bookscan_solves_total{status="solved",strategy="throughput"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "bookscan_solves_total"))
}

func TestRun_DeterministicAcrossWorkerCounts(t *testing.T) {
	files := make(map[string]string)
	for i := range 8 {
		files[fmt.Sprintf("in%02d.txt", i)] = fmt.Sprintf("3 2 %d\n1 2 3\n3 0 1\n0 1 2\n1 1 2\n2\n", 2+i)
	}
	in := writeInputs(t, files)
	inputs, err := ListInputs(in)
	require.NoError(t, err)

	run := func(workers int) (string, map[string]string) {
		out := t.TempDir()
		r := newRunner(t, types.BatchConfig{OutputDir: out, Workers: workers})
		var buf bytes.Buffer
		result, err := r.Run(context.Background(), inputs, &buf)
		require.NoError(t, err)
		require.False(t, result.HasFailures(), buf.String())

		outputs := make(map[string]string)
		for _, f := range result.Files {
			data, err := os.ReadFile(f.Output)
			require.NoError(t, err)
			outputs[filepath.Base(f.Output)] = string(data)
		}
		return buf.String(), outputs
	}

	serialLog, serialOut := run(1)
	parallelLog, parallelOut := run(4)
	assert.Equal(t, serialLog, parallelLog)
	assert.Equal(t, serialOut, parallelOut)
	assert.Len(t, serialOut, 8)
}

func TestRun_Empty(t *testing.T) {
	r := newRunner(t, types.BatchConfig{OutputDir: t.TempDir()})
	var buf bytes.Buffer
	result, err := r.Run(context.Background(), nil, &buf)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Total())
	assert.Equal(t, "\nBatch summary: 0 solved, 0 skipped, 0 failed (total: 0)\n", buf.String())
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   Summary
	}{
		{name: "empty", want: Summary{}},
		{name: "single", scores: []float64{5}, want: Summary{Count: 1, Total: 5, Mean: 5, Max: 5}},
		{name: "several", scores: []float64{2, 4, 6}, want: Summary{Count: 3, Total: 12, Mean: 4, StdDev: 2, Max: 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.scores)
			assert.Equal(t, tt.want.Count, got.Count)
			assert.InDelta(t, tt.want.Total, got.Total, 1e-9)
			assert.InDelta(t, tt.want.Mean, got.Mean, 1e-9)
			assert.InDelta(t, tt.want.StdDev, got.StdDev, 1e-9)
			assert.InDelta(t, tt.want.Max, got.Max, 1e-9)
		})
	}
}
