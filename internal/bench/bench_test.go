package bench_test

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plybench/internal/bench"
)

func TestStopwatchRunningAndStopped(t *testing.T) {
	sw := bench.StartStopwatch()
	time.Sleep(5 * time.Millisecond)
	running := sw.Elapsed()
	assert.Greater(t, running, time.Duration(0))

	sw.Stop()
	frozen := sw.Elapsed()
	assert.GreaterOrEqual(t, frozen, running)
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, frozen, sw.Elapsed())

	// Stopping again keeps the frozen reading.
	sw.Stop()
	assert.Equal(t, frozen, sw.Elapsed())
}

func TestStopwatchRestart(t *testing.T) {
	sw := bench.StartStopwatch()
	time.Sleep(5 * time.Millisecond)
	sw.Stop()
	sw.Start()
	sw.Stop()
	assert.Less(t, sw.Elapsed(), 5*time.Millisecond)
}

func TestResolveInputsDirect(t *testing.T) {
	logger := log.New(io.Discard)
	files := bench.ResolveInputs([]string{"a.ply", "b.ply"}, logger)
	assert.Equal(t, []string{"a.ply", "b.ply"}, files)
}

func TestResolveInputsListFile(t *testing.T) {
	dir := t.TempDir()
	list := filepath.Join(dir, "inputs.txt")
	require.NoError(t, os.WriteFile(list, []byte("one.ply\r\n\ntwo.ply\nthree.ply\n"), 0o644))

	logger := log.New(io.Discard)
	files := bench.ResolveInputs([]string{"zero.ply", list, "four.ply"}, logger)
	assert.Equal(t, []string{"zero.ply", "one.ply", "two.ply", "three.ply", "four.ply"}, files)
}

func TestResolveInputsMissingListFile(t *testing.T) {
	var diag bytes.Buffer
	logger := log.New(&diag)

	missing := filepath.Join(t.TempDir(), "nope.txt")
	files := bench.ResolveInputs([]string{missing, "a.ply"}, logger)
	assert.Equal(t, []string{"a.ply"}, files)
	assert.Contains(t, diag.String(), "nope.txt")
}

func TestResolveInputsEmpty(t *testing.T) {
	logger := log.New(io.Discard)
	assert.Empty(t, bench.ResolveInputs(nil, logger))
}

func writeTriangle(t *testing.T, dir, name string, badIndex bool) string {
	t.Helper()
	last := 2
	if badIndex {
		last = 3 // one past the last vertex
	}
	content := fmt.Sprintf(`ply
format ascii 1.0
element vertex 3
property float x
property float y
property float z
element face 1
property list uchar int vertex_indices
end_header
0 0 0
1 0 0
0 1 0
3 0 1 %d
`, last)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunBatchIndependence(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeTriangle(t, dir, "first.ply", false),
		writeTriangle(t, dir, "second.ply", true),
		writeTriangle(t, dir, "third.ply", false),
	}

	var out, diag bytes.Buffer
	results, summary := bench.Run(bench.Config{
		Log: log.New(&diag),
		Out: &out,
	}, files)

	require.Len(t, results, 3)
	assert.True(t, results[0].OK)
	assert.False(t, results[1].OK)
	assert.True(t, results[2].OK)
	assert.Equal(t, 2, summary.Passed)
	assert.Equal(t, 1, summary.Failed)
	assert.Greater(t, summary.Elapsed, time.Duration(0))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 7) // 3 report lines, ----, total, passed, failed
	assert.Contains(t, lines[0], "first.ply")
	assert.Contains(t, lines[0], "passed")
	assert.Contains(t, lines[1], "second.ply")
	assert.Contains(t, lines[1], "FAILED")
	assert.Contains(t, lines[1], "ms")
	assert.Contains(t, lines[2], "third.ply")
	assert.Contains(t, lines[2], "passed")
	assert.Equal(t, "----", lines[3])
	assert.Contains(t, lines[4], "ms total")
	assert.Equal(t, "2 passed", lines[5])
	assert.Equal(t, "1 failed", lines[6])

	assert.Contains(t, diag.String(), "second.ply")
}

func TestRunReportAlignment(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeTriangle(t, dir, "a.ply", false),
		writeTriangle(t, dir, "much-longer-name.ply", false),
	}

	var out bytes.Buffer
	_, _ = bench.Run(bench.Config{Log: log.New(io.Discard), Out: &out}, files)

	lines := strings.Split(out.String(), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	// Verdict column starts at the same offset on every report line.
	assert.Equal(t, strings.Index(lines[0], "passed"), strings.Index(lines[1], "passed"))
}

func TestRunDumpStats(t *testing.T) {
	dir := t.TempDir()
	files := []string{writeTriangle(t, dir, "tri.ply", false)}

	var diag bytes.Buffer
	logger := log.New(&diag)
	logger.SetLevel(log.InfoLevel)
	_, summary := bench.Run(bench.Config{DumpStats: true, Log: logger, Out: io.Discard}, files)
	assert.Equal(t, 1, summary.Passed)
	assert.Contains(t, diag.String(), "3 verts")
	assert.Contains(t, diag.String(), "1 tris")
}

func TestRunEmptyBatch(t *testing.T) {
	var out bytes.Buffer
	results, summary := bench.Run(bench.Config{Log: log.New(io.Discard), Out: &out}, nil)
	assert.Empty(t, results)
	assert.Equal(t, 0, summary.Passed)
	assert.Equal(t, 0, summary.Failed)
	assert.Contains(t, out.String(), "0 passed")
	assert.Contains(t, out.String(), "0 failed")
}
