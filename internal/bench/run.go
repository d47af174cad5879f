package bench

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"plybench/internal/trimesh"
)

// Config holds the shared settings for one batch run.
type Config struct {
	AssumeTriangles bool // request the fixed-width triangle fast path per file
	DumpStats       bool // log mesh statistics after each successful extraction
	Log             *log.Logger
	Out             io.Writer // report destination, normally stdout
}

// Result records the outcome of one file.
type Result struct {
	File    string
	OK      bool
	Elapsed time.Duration
}

// Summary aggregates a whole batch.
type Summary struct {
	Passed  int
	Failed  int
	Elapsed time.Duration
}

// Run extracts every file in order, one at a time, timing each attempt
// and the batch overall. A failed file is reported and counted but never
// stops the files after it. The per-file report lines and the closing
// summary block go to cfg.Out; diagnostics go to cfg.Log.
func Run(cfg Config, files []string) ([]Result, Summary) {
	width := 0
	for _, file := range files {
		if len(file) > width {
			width = len(file)
		}
	}

	results := make([]Result, 0, len(files))
	var sum Summary
	overall := StartStopwatch()
	for _, file := range files {
		sw := StartStopwatch()
		mesh, err := trimesh.Extract(file, cfg.AssumeTriangles)
		sw.Stop()

		ok := err == nil
		if !ok {
			cfg.Log.Errorf("%v", err)
		} else if cfg.DumpStats {
			min, max := mesh.Bounds()
			cfg.Log.Infof("%s: %d verts, %d tris, %s topology, bounds (%g %g %g)..(%g %g %g)",
				file, mesh.VertexCount(), mesh.TriangleCount(), mesh.Topology,
				min[0], min[1], min[2], max[0], max[1], max[2])
		}

		verdict := "passed"
		if !ok {
			verdict = "FAILED"
			sum.Failed++
		} else {
			sum.Passed++
		}
		fmt.Fprintf(cfg.Out, "%-*s  %s  %8.3f ms\n", width, file, verdict, sw.ElapsedMS())
		results = append(results, Result{File: file, OK: ok, Elapsed: sw.Elapsed()})
	}
	overall.Stop()
	sum.Elapsed = overall.Elapsed()

	fmt.Fprintf(cfg.Out, "----\n")
	fmt.Fprintf(cfg.Out, "%.3f ms total\n", overall.ElapsedMS())
	fmt.Fprintf(cfg.Out, "%d passed\n", sum.Passed)
	fmt.Fprintf(cfg.Out, "%d failed\n", sum.Failed)
	return results, sum
}
