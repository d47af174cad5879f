// plybench benchmarks triangle-mesh extraction across a batch of PLY
// files. Arguments are mesh filenames, or .txt list files naming one
// mesh per line. Each file gets an aligned report line with its verdict
// and elapsed milliseconds, followed by batch totals.
package main

import (
	"flag"
	"os"

	"github.com/charmbracelet/log"

	"plybench/internal/bench"
)

func main() {
	assume := flag.Bool("assume-triangles", false, "Treat every face as a triangle (verified per file, falls back when wrong)")
	dump := flag.Bool("dump", false, "Log mesh statistics for every file that extracts")
	quiet := flag.Bool("q", false, "Only log errors")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})
	if *quiet {
		logger.SetLevel(log.ErrorLevel)
	}

	files := bench.ResolveInputs(flag.Args(), logger)
	if len(files) == 0 {
		// An empty batch is a no-op, not an error.
		logger.Error("no input files provided")
		os.Exit(0)
	}

	_, summary := bench.Run(bench.Config{
		AssumeTriangles: *assume,
		DumpStats:       *dump,
		Log:             logger,
		Out:             os.Stdout,
	}, files)

	if summary.Failed > 0 {
		os.Exit(1)
	}
}
