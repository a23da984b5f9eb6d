package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/eventdash/internal/sampledata"
)

// Default configuration constants.
const (
	defaultRows        = 5000
	defaultTopN        = 10
	defaultTimeout     = 30 * time.Second
	defaultToolTimeout = 5 * time.Minute
)

func main() {
	var (
		rows    = flag.Int("rows", defaultRows, "Number of participation rows to generate")
		out     = flag.String("out", "data/events.csv", "CSV file to write (empty skips generation)")
		verify  = flag.Bool("verify", false, "Verify a running dashboard")
		baseURL = flag.String("url", "http://localhost:9080", "Base URL of the dashboard")
		topN    = flag.Int("top", defaultTopN, "Expected per-year limit of ranking sections")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile = flag.String("log", "", "Log file for tool output (default: sample_data_TIMESTAMP.log)")
		verbose = flag.Bool("verbose", false, "Enable verbose logging")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		sampledata.ShowHelp()
		return
	}

	closer, err := sampledata.SetupLogging(*logFile, *verbose)
	if err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer closer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), defaultToolTimeout)
	defer cancel()

	cfg := &sampledata.Config{
		Rows:       *rows,
		OutputFile: *out,
		BaseURL:    *baseURL,
		Verify:     *verify,
		TopN:       *topN,
		Timeout:    *timeout,
		LogFile:    *logFile,
		Verbose:    *verbose,
	}

	if err := sampledata.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("Sample data failed: " + err.Error() + "\n")
		cancel()
		_ = closer.Close()
		os.Exit(1)
	}
}
