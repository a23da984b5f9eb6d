package sampledata

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/eventdash/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0o600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string, verbose bool) (io.Closer, error) {
	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "sample_data_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	level := "info"
	if verbose {
		level = "debug"
	}
	if err := logger.Init(logger.WithWriter(io.MultiWriter(os.Stdout, file)), logger.WithLevel(level)); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return file, nil
}

// ShowHelp prints usage information for the sample data tool.
func ShowHelp() {
	os.Stdout.WriteString(`eventdash sample data tool
==========================

Generates a synthetic participation dataset and optionally checks a running
dashboard against it.

Usage:
  go run ./cmd/sample-data [options]

Options:
  -rows int
        Number of participation rows to generate (default 5000)
  -out string
        CSV file to write (default "data/events.csv"; empty skips generation)
  -verify
        Verify a running dashboard after generating
  -url string
        Base URL of the dashboard (default "http://localhost:9080")
  -top int
        Expected per-year limit of ranking sections (default 10)
  -timeout duration
        HTTP request timeout (default 30s)
  -log string
        Log file for tool output (default: sample_data_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Write 20000 rows where the server expects them
  go run ./cmd/sample-data -rows 20000 -out data/events.csv

  # Only verify a server that is already running
  go run ./cmd/sample-data -out "" -verify -url http://localhost:8080
`)
}
