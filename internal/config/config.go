// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers a YAML file and EVENTDASH_* env vars on top of the defaults.
// - Errors are wrapped with this package's sentinels.
package config

import (
	"context"
	"fmt"
	"strings"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DataPath points at the participation dataset (.csv or .xlsx).
	DataPath string `koanf:"data_path"`

	// TopN caps the per-group rankings on the dashboard.
	TopN int `koanf:"top_n"`

	// HistogramBuckets is the bucket count of the age distribution.
	HistogramBuckets int `koanf:"histogram_buckets"`

	// HistogramMode is "percent" (each year sums to 100) or "count".
	HistogramMode string `koanf:"histogram_mode"`

	// WorkerCount caps concurrent section computations; 0 means one per CPU.
	WorkerCount int `koanf:"worker_count"`

	// ChartWidth and ChartHeight size the rendered SVG charts in pixels.
	ChartWidth  int `koanf:"chart_width"`
	ChartHeight int `koanf:"chart_height"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		DataPath:         "data/events.csv",
		TopN:             10,
		HistogramBuckets: 60,
		HistogramMode:    "percent",
		WorkerCount:      4,
		ChartWidth:       1024,
		ChartHeight:      480,
	}
}

// Validate reports the first invalid field wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.DataPath) == "":
		return fmt.Errorf("%w: data_path must not be empty", ErrInvalidConfig)
	case c.TopN < 1:
		return fmt.Errorf("%w: top_n must be at least 1, got %d", ErrInvalidConfig, c.TopN)
	case c.HistogramBuckets < 1:
		return fmt.Errorf("%w: histogram_buckets must be at least 1, got %d", ErrInvalidConfig, c.HistogramBuckets)
	case c.WorkerCount < 0:
		return fmt.Errorf("%w: worker_count must not be negative, got %d", ErrInvalidConfig, c.WorkerCount)
	case c.ChartWidth <= 0 || c.ChartHeight <= 0:
		return fmt.Errorf("%w: chart size must be positive, got %dx%d", ErrInvalidConfig, c.ChartWidth, c.ChartHeight)
	}
	switch c.HistogramMode {
	case "percent", "count":
	default:
		return fmt.Errorf("%w: histogram_mode must be percent or count, got %q", ErrInvalidConfig, c.HistogramMode)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}
