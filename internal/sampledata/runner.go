// Package sampledata generates synthetic participation datasets and verifies
// a running dashboard against the aggregation invariants.
package sampledata

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/eventdash/pkg/logger"
)

// Run generates and writes the dataset when an output file is set, then
// verifies the server when asked to.
func Run(ctx context.Context, cfg *Config) error {
	log := logger.Named("sampledata")
	start := time.Now()

	if cfg.OutputFile != "" {
		participants, err := Generate(ctx, cfg.Rows)
		if err != nil {
			return err
		}
		if err := WriteFile(cfg.OutputFile, participants); err != nil {
			return err
		}
		log.Info(ctx, "dataset written",
			logger.String("file", cfg.OutputFile),
			logger.Int("rows", len(participants)),
		)
	}

	if cfg.Verify {
		report, err := Verify(ctx, cfg)
		if err != nil {
			return fmt.Errorf("verify %s: %w", cfg.BaseURL, err)
		}
		log.Info(ctx, "dashboard verified",
			logger.Int("rows", report.Rows),
			logger.Int("checks", len(report.Checks)),
		)
	}

	log.Info(ctx, "done", logger.Duration("elapsed", time.Since(start)))
	return nil
}
