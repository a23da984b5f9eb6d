package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/eventdash/internal/adapters/render"
	"github.com/okian/eventdash/internal/adapters/repository"
	app "github.com/okian/eventdash/internal/app"
	"github.com/okian/eventdash/internal/config"
	"github.com/okian/eventdash/internal/domain/aggregate"
	"github.com/okian/eventdash/pkg/logger"
)

// reportOptions override the loaded config for a single run.
type reportOptions struct {
	dataPath string
	section  string
	topN     int
	buckets  int
	mode     string
}

func main() {
	var (
		data    = flag.String("data", "", "Dataset to report on (default: data_path from config)")
		section = flag.String("section", "", "Print only this section ID")
		topN    = flag.Int("top", 0, "Per-year limit of ranking sections (default: top_n from config)")
		buckets = flag.Int("buckets", 0, "Age histogram bucket count (default: histogram_buckets from config)")
		mode    = flag.String("mode", "", "Age histogram mode: percent or count (default: histogram_mode from config)")
	)
	flag.Parse()

	// Logs go to stderr so stdout carries only the report.
	if err := logger.Init(logger.WithWriter(os.Stderr)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := reportOptions{
		dataPath: *data,
		section:  *section,
		topN:     *topN,
		buckets:  *buckets,
		mode:     *mode,
	}
	if err := run(ctx, os.Stdout, opts); err != nil {
		logger.Get().Error(ctx, "report failed", logger.Error(err))
		stop()
		os.Exit(1)
	}
}

// run loads the dataset and prints the requested sections to w.
func run(ctx context.Context, w io.Writer, opts reportOptions) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if opts.dataPath != "" {
		cfg.DataPath = opts.dataPath
	}
	if opts.topN > 0 {
		cfg.TopN = opts.topN
	}
	if opts.buckets > 0 {
		cfg.HistogramBuckets = opts.buckets
	}
	if opts.mode != "" {
		cfg.HistogramMode = opts.mode
	}
	mode, err := aggregate.ParseMode(cfg.HistogramMode)
	if err != nil {
		return fmt.Errorf("mode %q: %w", cfg.HistogramMode, err)
	}

	tbl, err := repository.NewFileSource(cfg.DataPath, repository.WithLogger(logger.Named("repository"))).Load(ctx)
	if err != nil {
		return err
	}

	svc, err := app.New(tbl,
		app.WithLogger(logger.Named("report")),
		app.WithTopN(cfg.TopN),
		app.WithHistogramBuckets(cfg.HistogramBuckets),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithHistogramMode(mode),
		app.WithSourceName(cfg.DataPath),
	)
	if err != nil {
		return err
	}

	var sections []app.Section
	if opts.section != "" {
		sec, err := svc.Section(ctx, opts.section)
		if err != nil {
			return err
		}
		sections = []app.Section{sec}
	} else {
		summary := svc.Summary(ctx)
		if _, err := fmt.Fprintf(w, "%s: %d participations\n\n", summary.Source, summary.Participants); err != nil {
			return err
		}
		if sections, err = svc.Sections(ctx); err != nil {
			return err
		}
	}

	for _, sec := range sections {
		if err := render.Table(w, sec); err != nil {
			return err
		}
	}
	return nil
}
