// Package service provides the dashboard service that turns the loaded
// record table into the sections served by the HTTP API and the report CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/okian/eventdash/internal/domain/aggregate"
	"github.com/okian/eventdash/internal/domain/model"
	"github.com/okian/eventdash/internal/domain/table"
	"github.com/okian/eventdash/internal/worker"
	"github.com/okian/eventdash/pkg/logger"
	"github.com/okian/eventdash/pkg/metrics"
)

const microsPerMilli = 1000

// Service computes dashboard sections from an immutable table. Nothing is
// cached; every call aggregates afresh.
type Service struct {
	table *table.Table
	defs  []sectionDef
	index map[string]int

	// Configuration
	topN             int
	histogramBuckets int
	histogramMode    aggregate.Mode
	source           string
	workerCount      int

	pool *worker.Pool

	// Counters for GetStats
	computed atomic.Int64
	failed   atomic.Int64

	logger logger.Logger
}

// Summary is the headline block of the dashboard.
type Summary struct {
	Source       string   `json:"source"`
	Participants int      `json:"participants"`
	Columns      []string `json:"columns"`
	Sections     int      `json:"sections"`
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTopN sets the per-year limit of the ranking sections.
func WithTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topN = n
		}
	}
}

// WithHistogramBuckets sets the bucket count of the age distribution.
func WithHistogramBuckets(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.histogramBuckets = n
		}
	}
}

// WithHistogramMode switches the age distribution between counts and
// per-year percentages.
func WithHistogramMode(mode aggregate.Mode) Option {
	return func(s *Service) {
		if _, err := aggregate.ParseMode(string(mode)); err == nil {
			s.histogramMode = mode
		}
	}
}

// WithWorkerCount caps how many sections Sections computes at once.
// Values below 1 mean one worker per CPU.
func WithWorkerCount(n int) Option {
	return func(s *Service) {
		s.workerCount = n
	}
}

// WithSourceName labels the dataset in the summary, usually its path.
func WithSourceName(name string) Option {
	return func(s *Service) {
		s.source = name
	}
}

// New constructs a Service over t.
func New(t *table.Table, opts ...Option) (*Service, error) {
	if t == nil {
		return nil, ErrNilTable
	}
	s := &Service{
		table:            t,
		topN:             aggregate.DefaultTopN,
		histogramBuckets: aggregate.DefaultBuckets,
		histogramMode:    aggregate.ModePercent,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Named("dashboard")
	}

	s.pool = worker.NewPool(s.workerCount,
		worker.WithName("sections"),
		worker.WithLogger(s.logger.Named("workers")),
	)

	s.defs = s.catalogue()
	s.index = make(map[string]int, len(s.defs))
	for i, d := range s.defs {
		s.index[d.id] = i
	}
	return s, nil
}

// IDs returns the section IDs in page order.
func (s *Service) IDs() []string {
	ids := make([]string, len(s.defs))
	for i, d := range s.defs {
		ids[i] = d.id
	}
	return ids
}

// Sections computes every section on the worker pool and returns them in
// page order. A section that fails keeps its error and does not stop the
// others; only a done context aborts.
func (s *Service) Sections(ctx context.Context) ([]Section, error) {
	out := make([]Section, len(s.defs))
	jobs := make([]worker.Job, len(s.defs))
	for i, d := range s.defs {
		jobs[i] = func(ctx context.Context) {
			out[i] = s.compute(ctx, d)
		}
	}
	if err := s.pool.Run(ctx, jobs); err != nil {
		return nil, err
	}
	return out, nil
}

// Section computes a single section by ID.
func (s *Service) Section(ctx context.Context, id string) (Section, error) {
	i, ok := s.index[id]
	if !ok {
		return Section{}, fmt.Errorf("%w: %q", ErrSectionNotFound, id)
	}
	if err := ctx.Err(); err != nil {
		return Section{}, err
	}
	return s.compute(ctx, s.defs[i]), nil
}

func (s *Service) compute(ctx context.Context, d sectionDef) Section {
	sec := Section{
		ID:             d.id,
		Title:          d.title,
		Kind:           d.kind,
		XColumn:        d.x,
		CategoryColumn: d.category,
	}

	start := time.Now()
	res, hist, err := d.compute(s.table)
	elapsedMs := float64(time.Since(start).Microseconds()) / microsPerMilli

	if err != nil {
		s.failed.Add(1)
		sec.Error = err.Error()
		metrics.RecordSectionError(d.id, errorType(err))
		s.logger.Warn(ctx, "section failed",
			logger.String("section", d.id),
			logger.Error(err),
		)
		return sec
	}

	s.computed.Add(1)
	size := 0
	if res != nil {
		size = res.Len()
	}
	if hist != nil {
		size = len(hist.Buckets)
	}
	metrics.RecordSection(d.id, elapsedMs, size)
	s.logger.Debug(ctx, "section computed",
		logger.String("section", d.id),
		logger.Int("rows", size),
		logger.Float64("elapsedMs", elapsedMs),
	)

	sec.Result = res
	sec.Histogram = hist
	return sec
}

// errorType maps an aggregation error to a metrics label.
func errorType(err error) string {
	switch {
	case errors.Is(err, aggregate.ErrInvalidColumn):
		return "invalid_column"
	case errors.Is(err, aggregate.ErrInvalidLimit),
		errors.Is(err, aggregate.ErrInvalidBucketCount),
		errors.Is(err, aggregate.ErrInvalidKeyColumns),
		errors.Is(err, aggregate.ErrInvalidMode):
		return "invalid_argument"
	default:
		return "internal"
	}
}

// Summary returns the headline numbers of the dashboard.
func (s *Service) Summary(_ context.Context) Summary {
	return Summary{
		Source:       s.source,
		Participants: s.table.Len(),
		Columns:      s.table.Columns(),
		Sections:     len(s.defs),
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"source":           s.source,
		"rows":             s.table.Len(),
		"columns":          len(s.table.Columns()),
		"sections":         len(s.defs),
		"topN":             s.topN,
		"histogramBuckets": s.histogramBuckets,
		"histogramMode":    string(s.histogramMode),
		"workers":          s.pool.Size(),
		"hasAge":           s.table.Has(model.ColumnAge),
		"computed":         s.computed.Load(),
		"failed":           s.failed.Load(),
	}
}
