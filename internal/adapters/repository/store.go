// Package repository loads the participation dataset into a record table.
package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/okian/eventdash/internal/domain/model"
	"github.com/okian/eventdash/internal/domain/table"
	"github.com/okian/eventdash/pkg/logger"
	"github.com/okian/eventdash/pkg/metrics"
)

// Source provides the record table the dashboard is built from.
type Source interface {
	// Load reads the dataset once. Errors are *DataLoadError.
	Load(ctx context.Context) (*table.Table, error)
}

// Format names a supported dataset file format.
type Format string

// Supported formats.
const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FileSource loads a dataset from a CSV or XLSX file on disk.
type FileSource struct {
	path   string
	format Format
	sheet  string
	logger logger.Logger
}

var _ Source = (*FileSource)(nil)

// NewFileSource creates a FileSource. The format defaults to the file
// extension, falling back to CSV.
func NewFileSource(path string, opts ...Option) *FileSource {
	s := &FileSource{
		path:   path,
		format: formatFromPath(path),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the file the source reads.
func (s *FileSource) Path() string { return s.path }

// Load reads, parses and validates the dataset.
func (s *FileSource) Load(ctx context.Context) (*table.Table, error) {
	start := time.Now()
	t, err := s.load(ctx)
	elapsedMs := float64(time.Since(start).Microseconds()) / 1000
	if err != nil {
		metrics.RecordDatasetLoadError()
		s.log().Error(ctx, "dataset load failed", logger.String("path", s.path), logger.Error(err))
		return nil, &DataLoadError{Path: s.path, Err: err}
	}
	metrics.RecordDatasetLoadDuration(elapsedMs)
	metrics.UpdateDatasetRows(t.Len())
	s.log().Info(ctx, "dataset loaded",
		logger.String("path", s.path),
		logger.String("format", string(s.format)),
		logger.Int("rows", t.Len()),
		logger.Int("columns", len(t.Columns())),
		logger.Float64("durationMs", elapsedMs),
	)
	return t, nil
}

func (s *FileSource) load(ctx context.Context) (*table.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(s.path); err != nil {
		return nil, err
	}

	var records [][]string
	switch s.format {
	case FormatCSV:
		f, err := os.Open(s.path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()
		if records, err = readCSV(f); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
	case FormatXLSX:
		rows, err := readXLSX(s.path, s.sheet)
		if err != nil {
			return nil, err
		}
		records = rows
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s.format)
	}
	if len(records) == 0 {
		return nil, ErrEmptyDataset
	}
	// A header without rows is a valid, empty dataset; gota refuses to
	// build a frame from it.
	if len(records) > 1 {
		df := loadRows(records)
		if df.Err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, df.Err)
		}
		records = df.Records()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return toTable(records)
}

func (s *FileSource) log() logger.Logger {
	if s.logger != nil {
		return s.logger
	}
	return logger.Named("repository")
}

// toTable converts header-first records into a record table, normalising
// header names and validating the year column.
func toTable(records [][]string) (*table.Table, error) {
	if len(records) == 0 {
		return nil, ErrEmptyDataset
	}
	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = toSnakeCase(h)
	}
	rows := records[1:]

	yearIdx := -1
	for i, h := range header {
		if h == model.ColumnYear {
			yearIdx = i
			break
		}
	}
	if yearIdx < 0 {
		return nil, ErrMissingYear
	}
	for r, row := range rows {
		year, err := parseYear(row[yearIdx])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", r+1, err)
		}
		row[yearIdx] = strconv.Itoa(year)
	}
	return table.New(header, rows)
}

// parseYear accepts integer years, including spreadsheet-style "2019.0",
// within the int32 range.
func parseYear(v string) (int, error) {
	v = strings.TrimSpace(v)
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) ||
		f < math.MinInt32 || f > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidYear, v)
	}
	return int(f), nil
}

func formatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX
	default:
		return FormatCSV
	}
}

// toSnakeCase converts "Column Name" to "column_name".
func toSnakeCase(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}

// IsDataLoadError reports whether err came from a failed dataset load.
func IsDataLoadError(err error) bool {
	var dle *DataLoadError
	return errors.As(err, &dle)
}
