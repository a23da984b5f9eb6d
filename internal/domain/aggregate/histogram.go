package aggregate

import (
	"math"
	"slices"

	"github.com/okian/eventdash/internal/domain/table"
)

// DefaultBuckets is the bucket count of the dashboard's age histogram.
const DefaultBuckets = 60

// allSeries keys the single series of a histogram without an overlay column.
const allSeries = "all"

// percentScale is the sum every non-empty percent series is normalised to.
const percentScale = 100

// Mode selects what a histogram series holds per bucket.
type Mode string

// Histogram modes.
const (
	ModeCount   Mode = "count"
	ModePercent Mode = "percent"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeCount, ModePercent:
		return Mode(s), nil
	default:
		return "", ErrInvalidMode
	}
}

// Bucket is one equal-width interval. Every bucket is [Lower, Upper) except
// the last, which also includes Upper.
type Bucket struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Series is the per-bucket distribution of one overlay category.
type Series struct {
	Key string `json:"key"`
	// Total counts the valid values that fell inside the bucket range.
	Total  int       `json:"total"`
	Values []float64 `json:"values"`
}

// Histogram is the result of HistogramBuckets.
type Histogram struct {
	ValueColumn   string   `json:"value_column"`
	OverlayColumn string   `json:"overlay_column,omitempty"`
	Mode          Mode     `json:"mode"`
	Buckets       []Bucket `json:"buckets"`
	Series        []Series `json:"series"`
}

// HistogramOption tunes HistogramBuckets.
type HistogramOption func(*histogramConfig)

type histogramConfig struct {
	lower    float64
	upper    float64
	hasLower bool
	hasUpper bool
}

// WithLowerBound pins the start of the first bucket instead of using the
// observed minimum. Values below it are not counted.
func WithLowerBound(v float64) HistogramOption {
	return func(c *histogramConfig) {
		c.lower = v
		c.hasLower = true
	}
}

// WithUpperBound pins the end of the last bucket instead of using the
// observed maximum. Values above it are not counted.
func WithUpperBound(v float64) HistogramOption {
	return func(c *histogramConfig) {
		c.upper = v
		c.hasUpper = true
	}
}

// HistogramBuckets splits the numeric values of valueColumn into bucketCount
// equal-width buckets spanning the observed [min, max] and counts, per
// category of overlayColumn, the rows in each bucket. Missing and non-numeric
// values are ignored. An empty overlayColumn yields a single series "all".
//
// In ModePercent every series is normalised to sum to 100 on its own; a
// series without valid values stays all zeros.
func HistogramBuckets(t *table.Table, valueColumn, overlayColumn string, bucketCount int, mode Mode, opts ...HistogramOption) (*Histogram, error) {
	if bucketCount < 1 {
		return nil, ErrInvalidBucketCount
	}
	if _, err := ParseMode(string(mode)); err != nil {
		return nil, err
	}
	values, err := t.Column(valueColumn)
	if err != nil {
		return nil, err
	}
	var overlay table.Column
	if overlayColumn != "" {
		if overlay, err = t.Column(overlayColumn); err != nil {
			return nil, err
		}
	}

	cfg := histogramConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	type point struct {
		key   string
		value float64
		valid bool
	}
	points := make([]point, 0, t.Len())
	categories := make(map[string]struct{})
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := 0; i < t.Len(); i++ {
		key := allSeries
		if overlayColumn != "" {
			if overlay.Missing(i) {
				continue
			}
			key = overlay.Value(i)
		}
		categories[key] = struct{}{}
		v, ok := values.Float(i)
		points = append(points, point{key: key, value: v, valid: ok})
		if ok {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}

	h := &Histogram{
		ValueColumn:   valueColumn,
		OverlayColumn: overlayColumn,
		Mode:          mode,
	}
	keys := make([]string, 0, len(categories))
	for k := range categories {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareValues)

	if math.IsInf(lo, 1) {
		// No valid values: categories exist but there is nothing to bucket.
		for _, k := range keys {
			h.Series = append(h.Series, Series{Key: k, Values: []float64{}})
		}
		return h, nil
	}

	if cfg.hasLower {
		lo = cfg.lower
	}
	if cfg.hasUpper {
		hi = cfg.upper
	}
	if !(hi > lo) {
		hi = lo + 1
	}
	width := (hi - lo) / float64(bucketCount)

	h.Buckets = make([]Bucket, bucketCount)
	for i := range h.Buckets {
		h.Buckets[i] = Bucket{Lower: lo + float64(i)*width, Upper: lo + float64(i+1)*width}
	}
	h.Buckets[bucketCount-1].Upper = hi

	index := make(map[string]int, len(keys))
	h.Series = make([]Series, len(keys))
	for i, k := range keys {
		index[k] = i
		h.Series[i] = Series{Key: k, Values: make([]float64, bucketCount)}
	}
	for _, p := range points {
		if !p.valid || p.value < lo || p.value > hi {
			continue
		}
		b := int((p.value - lo) / width)
		if b >= bucketCount {
			b = bucketCount - 1
		}
		s := &h.Series[index[p.key]]
		s.Values[b]++
		s.Total++
	}

	if mode == ModePercent {
		for i := range h.Series {
			s := &h.Series[i]
			if s.Total == 0 {
				continue
			}
			for b := range s.Values {
				s.Values[b] = s.Values[b] * percentScale / float64(s.Total)
			}
		}
	}
	return h, nil
}
