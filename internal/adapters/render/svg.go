// Package render draws dashboard sections as SVG charts and terminal tables.
package render

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	service "github.com/okian/eventdash/internal/app"
	"github.com/okian/eventdash/internal/domain/aggregate"
	"github.com/okian/eventdash/pkg/metrics"
)

// Chart defaults and layout constants.
const (
	DefaultWidth  = 1024
	DefaultHeight = 480

	// axisAllowance is the horizontal room reserved for the y axis.
	axisAllowance = 120
	headroom      = 1.1
	lineWidth     = 2
	formatSVG     = "svg"
)

type options struct {
	width  int
	height int
}

// Option tunes SVG.
type Option func(*options)

// WithSize sets the chart size in pixels; non-positive values are ignored.
func WithSize(width, height int) Option {
	return func(o *options) {
		if width > 0 {
			o.width = width
		}
		if height > 0 {
			o.height = height
		}
	}
}

// Renderable reports whether SVG would draw anything for sec.
func Renderable(sec service.Section) bool {
	if sec.Failed() {
		return false
	}
	switch sec.Kind {
	case service.KindBar:
		return sec.Result != nil && sec.Result.Len() > 0
	case service.KindHistogram:
		return sec.Histogram != nil && len(sec.Histogram.Buckets) > 0 && len(sec.Histogram.Series) > 0
	default:
		return false
	}
}

// SVG writes sec as an SVG chart: bar sections as one bar per row, histogram
// sections as one line per overlay category.
func SVG(w io.Writer, sec service.Section, opts ...Option) error {
	o := options{width: DefaultWidth, height: DefaultHeight}
	for _, opt := range opts {
		opt(&o)
	}
	if !Renderable(sec) {
		return fmt.Errorf("%w: %s", ErrNothingToRender, sec.ID)
	}

	start := time.Now()
	var err error
	switch sec.Kind {
	case service.KindBar:
		err = barChart(sec, o).Render(chart.SVG, w)
	case service.KindHistogram:
		ch := histogramChart(sec, o)
		err = ch.Render(chart.SVG, w)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownKind, sec.Kind)
	}
	if err != nil {
		metrics.RecordChartRenderError(sec.ID)
		return err
	}
	metrics.RecordChartRender(sec.ID, formatSVG, float64(time.Since(start).Microseconds())/1000)
	return nil
}

func barChart(sec service.Section, o options) chart.BarChart {
	res := sec.Result
	catIdx := columnIndex(res.Columns, sec.CategoryColumn)
	colors := newCategoryColors()

	maxCount := 0
	bars := make([]chart.Value, 0, len(res.Rows))
	for _, row := range res.Rows {
		c := colorAt(0)
		if catIdx >= 0 {
			c = colors.color(row.Keys[catIdx])
		}
		bars = append(bars, chart.Value{
			Label: strings.Join(row.Keys, " "),
			Value: float64(row.Count),
			Style: chart.Style{FillColor: c, StrokeColor: c, StrokeWidth: 1},
		})
		if row.Count > maxCount {
			maxCount = row.Count
		}
	}

	slot := (o.width - axisAllowance) / len(bars)
	barWidth := max(1, slot*2/3)
	return chart.BarChart{
		Title:      sec.Title,
		Width:      o.width,
		Height:     o.height,
		BarWidth:   barWidth,
		BarSpacing: max(1, slot-barWidth),
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		YAxis: chart.YAxis{
			Name:  res.Metric,
			Range: &chart.ContinuousRange{Min: 0, Max: yMax(float64(maxCount))},
		},
		Bars: bars,
	}
}

func histogramChart(sec service.Section, o options) *chart.Chart {
	h := sec.Histogram
	xs := make([]float64, len(h.Buckets))
	for i, b := range h.Buckets {
		xs[i] = (b.Lower + b.Upper) / 2
	}
	if len(xs) == 1 {
		// A single point has no x extent; draw a flat segment across the bucket.
		xs = []float64{h.Buckets[0].Lower, h.Buckets[0].Upper}
	}

	peak := 0.0
	series := make([]chart.Series, 0, len(h.Series))
	for i, s := range h.Series {
		ys := s.Values
		if len(ys) == 1 {
			ys = []float64{ys[0], ys[0]}
		}
		for _, v := range ys {
			peak = math.Max(peak, v)
		}
		c := colorAt(i)
		series = append(series, chart.ContinuousSeries{
			Name:    s.Key,
			XValues: xs,
			YValues: ys,
			Style:   chart.Style{StrokeColor: c, StrokeWidth: lineWidth},
		})
	}

	yName := "count"
	if h.Mode == aggregate.ModePercent {
		yName = "percent"
	}
	last := h.Buckets[len(h.Buckets)-1]
	ch := &chart.Chart{
		Title:      sec.Title,
		Width:      o.width,
		Height:     o.height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  h.ValueColumn,
			Range: &chart.ContinuousRange{Min: h.Buckets[0].Lower, Max: last.Upper},
		},
		YAxis: chart.YAxis{
			Name:  yName,
			Range: &chart.ContinuousRange{Min: 0, Max: yMax(peak)},
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(ch)}
	return ch
}

// yMax leaves headroom above the tallest value and keeps the range non-empty.
func yMax(peak float64) float64 {
	if peak <= 0 {
		return 1
	}
	return peak * headroom
}

func columnIndex(columns []string, name string) int {
	for i, c := range columns {
		if c == name {
			return i
		}
	}
	return -1
}
