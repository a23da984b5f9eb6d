package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	service "github.com/okian/eventdash/internal/app"
	"github.com/okian/eventdash/internal/domain/aggregate"
)

// Table writes sec as a terminal table under a coloured title. Failed
// sections print their error instead.
func Table(w io.Writer, sec service.Section) error {
	if _, err := color.New(color.FgYellow, color.Bold).Fprintln(w, sec.Title); err != nil {
		return err
	}
	if sec.Failed() {
		_, err := color.New(color.FgRed).Fprintf(w, "  error: %s\n\n", sec.Error)
		return err
	}

	tw := tablewriter.NewWriter(w)
	tw.SetAutoFormatHeaders(false)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)

	switch {
	case sec.Kind == service.KindBar && sec.Result != nil:
		writeResult(tw, sec.Result)
	case sec.Kind == service.KindHistogram && sec.Histogram != nil:
		writeHistogram(tw, sec.Histogram)
	default:
		_, err := fmt.Fprintf(w, "  (no data)\n\n")
		return err
	}

	tw.Render()
	_, err := fmt.Fprintln(w)
	return err
}

func writeResult(tw *tablewriter.Table, res *aggregate.Result) {
	header := append([]string{}, res.Columns...)
	metric := res.Metric
	if res.Target != "" {
		metric = res.Metric + "(" + res.Target + ")"
	}
	tw.SetHeader(append(header, metric))
	for _, row := range res.Rows {
		tw.Append(append(append([]string{}, row.Keys...), strconv.Itoa(row.Count)))
	}
	tw.SetFooter(append(make([]string, len(res.Columns)), "total "+strconv.Itoa(res.Total())))
}

func writeHistogram(tw *tablewriter.Table, h *aggregate.Histogram) {
	header := []string{h.ValueColumn}
	for _, s := range h.Series {
		header = append(header, s.Key)
	}
	tw.SetHeader(header)

	prec := 0
	if h.Mode == aggregate.ModePercent {
		prec = 2
	}
	for i, b := range h.Buckets {
		closing := ")"
		if i == len(h.Buckets)-1 {
			closing = "]"
		}
		line := []string{fmt.Sprintf("[%.1f, %.1f%s", b.Lower, b.Upper, closing)}
		for _, s := range h.Series {
			line = append(line, strconv.FormatFloat(s.Values[i], 'f', prec, 64))
		}
		tw.Append(line)
	}
}
