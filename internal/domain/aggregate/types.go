// Package aggregate turns a record table into the grouped, counted and ranked
// tables the dashboard charts consume.
//
// Every function here is pure: it reads the table, allocates a fresh result
// and keeps no state between calls.
package aggregate

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Metric names carried by Result.
const (
	MetricCount         = "count"
	MetricDistinctCount = "distinct_count"
)

// Row is one aggregated group: the grouping key values, in Result.Columns
// order, and the derived metric.
type Row struct {
	Keys  []string
	Count int
}

// Result is an ordered table of aggregated rows.
type Result struct {
	// Columns names the grouping keys of every row.
	Columns []string
	// Metric is MetricCount or MetricDistinctCount.
	Metric string
	// Target is the counted column for MetricDistinctCount.
	Target string
	Rows   []Row
}

// Len returns the number of rows.
func (r *Result) Len() int { return len(r.Rows) }

// Total sums the metric over all rows.
func (r *Result) Total() int {
	total := 0
	for _, row := range r.Rows {
		total += row.Count
	}
	return total
}

// Lookup returns the count for a key tuple.
func (r *Result) Lookup(keys ...string) (int, bool) {
	for _, row := range r.Rows {
		if equalKeys(row.Keys, keys) {
			return row.Count, true
		}
	}
	return 0, false
}

// MarshalJSON encodes the result with one object per row whose fields are
// the key column names plus "count", in column order.
func (r *Result) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"columns":`)
	if err := writeJSON(&buf, r.Columns); err != nil {
		return nil, err
	}
	buf.WriteString(`,"metric":`)
	if err := writeJSON(&buf, r.Metric); err != nil {
		return nil, err
	}
	if r.Target != "" {
		buf.WriteString(`,"target":`)
		if err := writeJSON(&buf, r.Target); err != nil {
			return nil, err
		}
	}
	buf.WriteString(`,"rows":[`)
	for i, row := range r.Rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for j, col := range r.Columns {
			if err := writeJSON(&buf, col); err != nil {
				return nil, err
			}
			buf.WriteByte(':')
			if err := writeJSON(&buf, row.Keys[j]); err != nil {
				return nil, err
			}
			buf.WriteByte(',')
		}
		buf.WriteString(`"count":`)
		buf.WriteString(strconv.Itoa(row.Count))
		buf.WriteByte('}')
	}
	buf.WriteString("]}")
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

func equalKeys(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
