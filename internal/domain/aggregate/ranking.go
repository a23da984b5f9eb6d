package aggregate

import (
	"cmp"
	"slices"

	"github.com/okian/eventdash/internal/domain/table"
)

// DefaultTopN is the ranking depth used by the dashboard.
const DefaultTopN = 10

// TopNByGroup ranks categoryColumn values by row count within each value of
// groupColumn and keeps the first n per group.
//
// Ordering is group ascending, then count descending. Equal counts are
// ordered by category value ascending (numbers numerically, then text), so
// the result is fully determined by the table contents.
func TopNByGroup(t *table.Table, groupColumn, categoryColumn string, n int) (*Result, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}
	counts, err := CountBy(t, groupColumn, categoryColumn)
	if err != nil {
		return nil, err
	}

	rows := counts.Rows
	slices.SortStableFunc(rows, func(a, b Row) int {
		if c := compareValues(a.Keys[0], b.Keys[0]); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return compareValues(a.Keys[1], b.Keys[1])
	})

	out := make([]Row, 0, len(rows))
	taken := 0
	for i, row := range rows {
		if i == 0 || row.Keys[0] != rows[i-1].Keys[0] {
			taken = 0
		}
		if taken < n {
			out = append(out, row)
			taken++
		}
	}
	counts.Rows = out
	return counts, nil
}
