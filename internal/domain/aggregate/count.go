package aggregate

import (
	"slices"
	"strings"

	"github.com/okian/eventdash/internal/domain/table"
)

// maxKeyColumns bounds the grouping key width of CountBy.
const maxKeyColumns = 2

// keySep joins key tuples into map keys; it cannot appear in trimmed CSV cells.
const keySep = "\x1f"

// CountBy groups the table by one or two key columns and counts rows per
// group. Rows with a missing value in any key column are left out. Rows are
// ordered ascending by key tuple.
func CountBy(t *table.Table, keyColumns ...string) (*Result, error) {
	if len(keyColumns) == 0 || len(keyColumns) > maxKeyColumns {
		return nil, ErrInvalidKeyColumns
	}
	cols, err := lookupColumns(t, keyColumns)
	if err != nil {
		return nil, err
	}

	groups := make(map[string]*Row)
	keys := make([]string, len(cols))
	var sb strings.Builder
rows:
	for i := 0; i < t.Len(); i++ {
		sb.Reset()
		for j, c := range cols {
			if c.Missing(i) {
				continue rows
			}
			keys[j] = c.Value(i)
			if j > 0 {
				sb.WriteString(keySep)
			}
			sb.WriteString(keys[j])
		}
		id := sb.String()
		row, ok := groups[id]
		if !ok {
			row = &Row{Keys: slices.Clone(keys)}
			groups[id] = row
		}
		row.Count++
	}

	return &Result{
		Columns: slices.Clone(keyColumns),
		Metric:  MetricCount,
		Rows:    sortedRows(groups),
	}, nil
}

// DistinctCountBy groups the table by groupColumn and counts the distinct,
// non-missing values of targetColumn in each group. A group whose target
// values are all missing reports zero.
func DistinctCountBy(t *table.Table, groupColumn, targetColumn string) (*Result, error) {
	cols, err := lookupColumns(t, []string{groupColumn, targetColumn})
	if err != nil {
		return nil, err
	}
	group, target := cols[0], cols[1]

	seen := make(map[string]map[string]struct{})
	for i := 0; i < t.Len(); i++ {
		if group.Missing(i) {
			continue
		}
		g := group.Value(i)
		values, ok := seen[g]
		if !ok {
			values = make(map[string]struct{})
			seen[g] = values
		}
		if !target.Missing(i) {
			values[target.Value(i)] = struct{}{}
		}
	}

	groups := make(map[string]*Row, len(seen))
	for g, values := range seen {
		groups[g] = &Row{Keys: []string{g}, Count: len(values)}
	}
	return &Result{
		Columns: []string{groupColumn},
		Metric:  MetricDistinctCount,
		Target:  targetColumn,
		Rows:    sortedRows(groups),
	}, nil
}

func lookupColumns(t *table.Table, names []string) ([]table.Column, error) {
	cols := make([]table.Column, len(names))
	for i, name := range names {
		c, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		cols[i] = c
	}
	return cols, nil
}

func sortedRows(groups map[string]*Row) []Row {
	rows := make([]Row, 0, len(groups))
	for _, r := range groups {
		rows = append(rows, *r)
	}
	slices.SortFunc(rows, func(a, b Row) int {
		return compareKeys(a.Keys, b.Keys)
	})
	return rows
}
