// Package table holds the immutable in-memory record table the dashboard
// aggregates over.
//
// Cells are stored column-major as trimmed strings. Missing cells (empty or a
// NaN/NA/null marker) are normalised to the empty string at construction, so
// every consumer sees a single representation of "absent".
package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/okian/eventdash/internal/domain/model"
)

// Table is a read-only set of rows addressed by column name.
// Nothing mutates a Table after New returns, so it is safe for concurrent use.
type Table struct {
	columns []string
	index   map[string]int
	cells   [][]string
	rows    int
}

// Column is a read-only view of one table column.
type Column struct {
	name   string
	values []string
}

// New builds a table from a header and row-major cells.
// Every row must have exactly len(columns) cells.
func New(columns []string, rows [][]string) (*Table, error) {
	t := &Table{
		columns: make([]string, len(columns)),
		index:   make(map[string]int, len(columns)),
		cells:   make([][]string, len(columns)),
		rows:    len(rows),
	}
	for i, c := range columns {
		name := strings.TrimSpace(c)
		if name == "" {
			return nil, fmt.Errorf("column %d: %w", i, ErrEmptyColumnName)
		}
		if _, dup := t.index[name]; dup {
			return nil, fmt.Errorf("column %q: %w", name, ErrDuplicateColumn)
		}
		t.columns[i] = name
		t.index[name] = i
		t.cells[i] = make([]string, len(rows))
	}
	for r, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d cells, want %d: %w", r, len(row), len(columns), ErrRaggedRow)
		}
		for c, v := range row {
			t.cells[c][r] = normalize(v)
		}
	}
	return t, nil
}

// FromRecords builds a table with the canonical dataset columns.
func FromRecords(records []model.Record) *Table {
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = r.Values()
	}
	t, err := New(model.Columns, rows)
	if err != nil {
		// model.Columns is fixed and Values always matches it.
		panic(err)
	}
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int { return t.rows }

// Columns returns the column names in header order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Has reports whether the table has a column with the given name.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the named column or an *InvalidColumnError.
func (t *Table) Column(name string) (Column, error) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, &InvalidColumnError{Column: name, Available: t.Columns()}
	}
	return Column{name: name, values: t.cells[i]}, nil
}

// Name returns the column name.
func (c Column) Name() string { return c.name }

// Len returns the number of cells in the column.
func (c Column) Len() int { return len(c.values) }

// Value returns the cell at row i; "" means missing.
func (c Column) Value(i int) string { return c.values[i] }

// Missing reports whether the cell at row i is absent.
func (c Column) Missing(i int) bool { return c.values[i] == "" }

// Float parses the cell at row i. The second result is false for missing or
// non-numeric cells.
func (c Column) Float(i int) (float64, bool) {
	v := c.values[i]
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

var missingMarkers = map[string]struct{}{
	"nan":  {},
	"na":   {},
	"n/a":  {},
	"null": {},
	"none": {},
}

func normalize(v string) string {
	v = strings.TrimSpace(v)
	if _, ok := missingMarkers[strings.ToLower(v)]; ok {
		return ""
	}
	return v
}
