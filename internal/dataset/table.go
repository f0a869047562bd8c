package dataset

import (
	"fmt"
	"math"
	"time"

	"github.com/couchcryptid/covid-analytics-etl/internal/stats"
)

// ColumnKind controls how a column is formatted when written back to CSV.
type ColumnKind int

const (
	// KindInt columns are written without a decimal point.
	KindInt ColumnKind = iota
	// KindFloat columns are written with fixed 6-decimal precision.
	KindFloat
)

// Table is an in-memory daily time series: one row per calendar date plus a
// set of named numeric value columns. Missing cells are represented as NaN.
//
// Dates are normalized to UTC midnight. Within a table, dates are unique;
// constructors and loaders enforce this.
type Table struct {
	name    string
	columns []string
	kinds   []ColumnKind
	dates   []time.Time
	cells   [][]float64 // row-major, len(columns) per row
}

// New creates an empty table with the given value columns (date excluded).
// All columns default to KindInt until values say otherwise.
func New(name string, columns []string) *Table {
	kinds := make([]ColumnKind, len(columns))
	return &Table{
		name:    name,
		columns: append([]string(nil), columns...),
		kinds:   kinds,
	}
}

// Name returns the dataset name used in diagnostics.
func (t *Table) Name() string { return t.name }

// Columns returns the value column names in order (date excluded).
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int { return len(t.dates) }

// Dates returns the row dates in order.
func (t *Table) Dates() []time.Time {
	return append([]time.Time(nil), t.dates...)
}

// AppendRow adds one row. The number of values must match the column count
// and the date must not already be present.
func (t *Table) AppendRow(date time.Time, values []float64) error {
	if len(values) != len(t.columns) {
		return fmt.Errorf("append row: got %d values, table has %d columns", len(values), len(t.columns))
	}
	date = normalizeDate(date)
	for _, d := range t.dates {
		if d.Equal(date) {
			return &SchemaError{Path: t.name, Reason: fmt.Sprintf("duplicate date %s", date.Format(dateLayout))}
		}
	}
	t.dates = append(t.dates, date)
	t.cells = append(t.cells, append([]float64(nil), values...))
	return nil
}

// SetKind overrides the output formatting for a column.
func (t *Table) SetKind(column string, kind ColumnKind) error {
	i := t.columnIndex(column)
	if i < 0 {
		return fmt.Errorf("set kind: no column %q", column)
	}
	t.kinds[i] = kind
	return nil
}

// Kind reports the output formatting for a column, defaulting to KindInt
// for unknown names.
func (t *Table) Kind(column string) ColumnKind {
	if i := t.columnIndex(column); i >= 0 {
		return t.kinds[i]
	}
	return KindInt
}

// Value returns the cell at (row, column). NaN means missing.
func (t *Table) Value(row int, column string) (float64, error) {
	i := t.columnIndex(column)
	if i < 0 {
		return 0, fmt.Errorf("no column %q in %s", column, t.name)
	}
	if row < 0 || row >= len(t.cells) {
		return 0, fmt.Errorf("row %d out of range in %s", row, t.name)
	}
	return t.cells[row][i], nil
}

// Column returns a copy of a column's values in row order.
func (t *Table) Column(column string) ([]float64, error) {
	i := t.columnIndex(column)
	if i < 0 {
		return nil, fmt.Errorf("no column %q in %s", column, t.name)
	}
	out := make([]float64, len(t.cells))
	for r, row := range t.cells {
		out[r] = row[i]
	}
	return out, nil
}

// HasColumn reports whether the table has a value column with the given name.
func (t *Table) HasColumn(column string) bool { return t.columnIndex(column) >= 0 }

// InnerJoin combines two tables on date, keeping only dates present in both.
// Row order follows the left table; the result's columns are the left
// columns followed by the right columns. Shared column names are rejected.
func InnerJoin(left, right *Table) (*Table, error) {
	for _, c := range right.columns {
		if left.columnIndex(c) >= 0 {
			return nil, fmt.Errorf("inner join: column %q present in both tables", c)
		}
	}

	joined := New(left.name+"+"+right.name, append(left.Columns(), right.Columns()...))
	copy(joined.kinds, left.kinds)
	copy(joined.kinds[len(left.kinds):], right.kinds)

	rightRows := make(map[time.Time][]float64, len(right.dates))
	for r, d := range right.dates {
		rightRows[d] = right.cells[r]
	}

	for r, d := range left.dates {
		rrow, ok := rightRows[d]
		if !ok {
			continue
		}
		row := make([]float64, 0, len(joined.columns))
		row = append(row, left.cells[r]...)
		row = append(row, rrow...)
		if err := joined.AppendRow(d, row); err != nil {
			return nil, err
		}
	}
	return joined, nil
}

// DropMissing removes every row containing at least one NaN cell and
// reports how many rows were removed.
func (t *Table) DropMissing() int {
	removed := 0
	keepDates := t.dates[:0]
	keepCells := t.cells[:0]
	for r, row := range t.cells {
		if rowHasNaN(row) {
			removed++
			continue
		}
		keepDates = append(keepDates, t.dates[r])
		keepCells = append(keepCells, row)
	}
	t.dates = keepDates
	t.cells = keepCells
	return removed
}

// HasMissing reports whether any cell in the table is NaN.
func (t *Table) HasMissing() bool {
	for _, row := range t.cells {
		if rowHasNaN(row) {
			return true
		}
	}
	return false
}

// Standardize replaces each column not listed in except with its z-score,
// using the column mean and population standard deviation. Statistics for
// every column are computed up front, so a DegenerateColumnError leaves the
// table unmodified.
func (t *Table) Standardize(except ...string) error {
	skip := make(map[string]bool, len(except))
	for _, c := range except {
		skip[c] = true
	}

	type colStats struct {
		idx       int
		mean, std float64
	}
	var targets []colStats
	for i, c := range t.columns {
		if skip[c] {
			continue
		}
		col := make([]float64, len(t.cells))
		for r, row := range t.cells {
			col[r] = row[i]
		}
		mean := stats.Mean(col)
		std := stats.PopStdDev(col)
		if std == 0 {
			return &DegenerateColumnError{Column: c}
		}
		targets = append(targets, colStats{idx: i, mean: mean, std: std})
	}

	for _, cs := range targets {
		for _, row := range t.cells {
			row[cs.idx] = (row[cs.idx] - cs.mean) / cs.std
		}
		t.kinds[cs.idx] = KindFloat
	}
	return nil
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := New(t.name, t.columns)
	copy(out.kinds, t.kinds)
	out.dates = append([]time.Time(nil), t.dates...)
	out.cells = make([][]float64, len(t.cells))
	for r, row := range t.cells {
		out.cells[r] = append([]float64(nil), row...)
	}
	return out
}

// Reorder returns a copy of the table with its value columns in the given
// order. Every requested column must exist.
func (t *Table) Reorder(columns []string) (*Table, error) {
	idx := make([]int, len(columns))
	for j, c := range columns {
		i := t.columnIndex(c)
		if i < 0 {
			return nil, fmt.Errorf("reorder: no column %q in %s", c, t.name)
		}
		idx[j] = i
	}

	out := New(t.name, columns)
	for j, i := range idx {
		out.kinds[j] = t.kinds[i]
	}
	for r, d := range t.dates {
		row := make([]float64, len(idx))
		for j, i := range idx {
			row[j] = t.cells[r][i]
		}
		if err := out.AppendRow(d, row); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (t *Table) columnIndex(column string) int {
	for i, c := range t.columns {
		if c == column {
			return i
		}
	}
	return -1
}

func rowHasNaN(row []float64) bool {
	for _, v := range row {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

func normalizeDate(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}
