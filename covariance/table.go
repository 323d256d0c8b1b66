package covariance

import "fmt"

// Table is a small column-major sample table: named float64 columns of
// equal length. It replaces the tabular input of the covariance
// estimators with an explicit, dependency-free structure.
//
// The zero row count is established by the first column added; every
// later column must match it. Column order is preserved for
// deterministic iteration.
type Table struct {
	names []string
	cols  map[string][]float64
	rows  int
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{cols: make(map[string][]float64)}
}

// AddColumn appends a named column. The first column fixes the row
// count; subsequent columns must have the same length.
//
// Errors:
//   - ErrDuplicateColumn — name already present.
//   - ErrColumnLength    — length differs from the established row count.
func (t *Table) AddColumn(name string, values []float64) error {
	if _, ok := t.cols[name]; ok {
		return fmt.Errorf("%q: %w", name, ErrDuplicateColumn)
	}
	if len(t.names) > 0 && len(values) != t.rows {
		return fmt.Errorf("%q has %d rows, want %d: %w", name, len(values), t.rows, ErrColumnLength)
	}

	if len(t.names) == 0 {
		t.rows = len(values)
	}
	t.names = append(t.names, name)
	t.cols[name] = values

	return nil
}

// Column returns the values of the named column.
// Returns ErrUnknownColumn if the name is absent.
func (t *Table) Column(name string) ([]float64, error) {
	vals, ok := t.cols[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownColumn)
	}

	return vals, nil
}

// Rows returns the number of sample rows.
func (t *Table) Rows() int { return t.rows }

// Columns returns the column names in insertion order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)

	return out
}

// subset returns a new table holding only the given row indices of every
// column. Used by the binned estimators; indices are trusted to be in
// range.
func (t *Table) subset(rowIdx []int) *Table {
	sub := NewTable()
	for _, name := range t.names {
		src := t.cols[name]
		vals := make([]float64, len(rowIdx))
		for i, r := range rowIdx {
			vals[i] = src[r]
		}
		// Names are unique and lengths equal by construction.
		_ = sub.AddColumn(name, vals)
	}

	return sub
}
