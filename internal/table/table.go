// Package table implements the in-memory tabular representation shared by
// the connectors, the cleaners, and the loader. Cells are strings; the
// empty cell is the null sentinel for every dataset.
package table

import (
	"fmt"
	"strings"
)

// Null is the canonical null cell value.
const Null = ""

// Sentinels treated as null on ingestion, compared after trimming.
var nullSentinels = map[string]bool{
	"NULL": true,
	"N/A":  true,
	"NaN":  true,
	"null": true,
}

// IsNull reports whether a cell holds the null sentinel.
func IsNull(v string) bool {
	return v == Null
}

// NormalizeCell trims surrounding whitespace and maps the known null
// sentinel strings to the canonical null.
func NormalizeCell(v string) string {
	v = strings.TrimSpace(v)
	if nullSentinels[v] {
		return Null
	}
	return v
}

// Table is an ordered set of named columns over string rows.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]string
}

// New creates an empty table with the given column set.
func New(columns ...string) *Table {
	t := &Table{
		columns: append([]string(nil), columns...),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range t.columns {
		t.index[c] = i
	}
	return t
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// AppendRow adds a row. The value count must match the column count.
func (t *Table) AppendRow(values ...string) error {
	if len(values) != len(t.columns) {
		return fmt.Errorf("row has %d values, table has %d columns",
			len(values), len(t.columns))
	}
	t.rows = append(t.rows, append([]string(nil), values...))
	return nil
}

// MustAppendRow adds a row and panics on a column count mismatch.
// Intended for fixtures and generated data with a known shape.
func (t *Table) MustAppendRow(values ...string) {
	if err := t.AppendRow(values...); err != nil {
		panic(err)
	}
}

// Row returns a copy of row i.
func (t *Table) Row(i int) []string {
	return append([]string(nil), t.rows[i]...)
}

// Get returns the cell at row i, column name. Unknown columns read as null.
func (t *Table) Get(i int, name string) string {
	c, ok := t.index[name]
	if !ok {
		return Null
	}
	return t.rows[i][c]
}

// Set writes the cell at row i, column name. Unknown columns are ignored.
func (t *Table) Set(i int, name, value string) {
	if c, ok := t.index[name]; ok {
		t.rows[i][c] = value
	}
}

// AddColumn appends a column filled with null.
func (t *Table) AddColumn(name string) {
	if t.HasColumn(name) {
		return
	}
	t.index[name] = len(t.columns)
	t.columns = append(t.columns, name)
	for i := range t.rows {
		t.rows[i] = append(t.rows[i], Null)
	}
}

// DropColumn removes a column if present.
func (t *Table) DropColumn(name string) {
	c, ok := t.index[name]
	if !ok {
		return
	}
	t.columns = append(t.columns[:c], t.columns[c+1:]...)
	delete(t.index, name)
	for n, i := range t.index {
		if i > c {
			t.index[n] = i - 1
		}
	}
	for i := range t.rows {
		t.rows[i] = append(t.rows[i][:c], t.rows[i][c+1:]...)
	}
}

// RenameColumn renames a column if present.
func (t *Table) RenameColumn(old, name string) {
	c, ok := t.index[old]
	if !ok {
		return
	}
	delete(t.index, old)
	t.index[name] = c
	t.columns[c] = name
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := New(t.columns...)
	out.rows = make([][]string, len(t.rows))
	for i, r := range t.rows {
		out.rows[i] = append([]string(nil), r...)
	}
	return out
}

// Filter returns a new table holding only the rows for which keep is true.
func (t *Table) Filter(keep func(i int) bool) *Table {
	out := New(t.columns...)
	for i, r := range t.rows {
		if keep(i) {
			out.rows = append(out.rows, append([]string(nil), r...))
		}
	}
	return out
}

// NullCount returns the number of null cells in a column.
func (t *Table) NullCount(name string) int {
	c, ok := t.index[name]
	if !ok {
		return len(t.rows)
	}
	n := 0
	for i := range t.rows {
		if IsNull(t.rows[i][c]) {
			n++
		}
	}
	return n
}

// Equal reports whether two tables have identical columns and rows.
func (t *Table) Equal(o *Table) bool {
	if len(t.columns) != len(o.columns) || len(t.rows) != len(o.rows) {
		return false
	}
	for i := range t.columns {
		if t.columns[i] != o.columns[i] {
			return false
		}
	}
	for i := range t.rows {
		for j := range t.rows[i] {
			if t.rows[i][j] != o.rows[i][j] {
				return false
			}
		}
	}
	return true
}
