package domain

import (
	"encoding/json"
	"fmt"
)

// Table is an immutable, in-memory snapshot of a tabular dataset.
// Column order is preserved for display; detection logic does not depend on it.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]Value
}

// NewTable builds a table from positional rows. Every row must have exactly
// one value per column and column names must be unique.
func NewTable(columns []string, rows [][]Value) (*Table, error) {
	index := make(map[string]int, len(columns))
	for i, name := range columns {
		if name == "" {
			return nil, fmt.Errorf("column %d has an empty name", i)
		}
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", name)
		}
		index[name] = i
	}

	copied := make([][]Value, len(rows))
	for r, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d values, expected %d", r, len(row), len(columns))
		}
		copied[r] = append([]Value(nil), row...)
	}

	return &Table{
		columns: append([]string(nil), columns...),
		index:   index,
		rows:    copied,
	}, nil
}

// FromRecords builds a table from row maps. Keys absent from a record are
// Missing; keys not listed in columns are rejected.
func FromRecords(columns []string, records []map[string]Value) (*Table, error) {
	known := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		known[c] = struct{}{}
	}

	rows := make([][]Value, len(records))
	for r, rec := range records {
		for name := range rec {
			if _, ok := known[name]; !ok {
				return nil, fmt.Errorf("row %d references unknown column %q", r, name)
			}
		}
		row := make([]Value, len(columns))
		for c, name := range columns {
			row[c] = rec[name]
		}
		rows[r] = row
	}
	return NewTable(columns, rows)
}

// MustTable is NewTable that panics on error. Intended for fixtures.
func MustTable(columns []string, rows [][]Value) *Table {
	t, err := NewTable(columns, rows)
	if err != nil {
		panic(err)
	}
	return t
}

// Columns returns a copy of the column names in table order
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// NumRows returns the number of rows
func (t *Table) NumRows() int { return len(t.rows) }

// NumColumns returns the number of columns
func (t *Table) NumColumns() int { return len(t.columns) }

// HasColumn reports whether the table has a column with the given name
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Cell returns the value at (row, column)
func (t *Table) Cell(row int, column string) (Value, bool) {
	c, ok := t.index[column]
	if !ok || row < 0 || row >= len(t.rows) {
		return Value{}, false
	}
	return t.rows[row][c], true
}

// Column returns a copy of all values of the named column in row order
func (t *Table) Column(name string) ([]Value, bool) {
	c, ok := t.index[name]
	if !ok {
		return nil, false
	}
	out := make([]Value, len(t.rows))
	for r, row := range t.rows {
		out[r] = row[c]
	}
	return out, true
}

// Row returns a copy of the values of row r in column order
func (t *Table) Row(r int) []Value {
	if r < 0 || r >= len(t.rows) {
		return nil
	}
	return append([]Value(nil), t.rows[r]...)
}

// Record returns row r as a column → value map
func (t *Table) Record(r int) map[string]Value {
	if r < 0 || r >= len(t.rows) {
		return nil
	}
	rec := make(map[string]Value, len(t.columns))
	for c, name := range t.columns {
		rec[name] = t.rows[r][c]
	}
	return rec
}

// tablePayload is the wire shape of a table
type tablePayload struct {
	Columns []string  `json:"columns"`
	Rows    [][]Value `json:"rows"`
}

// MarshalJSON encodes the table as {"columns": [...], "rows": [[...], ...]}
func (t *Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(tablePayload{Columns: t.columns, Rows: t.rows})
}

// UnmarshalJSON decodes the {"columns", "rows"} wire shape
func (t *Table) UnmarshalJSON(data []byte) error {
	var p tablePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	built, err := NewTable(p.Columns, p.Rows)
	if err != nil {
		return err
	}
	*t = *built
	return nil
}
