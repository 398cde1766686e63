package types

import (
	"errors"
	"fmt"
)

var ErrUnknownColumn = errors.New("unknown column")

// Row maps a column name to its cell value. A nil value is an empty cell.
type Row map[string]any

type Table struct {
	Name    string
	Columns []string
	Rows    []Row
}

func NewTable(name string, columns []string) *Table {
	return &Table{
		Name:    name,
		Columns: append([]string(nil), columns...),
	}
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

func (t *Table) HasColumn(name string) bool {
	for _, col := range t.Columns {
		if col == name {
			return true
		}
	}
	return false
}

// NewRow builds a row holding a value for every declared column. Columns absent
// from values are set to nil.
func (t *Table) NewRow(values map[string]any) (Row, error) {
	for name := range values {
		if !t.HasColumn(name) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, name)
		}
	}
	row := make(Row, len(t.Columns))
	for _, col := range t.Columns {
		row[col] = values[col]
	}
	return row, nil
}

func (t *Table) Append(row Row) error {
	full, err := t.NewRow(row)
	if err != nil {
		return err
	}
	t.Rows = append(t.Rows, full)
	return nil
}

// Values returns the row's cells in column order.
func (t *Table) Values(row Row) []any {
	out := make([]any, len(t.Columns))
	for i, col := range t.Columns {
		out[i] = row[col]
	}
	return out
}

// Clone copies the table and its rows. Cell values are shared.
func (t *Table) Clone() *Table {
	c := NewTable(t.Name, t.Columns)
	c.Rows = make([]Row, len(t.Rows))
	for i, row := range t.Rows {
		cp := make(Row, len(row))
		for k, v := range row {
			cp[k] = v
		}
		c.Rows[i] = cp
	}
	return c
}
