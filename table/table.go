package table

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfBounds indicates a row or column position outside the table.
var ErrIndexOutOfBounds = errors.New("table: index out of bounds")

// ErrShapeMismatch indicates row data that does not fit the column count.
var ErrShapeMismatch = errors.New("table: row length does not match column count")

func tableErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Table.%s(%d,%d): %w", method, row, col, err)
}

// Table is a labeled, dense, row-major table of V values.
// Every row key has len(IndexNames) levels. data holds len(rows)*len(cols)
// elements.
type Table[V any] struct {
	indexNames []string
	rows       []Key
	cols       []Label
	data       []V
}

// New creates a table with the given index level names, row keys and
// column labels, with every cell set to V's zero value.
func New[V any](indexNames []string, rows []Key, cols []Label) *Table[V] {
	t := &Table[V]{
		indexNames: append([]string(nil), indexNames...),
		rows:       make([]Key, len(rows)),
		cols:       append([]Label(nil), cols...),
		data:       make([]V, len(rows)*len(cols)),
	}
	for i, k := range rows {
		t.rows[i] = k.clone()
	}
	return t
}

// FromRows builds a table whose row i holds values[i]. Every row must have
// exactly len(cols) values.
func FromRows[V any](indexNames []string, rows []Key, cols []Label, values [][]V) (*Table[V], error) {
	if len(values) != len(rows) {
		return nil, fmt.Errorf("table: %d value rows for %d row keys: %w", len(values), len(rows), ErrShapeMismatch)
	}
	t := New[V](indexNames, rows, cols)
	for i, row := range values {
		if len(row) != len(cols) {
			return nil, fmt.Errorf("table: row %d has %d values, want %d: %w", i, len(row), len(cols), ErrShapeMismatch)
		}
		copy(t.data[i*len(cols):], row)
	}
	return t, nil
}

// Shape returns the number of rows and columns.
func (t *Table[V]) Shape() (rows, cols int) {
	return len(t.rows), len(t.cols)
}

// IndexNames returns the names of the row index levels.
func (t *Table[V]) IndexNames() []string {
	return append([]string(nil), t.indexNames...)
}

// RowKeys returns a copy of the row index.
func (t *Table[V]) RowKeys() []Key {
	out := make([]Key, len(t.rows))
	for i, k := range t.rows {
		out[i] = k.clone()
	}
	return out
}

// Columns returns a copy of the column labels.
func (t *Table[V]) Columns() []Label {
	return append([]Label(nil), t.cols...)
}

func (t *Table[V]) indexOf(method string, row, col int) (int, error) {
	if row < 0 || row >= len(t.rows) || col < 0 || col >= len(t.cols) {
		return 0, tableErrorf(method, row, col, ErrIndexOutOfBounds)
	}
	return row*len(t.cols) + col, nil
}

// At returns the value at (row, col).
func (t *Table[V]) At(row, col int) (V, error) {
	idx, err := t.indexOf("At", row, col)
	if err != nil {
		var zero V
		return zero, err
	}
	return t.data[idx], nil
}

// Set stores v at (row, col).
func (t *Table[V]) Set(row, col int, v V) error {
	idx, err := t.indexOf("Set", row, col)
	if err != nil {
		return err
	}
	t.data[idx] = v
	return nil
}

// Row returns a copy of the values in row.
func (t *Table[V]) Row(row int) ([]V, error) {
	if row < 0 || row >= len(t.rows) {
		return nil, tableErrorf("Row", row, 0, ErrIndexOutOfBounds)
	}
	n := len(t.cols)
	return append([]V(nil), t.data[row*n:(row+1)*n]...), nil
}

// ColumnIndex returns the position of the column labeled c.
func (t *Table[V]) ColumnIndex(c Label) (int, bool) {
	for i, l := range t.cols {
		if l == c {
			return i, true
		}
	}
	return 0, false
}

// RowIndex returns the position of the first row whose key equals k.
func (t *Table[V]) RowIndex(k Key) (int, bool) {
	for i, rk := range t.rows {
		if rk.Equal(k) {
			return i, true
		}
	}
	return 0, false
}

// Column returns a copy of the values in the column labeled c.
func (t *Table[V]) Column(c Label) ([]V, bool) {
	j, ok := t.ColumnIndex(c)
	if !ok {
		return nil, false
	}
	out := make([]V, len(t.rows))
	for i := range t.rows {
		out[i] = t.data[i*len(t.cols)+j]
	}
	return out, true
}

// Lookup returns the value at the row keyed k and the column labeled c.
func (t *Table[V]) Lookup(k Key, c Label) (V, bool) {
	var zero V
	i, ok := t.RowIndex(k)
	if !ok {
		return zero, false
	}
	j, ok := t.ColumnIndex(c)
	if !ok {
		return zero, false
	}
	return t.data[i*len(t.cols)+j], true
}

// Clone returns a deep copy of t.
func (t *Table[V]) Clone() *Table[V] {
	out := New[V](t.indexNames, t.rows, t.cols)
	copy(out.data, t.data)
	return out
}

// Stack reshapes t into a single-column table. Each cell becomes one row
// whose key is the original row key extended by the column label, in
// row-major order. levelName names the new index level and valueName the
// single column.
func (t *Table[V]) Stack(levelName string, valueName Label) *Table[V] {
	names := append(t.IndexNames(), levelName)
	rows := make([]Key, 0, len(t.data))
	for _, rk := range t.rows {
		for _, c := range t.cols {
			k := append(rk.clone(), c)
			rows = append(rows, k)
		}
	}
	out := New[V](names, rows, []Label{valueName})
	copy(out.data, t.data)
	return out
}
