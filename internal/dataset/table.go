package dataset

import (
	"math/rand/v2"

	"github.com/samber/lo"
)

// ColumnKind is the inferred element kind of a whole column.
type ColumnKind int

const (
	ColumnText ColumnKind = iota
	ColumnNumeric
)

// Column is a named, ordered sequence of values.
type Column struct {
	Name   string
	Values []Value
}

// NewColumn builds a column from values.
func NewColumn(name string, values []Value) *Column {
	return &Column{Name: name, Values: values}
}

// NewStringColumn builds a text column, treating empty strings as missing.
func NewStringColumn(name string, values []string) *Column {
	return &Column{
		Name: name,
		Values: lo.Map(values, func(s string, _ int) Value {
			if s == "" {
				return Missing()
			}

			return NewString(s)
		}),
	}
}

// NewNumberColumn builds a numeric column.
func NewNumberColumn(name string, values []float64) *Column {
	return &Column{
		Name: name,
		Values: lo.Map(values, func(f float64, _ int) Value {
			return NewNumber(f)
		}),
	}
}

// Len returns the number of rows in the column.
func (c *Column) Len() int {
	return len(c.Values)
}

// Kind infers the element kind of the column: numeric when every non-missing
// value is a number, text otherwise. An all-missing column counts as text.
func (c *Column) Kind() ColumnKind {
	sawNumber := false

	for _, v := range c.Values {
		switch v.Kind {
		case KindString:
			return ColumnText
		case KindNumber:
			sawNumber = true
		}
	}

	if sawNumber {
		return ColumnNumeric
	}

	return ColumnText
}

// Strings returns the string forms of all non-missing values.
func (c *Column) Strings() []string {
	out := make([]string, 0, len(c.Values))

	for _, v := range c.Values {
		if v.IsMissing() {
			continue
		}

		out = append(out, v.Text())
	}

	return out
}

// Clone returns a deep copy of the column.
func (c *Column) Clone() *Column {
	values := make([]Value, len(c.Values))
	copy(values, c.Values)

	return &Column{Name: c.Name, Values: values}
}

// Table is an ordered collection of equal-length columns.
type Table struct {
	columns []*Column
	index   map[string]int
}

// New builds a table from columns, preserving their order.
func New(columns ...*Column) *Table {
	t := &Table{index: make(map[string]int, len(columns))}

	for _, col := range columns {
		t.SetColumn(col)
	}

	return t
}

// Column returns the named column.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}

	return t.columns[i], true
}

// SetColumn replaces the column of the same name, or appends a new one.
func (t *Table) SetColumn(col *Column) {
	if i, ok := t.index[col.Name]; ok {
		t.columns[i] = col
		return
	}

	t.index[col.Name] = len(t.columns)
	t.columns = append(t.columns, col)
}

// Columns returns the columns in order.
func (t *Table) Columns() []*Column {
	return t.columns
}

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	return lo.Map(t.columns, func(c *Column, _ int) string {
		return c.Name
	})
}

// NumRows returns the row count.
func (t *Table) NumRows() int {
	if len(t.columns) == 0 {
		return 0
	}

	return t.columns[0].Len()
}

// NumColumns returns the column count.
func (t *Table) NumColumns() int {
	return len(t.columns)
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	cloned := make([]*Column, 0, len(t.columns))
	for _, col := range t.columns {
		cloned = append(cloned, col.Clone())
	}

	return New(cloned...)
}

// Sample returns a new table holding at most n rows drawn uniformly without
// replacement. The draw is fully determined by seed, so previews built on a
// sample are reproducible. Tables with no more than n rows are returned as a
// clone.
func (t *Table) Sample(n int, seed uint64) *Table {
	if n <= 0 || t.NumRows() <= n {
		return t.Clone()
	}

	rng := rand.New(rand.NewPCG(seed, seed))
	rows := rng.Perm(t.NumRows())[:n]

	sampled := make([]*Column, 0, len(t.columns))

	for _, col := range t.columns {
		values := make([]Value, 0, n)
		for _, row := range rows {
			values = append(values, col.Values[row])
		}

		sampled = append(sampled, &Column{Name: col.Name, Values: values})
	}

	return New(sampled...)
}
