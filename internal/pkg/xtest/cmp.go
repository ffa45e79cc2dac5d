package xtest

import (
	"github.com/google/go-cmp/cmp"

	"github.com/looplj/anonhub/internal/dataset"
)

// cell is the comparable view of a single value: its kind and text form.
// Numeric values parsed from text carry their lexical form, so comparing
// the raw structs would distinguish otherwise equal cells.
type cell struct {
	Kind dataset.ValueKind
	Text string
}

// flatTable is an exported-field view of a table so cmp can walk it.
type flatTable struct {
	Names   []string
	Columns [][]cell
}

// TableTransformer lets cmp compare tables by their column order and values.
var TableTransformer = cmp.Transformer("table", func(t *dataset.Table) flatTable {
	flat := flatTable{}

	for _, col := range t.Columns() {
		flat.Names = append(flat.Names, col.Name)

		cells := make([]cell, 0, col.Len())
		for _, v := range col.Values {
			cells = append(cells, cell{Kind: v.Kind, Text: v.Text()})
		}

		flat.Columns = append(flat.Columns, cells)
	}

	return flat
})

// Equal provides semantic equality comparison for engine types.
func Equal(a, b any, opts ...cmp.Option) bool {
	return cmp.Equal(a, b, append(opts, TableTransformer)...)
}

// Diff returns a human-readable diff, empty when equal.
func Diff(a, b any, opts ...cmp.Option) string {
	return cmp.Diff(a, b, append(opts, TableTransformer)...)
}
