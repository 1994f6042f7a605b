// Package series provides the tabular data source a bar group is laid out from.
//
// A [Series] is a rectangular table of values: rows are the categories within
// a group (one bar per row) and columns are the groups themselves. The layout
// engine only reads a series; it never mutates one.
//
// [Table] is the in-memory implementation used by every host in this
// repository. It can be mutated between layout passes with [Table.Set] and
// [Table.Reshape]; mutations are not broadcast, so the owner of the table must
// tell the engine to re-read it.
//
//	t, err := series.NewTable([][]float64{
//	    {5, 2, 0},
//	    {10, 8, 10},
//	})
//	t.Max()        // 10
//	t.ValueAt(1, 0) // 10
package series
