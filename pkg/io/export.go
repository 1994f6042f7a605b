package io

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
)

// WriteTOML encodes doc as a TOML chart document to w.
// The output round-trips through [ReadTOML].
func WriteTOML(doc *Document, w io.Writer) error {
	raw := tomlDocument{
		Title:     doc.Title,
		Width:     doc.Width,
		Height:    doc.Height,
		BarWidth:  doc.BarWidth,
		Placement: doc.Placement,
		Colors:    doc.Colors,
	}
	if t := doc.Table; t != nil {
		labelled := false
		for r := range t.Rows() {
			labelled = labelled || t.RowLabel(r) != ""
		}
		for c := range t.Columns() {
			if l := t.ColumnLabel(c); l != "" || raw.Columns != nil {
				if raw.Columns == nil {
					raw.Columns = make([]string, c, t.Columns())
				}
				raw.Columns = append(raw.Columns, l)
			}
		}
		for r, values := range t.Values() {
			row := tomlRow{Values: values}
			if labelled {
				row.Label = t.RowLabel(r)
			}
			raw.Rows = append(raw.Rows, row)
		}
	}
	return toml.NewEncoder(w).Encode(raw)
}

// ExportTOML writes doc to a TOML file at path.
func ExportTOML(doc *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := WriteTOML(doc, f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
