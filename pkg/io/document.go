package io

import (
	"image/color"

	"github.com/matzehuels/bargroup/pkg/colors"
	"github.com/matzehuels/bargroup/pkg/series"
)

// Document is a chart: the data table and how to lay it out.
// Zero sizes mean "use the host default".
type Document struct {
	Title     string
	Width     float64
	Height    float64
	BarWidth  float64
	Placement string
	Colors    []string
	Table     *series.Table
}

// Palette parses the document colors. Without explicit colors it generates
// one distinct color per row.
func (d *Document) Palette() ([]color.Color, error) {
	if len(d.Colors) == 0 {
		rows := 0
		if d.Table != nil {
			rows = d.Table.Rows()
		}
		return colors.Default(rows), nil
	}
	return colors.ParseAll(d.Colors)
}

// Example returns a small two-row, three-column chart.
func Example() *Document {
	t, _ := series.NewTable([][]float64{
		{5, 2, 0},
		{10, 8, 10},
	})
	_ = t.SetLabels([]string{"north", "south"}, []string{"Q1", "Q2", "Q3"})
	return &Document{
		Title:     "Regional sales",
		Width:     120,
		Height:    60,
		BarWidth:  10,
		Placement: "legacy",
		Colors:    []string{"red", "blue"},
		Table:     t,
	}
}
