package sink

import (
	"encoding/json"

	"github.com/matzehuels/bargroup/pkg/bargroup"
	"github.com/matzehuels/bargroup/pkg/colors"
)

type jsonOutput struct {
	Title         string    `json:"title,omitempty"`
	Width         float64   `json:"width"`
	Height        float64   `json:"height"`
	X             float64   `json:"x"`
	Y             float64   `json:"y"`
	BarWidth      float64   `json:"bar_width"`
	Placement     string    `json:"placement"`
	Max           float64   `json:"max"`
	Min           float64   `json:"min"`
	Scale         float64   `json:"scale"`
	XStep         float64   `json:"x_step"`
	ScaleFallback bool      `json:"scale_fallback,omitempty"`
	Rows          int       `json:"rows"`
	Columns       int       `json:"columns"`
	Bars          []jsonBar `json:"bars"`
}

type jsonBar struct {
	Row         int     `json:"row"`
	Column      int     `json:"column"`
	RowLabel    string  `json:"row_label,omitempty"`
	ColumnLabel string  `json:"column_label,omitempty"`
	Value       float64 `json:"value"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Color       string  `json:"color"`
}

type labeler interface {
	RowLabel(i int) string
	ColumnLabel(i int) string
}

// RenderJSON exports the computed layout as a pretty-printed JSON document.
//
// Bars are listed column by column. Geometry is read from elements that
// implement [bargroup.Shape]; other elements are listed with their value
// only. RenderJSON returns [bargroup.ErrNotReady] if the engine has no
// layout yet.
func RenderJSON(e *bargroup.Engine, opts ...Option) ([]byte, error) {
	if !e.LayoutSet() {
		return nil, bargroup.ErrNotReady
	}
	cfg := newConfig(opts)
	s := e.Series()
	stats := e.LastLayout()
	bounds := e.BoundingRect()
	labels, _ := s.(labeler)

	out := jsonOutput{
		Title:         cfg.title,
		Width:         bounds.W,
		Height:        bounds.H,
		X:             e.Pos().X,
		Y:             e.Pos().Y,
		BarWidth:      e.BarWidth(),
		Placement:     e.Placement().String(),
		Max:           e.Max(),
		Min:           e.Min(),
		Scale:         stats.Scale,
		XStep:         stats.XStep,
		ScaleFallback: stats.ScaleFallback,
		Rows:          s.Rows(),
		Columns:       s.Columns(),
		Bars:          make([]jsonBar, 0, e.Len()),
	}

	for col := range s.Columns() {
		for row := range s.Rows() {
			el, ok := e.BarAt(row, col)
			if !ok {
				continue
			}
			jb := jsonBar{Row: row, Column: col, Value: s.ValueAt(row, col)}
			if labels != nil {
				jb.RowLabel = labels.RowLabel(row)
				jb.ColumnLabel = labels.ColumnLabel(col)
			}
			if shape, ok := el.(bargroup.Shape); ok {
				r := shape.Rect()
				jb.X, jb.Y, jb.Width, jb.Height = r.X, r.Y, r.W, r.H
				jb.Color = colors.Hex(shape.Color())
			}
			out.Bars = append(out.Bars, jb)
		}
	}

	return json.MarshalIndent(out, "", "  ")
}
