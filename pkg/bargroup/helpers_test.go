package bargroup

import (
	"image/color"
	"math"
	"testing"

	"github.com/matzehuels/bargroup/pkg/series"
)

var (
	red   = color.RGBA{R: 255, A: 255}
	blue  = color.RGBA{B: 255, A: 255}
	green = color.RGBA{G: 255, A: 255}
	gray  = color.RGBA{R: 128, G: 128, B: 128, A: 255}
)

const tolerance = 1e-9

func approxEqual(a, b float64) bool { return math.Abs(a-b) <= tolerance }

// recorder is a Painter that remembers every fill.
type recorder struct {
	rects  []Rect
	colors []color.Color
	err    error
}

func (r *recorder) FillRect(rect Rect, c color.Color) error {
	if r.err != nil {
		return r.err
	}
	r.rects = append(r.rects, rect)
	r.colors = append(r.colors, c)
	return nil
}

// badSeries wraps a table and lies about its item count.
type badSeries struct {
	*series.Table
	total int
}

func (b badSeries) TotalItems() int { return b.total }

func mustTable(t *testing.T, values [][]float64) *series.Table {
	t.Helper()
	tbl, err := series.NewTable(values)
	if err != nil {
		t.Fatalf("NewTable() error: %v", err)
	}
	return tbl
}

func mustEngine(t *testing.T, s series.Series, opts ...Option) *Engine {
	t.Helper()
	e, err := New(s, opts...)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return e
}

func bar(t *testing.T, e *Engine, row, col int) *Bar {
	t.Helper()
	el, ok := e.BarAt(row, col)
	if !ok {
		t.Fatalf("BarAt(%d, %d) not found", row, col)
	}
	b, ok := el.(*Bar)
	if !ok {
		t.Fatalf("BarAt(%d, %d) is %T, want *Bar", row, col, el)
	}
	return b
}

// scenarioTable is the 2x3 table used throughout the layout tests.
func scenarioTable(t *testing.T) *series.Table {
	return mustTable(t, [][]float64{
		{5, 2, 0},
		{10, 8, 10},
	})
}
