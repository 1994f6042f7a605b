package bargroup

import (
	"image/color"
	"math"

	"github.com/matzehuels/bargroup/pkg/errors"
)

// Placement selects the horizontal positioning of groups.
type Placement int

const (
	// PlacementLegacy offsets every group by (W + bw*R)/(2C) on top of a
	// W/(C+1) pitch. It matches the historical chart output bit for bit.
	PlacementLegacy Placement = iota
	// PlacementCentered centers each group of R bars inside a W/C slot.
	PlacementCentered
)

// String returns the placement name used in chart documents and flags.
func (p Placement) String() string {
	switch p {
	case PlacementCentered:
		return "centered"
	default:
		return "legacy"
	}
}

// ParsePlacement parses a placement name. The empty string is legacy.
func ParsePlacement(s string) (Placement, error) {
	switch s {
	case "", "legacy":
		return PlacementLegacy, nil
	case "centered":
		return PlacementCentered, nil
	default:
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid placement: %q (must be 'legacy' or 'centered')", s)
	}
}

// Stats describes the outcome of a layout pass.
type Stats struct {
	Bars           int     // elements laid out
	Scale          float64 // canvas units per data unit
	XStep          float64 // horizontal pitch between groups
	ScaleFallback  bool    // max <= 0, every bar laid out with zero height
	FallbackColors int     // rows painted with the fallback color
}

// layout assigns size, color and position to every element.
//
// With no rows it leaves existing geometry untouched. The palette and the
// element count are validated before any element is modified, so a failed
// layout never leaves a half-updated collection behind.
func (e *Engine) layout() (Stats, error) {
	rows, cols := e.series.Rows(), e.series.Columns()
	if rows <= 0 {
		return e.last, nil
	}
	if rows != e.rows || cols != e.cols || rows*cols != len(e.elems) {
		return Stats{}, errors.New(errors.ErrCodeSeriesMismatch,
			"series is %dx%d but %d elements exist for %dx%d; call DataChanged first",
			rows, cols, len(e.elems), e.rows, e.cols)
	}

	rowColors, fallbacks, err := e.rowColors(rows)
	if err != nil {
		return Stats{}, err
	}

	scale, degenerate := e.scale()
	xStep := e.width / float64(cols+1)
	e.logger.Debug("layout", "rows", rows, "columns", cols, "scale", scale, "xstep", xStep)

	i := 0
	for col := range cols {
		x := e.groupStart(col, rows, cols, xStep)
		for row := range rows {
			el := e.elems[i]
			el.Resize(e.barWidth, e.series.ValueAt(row, col)*scale)
			el.SetColor(rowColors[row])
			el.SetPos(x, e.height)
			x += e.barWidth
			i++
		}
	}

	e.dirty = true
	e.last = Stats{
		Bars:           i,
		Scale:          scale,
		XStep:          xStep,
		ScaleFallback:  degenerate,
		FallbackColors: fallbacks,
	}
	return e.last, nil
}

// scale maps data units to canvas units. A non-positive or non-finite
// maximum yields 0 so every bar collapses to the baseline.
func (e *Engine) scale() (float64, bool) {
	if e.max > 0 && !math.IsInf(e.max, 0) {
		return e.height / e.max, false
	}
	e.logger.Debug("degenerate scale, laying out zero-height bars", "max", e.max)
	return 0, true
}

// groupStart returns the x position of the first bar of column col.
func (e *Engine) groupStart(col, rows, cols int, xStep float64) float64 {
	c, r := float64(cols), float64(rows)
	switch e.placement {
	case PlacementCentered:
		slot := e.width / c
		return slot*float64(col) + (slot-e.barWidth*r)/2
	default:
		return xStep*float64(col) + (e.width+e.barWidth*r)/(c*2)
	}
}

func (e *Engine) rowColors(rows int) ([]color.Color, int, error) {
	out := make([]color.Color, rows)
	fallbacks := 0
	for row := range rows {
		c, err := e.palette.At(row)
		if err != nil {
			if e.fallback == nil {
				return nil, 0, err
			}
			c = e.fallback
			fallbacks++
		}
		out[row] = c
	}
	return out, fallbacks, nil
}
