package bargroup

import (
	"image/color"

	"github.com/matzehuels/bargroup/pkg/errors"
)

// Palette is the ordered list of row colors: row i paints with entry i.
type Palette struct {
	colors []color.Color
}

// Add appends c and returns its zero-based index.
func (p *Palette) Add(c color.Color) int {
	p.colors = append(p.colors, c)
	return len(p.colors) - 1
}

// Reset removes every entry.
func (p *Palette) Reset() { p.colors = p.colors[:0] }

// Len returns the number of entries.
func (p *Palette) Len() int { return len(p.colors) }

// At returns the color of row. A row without an entry is a PALETTE_UNDERFLOW error.
func (p *Palette) At(row int) (color.Color, error) {
	if row < 0 || row >= len(p.colors) {
		return nil, errors.New(errors.ErrCodePaletteUnderflow, "no palette color for row %d (palette has %d)", row, len(p.colors))
	}
	return p.colors[row], nil
}

// Colors returns a copy of the entries.
func (p *Palette) Colors() []color.Color {
	return append([]color.Color(nil), p.colors...)
}
