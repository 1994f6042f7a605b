package bargroup

import "image/color"

// Painter is the drawing context handed through a paint pass.
type Painter interface {
	FillRect(r Rect, c color.Color) error
}

// Element is one visual bar owned by an [Engine].
type Element interface {
	Resize(w, h float64)
	SetColor(c color.Color)
	SetPos(x, y float64)
	Paint(p Painter) error
}

// Shape is implemented by elements that expose their computed geometry.
// Sinks that serialize a layout rather than paint it rely on it.
type Shape interface {
	Rect() Rect
	Color() color.Color
}

// ElementFactory creates an element owned by parent.
type ElementFactory func(parent *Engine) Element

// destroyer is implemented by elements that release resources or detach
// from their parent when the engine discards them.
type destroyer interface {
	Destroy()
}

// Bar is the default [Element]: a filled rectangle standing on its position.
type Bar struct {
	parent *Engine
	x, y   float64
	w, h   float64
	color  color.Color
}

// NewBar returns an unplaced, uncolored bar attached to parent.
func NewBar(parent *Engine) Element {
	return &Bar{parent: parent}
}

// Resize sets the bar's width and height.
func (b *Bar) Resize(w, h float64) { b.w, b.h = w, h }

// SetColor sets the fill color.
func (b *Bar) SetColor(c color.Color) { b.color = c }

// SetPos sets the bottom-left anchor of the bar.
func (b *Bar) SetPos(x, y float64) { b.x, b.y = x, y }

// Pos returns the bottom-left anchor of the bar.
func (b *Bar) Pos() Point { return Point{X: b.x, Y: b.y} }

// Width returns the bar width.
func (b *Bar) Width() float64 { return b.w }

// Height returns the bar height as laid out. It is negative for values
// below zero.
func (b *Bar) Height() float64 { return b.h }

// Color returns the fill color, or nil if none was assigned.
func (b *Bar) Color() color.Color { return b.color }

// Parent returns the owning engine, or nil once the bar was destroyed.
func (b *Bar) Parent() *Engine { return b.parent }

// Rect returns the painted footprint. A positive height grows upward from the
// anchor, a negative one downward.
func (b *Bar) Rect() Rect {
	if b.h < 0 {
		return Rect{X: b.x, Y: b.y, W: b.w, H: -b.h}
	}
	return Rect{X: b.x, Y: b.y - b.h, W: b.w, H: b.h}
}

// Paint fills the bar's footprint. Bars that were never colored paint nothing.
func (b *Bar) Paint(p Painter) error {
	if b.color == nil {
		return nil
	}
	return p.FillRect(b.Rect(), b.color)
}

// Destroy detaches the bar from its parent.
func (b *Bar) Destroy() { b.parent = nil }

var (
	_ Element = (*Bar)(nil)
	_ Shape   = (*Bar)(nil)
)
