package bargroup

// Point is a position in canvas units.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle in canvas units with a top-left origin.
type Rect struct {
	X, Y, W, H float64
}

// Right returns the right edge of the rectangle.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the bottom edge of the rectangle.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Empty reports whether the rectangle covers no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Translate returns the rectangle moved by p.
func (r Rect) Translate(p Point) Rect {
	return Rect{X: r.X + p.X, Y: r.Y + p.Y, W: r.W, H: r.H}
}

// PlotDomain is the data-space extent a host wants the group to cover.
// The engine stores it for the host; layout does not read it yet.
type PlotDomain struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// SpanX returns the horizontal extent of the domain.
func (d PlotDomain) SpanX() float64 { return d.MaxX - d.MinX }

// SpanY returns the vertical extent of the domain.
func (d PlotDomain) SpanY() float64 { return d.MaxY - d.MinY }

// Theme is the stylistic collaborator a host may attach. The engine only
// keeps a reference to it.
type Theme interface {
	Name() string
}
