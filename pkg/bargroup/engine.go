package bargroup

import (
	"image/color"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bargroup/pkg/errors"
	"github.com/matzehuels/bargroup/pkg/series"
)

// DefaultBarWidth is the width of every bar unless changed with
// [WithBarWidth] or [Engine.SetBarWidth].
const DefaultBarWidth = 10.0

// ErrNotReady is returned by [Engine.Paint] before the canvas size was set.
var ErrNotReady = errors.New(errors.ErrCodeNotReady, "paint called without layout set")

// Engine lays out and paints one group of bars per series column.
//
// An Engine is not safe for concurrent use. Hosts serialize resize,
// data-change and paint calls, typically from a single event loop.
type Engine struct {
	series  series.Series
	logger  *log.Logger
	newElem ElementFactory

	elems      []Element
	rows, cols int
	generation int

	max, min      float64
	width, height float64
	barWidth      float64
	palette       Palette
	fallback      color.Color
	placement     Placement

	pos    Point
	domain PlotDomain
	theme  Theme

	layoutSet bool
	dirty     bool
	last      Stats
}

// Option configures an [Engine].
type Option func(*Engine)

// WithBarWidth sets the initial bar width. Negative or non-finite widths are
// ignored.
func WithBarWidth(w float64) Option {
	return func(e *Engine) {
		if errors.ValidateSize("bar width", w) == nil {
			e.barWidth = w
		}
	}
}

// WithPalette appends colors to the palette, row 0 first.
func WithPalette(colors ...color.Color) Option {
	return func(e *Engine) {
		for _, c := range colors {
			e.palette.Add(c)
		}
	}
}

// WithFallbackColor paints rows without a palette entry with c instead of
// failing the layout.
func WithFallbackColor(c color.Color) Option {
	return func(e *Engine) { e.fallback = c }
}

// WithPlacement selects how groups are positioned horizontally.
func WithPlacement(p Placement) Option {
	return func(e *Engine) { e.placement = p }
}

// WithElementFactory replaces [NewBar] as the element constructor.
func WithElementFactory(f ElementFactory) Option {
	return func(e *Engine) {
		if f != nil {
			e.newElem = f
		}
	}
}

// WithLogger sets the logger for debug tracing and paint warnings.
// By default the engine logs nothing.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New binds an engine to s and creates one element per cell.
//
// No geometry is computed until the first [Engine.Resize]. New fails with
// SERIES_MISMATCH if s reports an item count other than Rows*Columns.
func New(s series.Series, opts ...Option) (*Engine, error) {
	if s == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "series is nil")
	}
	e := &Engine{
		series:   s,
		logger:   log.New(io.Discard),
		newElem:  NewBar,
		barWidth: DefaultBarWidth,
		dirty:    true,
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.DataChanged(); err != nil {
		return nil, err
	}
	return e, nil
}

// DataChanged re-reads the bound series after its contents changed.
//
// It refreshes the cached maximum and minimum and keeps exactly one element
// per cell. Elements are reused when the row and column counts are
// unchanged; otherwise every existing element is destroyed and a fresh set
// is created in column-major order. When a layout is already set it is
// recomputed so geometry follows the new values.
//
// A series reporting TotalItems != Rows*Columns is rejected with
// SERIES_MISMATCH and the previous elements are left untouched. If the
// elements were recreated and the relayout fails, the engine drops back to
// not layout-set and Paint returns [ErrNotReady] until the next successful
// Resize.
func (e *Engine) DataChanged() error {
	rows, cols, total := e.series.Rows(), e.series.Columns(), e.series.TotalItems()
	if rows < 0 || cols < 0 || total != rows*cols {
		return errors.New(errors.ErrCodeSeriesMismatch,
			"series reports %d items for %d rows x %d columns", total, rows, cols)
	}

	e.max, e.min = e.series.Max(), e.series.Min()

	recreated := rows != e.rows || cols != e.cols || len(e.elems) != total
	if recreated {
		e.destroyElements()
		e.elems = make([]Element, 0, total)
		for range total {
			e.elems = append(e.elems, e.newElem(e))
		}
		e.generation++
	}
	e.rows, e.cols = rows, cols
	e.dirty = true

	e.logger.Debug("data changed", "rows", rows, "columns", cols, "max", e.max, "min", e.min)

	if e.layoutSet {
		if _, err := e.layout(); err != nil {
			if recreated {
				// The fresh elements carry no geometry.
				e.layoutSet = false
				e.last = Stats{}
			}
			return err
		}
	}
	return nil
}

func (e *Engine) destroyElements() {
	for _, el := range e.elems {
		if d, ok := el.(destroyer); ok {
			d.Destroy()
		}
	}
	e.elems = nil
}

// Resize sets the canvas extent and recomputes the layout.
//
// Negative or non-finite sizes fail with INVALID_SIZE and change nothing.
// A zero size is valid and produces degenerate bars. The extent is stored
// even if the layout fails, so [Engine.BoundingRect] always reflects the
// most recent size; the engine only becomes layout-set after a layout
// succeeds.
func (e *Engine) Resize(w, h float64) error {
	if err := errors.ValidateSize("width", w); err != nil {
		return err
	}
	if err := errors.ValidateSize("height", h); err != nil {
		return err
	}
	e.logger.Debug("resize", "width", w, "height", h)

	e.width, e.height = w, h
	e.dirty = true
	if _, err := e.layout(); err != nil {
		return err
	}
	e.layoutSet = true
	return nil
}

// Relayout recomputes the layout for the current canvas size. It is
// equivalent to calling Resize with the current width and height.
func (e *Engine) Relayout() error {
	return e.Resize(e.width, e.height)
}

// SetBarWidth changes the width of every bar.
//
// If a layout is already set, it is recomputed immediately; otherwise the
// width is stored for the first Resize.
func (e *Engine) SetBarWidth(w float64) error {
	if err := errors.ValidateSize("bar width", w); err != nil {
		return err
	}
	e.barWidth = w
	e.dirty = true
	if e.layoutSet {
		_, err := e.layout()
		return err
	}
	return nil
}

// SetPlacement switches how groups are positioned across the canvas and
// relayouts if a layout is already set.
func (e *Engine) SetPlacement(p Placement) error {
	if p != PlacementLegacy && p != PlacementCentered {
		return errors.New(errors.ErrCodeInvalidInput, "unknown placement %d", int(p))
	}
	e.placement = p
	e.dirty = true
	if e.layoutSet {
		_, err := e.layout()
		return err
	}
	return nil
}

// BarWidth returns the current bar width.
func (e *Engine) BarWidth() float64 { return e.barWidth }

// AddColor appends c to the palette and returns its index. Bars pick up
// palette changes on the next layout.
func (e *Engine) AddColor(c color.Color) int {
	e.dirty = true
	return e.palette.Add(c)
}

// ResetColors empties the palette.
func (e *Engine) ResetColors() {
	e.dirty = true
	e.palette.Reset()
}

// Palette returns a copy of the palette colors.
func (e *Engine) Palette() []color.Color { return e.palette.Colors() }

// BoundingRect returns the canvas as a rectangle anchored at the origin.
func (e *Engine) BoundingRect() Rect {
	return Rect{W: e.width, H: e.height}
}

// SetPos places the whole group inside the host scene.
func (e *Engine) SetPos(p Point) { e.pos = p }

// Pos returns the group's position inside the host scene.
func (e *Engine) Pos() Point { return e.pos }

// SetPlotDomain stores the data-space domain requested by the host.
func (e *Engine) SetPlotDomain(d PlotDomain) {
	e.logger.Debug("plot domain set", "x", []float64{d.MinX, d.MaxX}, "y", []float64{d.MinY, d.MaxY})
	e.domain = d
}

// PlotDomain returns the stored plot domain.
func (e *Engine) PlotDomain() PlotDomain { return e.domain }

// SetTheme stores a reference to the host theme. It has no effect on layout.
func (e *Engine) SetTheme(t Theme) { e.theme = t }

// Theme returns the stored theme, or nil.
func (e *Engine) Theme() Theme { return e.theme }

// Series returns the bound series.
func (e *Engine) Series() series.Series { return e.series }

// Max returns the series maximum cached by the last data change.
func (e *Engine) Max() float64 { return e.max }

// Min returns the series minimum cached by the last data change.
func (e *Engine) Min() float64 { return e.min }

// Len returns the number of owned elements.
func (e *Engine) Len() int { return len(e.elems) }

// Bars returns the owned elements in column-major order. The slice is a
// copy; the elements are not.
func (e *Engine) Bars() []Element {
	return append([]Element(nil), e.elems...)
}

// BarAt returns the element drawing cell (row, col).
func (e *Engine) BarAt(row, col int) (Element, bool) {
	if row < 0 || row >= e.rows || col < 0 || col >= e.cols {
		return nil, false
	}
	return e.elems[col*e.rows+row], true
}

// Generation counts how many times the element collection was reallocated.
func (e *Engine) Generation() int { return e.generation }

// LayoutSet reports whether a layout succeeded at least once.
func (e *Engine) LayoutSet() bool { return e.layoutSet }

// Dirty reports whether the next Paint will repaint the bars.
func (e *Engine) Dirty() bool { return e.dirty }

// LastLayout returns statistics of the most recent successful layout.
func (e *Engine) LastLayout() Stats { return e.last }

// Scale returns the canvas units per data unit of the last layout.
func (e *Engine) Scale() float64 { return e.last.Scale }

// Placement returns the group placement strategy.
func (e *Engine) Placement() Placement { return e.placement }
