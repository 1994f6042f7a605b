package sink

import (
	"image/color"
	"math"

	"github.com/matzehuels/bargroup/pkg/bargroup"
)

// Option configures a render.
type Option func(*config)

type config struct {
	title      string
	background color.Color
	scale      float64
}

// WithTitle sets the document title. SVG embeds it as a <title>, PDF as
// metadata and JSON as a field; raster sinks ignore it.
func WithTitle(s string) Option { return func(c *config) { c.title = s } }

// WithBackground fills the canvas with col before painting bars.
// The default is transparent (or the terminal's own background).
func WithBackground(col color.Color) Option { return func(c *config) { c.background = col } }

// WithScale multiplies output dimensions (default 1). Non-positive values
// are ignored.
func WithScale(s float64) Option {
	return func(c *config) {
		if s > 0 && !math.IsInf(s, 0) {
			c.scale = s
		}
	}
}

func newConfig(opts []Option) config {
	c := config{scale: 1}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// canvas returns the scene size covering the engine at its position.
func canvas(e *bargroup.Engine) (w, h float64) {
	r := e.BoundingRect().Translate(e.Pos())
	return math.Max(r.Right(), 0), math.Max(r.Bottom(), 0)
}

// repaint forces a full paint pass into p.
func repaint(e *bargroup.Engine, p bargroup.Painter) error {
	e.Invalidate()
	return e.Paint(p)
}
