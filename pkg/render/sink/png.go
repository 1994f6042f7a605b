package sink

import (
	"bytes"
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/bargroup/pkg/bargroup"
)

type pngPainter struct {
	dc  *gg.Context
	off bargroup.Point
}

func (p *pngPainter) FillRect(r bargroup.Rect, c color.Color) error {
	r = r.Translate(p.off)
	p.dc.SetColor(c)
	p.dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	p.dc.Fill()
	return nil
}

// RenderPNG rasterizes the engine to a PNG image.
//
// One layout unit maps to [WithScale] pixels (default 1). The image is at
// least one pixel in each dimension so empty canvases still encode.
func RenderPNG(e *bargroup.Engine, opts ...Option) ([]byte, error) {
	cfg := newConfig(opts)
	w, h := canvas(e)

	dc := gg.NewContext(pixels(w*cfg.scale), pixels(h*cfg.scale))
	if cfg.background != nil {
		dc.SetColor(cfg.background)
		dc.Clear()
	}
	dc.Scale(cfg.scale, cfg.scale)

	if err := repaint(e, &pngPainter{dc: dc, off: e.Pos()}); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func pixels(v float64) int {
	return max(1, int(math.Ceil(v)))
}
