package sink

import (
	"bytes"
	"fmt"
	"html"
	"image/color"

	"github.com/matzehuels/bargroup/pkg/bargroup"
	"github.com/matzehuels/bargroup/pkg/colors"
)

type svgPainter struct {
	buf *bytes.Buffer
	off bargroup.Point
}

func (p *svgPainter) FillRect(r bargroup.Rect, c color.Color) error {
	r = r.Translate(p.off)
	fmt.Fprintf(p.buf, `  <rect class="bar" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`+"\n",
		r.X, r.Y, r.W, r.H, colors.Hex(c))
	return nil
}

// RenderSVG paints the engine as a standalone SVG document.
//
// The viewBox spans the canvas in layout units; [WithScale] scales the
// width and height attributes only. RenderSVG returns [bargroup.ErrNotReady]
// if the engine has no layout yet.
func RenderSVG(e *bargroup.Engine, opts ...Option) ([]byte, error) {
	cfg := newConfig(opts)
	w, h := canvas(e)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w*cfg.scale, h*cfg.scale)
	if cfg.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", html.EscapeString(cfg.title))
	}
	if cfg.background != nil {
		fmt.Fprintf(&buf, `  <rect class="background" width="100%%" height="100%%" fill="%s"/>`+"\n", colors.Hex(cfg.background))
	}

	if err := repaint(e, &svgPainter{buf: &buf, off: e.Pos()}); err != nil {
		return nil, err
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}
