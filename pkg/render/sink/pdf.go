package sink

import (
	"bytes"
	"image/color"
	"math"

	"codeberg.org/go-pdf/fpdf"

	"github.com/matzehuels/bargroup/pkg/bargroup"
	"github.com/matzehuels/bargroup/pkg/colors"
)

type pdfPainter struct {
	pdf   *fpdf.Fpdf
	off   bargroup.Point
	scale float64
}

func (p *pdfPainter) FillRect(r bargroup.Rect, c color.Color) error {
	r = r.Translate(p.off)
	red, green, blue := colors.RGB255(c)
	p.pdf.SetFillColor(int(red), int(green), int(blue))
	p.pdf.Rect(r.X*p.scale, r.Y*p.scale, r.W*p.scale, r.H*p.scale, "F")
	return p.pdf.Error()
}

// RenderPDF paints the engine onto a single PDF page sized to the canvas.
// One layout unit maps to [WithScale] points.
func RenderPDF(e *bargroup.Engine, opts ...Option) ([]byte, error) {
	cfg := newConfig(opts)
	w, h := canvas(e)

	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size: fpdf.SizeType{
			Wd: math.Max(w*cfg.scale, 1),
			Ht: math.Max(h*cfg.scale, 1),
		},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	if cfg.title != "" {
		pdf.SetTitle(cfg.title, true)
	}
	pdf.AddPage()

	if cfg.background != nil {
		red, green, blue := colors.RGB255(cfg.background)
		pdf.SetFillColor(int(red), int(green), int(blue))
		pdf.Rect(0, 0, w*cfg.scale, h*cfg.scale, "F")
	}

	if err := repaint(e, &pdfPainter{pdf: pdf, off: e.Pos(), scale: cfg.scale}); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
