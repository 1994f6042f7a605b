package sink

import (
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/bargroup/pkg/bargroup"
	"github.com/matzehuels/bargroup/pkg/colors"
)

// cellPainter fills character cells whose centers fall inside a rectangle.
type cellPainter struct {
	cells [][]color.Color
	off   bargroup.Point
	scale float64
}

func (p *cellPainter) FillRect(r bargroup.Rect, c color.Color) error {
	r = r.Translate(p.off)
	x0, x1 := cellRange(r.X*p.scale, r.Right()*p.scale, len(p.cells[0]))
	y0, y1 := cellRange(r.Y*p.scale, r.Bottom()*p.scale, len(p.cells))
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			p.cells[y][x] = c
		}
	}
	return nil
}

// cellRange returns the cells [lo, hi) whose centers lie in [from, to).
func cellRange(from, to float64, n int) (lo, hi int) {
	lo = int(math.Ceil(from - 0.5))
	hi = int(math.Ceil(to - 0.5))
	return min(max(lo, 0), n), min(max(hi, 0), n)
}

// RenderTerminal paints the engine into a block of colored character cells,
// one cell per layout unit times [WithScale]. Lines are joined with "\n".
func RenderTerminal(e *bargroup.Engine, opts ...Option) (string, error) {
	cfg := newConfig(opts)
	w, h := canvas(e)
	cols := int(math.Round(w * cfg.scale))
	rows := int(math.Round(h * cfg.scale))

	if cols <= 0 || rows <= 0 {
		// Nothing is visible, but the engine still has to be ready.
		if !e.LayoutSet() {
			return "", bargroup.ErrNotReady
		}
		return "", nil
	}

	cells := make([][]color.Color, rows)
	for y := range cells {
		cells[y] = make([]color.Color, cols)
		for x := range cells[y] {
			cells[y][x] = cfg.background
		}
	}
	if err := repaint(e, &cellPainter{cells: cells, off: e.Pos(), scale: cfg.scale}); err != nil {
		return "", err
	}

	lines := make([]string, rows)
	for y, row := range cells {
		lines[y] = renderCellRow(row)
	}
	return strings.Join(lines, "\n"), nil
}

// renderCellRow styles runs of equal color together to keep escape
// sequences short.
func renderCellRow(row []color.Color) string {
	var sb strings.Builder
	for start := 0; start < len(row); {
		end := start + 1
		for end < len(row) && colors.Hex(row[end]) == colors.Hex(row[start]) {
			end++
		}
		run := strings.Repeat(" ", end-start)
		if hex := colors.Hex(row[start]); hex == "none" {
			sb.WriteString(run)
		} else {
			sb.WriteString(lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render(run))
		}
		start = end
	}
	return sb.String()
}
