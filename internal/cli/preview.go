package cli

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bargroup/pkg/bargroup"
	"github.com/matzehuels/bargroup/pkg/cache"
	"github.com/matzehuels/bargroup/pkg/colors"
	"github.com/matzehuels/bargroup/pkg/pipeline"
	"github.com/matzehuels/bargroup/pkg/render/sink"
	"github.com/matzehuels/bargroup/pkg/series"
)

// previewFooterLines is the number of terminal lines below the chart.
const previewFooterLines = 2

const previewHelp = "←/→ group · tab row · ↑/↓ value · +/- bar width · p placement · a/x add/remove group · q quit"

// previewCommand creates the interactive preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var opts pipeline.Options

	cmd := &cobra.Command{
		Use:   "preview <chart.toml|chart.csv|URL>",
		Short: "Preview a chart in the terminal and edit it live",
		Long: `Preview draws the chart with one terminal cell per layout unit. The layout
follows the window size, and values, bar width and placement can be changed
with the keyboard. Edits are not written back to the file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().Float64Var(&opts.BarWidth, "bar-width", 0, "width of each bar in cells (default 10)")
	cmd.Flags().StringVar(&opts.Placement, "placement", "", "group placement: legacy (default), centered")
	cmd.Flags().StringVar(&opts.Fallback, "fallback", "", "color for rows beyond the palette instead of failing")
	cmd.Flags().StringVar(&opts.Background, "background", "", "background color (default terminal background)")

	return cmd
}

func runPreview(ctx context.Context, input string, opts pipeline.Options) error {
	logger := loggerFromContext(ctx)

	doc, err := loadDocument(ctx, input, cache.NewNullCache())
	if err != nil {
		return err
	}

	// Logging would tear the alternate screen.
	opts.Logger = log.New(io.Discard)
	e, err := pipeline.NewEngine(ctx, doc, opts)
	if err != nil {
		return err
	}

	var sinkOpts []sink.Option
	if opts.Background != "" {
		bg, err := colors.Parse(opts.Background)
		if err != nil {
			return err
		}
		sinkOpts = append(sinkOpts, sink.WithBackground(bg))
	}

	logger.Debug("starting preview", "rows", doc.Table.Rows(), "columns", doc.Table.Columns())
	m := newPreviewModel(e, doc.Table, sinkOpts...)
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// previewModel is the bubbletea model behind the preview command. It owns
// the engine and the table bound to it, and repaints only when the engine
// reports a pending repaint.
type previewModel struct {
	engine   *bargroup.Engine
	table    *series.Table
	sinkOpts []sink.Option

	row, col      int
	width, height int

	view   string
	paints int
	err    error
}

func newPreviewModel(e *bargroup.Engine, tbl *series.Table, opts ...sink.Option) *previewModel {
	return &previewModel{engine: e, table: tbl, sinkOpts: opts}
}

func (m *previewModel) Init() tea.Cmd {
	return nil
}

func (m *previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.err = nil
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.err = m.engine.Resize(float64(msg.Width), float64(max(msg.Height-previewFooterLines, 0)))
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "+", "=":
			m.err = m.engine.SetBarWidth(m.engine.BarWidth() + 1)
		case "-", "_":
			m.err = m.engine.SetBarWidth(math.Max(m.engine.BarWidth()-1, 0))
		case "p":
			next := bargroup.PlacementCentered
			if m.engine.Placement() == bargroup.PlacementCentered {
				next = bargroup.PlacementLegacy
			}
			m.err = m.engine.SetPlacement(next)
		case "left", "h":
			m.col = max(m.col-1, 0)
		case "right", "l":
			m.col = min(m.col+1, max(m.table.Columns()-1, 0))
		case "tab":
			if rows := m.table.Rows(); rows > 0 {
				m.row = (m.row + 1) % rows
			}
		case "up", "k":
			m.adjust(1)
		case "down", "j":
			m.adjust(-1)
		case "a":
			m.reshape(m.table.Columns() + 1)
		case "x":
			if m.table.Columns() > 0 {
				m.reshape(m.table.Columns() - 1)
			}
		}
	}
	m.refresh()
	return m, nil
}

// adjust changes the value under the cursor by delta.
func (m *previewModel) adjust(delta float64) {
	if m.table.TotalItems() == 0 {
		return
	}
	if err := m.table.Set(m.row, m.col, m.table.ValueAt(m.row, m.col)+delta); err != nil {
		m.err = err
		return
	}
	m.err = m.engine.DataChanged()
}

// reshape changes the number of groups and notifies the engine.
func (m *previewModel) reshape(cols int) {
	if err := m.table.Reshape(m.table.Rows(), cols); err != nil {
		m.err = err
		return
	}
	m.col = min(m.col, max(cols-1, 0))
	m.err = m.engine.DataChanged()
}

// refresh repaints the chart if the engine changed since the last paint.
// Until a layout succeeds the previous frame stays on screen.
func (m *previewModel) refresh() {
	if m.width == 0 || !m.engine.LayoutSet() || !m.engine.Dirty() {
		return
	}
	view, err := sink.RenderTerminal(m.engine, m.sinkOpts...)
	if err != nil {
		if m.err == nil {
			m.err = err
		}
		return
	}
	m.view = view
	m.paints++
}

func (m *previewModel) View() string {
	if m.width == 0 {
		return "loading…"
	}
	var sb strings.Builder
	sb.WriteString(m.view)
	sb.WriteString("\n")
	sb.WriteString(m.status())
	sb.WriteString("\n")
	sb.WriteString(StyleDim.Render(previewHelp))
	return sb.String()
}

func (m *previewModel) status() string {
	if m.err != nil {
		return StyleWarning.Render(m.err.Error())
	}
	parts := []string{
		fmt.Sprintf("bar width %g", m.engine.BarWidth()),
		m.engine.Placement().String(),
	}
	if m.table.TotalItems() > 0 {
		parts = append(parts, StyleHighlight.Render(fmt.Sprintf("%s = %g", m.cellName(), m.table.ValueAt(m.row, m.col))))
	} else {
		parts = append(parts, "empty")
	}
	if m.engine.LastLayout().ScaleFallback {
		parts = append(parts, StyleWarning.Render("no positive values"))
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}

// cellName names the cursor cell by its labels, e.g. "south/Q2".
func (m *previewModel) cellName() string {
	row, col := m.table.RowLabel(m.row), m.table.ColumnLabel(m.col)
	if row == "" {
		row = fmt.Sprintf("row %d", m.row+1)
	}
	if col == "" {
		col = fmt.Sprintf("group %d", m.col+1)
	}
	return row + "/" + col
}
