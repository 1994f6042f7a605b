package cli

import (
	"context"
	"image/color"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/bargroup/pkg/bargroup"
	"github.com/matzehuels/bargroup/pkg/errors"
	chartio "github.com/matzehuels/bargroup/pkg/io"
	"github.com/matzehuels/bargroup/pkg/pipeline"
)

func newTestPreview(t *testing.T) *previewModel {
	t.Helper()
	doc := chartio.Example()
	e, err := pipeline.NewEngine(context.Background(), doc, pipeline.Options{Logger: log.New(io.Discard)})
	if err != nil {
		t.Fatalf("NewEngine() error: %v", err)
	}
	return newPreviewModel(e, doc.Table)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m *previewModel, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func TestPreviewWaitsForWindowSize(t *testing.T) {
	m := newTestPreview(t)
	if got := m.View(); got != "loading…" {
		t.Errorf("View() before size = %q, want loading…", got)
	}
	send(m, key("+"))
	if m.paints != 0 {
		t.Errorf("paints before size = %d, want 0", m.paints)
	}
}

func TestPreviewResizeFollowsWindow(t *testing.T) {
	m := newTestPreview(t)
	send(m, tea.WindowSizeMsg{Width: 60, Height: 22})

	if got := m.engine.BoundingRect(); got.W != 60 || got.H != 20 {
		t.Errorf("BoundingRect() = %vx%v, want 60x20", got.W, got.H)
	}
	lines := strings.Split(m.View(), "\n")
	if len(lines) != 20+previewFooterLines {
		t.Errorf("View() has %d lines, want %d", len(lines), 20+previewFooterLines)
	}
	if m.paints != 1 {
		t.Errorf("paints = %d, want 1", m.paints)
	}
}

func TestPreviewRepaintsOnlyWhenDirty(t *testing.T) {
	m := newTestPreview(t)
	send(m, tea.WindowSizeMsg{Width: 60, Height: 22})

	// Cursor moves do not touch the layout.
	send(m, key("right"), key("left"), key("tab"))
	if m.paints != 1 {
		t.Errorf("paints after cursor moves = %d, want 1", m.paints)
	}

	send(m, key("+"))
	if m.paints != 2 {
		t.Errorf("paints after bar width change = %d, want 2", m.paints)
	}
}

func TestPreviewKeys(t *testing.T) {
	tests := []struct {
		name  string
		keys  []string
		check func(t *testing.T, m *previewModel)
	}{
		{"bar width up", []string{"+", "+"}, func(t *testing.T, m *previewModel) {
			if got := m.engine.BarWidth(); got != 12 {
				t.Errorf("BarWidth() = %v, want 12", got)
			}
		}},
		{"bar width floor", []string{"-", "-", "-", "-", "-", "-", "-", "-", "-", "-", "-", "-"}, func(t *testing.T, m *previewModel) {
			if got := m.engine.BarWidth(); got != 0 {
				t.Errorf("BarWidth() = %v, want 0", got)
			}
		}},
		{"placement toggle", []string{"p"}, func(t *testing.T, m *previewModel) {
			if m.engine.Placement() != bargroup.PlacementCentered {
				t.Errorf("Placement() = %v, want centered", m.engine.Placement())
			}
		}},
		{"placement toggle back", []string{"p", "p"}, func(t *testing.T, m *previewModel) {
			if m.engine.Placement() != bargroup.PlacementLegacy {
				t.Errorf("Placement() = %v, want legacy", m.engine.Placement())
			}
		}},
		{"edit value", []string{"right", "up", "up", "up"}, func(t *testing.T, m *previewModel) {
			if got := m.table.ValueAt(0, 1); got != 5 {
				t.Errorf("ValueAt(0, 1) = %v, want 5", got)
			}
			el, _ := m.engine.BarAt(0, 1)
			b, ok := el.(*bargroup.Bar)
			if !ok {
				t.Fatalf("BarAt(0, 1) is %T, want *bargroup.Bar", el)
			}
			if got := b.Height(); got != 10 {
				t.Errorf("bar height = %v, want 10 (5 * 20/10)", got)
			}
		}},
		{"edit second row", []string{"tab", "down"}, func(t *testing.T, m *previewModel) {
			if got := m.table.ValueAt(1, 0); got != 9 {
				t.Errorf("ValueAt(1, 0) = %v, want 9", got)
			}
			if got := m.engine.Max(); got != 10 {
				t.Errorf("Max() = %v, want 10", got)
			}
		}},
		{"add group", []string{"a"}, func(t *testing.T, m *previewModel) {
			if got := m.engine.Len(); got != 8 {
				t.Errorf("Len() = %v, want 8", got)
			}
		}},
		{"remove groups", []string{"right", "right", "x", "x", "x", "x"}, func(t *testing.T, m *previewModel) {
			if got := m.engine.Len(); got != 0 {
				t.Errorf("Len() = %v, want 0", got)
			}
			if m.col != 0 {
				t.Errorf("cursor column = %v, want 0", m.col)
			}
			if !strings.Contains(m.View(), "empty") {
				t.Error("View() should report an empty table")
			}
		}},
		{"cursor clamps", []string{"left", "right", "right", "right", "right"}, func(t *testing.T, m *previewModel) {
			if m.col != 2 {
				t.Errorf("cursor column = %v, want 2", m.col)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestPreview(t)
			send(m, tea.WindowSizeMsg{Width: 60, Height: 22})
			for _, k := range tt.keys {
				send(m, key(k))
			}
			if m.err != nil {
				t.Fatalf("model error: %v", m.err)
			}
			tt.check(t, m)
		})
	}
}

func TestPreviewStatus(t *testing.T) {
	m := newTestPreview(t)
	send(m, tea.WindowSizeMsg{Width: 60, Height: 22}, key("tab"), key("right"))

	view := m.View()
	for _, want := range []string{"south/Q2 = 8", "bar width 10", "legacy"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestPreviewZeroValuesWarn(t *testing.T) {
	m := newTestPreview(t)
	send(m, tea.WindowSizeMsg{Width: 60, Height: 22})
	for row := range m.table.Rows() {
		for col := range m.table.Columns() {
			_ = m.table.Set(row, col, 0)
		}
	}
	if err := m.engine.DataChanged(); err != nil {
		t.Fatalf("DataChanged() error: %v", err)
	}
	if !strings.Contains(m.View(), "no positive values") {
		t.Error("View() should warn when every value is zero")
	}
}

func TestPreviewShowsLayoutError(t *testing.T) {
	doc := chartio.Example()
	e, err := bargroup.New(doc.Table, bargroup.WithPalette(color.Black), bargroup.WithLogger(log.New(io.Discard)))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	m := newPreviewModel(e, doc.Table)

	send(m, tea.WindowSizeMsg{Width: 60, Height: 22})
	if !errors.Is(m.err, errors.ErrCodePaletteUnderflow) {
		t.Fatalf("err = %v, want %v", m.err, errors.ErrCodePaletteUnderflow)
	}
	if m.paints != 0 {
		t.Errorf("paints = %d, want 0 without a layout", m.paints)
	}

	// Moving the cursor clears the message instead of replacing it.
	send(m, key("right"))
	if m.err != nil {
		t.Errorf("err after cursor move = %v, want nil", m.err)
	}
}

func TestPreviewQuit(t *testing.T) {
	for _, k := range []string{"q", "esc", "ctrl+c"} {
		m := newTestPreview(t)
		var msg tea.KeyMsg
		switch k {
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "ctrl+c":
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		default:
			msg = key(k)
		}
		cmd := send(m, msg)
		if cmd == nil {
			t.Fatalf("%s: Update() cmd = nil, want tea.Quit", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: cmd() is not tea.QuitMsg", k)
		}
	}
}
