package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/bargroup/pkg/pipeline"
)

var (
	colorCyan   = lipgloss.Color("36")  // primary
	colorGreen  = lipgloss.Color("35")  // success
	colorYellow = lipgloss.Color("220") // warnings
	colorBlue   = lipgloss.Color("75")  // commands
	colorWhite  = lipgloss.Color("255") // values
	colorGray   = lipgloss.Color("245") // labels
	colorDim    = lipgloss.Color("240") // muted
)

var (
	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warnings.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// printStats prints chart statistics on one line, e.g.
// "2 rows · 3 groups · 6 bars · scale 6 · cached".
func printStats(s pipeline.Stats, cached bool) {
	fmt.Println(statsLine(s, cached))
}

func statsLine(s pipeline.Stats, cached bool) string {
	parts := []string{
		fmt.Sprintf("%d rows", s.Rows),
		fmt.Sprintf("%d groups", s.Columns),
	}
	if !cached {
		parts = append(parts, fmt.Sprintf("%d bars", s.Bars), fmt.Sprintf("scale %.4g", s.Scale))
	}

	status := styleComputed.Render("fresh")
	if cached {
		status = styleCached.Render("cached")
	}

	var sb strings.Builder
	sb.WriteString("  ")
	for _, p := range parts {
		sb.WriteString(StyleDim.Render(p))
		sb.WriteString(StyleDim.Render(" · "))
	}
	sb.WriteString(status)
	return sb.String()
}

// printNextStep prints a suggested follow-up command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}
