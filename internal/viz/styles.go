package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Bordered panel around the grid
	GlassPanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(0, 1)

	// Highlight for the selected parameter
	NeonGlow = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff00ff")).
			Background(lipgloss.Color("#1a001a"))

	// Subtle muted text
	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	// Status indicators
	StatusRunning = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	StatusPaused = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffaa00"))

	StatusReplay = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff4444"))

	// Metric value style
	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	// Metric label style
	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	// Key hint style
	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688")).
		Italic(true)

	// Header with decorative line
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("#444466"))

)

var levels = []rune("▁▂▃▄▅▆▇█")

// GenerationBar shows how far a run is toward its target generation count.
func GenerationBar(gen, target, width int) string {
	if target <= 0 {
		return ""
	}
	filled := min(max(gen*width/target, 0), width)
	done := lipgloss.NewStyle().Foreground(CurrentTheme.Primary)
	rest := lipgloss.NewStyle().Foreground(CurrentTheme.Muted)
	return done.Render(strings.Repeat("█", filled)) +
		rest.Render(strings.Repeat("░", width-filled)) +
		fmt.Sprintf(" %d/%d", gen, target)
}

// CensusSparkline draws the last width counts of one state scaled against
// the grid's cell count, so bars of different states compare directly.
func CensusSparkline(series []float64, cells, width int, color lipgloss.Color) string {
	if width <= 0 {
		return ""
	}
	if len(series) > width {
		series = series[len(series)-width:]
	}
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", width-len(series)))
	top := len(levels) - 1
	for _, v := range series {
		i := 0
		if cells > 0 {
			i = min(max(int(v/float64(cells)*float64(top)), 0), top)
		}
		b.WriteRune(levels[i])
	}
	return lipgloss.NewStyle().Foreground(color).Render(b.String())
}

func Divider(width int) string {
	return Subtle.Render(strings.Repeat("─", max(width, 0)))
}
