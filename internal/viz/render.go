package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// cellWidth is the number of terminal columns per cell; two columns keep
// cells roughly square.
const cellWidth = 2

// index maps state names to their palette position.
func index(states []string) map[string]int {
	idx := make(map[string]int, len(states))
	for i, s := range states {
		idx[s] = i
	}
	return idx
}

// RenderFrame draws one generation with the current theme. Odd rows of a
// hexagonal grid are shifted right by half a cell.
func RenderFrame(frame [][]string, states []string, hex bool) string {
	idx := index(states)
	styles := make([]lipgloss.Style, len(states))
	for i := range states {
		styles[i] = lipgloss.NewStyle().Foreground(CurrentTheme.StateColor(i))
	}
	block := strings.Repeat("█", cellWidth)

	var b strings.Builder
	for y, row := range frame {
		if hex && y&1 == 1 {
			b.WriteString(" ")
		}
		for _, name := range row {
			i, ok := idx[name]
			if !ok {
				b.WriteString(strings.Repeat("?", cellWidth))
				continue
			}
			b.WriteString(styles[i].Render(block))
		}
		if y < len(frame)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// PlainGlyphs is the uncolored alphabet used by RenderPlain, by state index.
var PlainGlyphs = []rune{'.', '#', 'o', '*', '+', '%'}

// RenderPlain draws one generation with one character per cell, for logs and
// terminals without color.
func RenderPlain(frame [][]string, states []string, hex bool) string {
	idx := index(states)
	var b strings.Builder
	for y, row := range frame {
		if hex && y&1 == 1 {
			b.WriteByte(' ')
		}
		for x, name := range row {
			if hex && x > 0 {
				b.WriteByte(' ')
			}
			i, ok := idx[name]
			if !ok || i >= len(PlainGlyphs) {
				b.WriteByte('?')
				continue
			}
			b.WriteRune(PlainGlyphs[i])
		}
		if y < len(frame)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Legend lists each state beside its color.
func Legend(states []string, counts map[string]float64) string {
	parts := make([]string, 0, len(states))
	for i, s := range states {
		swatch := lipgloss.NewStyle().Foreground(CurrentTheme.StateColor(i)).Render(strings.Repeat("█", cellWidth))
		label := s
		if counts != nil {
			label += " " + MetricValue.Render(formatCount(counts[s]))
		}
		parts = append(parts, swatch+" "+MetricLabel.Render(label))
	}
	return strings.Join(parts, "  ")
}
