package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme for the TUI. Palette colors states by
// their position in the kind's state list.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Palette []lipgloss.Color
}

var (
	ThemeCyberpunk = Theme{
		Name:    "cyberpunk",
		Primary: lipgloss.Color("#ff00ff"),
		Accent:  lipgloss.Color("#00ffff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#666666"),
		Palette: []lipgloss.Color{"#1a1a2e", "#00ffff", "#ff00ff", "#ffff00"},
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Primary: lipgloss.Color("#00ff00"),
		Accent:  lipgloss.Color("#88ff88"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Palette: []lipgloss.Color{"#001100", "#00ff00", "#88ff88", "#005500"},
	}

	ThemeOcean = Theme{
		Name:    "ocean",
		Primary: lipgloss.Color("#4fc3f7"),
		Accent:  lipgloss.Color("#81d4fa"),
		Text:    lipgloss.Color("#e1f5fe"),
		Muted:   lipgloss.Color("#4a6572"),
		Palette: []lipgloss.Color{"#0d2137", "#ffb74d", "#e57373", "#4fc3f7"},
	}

	ThemeForest = Theme{
		Name:    "forest",
		Primary: lipgloss.Color("#66bb6a"),
		Accent:  lipgloss.Color("#ffa726"),
		Text:    lipgloss.Color("#f1f8e9"),
		Muted:   lipgloss.Color("#556b2f"),
		Palette: []lipgloss.Color{"#3e2723", "#2e7d32", "#ff5722", "#fdd835"},
	}

	// Default theme
	CurrentTheme = ThemeCyberpunk

	// All available themes
	Themes = []Theme{
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeOcean,
		ThemeForest,
	}
)

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeCyberpunk
}

// SetTheme changes the current theme
func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	names := ThemeNames()
	for i, name := range names {
		if name == CurrentTheme.Name {
			SetTheme(names[(i+1)%len(names)])
			return
		}
	}
}

// StateColor returns the palette color of the state at index i.
func (t Theme) StateColor(i int) lipgloss.Color {
	if i < 0 || len(t.Palette) == 0 {
		return t.Muted
	}
	return t.Palette[i%len(t.Palette)]
}
