package viz

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines color scheme for the TUI
type Theme struct {
	Name       string
	Oscillator lipgloss.Color
	Centroid   lipgloss.Color
	Accent     lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
}

var (
	ThemeCyberpunk = Theme{
		Name:       "cyberpunk",
		Oscillator: lipgloss.Color("#00ffff"),
		Centroid:   lipgloss.Color("#ff00ff"),
		Accent:     lipgloss.Color("#ffff00"),
		Text:       lipgloss.Color("#ffffff"),
		Muted:      lipgloss.Color("#666666"),
	}

	ThemeRetroGreen = Theme{
		Name:       "retro",
		Oscillator: lipgloss.Color("#00ff00"), // Green phosphor
		Centroid:   lipgloss.Color("#88ff88"),
		Accent:     lipgloss.Color("#ccffcc"),
		Text:       lipgloss.Color("#00ff00"),
		Muted:      lipgloss.Color("#005500"),
	}

	ThemeOcean = Theme{
		Name:       "ocean",
		Oscillator: lipgloss.Color("#00a8cc"),
		Centroid:   lipgloss.Color("#ffd700"),
		Accent:     lipgloss.Color("#0077be"),
		Text:       lipgloss.Color("#e0f0ff"),
		Muted:      lipgloss.Color("#4488aa"),
	}

	CurrentTheme = ThemeCyberpunk

	Themes = []Theme{
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeOcean,
	}
)

// GetTheme looks a theme up by name.
func GetTheme(name string) (Theme, bool) {
	for _, t := range Themes {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}

// SetTheme makes name the current theme. Unknown names leave it unchanged.
func SetTheme(name string) error {
	t, ok := GetTheme(name)
	if !ok {
		return fmt.Errorf("unknown theme: %s (available: %v)", name, ThemeNames())
	}
	CurrentTheme = t
	return nil
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// NextTheme returns the theme after name in Themes, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}
