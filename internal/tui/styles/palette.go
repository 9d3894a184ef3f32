// Package styles holds the color themes and lipgloss styles of the boat
// browser.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// ThemeName names one of the built-in color themes.
type ThemeName string

const (
	ThemeDefault ThemeName = "default"
	ThemeLagoon  ThemeName = "lagoon"
	ThemeStorm   ThemeName = "storm"
	ThemeSunset  ThemeName = "sunset"
)

// themeOrder is the order themes are listed in help and validation errors.
var themeOrder = []ThemeName{ThemeDefault, ThemeLagoon, ThemeStorm, ThemeSunset}

// ColorPalette is the set of colors a theme assigns to the browser.
type ColorPalette struct {
	Primary   lipgloss.Color // titles, active tab, info notices
	Secondary lipgloss.Color // success notices, key hints
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Muted     lipgloss.Color
	Surface   lipgloss.Color // status bar background
	Text      lipgloss.Color
	Border    lipgloss.Color

	Star      lipgloss.Color
	StarEmpty lipgloss.Color
	Selected  lipgloss.Color // border of the selected tile
	Marker    lipgloss.Color // map markers
}

var palettes = map[ThemeName]ColorPalette{
	ThemeDefault: {
		Primary: "#2DD4BF", Secondary: "#10B981", Warning: "#F59E0B", Error: "#F87171",
		Muted: "#9CA3AF", Surface: "#1F2937", Text: "#F9FAFB", Border: "#6B7280",
		Star: "#FBBF24", StarEmpty: "#6B7280", Selected: "#60A5FA", Marker: "#F472B6",
	},
	ThemeLagoon: {
		Primary: "#22D3EE", Secondary: "#4ADE80", Warning: "#FDE047", Error: "#FB7185",
		Muted: "#7DD3FC", Surface: "#083344", Text: "#ECFEFF", Border: "#155E75",
		Star: "#FDE047", StarEmpty: "#155E75", Selected: "#A5F3FC", Marker: "#F97316",
	},
	ThemeStorm: {
		Primary: "#94A3B8", Secondary: "#86EFAC", Warning: "#FCD34D", Error: "#EF4444",
		Muted: "#64748B", Surface: "#0F172A", Text: "#E2E8F0", Border: "#334155",
		Star: "#FCD34D", StarEmpty: "#475569", Selected: "#CBD5E1", Marker: "#F59E0B",
	},
	ThemeSunset: {
		Primary: "#FB923C", Secondary: "#A3E635", Warning: "#FACC15", Error: "#DC2626",
		Muted: "#D6A48C", Surface: "#431407", Text: "#FFF7ED", Border: "#9A3412",
		Star: "#FACC15", StarEmpty: "#9A3412", Selected: "#F472B6", Marker: "#C084FC",
	},
}

// BuiltinThemes returns the names of the built-in themes.
func BuiltinThemes() []string {
	names := make([]string, len(themeOrder))
	for i, t := range themeOrder {
		names[i] = string(t)
	}
	return names
}

// IsValidTheme reports whether name is a built-in theme.
func IsValidTheme(name string) bool {
	_, ok := palettes[ThemeName(name)]
	return ok
}

// GetPalette returns a copy of the named palette, or the default palette
// when the name is unknown.
func GetPalette(name ThemeName) *ColorPalette {
	p, ok := palettes[name]
	if !ok {
		p = palettes[ThemeDefault]
	}
	return &p
}
