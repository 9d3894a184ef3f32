package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Josh-Grafman/boatrental/internal/notify"
)

// ThemedStyles contains all the lipgloss styles built from a color palette.
// The TUI model owns one; switching themes builds a new one.
type ThemedStyles struct {
	Palette *ColorPalette

	// Convenience styles for colors
	Primary   lipgloss.Style
	Secondary lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Muted     lipgloss.Style
	Text      lipgloss.Style

	Title    lipgloss.Style
	Subtitle lipgloss.Style

	// Detail tabs
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style

	// Result grid
	Tile         lipgloss.Style
	TileSelected lipgloss.Style
	TileName     lipgloss.Style

	// Panels
	ContentBox lipgloss.Style
	Marker     lipgloss.Style

	// Rating stars
	StarFilled lipgloss.Style
	StarEmpty  lipgloss.Style

	// Help and status bars
	HelpBar   lipgloss.Style
	HelpKey   lipgloss.Style
	StatusBar lipgloss.Style

	// Notice banners keyed by variant
	NoticeInfo    lipgloss.Style
	NoticeSuccess lipgloss.Style
	NoticeWarning lipgloss.Style
	NoticeError   lipgloss.Style
}

// NewThemedStyles creates a ThemedStyles from the given color palette.
func NewThemedStyles(p *ColorPalette) *ThemedStyles {
	s := &ThemedStyles{Palette: p}

	s.Primary = lipgloss.NewStyle().Foreground(p.Primary)
	s.Secondary = lipgloss.NewStyle().Foreground(p.Secondary)
	s.Warning = lipgloss.NewStyle().Foreground(p.Warning)
	s.Error = lipgloss.NewStyle().Foreground(p.Error)
	s.Muted = lipgloss.NewStyle().Foreground(p.Muted)
	s.Text = lipgloss.NewStyle().Foreground(p.Text)

	s.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Primary).
		MarginBottom(1)

	s.Subtitle = lipgloss.NewStyle().
		Foreground(p.Muted).
		Italic(true)

	s.TabActive = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Text).
		Background(p.Primary).
		Padding(0, 2)

	s.TabInactive = lipgloss.NewStyle().
		Foreground(p.Muted).
		Padding(0, 2)

	s.Tile = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Padding(0, 1)

	s.TileSelected = s.Tile.
		BorderForeground(p.Selected).
		Bold(true)

	s.TileName = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Text)

	s.ContentBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Padding(1, 2)

	s.Marker = lipgloss.NewStyle().Foreground(p.Marker)

	s.StarFilled = lipgloss.NewStyle().Foreground(p.Star)
	s.StarEmpty = lipgloss.NewStyle().Foreground(p.StarEmpty)

	s.HelpBar = lipgloss.NewStyle().
		Foreground(p.Muted).
		MarginTop(1)

	s.HelpKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Secondary)

	s.StatusBar = lipgloss.NewStyle().
		Foreground(p.Text).
		Background(p.Surface).
		Padding(0, 1)

	banner := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	s.NoticeInfo = banner.Foreground(p.Primary)
	s.NoticeSuccess = banner.Foreground(p.Secondary)
	s.NoticeWarning = banner.Foreground(p.Warning)
	s.NoticeError = banner.Foreground(p.Error)

	return s
}

// ForTheme builds the styles for a theme name.
func ForTheme(name string) *ThemedStyles {
	return NewThemedStyles(GetPalette(ThemeName(name)))
}

// Notice returns the banner style for a notice variant.
func (s *ThemedStyles) Notice(v notify.Variant) lipgloss.Style {
	switch v {
	case notify.Success:
		return s.NoticeSuccess
	case notify.Warning:
		return s.NoticeWarning
	case notify.Error:
		return s.NoticeError
	default:
		return s.NoticeInfo
	}
}

// TileFor returns the tile style for a tile class.
func (s *ThemedStyles) TileFor(selected bool) lipgloss.Style {
	if selected {
		return s.TileSelected
	}
	return s.Tile
}
