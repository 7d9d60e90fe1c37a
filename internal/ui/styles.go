package ui

import (
	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"

	"ghwatch/internal/gh"
)

// styles holds the lipgloss styles derived from a catppuccin flavor.
type styles struct {
	flavor catppuccin.Flavor

	Title    lipgloss.Style
	Header   lipgloss.Style
	Selected lipgloss.Style
	Row      lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Notice   lipgloss.Style
	StatusBar
}

// StatusBar groups the styles of the bottom bar.
type StatusBar struct {
	Bar    lipgloss.Style
	Filter lipgloss.Style
}

func newStyles(themeName string) styles {
	flavor := flavorFromName(themeName)
	return styles{
		flavor: flavor,
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(flavor.Mauve().Hex)),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(flavor.Subtext0().Hex)),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(flavor.Text().Hex)).
			Background(lipgloss.Color(flavor.Surface1().Hex)),
		Row: lipgloss.NewStyle().
			Foreground(lipgloss.Color(flavor.Text().Hex)),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color(flavor.Overlay0().Hex)),
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(flavor.Red().Hex)),
		Notice: lipgloss.NewStyle().
			Foreground(lipgloss.Color(flavor.Yellow().Hex)),
		StatusBar: StatusBar{
			Bar: lipgloss.NewStyle().
				Foreground(lipgloss.Color(flavor.Subtext0().Hex)),
			Filter: lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color(flavor.Teal().Hex)),
		},
	}
}

func flavorFromName(name string) catppuccin.Flavor {
	switch name {
	case "latte":
		return catppuccin.Latte
	case "frappe":
		return catppuccin.Frappe
	case "macchiato":
		return catppuccin.Macchiato
	case "mocha":
		return catppuccin.Mocha
	default:
		return catppuccin.Mocha
	}
}

// statusGlyph returns the one-character marker and style for a run status.
func (s styles) statusGlyph(status gh.Status) (string, lipgloss.Style) {
	switch status {
	case gh.StatusSuccess:
		return "✓", lipgloss.NewStyle().Foreground(lipgloss.Color(s.flavor.Green().Hex))
	case gh.StatusFailure:
		return "✗", lipgloss.NewStyle().Foreground(lipgloss.Color(s.flavor.Red().Hex))
	case gh.StatusInProgress:
		return "●", lipgloss.NewStyle().Foreground(lipgloss.Color(s.flavor.Yellow().Hex))
	case gh.StatusCancelled:
		return "■", lipgloss.NewStyle().Foreground(lipgloss.Color(s.flavor.Overlay0().Hex))
	default:
		return "○", lipgloss.NewStyle().Foreground(lipgloss.Color(s.flavor.Blue().Hex))
	}
}
