package ui

import (
	"coderunner/internal/session"

	"charm.land/lipgloss/v2"
)

type Theme struct {
	Header       lipgloss.Style
	Status       lipgloss.Style
	PanelTitle   lipgloss.Style
	PanelBorder  lipgloss.Style
	PanelBody    lipgloss.Style
	Gutter       lipgloss.Style
	Caret        lipgloss.Style
	Selection    lipgloss.Style
	OverlayTitle lipgloss.Style
	Accent       lipgloss.Style
	Pass         lipgloss.Style
	Fail         lipgloss.Style
	Muted        lipgloss.Style

	// Syntax names the chroma style used for the editor.
	Syntax string
	// Markdown names the glamour standard style for the help overlay.
	Markdown string
}

func ThemeFor(t session.Theme) Theme {
	if t == session.ThemeLight {
		return lightTheme()
	}
	return darkTheme()
}

func darkTheme() Theme {
	ink := lipgloss.Color("#111827")
	slate := lipgloss.Color("#1F2937")
	paper := lipgloss.Color("#F3F4F6")
	border := lipgloss.Color("#4B5563")
	blue := lipgloss.Color("#60A5FA")
	green := lipgloss.Color("#4ADE80")
	red := lipgloss.Color("#F87171")

	return Theme{
		Header: lipgloss.NewStyle().
			Background(ink).
			Foreground(paper).
			Padding(0, 1),
		Status: lipgloss.NewStyle().
			Background(slate).
			Foreground(paper).
			Padding(0, 1),
		PanelTitle:   lipgloss.NewStyle().Foreground(blue).Bold(true),
		PanelBorder:  lipgloss.NewStyle().Foreground(border),
		PanelBody:    lipgloss.NewStyle().Foreground(paper),
		Gutter:       lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		Caret:        lipgloss.NewStyle().Reverse(true),
		Selection:    lipgloss.NewStyle().Background(lipgloss.Color("#374151")),
		OverlayTitle: lipgloss.NewStyle().Foreground(blue).Bold(true),
		Accent:       lipgloss.NewStyle().Foreground(blue).Bold(true),
		Pass:         lipgloss.NewStyle().Foreground(green).Bold(true),
		Fail:         lipgloss.NewStyle().Foreground(red).Bold(true),
		Muted:        lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")),
		Syntax:       "monokai",
		Markdown:     "dark",
	}
}

func lightTheme() Theme {
	white := lipgloss.Color("#FFFFFF")
	mist := lipgloss.Color("#E5E7EB")
	ink := lipgloss.Color("#111827")
	blue := lipgloss.Color("#2563EB")

	return Theme{
		Header:       lipgloss.NewStyle().Background(white).Foreground(ink).Padding(0, 1),
		Status:       lipgloss.NewStyle().Background(mist).Foreground(ink).Padding(0, 1),
		PanelTitle:   lipgloss.NewStyle().Foreground(blue).Bold(true),
		PanelBorder:  lipgloss.NewStyle().Foreground(lipgloss.Color("#D1D5DB")),
		PanelBody:    lipgloss.NewStyle().Foreground(ink),
		Gutter:       lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")),
		Caret:        lipgloss.NewStyle().Reverse(true),
		Selection:    lipgloss.NewStyle().Background(lipgloss.Color("#BFDBFE")),
		OverlayTitle: lipgloss.NewStyle().Foreground(blue).Bold(true),
		Accent:       lipgloss.NewStyle().Foreground(blue).Bold(true),
		Pass:         lipgloss.NewStyle().Foreground(lipgloss.Color("#15803D")).Bold(true),
		Fail:         lipgloss.NewStyle().Foreground(lipgloss.Color("#B91C1C")).Bold(true),
		Muted:        lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		Syntax:       "github",
		Markdown:     "light",
	}
}
