package tui

import (
	"github.com/charmbracelet/lipgloss"

	"tasklist/internal/models"
)

type palette struct {
	accent  lipgloss.Color
	muted   lipgloss.Color
	warning lipgloss.Color
	high    lipgloss.Color
	medium  lipgloss.Color
	low     lipgloss.Color
}

var palettes = map[models.Theme]palette{
	models.ThemeLight: {
		accent: "#2563eb", muted: "#6b7280", warning: "#b45309",
		high: "#dc2626", medium: "#d97706", low: "#16a34a",
	},
	models.ThemeDark: {
		accent: "#60a5fa", muted: "#9ca3af", warning: "#fbbf24",
		high: "#f87171", medium: "#fbbf24", low: "#4ade80",
	},
	models.ThemeSolarized: {
		accent: "#268bd2", muted: "#93a1a1", warning: "#cb4b16",
		high: "#dc322f", medium: "#b58900", low: "#859900",
	},
	models.ThemeHighContrast: {
		accent: "#ffff00", muted: "#ffffff", warning: "#ff00ff",
		high: "#ff0000", medium: "#ffff00", low: "#00ff00",
	},
}

type styles struct {
	title   lipgloss.Style
	active  lipgloss.Style
	muted   lipgloss.Style
	done    lipgloss.Style
	warning lipgloss.Style
	levels  map[models.Priority]lipgloss.Style
}

func stylesFor(t models.Theme) styles {
	p, ok := palettes[t]
	if !ok {
		p = palettes[models.DefaultTheme]
	}
	return styles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		active:  lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		muted:   lipgloss.NewStyle().Foreground(p.muted),
		done:    lipgloss.NewStyle().Strikethrough(true).Foreground(p.muted),
		warning: lipgloss.NewStyle().Foreground(p.warning),
		levels: map[models.Priority]lipgloss.Style{
			models.PriorityHigh:   lipgloss.NewStyle().Foreground(p.high),
			models.PriorityMedium: lipgloss.NewStyle().Foreground(p.medium),
			models.PriorityLow:    lipgloss.NewStyle().Foreground(p.low),
		},
	}
}

// priority renders a fixed-width priority badge.
func (s styles) priority(p models.Priority) string {
	style, ok := s.levels[p]
	if !ok {
		style = s.muted
	}
	return style.Width(6).Render(p.Label())
}
