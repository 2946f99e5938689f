package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// This file centralizes the lipgloss styles used by the console output.

type styles struct {
	benchmark lipgloss.Style
	metric    lipgloss.Style
	fastest   lipgloss.Style
	bar       lipgloss.Style
	group     lipgloss.Style
	errorText lipgloss.Style
}

// newStyles binds the styles to w so colour is only emitted on terminals.
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	if termenv.EnvNoColor() {
		r.SetColorProfile(termenv.Ascii)
	}

	return styles{
		benchmark: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")), // Light purple
		metric: r.NewStyle().
			Foreground(lipgloss.Color("252")), // Light Gray
		fastest: r.NewStyle().
			Foreground(lipgloss.Color("46")). // Green
			Bold(true),
		bar: r.NewStyle().
			Foreground(lipgloss.Color("63")), // Purple-ish
		group: r.NewStyle().
			Foreground(lipgloss.Color("#FFF")).
			Background(lipgloss.Color("#7D56F4")). // Brand Color
			Bold(true),
		errorText: r.NewStyle().
			Foreground(lipgloss.Color("196")). // Red
			Bold(true),
	}
}
