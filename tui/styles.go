package tui

import "github.com/charmbracelet/lipgloss"

// ANSI palette indices for the pulse color names used by sim.
var pulseColors = map[string]lipgloss.Color{
	"green":     lipgloss.Color("2"),
	"red":       lipgloss.Color("1"),
	"blue":      lipgloss.Color("4"),
	"purple":    lipgloss.Color("5"),
	"grey":      lipgloss.Color("8"),
	"lightgrey": lipgloss.Color("7"),
}

var (
	MutedColor = lipgloss.Color("8")
	TextColor  = lipgloss.Color("15")

	Muted = lipgloss.NewStyle().Foreground(MutedColor)
	Title = lipgloss.NewStyle().Bold(true)

	ButtonInactive = lipgloss.NewStyle().Padding(0, 1)
	ButtonActive   = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(TextColor)
)

// PulseColor resolves a pulse color name; unknown names render muted.
func PulseColor(name string) lipgloss.Color {
	if c, ok := pulseColors[name]; ok {
		return c
	}
	return MutedColor
}

// PulseStyle is the foreground style for pulses of the named color.
func PulseStyle(name string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(PulseColor(name))
}
