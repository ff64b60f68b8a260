// Package theme provides the Lip Gloss color palette and reusable styles
// for the breathing TUI. It is a leaf package with no internal imports
// to avoid import cycles.
package theme

import "github.com/charmbracelet/lipgloss"

// Phase colors.
var (
	ColorIdle   = lipgloss.Color("#9ca3af")
	ColorInhale = lipgloss.Color("#7fb8e6") // wellness blue
	ColorHold   = lipgloss.Color("#b7a4e0") // lavender
	ColorExhale = lipgloss.Color("#8fd4b4") // mint
)

// Reminder colors.
var (
	ColorWater = lipgloss.Color("#38bdf8")
	ColorTip   = lipgloss.Color("#4ade80")
	ColorQuote = lipgloss.Color("#f9a8d4")
	ColorBadge = lipgloss.Color("#f59e0b")
)

// UI chrome colors.
var (
	ColorBorder  = lipgloss.Color("#4b5563")
	ColorDimmed  = lipgloss.Color("#6b7280")
	ColorBright  = lipgloss.Color("#f9fafb")
	ColorBg      = lipgloss.Color("#111827")
	ColorHealthy = lipgloss.Color("#22c55e")
	ColorWarning = lipgloss.Color("#d97706")
	ColorDanger  = lipgloss.Color("#dc2626")
)

// PhaseColor returns the color for a phase name as it appears on the wire.
func PhaseColor(phase string) lipgloss.Color {
	switch phase {
	case "inhale":
		return ColorInhale
	case "hold":
		return ColorHold
	case "exhale":
		return ColorExhale
	default:
		return ColorIdle
	}
}

// ReminderColor returns the color for a reminder kind.
func ReminderColor(kind string) lipgloss.Color {
	switch kind {
	case "water":
		return ColorWater
	case "tip":
		return ColorTip
	case "quote":
		return ColorQuote
	default:
		return ColorDimmed
	}
}

// Reusable styles.
var (
	StyleBorder = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBright)

	StyleDimmed = lipgloss.NewStyle().
			Foreground(ColorDimmed)

	StyleToast = lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder())
)

// PhaseGlyph returns a Unicode glyph for a phase name.
func PhaseGlyph(phase string) string {
	switch phase {
	case "inhale":
		return "↑"
	case "hold":
		return "•"
	case "exhale":
		return "↓"
	default:
		return "○"
	}
}
