package status

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/spoorthylakshmi/wellnest/internal/theme"
)

// Model holds the status bar state.
type Model struct {
	Mode        string // "local" or the server address
	Connected   bool
	Phase       string
	Streak      int
	CyclesToday int
	Badges      int
	HasPractice bool
	Width       int
}

func New(mode string) Model {
	return Model{Mode: mode}
}

// View renders the status bar.
func (m Model) View() string {
	width := m.Width
	if width < 40 {
		width = 40
	}

	var connStr string
	if m.Connected {
		connStr = lipgloss.NewStyle().Foreground(theme.ColorHealthy).Render("● " + m.Mode)
	} else {
		connStr = lipgloss.NewStyle().Foreground(theme.ColorDanger).Render("○ Connecting to " + m.Mode + "...")
	}

	phase := m.Phase
	if phase == "" {
		phase = "idle"
	}
	phaseStr := lipgloss.NewStyle().Foreground(theme.PhaseColor(phase)).
		Render(theme.PhaseGlyph(phase) + " " + phase)

	sep := lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(" | ")
	content := connStr + sep + phaseStr
	if m.HasPractice {
		content += sep + fmt.Sprintf("🔥 %d-day streak  %d cycles today  %d badges", m.Streak, m.CyclesToday, m.Badges)
	}

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder).
		Render(content)
}
