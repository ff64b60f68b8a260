// Package badges provides the practice overlay: the streak record and
// every badge with its unlock state.
package badges

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/spoorthylakshmi/wellnest/internal/practice"
	"github.com/spoorthylakshmi/wellnest/internal/theme"
)

// Model holds the badges panel state.
type Model struct {
	summary practice.Summary
	loaded  bool
	scroll  int
}

func New() Model {
	return Model{}
}

// SetSummary stores the latest practice summary.
func (m *Model) SetSummary(s practice.Summary) {
	m.summary = s
	m.loaded = true
}

func (m *Model) ScrollUp() {
	if m.scroll > 0 {
		m.scroll--
	}
}

func (m *Model) ScrollDown() {
	if m.scroll < len(practice.Badges)-1 {
		m.scroll++
	}
}

// ViewOverlay renders the panel centered in a w×h area.
func (m Model) ViewOverlay(w, h int) string {
	mw := clamp(w-8, 44, 80)
	mh := max(h-4, 14)

	box := lipgloss.NewStyle().
		Width(mw).
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.ColorBorder).
		Render(m.renderInner(mw-4, mh-2))

	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) renderInner(w, h int) string {
	var b strings.Builder

	title := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorBright).Render("PRACTICE")
	b.WriteString(title + "\n\n")

	if !m.loaded {
		b.WriteString(theme.StyleDimmed.Render("Practice tracking is off."))
		b.WriteString("\n\n" + theme.StyleDimmed.Render("esc close"))
		return b.String()
	}

	s := m.summary.Streak
	b.WriteString(fmt.Sprintf("🔥 %d-day streak   best %d   ❄ %d freezes\n", s.Current, s.Longest, s.FreezeAvailable))
	b.WriteString(theme.StyleDimmed.Render(fmt.Sprintf("%d cycles today, %d in total", m.summary.CyclesToday, m.summary.TotalCycles)) + "\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(strings.Repeat("─", w)) + "\n")

	earned := make(map[string]bool, len(m.summary.Badges))
	for _, e := range m.summary.Badges {
		earned[e.ID] = true
	}
	b.WriteString(theme.StyleDimmed.Render(fmt.Sprintf("%d / %d unlocked", len(earned), len(practice.Badges))) + "\n\n")

	// Each badge takes two lines.
	maxItems := max((h-8)/2, 1)
	start := clamp(m.scroll, 0, max(len(practice.Badges)-1, 0))

	shown := 0
	for i := start; i < len(practice.Badges) && shown < maxItems; i++ {
		bd := practice.Badges[i]
		var glyph string
		nameStyle := theme.StyleDimmed
		if earned[bd.ID] {
			glyph = lipgloss.NewStyle().Foreground(theme.ColorBadge).Render("✓")
			nameStyle = lipgloss.NewStyle().Foreground(theme.ColorBright)
		} else {
			glyph = theme.StyleDimmed.Render("○")
		}
		b.WriteString(glyph + " " + daysLabel(bd.Days) + " " + nameStyle.Render(bd.Name) + "\n")
		b.WriteString(theme.StyleDimmed.Render("    "+describe(bd, s.Current)) + "\n")
		shown++
	}

	if remaining := len(practice.Badges) - start - shown; remaining > 0 {
		b.WriteString("\n" + theme.StyleDimmed.Render(fmt.Sprintf("↓ %d more (j/k to scroll)", remaining)))
	}

	b.WriteString("\n\n" + theme.StyleDimmed.Render("j/k scroll  esc close"))
	return b.String()
}

func daysLabel(days int) string {
	return lipgloss.NewStyle().Foreground(theme.ColorBadge).Bold(true).Render(fmt.Sprintf("[%2dd]", days))
}

func describe(b practice.Badge, current int) string {
	var out string
	if current >= b.Days {
		out = fmt.Sprintf("%d-day streak reached", b.Days)
	} else {
		out = fmt.Sprintf("%d more day(s) to a %d-day streak", b.Days-current, b.Days)
	}
	if b.Freeze > 0 {
		out += fmt.Sprintf(", grants %d freeze(s)", b.Freeze)
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
