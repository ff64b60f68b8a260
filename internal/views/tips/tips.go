// Package tips renders the breathing guide and wellness tips overlay as
// Markdown through glamour.
package tips

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/spoorthylakshmi/wellnest/internal/breathing"
	"github.com/spoorthylakshmi/wellnest/internal/theme"
)

const guide = `# Guided Breathing

Follow the ball: it grows while you breathe in, stays full while you hold
and shrinks as you breathe out.

| Phase | Seconds |
|-------|---------|
| Breathe in | {{inhale}} |
| Hold | {{hold}} |
| Breathe out | {{exhale}} |

## Tips

- Breathe in through your nose and out through your mouth.
- Let your shoulders drop on every exhale.
- Take a 5-minute break every hour.
- Stretch your body after long sitting.
- Avoid screens 30 minutes before sleep.

> A calm mind brings inner strength.
`

// Markdown returns the guide text for pt.
func Markdown(pt breathing.Pattern) string {
	return strings.NewReplacer(
		"{{inhale}}", strconv.Itoa(pt.Inhale),
		"{{hold}}", strconv.Itoa(pt.Hold),
		"{{exhale}}", strconv.Itoa(pt.Exhale),
	).Replace(guide)
}

// Model caches the rendered guide per width.
type Model struct {
	pattern  breathing.Pattern
	style    string
	width    int
	rendered string
}

func New(pt breathing.Pattern) Model {
	return Model{pattern: pt, style: "dark"}
}

// View renders the overlay panel in width columns.
func (m *Model) View(width int) string {
	innerW := width - 6
	if innerW < 30 {
		innerW = 30
	}
	if m.rendered == "" || m.width != innerW {
		m.rendered = render(Markdown(m.pattern), m.style, innerW)
		m.width = innerW
	}

	help := theme.StyleDimmed.Render("esc:close")
	content := lipgloss.JoinVertical(lipgloss.Left, m.rendered, help)
	return lipgloss.NewStyle().
		Padding(0, 1).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder).
		Render(content)
}

func render(md, style string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
