// Package debug provides a scrollable log of sequencer transitions and
// connection events.
package debug

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/spoorthylakshmi/wellnest/internal/breathing"
	"github.com/spoorthylakshmi/wellnest/internal/theme"
)

const maxEntries = 200

// Entry is a single event log line.
type Entry struct {
	Time    time.Time
	Kind    string // "tick", "phs", "cyc", "cmd", "conn", "rem", "err"
	Message string
}

// Model holds debug log state.
type Model struct {
	Entries []Entry
	Offset  int // lines scrolled back from the newest shown entry
	// ShowTicks includes per-second countdown entries in the view.
	// They are always recorded.
	ShowTicks bool
}

// New creates an empty debug model.
func New() Model {
	return Model{}
}

// Add appends a log entry and caps the buffer.
func (m *Model) Add(kind, message string) {
	m.Entries = append(m.Entries, Entry{
		Time:    time.Now(),
		Kind:    kind,
		Message: message,
	})
	if len(m.Entries) > maxEntries {
		m.Entries = m.Entries[len(m.Entries)-maxEntries:]
	}
	// Reset scroll to bottom on new entry.
	m.Offset = 0
}

// AddEvent logs one sequencer transition.
func (m *Model) AddEvent(ev breathing.Event) {
	st := ev.State
	switch ev.Kind {
	case breathing.EventTick:
		m.Add("tick", fmt.Sprintf("%s %ds left", st.Phase, st.SecondsRemaining))
	case breathing.EventPhaseChange:
		m.Add("phs", fmt.Sprintf("%s -> %s (%ds)", ev.From, ev.To, st.SecondsRemaining))
	case breathing.EventCycleComplete:
		m.Add("cyc", fmt.Sprintf("cycle %d complete", st.CycleCount))
	default:
		m.Add("cmd", fmt.Sprintf("%s: %s %ds active=%t cycles=%d",
			ev.Kind, st.Phase, st.SecondsRemaining, st.IsActive, st.CycleCount))
	}
}

// ToggleTicks flips whether tick entries are shown.
func (m *Model) ToggleTicks() {
	m.ShowTicks = !m.ShowTicks
	m.Offset = 0
}

// shown returns the entries the view lists, oldest first.
func (m Model) shown() []Entry {
	if m.ShowTicks {
		return m.Entries
	}
	out := make([]Entry, 0, len(m.Entries))
	for _, e := range m.Entries {
		if e.Kind != "tick" {
			out = append(out, e)
		}
	}
	return out
}

// ScrollUp moves back through older entries.
func (m *Model) ScrollUp(n int) {
	limit := max(len(m.shown())-1, 0)
	m.Offset = min(m.Offset+n, limit)
}

// ScrollDown moves toward the newest entry.
func (m *Model) ScrollDown(n int) {
	m.Offset = max(m.Offset-n, 0)
}

// View renders the log as an overlay panel.
func (m Model) View(width, height int) string {
	innerW := max(width-4, 20)
	rows := max(height-6, 3)

	ticks := "off"
	if m.ShowTicks {
		ticks = "on"
	}
	title := theme.StyleHeader.Render(" SESSION LOG ")
	help := theme.StyleDimmed.Render(fmt.Sprintf("j/k:scroll  x:ticks %s  esc:close  %d recorded", ticks, len(m.Entries)))

	entries := m.shown()
	if len(entries) == 0 {
		body := theme.StyleDimmed.Render("  No events recorded yet.")
		return panel(innerW).Render(lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", help))
	}

	end := max(len(entries)-m.Offset, 0)
	start := max(end-rows, 0)

	lines := make([]string, 0, end-start)
	for _, e := range entries[start:end] {
		lines = append(lines, formatEntry(e, innerW-20))
	}

	more := ""
	if m.Offset > 0 {
		more = theme.StyleDimmed.Render(fmt.Sprintf(" ↓ %d newer", m.Offset))
	}
	return panel(innerW).Render(lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(lines, "\n"), more, help))
}

func formatEntry(e Entry, msgWidth int) string {
	ts := theme.StyleDimmed.Render(e.Time.Format("15:04:05"))
	kind := lipgloss.NewStyle().Foreground(kindColors.get(e.Kind)).Width(5).Render(e.Kind)
	msg := e.Message
	if msgWidth > 3 && len(msg) > msgWidth {
		msg = msg[:msgWidth-3] + "..."
	}
	return ts + " " + kind + " " + msg
}

func panel(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Padding(1, 2).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder)
}

type colorMap map[string]lipgloss.Color

func (c colorMap) get(kind string) lipgloss.Color {
	if col, ok := c[kind]; ok {
		return col
	}
	return theme.ColorDimmed
}

var kindColors = colorMap{
	"tick": theme.ColorDimmed,
	"phs":  theme.ColorInhale,
	"cyc":  theme.ColorExhale,
	"cmd":  theme.ColorHold,
	"conn": theme.ColorHealthy,
	"rem":  theme.ColorTip,
	"err":  theme.ColorDanger,
}
