// Package breath renders the breathing screen: a ball that grows and
// shrinks with the phase, the caption, the countdown and the cycle count.
package breath

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"

	"github.com/spoorthylakshmi/wellnest/internal/breathing"
	"github.com/spoorthylakshmi/wellnest/internal/present"
	"github.com/spoorthylakshmi/wellnest/internal/theme"
)

const (
	fps = 30

	// baseRadius is the ball radius in rows at scale 1.0.
	baseRadius = 4.0
	maxScale   = 1.5

	settleEpsilon = 0.002
)

// FrameMsg advances the ball animation by one frame.
type FrameMsg struct{}

// Model holds the breathing screen state.
type Model struct {
	Width int

	pattern breathing.Pattern
	state   breathing.SessionState
	display present.Display

	spring    harmonica.Spring
	scale     float64
	velocity  float64
	target    float64
	animating bool

	bar progress.Model
}

// New returns an idle breathing screen for pt.
func New(pt breathing.Pattern) Model {
	d := present.NewAdapter(pt).Present(breathing.SessionState{})
	m := Model{
		pattern: pt,
		display: d,
		scale:   d.VisualScale,
		target:  d.VisualScale,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
	m.setSpring(d.TransitionDurationSeconds)
	return m
}

// State returns the last state passed to SetState.
func (m Model) State() breathing.SessionState { return m.state }

// SetPattern replaces the pattern the progress bar is measured against.
func (m *Model) SetPattern(pt breathing.Pattern) { m.pattern = pt }

// Scale returns the ball's current animated scale.
func (m Model) Scale() float64 { return m.scale }

// SetState updates what the screen shows and starts easing the ball
// toward the new scale. The returned command drives the animation; it is
// nil when an animation is already running or nothing needs to move.
func (m *Model) SetState(st breathing.SessionState, d present.Display) tea.Cmd {
	m.state = st
	m.display = d
	if d.VisualScale != m.target {
		m.target = d.VisualScale
		m.setSpring(d.TransitionDurationSeconds)
	}
	if m.animating || m.settled() {
		return nil
	}
	m.animating = true
	return frame()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if _, ok := msg.(FrameMsg); !ok {
		return m, nil
	}
	m.scale, m.velocity = m.spring.Update(m.scale, m.velocity, m.target)
	if m.settled() {
		m.scale = m.target
		m.velocity = 0
		m.animating = false
		return m, nil
	}
	return m, frame()
}

func frame() tea.Cmd {
	return tea.Tick(time.Second/fps, func(time.Time) tea.Msg { return FrameMsg{} })
}

// setSpring tunes a critically damped spring to settle in roughly the
// given number of seconds.
func (m *Model) setSpring(seconds float64) {
	if seconds <= 0 {
		seconds = 0.3
	}
	m.spring = harmonica.NewSpring(harmonica.FPS(fps), 5/seconds, 1.0)
}

func (m Model) settled() bool {
	return math.Abs(m.scale-m.target) < settleEpsilon && math.Abs(m.velocity) < settleEpsilon
}

// PhaseProgress is the share of the current phase already elapsed, in
// [0, 1). Idle reports 0.
func PhaseProgress(pt breathing.Pattern, st breathing.SessionState) float64 {
	d := pt.Duration(st.Phase)
	if d <= 0 || st.SecondsRemaining <= 0 {
		return 0
	}
	return float64(d-st.SecondsRemaining) / float64(d)
}

// Ball draws a filled circle for scale as fixed-height rows. Cells are
// roughly twice as tall as wide, so each row is stretched horizontally.
func Ball(scale float64) []string {
	half := int(math.Ceil(baseRadius * maxScale))
	width := 4*half + 1
	r := baseRadius * scale

	rows := make([]string, 0, 2*half+1)
	for y := -half; y <= half; y++ {
		fy := float64(y)
		if math.Abs(fy) > r {
			rows = append(rows, strings.Repeat(" ", width))
			continue
		}
		dx := int(math.Round(2 * math.Sqrt(r*r-fy*fy)))
		if dx > 2*half {
			dx = 2 * half
		}
		pad := 2*half - dx
		rows = append(rows, strings.Repeat(" ", pad)+strings.Repeat("█", 2*dx+1)+strings.Repeat(" ", pad))
	}
	return rows
}

// View renders the breathing screen centred in Width columns.
func (m Model) View() string {
	width := m.Width
	if width < 40 {
		width = 40
	}
	phase := m.state.Phase.String()
	color := theme.PhaseColor(phase)

	ball := lipgloss.NewStyle().Foreground(color).Render(strings.Join(Ball(m.scale), "\n"))

	title := lipgloss.NewStyle().Bold(true).Foreground(color).Render(m.display.MainText)
	sub := theme.StyleDimmed.Render(m.display.SubText)

	countdown := " "
	if m.display.ShowCountdown {
		countdown = lipgloss.NewStyle().Bold(true).Foreground(theme.ColorBright).
			Render(fmt.Sprintf("%s %d", theme.PhaseGlyph(phase), m.display.Countdown))
	}

	m.bar.Width = min(width-10, 40)
	bar := m.bar.ViewAs(PhaseProgress(m.pattern, m.state))

	cycles := " "
	if m.display.ShowCycles {
		cycles = theme.StyleDimmed.Render(fmt.Sprintf("Cycles completed: %d", m.display.CycleCount))
	}

	content := lipgloss.JoinVertical(lipgloss.Center, ball, "", title, sub, "", countdown, bar, cycles)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, content)
}

// StartLabel is the label for the start key hint.
func (m Model) StartLabel() string { return m.display.StartLabel }
