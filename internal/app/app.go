package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/spoorthylakshmi/wellnest/internal/breathing"
	"github.com/spoorthylakshmi/wellnest/internal/present"
	"github.com/spoorthylakshmi/wellnest/internal/theme"
	"github.com/spoorthylakshmi/wellnest/internal/views/badges"
	"github.com/spoorthylakshmi/wellnest/internal/views/breath"
	"github.com/spoorthylakshmi/wellnest/internal/views/debug"
	"github.com/spoorthylakshmi/wellnest/internal/views/status"
	"github.com/spoorthylakshmi/wellnest/internal/views/tips"
)

const (
	toastDuration = 6 * time.Second

	// practiceRefreshDelay gives the tracker time to record a finished
	// cycle before the summary is fetched again.
	practiceRefreshDelay = 500 * time.Millisecond
)

// Overlay identifies which modal is active.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayTips
	OverlayBadges
	OverlayDebug
)

type clearToastMsg struct{ id int }

type refreshPracticeMsg struct{}

// Model is the root Bubble Tea model.
type Model struct {
	driver Driver
	keys   KeyMap
	width  int
	height int

	pattern breathing.Pattern
	state   breathing.SessionState

	overlay   Overlay
	breath    breath.Model
	tips      tips.Model
	badges    badges.Model
	debug     debug.Model
	statusBar status.Model

	toast      string
	toastColor lipgloss.Color
	toastID    int

	err error
}

// New creates the root model around d.
func New(d Driver, pt breathing.Pattern) Model {
	return Model{
		driver:    d,
		keys:      DefaultKeyMap(),
		pattern:   pt,
		breath:    breath.New(pt),
		tips:      tips.New(pt),
		badges:    badges.New(),
		debug:     debug.New(),
		statusBar: status.New(d.Name()),
	}
}

// State returns the last state the model applied.
func (m Model) State() breathing.SessionState { return m.state }

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.driver.Init(), m.driver.Listen(), m.driver.Practice())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.statusBar.Width = msg.Width
		m.breath.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case Listened:
		next, cmd := m.Update(msg.Msg)
		return next, tea.Batch(cmd, m.driver.Listen())

	case StateMsg:
		if msg.Pattern != (breathing.Pattern{}) && msg.Pattern != m.pattern {
			m.pattern = msg.Pattern
			m.breath.SetPattern(msg.Pattern)
			m.tips = tips.New(msg.Pattern)
		}
		return m, m.apply(msg.State, msg.Display)

	case EventMsg:
		m.debug.AddEvent(msg.Event)
		if msg.Event.Kind == breathing.EventCycleComplete {
			cmd := m.showToast(fmt.Sprintf("Cycle %d complete", msg.Event.State.CycleCount), theme.ColorExhale)
			if refresh := m.driver.Practice(); refresh != nil {
				cmd = tea.Batch(cmd, tea.Tick(practiceRefreshDelay, func(time.Time) tea.Msg {
					return refreshPracticeMsg{}
				}))
			}
			return m, cmd
		}
		return m, m.apply(msg.Event.State, msg.Display)

	case breath.FrameMsg:
		var cmd tea.Cmd
		m.breath, cmd = m.breath.Update(msg)
		return m, cmd

	case refreshPracticeMsg:
		return m, m.driver.Practice()

	case PracticeMsg:
		s := msg.Summary
		m.statusBar.HasPractice = true
		m.statusBar.Streak = s.Streak.Current
		m.statusBar.CyclesToday = s.CyclesToday
		m.statusBar.Badges = len(s.Badges)
		m.badges.SetSummary(s)
		return m, nil

	case ReminderMsg:
		r := msg.Reminder
		m.debug.Add("rem", fmt.Sprintf("%s: %s", r.Kind, r.Message))
		return m, m.showToast(r.Title+"  "+r.Message, theme.ReminderColor(string(r.Kind)))

	case BadgeMsg:
		m.debug.Add("rem", "badge "+msg.Name)
		cmd := m.showToast(fmt.Sprintf("Badge unlocked: %s (%d-day streak)", msg.Name, msg.Streak), theme.ColorBadge)
		return m, tea.Batch(cmd, m.driver.Practice())

	case clearToastMsg:
		if msg.id == m.toastID {
			m.toast = ""
		}
		return m, nil

	case ConnMsg:
		m.statusBar.Connected = msg.Connected
		if msg.Connected {
			m.err = nil
			m.debug.Add("conn", "connected to "+m.driver.Name())
		} else if msg.Err != nil {
			m.debug.Add("conn", "disconnected: "+msg.Err.Error())
		} else {
			m.debug.Add("conn", "disconnected")
		}
		return m, nil

	case ErrMsg:
		m.err = msg.Err
		m.debug.Add("err", msg.Err.Error())
		return m, nil
	}

	return m, nil
}

func (m *Model) apply(st breathing.SessionState, d present.Display) tea.Cmd {
	m.state = st
	m.statusBar.Phase = st.Phase.String()
	return m.breath.SetState(st, d)
}

func (m *Model) showToast(text string, color lipgloss.Color) tea.Cmd {
	m.toastID++
	m.toast = text
	m.toastColor = color
	id := m.toastID
	return tea.Tick(toastDuration, func(time.Time) tea.Msg { return clearToastMsg{id: id} })
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.driver.Close()
		return m, tea.Quit
	}

	if m.overlay != OverlayNone {
		switch {
		case key.Matches(msg, m.keys.Escape):
			m.overlay = OverlayNone
		case m.overlay == OverlayTips && key.Matches(msg, m.keys.Tips):
			m.overlay = OverlayNone
		case m.overlay == OverlayBadges && key.Matches(msg, m.keys.Badges):
			m.overlay = OverlayNone
		case m.overlay == OverlayDebug && key.Matches(msg, m.keys.Debug):
			m.overlay = OverlayNone
		case m.overlay == OverlayDebug && key.Matches(msg, m.keys.Ticks):
			m.debug.ToggleTicks()
		case key.Matches(msg, m.keys.Up):
			m.scroll(-1)
		case key.Matches(msg, m.keys.Down):
			m.scroll(1)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Start):
		m.debug.Add("cmd", "start")
		return m, m.driver.Start()

	case key.Matches(msg, m.keys.Pause):
		m.debug.Add("cmd", "pause")
		return m, m.driver.Pause()

	case key.Matches(msg, m.keys.Reset):
		m.debug.Add("cmd", "reset")
		return m, m.driver.Reset()

	case key.Matches(msg, m.keys.Tips):
		m.overlay = OverlayTips
		return m, nil

	case key.Matches(msg, m.keys.Badges):
		m.overlay = OverlayBadges
		return m, nil

	case key.Matches(msg, m.keys.Debug):
		m.overlay = OverlayDebug
		return m, nil
	}

	return m, nil
}

func (m *Model) scroll(dir int) {
	switch m.overlay {
	case OverlayDebug:
		if dir < 0 {
			m.debug.ScrollUp(1)
		} else {
			m.debug.ScrollDown(1)
		}
	case OverlayBadges:
		if dir < 0 {
			m.badges.ScrollUp()
		} else {
			m.badges.ScrollDown()
		}
	}
}

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	var body string
	switch m.overlay {
	case OverlayTips:
		body = m.tips.View(m.width)
	case OverlayBadges:
		body = m.badges.ViewOverlay(m.width, m.height-4)
	case OverlayDebug:
		body = m.debug.View(m.width, m.height-4)
	default:
		body = m.breath.View()
	}

	sections := []string{m.statusBar.View(), body}
	if m.toast != "" {
		sections = append(sections, lipgloss.PlaceHorizontal(m.width, lipgloss.Center,
			theme.StyleToast.BorderForeground(m.toastColor).Render(m.toast)))
	}
	if m.err != nil {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.ColorDanger).Render("  "+m.err.Error()))
	}
	sections = append(sections, theme.StyleDimmed.Render(m.helpLine()))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) helpLine() string {
	start := "start"
	if m.state.IsActive {
		start = "restart"
	} else if label := m.breath.StartLabel(); label != "" {
		start = strings.ToLower(label)
	}
	return fmt.Sprintf("  space:%s  p:pause  r:reset  t:tips  b:badges  d:debug  q:quit", start)
}
