package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/spoorthylakshmi/wellnest/internal/breathing"
	"github.com/spoorthylakshmi/wellnest/internal/practice"
	"github.com/spoorthylakshmi/wellnest/internal/present"
	"github.com/spoorthylakshmi/wellnest/internal/reminder"
)

// Driver is where the breathing session lives: in this process or on a
// wellnest server.
type Driver interface {
	// Name labels the driver in the status bar.
	Name() string
	// Init reports the initial StateMsg.
	Init() tea.Cmd
	// Listen delivers the next pushed message wrapped in Listened. The
	// model re-issues it after every Listened; a nil message ends it.
	Listen() tea.Cmd
	// Start, Pause and Reset may act synchronously and return nil; the
	// resulting transitions then arrive through Listen.
	Start() tea.Cmd
	Pause() tea.Cmd
	Reset() tea.Cmd
	// Practice fetches the streak summary, or returns nil when practice
	// tracking is off.
	Practice() tea.Cmd
	Close()
}

// Listened wraps a message delivered by Driver.Listen.
type Listened struct{ Msg tea.Msg }

// StateMsg replaces the shown state. A non-zero Pattern also replaces the
// breathing pattern.
type StateMsg struct {
	State   breathing.SessionState
	Display present.Display
	Pattern breathing.Pattern
}

// EventMsg is one sequencer transition. Cycle-complete events only carry
// the cycle count and leave the shown state alone.
type EventMsg struct {
	Event   breathing.Event
	Display present.Display
}

type ReminderMsg struct{ Reminder reminder.Reminder }

type BadgeMsg struct {
	Name   string
	Streak int
}

type PracticeMsg struct{ Summary practice.Summary }

// ConnMsg reports the driver's link state.
type ConnMsg struct {
	Connected bool
	Err       error
}

type ErrMsg struct{ Err error }

// ignoredMsg is delivered for pushed messages about other sessions.
type ignoredMsg struct{}
