package ws

import (
	"time"

	"github.com/spoorthylakshmi/wellnest/internal/breathing"
	"github.com/spoorthylakshmi/wellnest/internal/present"
	"github.com/spoorthylakshmi/wellnest/internal/reminder"
)

type MessageType string

const (
	MsgSnapshot       MessageType = "snapshot"
	MsgSessionUpdate  MessageType = "session_update"
	MsgSessionRemoved MessageType = "session_removed"
	MsgCycleComplete  MessageType = "cycle_complete"
	MsgReminder       MessageType = "reminder"
	MsgBadgeUnlocked  MessageType = "badge_unlocked"
	MsgError          MessageType = "error"
)

type WSMessage struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

// SessionView is a session's state together with how to render it.
type SessionView struct {
	ID        string                 `json:"id"`
	CreatedAt time.Time              `json:"createdAt"`
	State     breathing.SessionState `json:"state"`
	Display   present.Display        `json:"display"`
}

type SnapshotPayload struct {
	Pattern     breathing.Pattern `json:"pattern"`
	Sessions    []SessionView     `json:"sessions"`
	ActiveCount int               `json:"activeCount"`
}

type SessionUpdatePayload struct {
	Event     breathing.EventKind    `json:"event"`
	SessionID string                 `json:"sessionId"`
	From      breathing.Phase        `json:"from"`
	To        breathing.Phase        `json:"to"`
	State     breathing.SessionState `json:"state"`
	Display   present.Display        `json:"display"`
}

type SessionRemovedPayload struct {
	SessionID string `json:"sessionId"`
}

// CycleCompletePayload carries the transition and the state as of the
// completing tick, the same values a local observer sees.
type CycleCompletePayload struct {
	SessionID  string                 `json:"sessionId"`
	CycleCount int                    `json:"cycleCount"`
	From       breathing.Phase        `json:"from"`
	To         breathing.Phase        `json:"to"`
	State      breathing.SessionState `json:"state"`
}

type ReminderPayload = reminder.Reminder

type BadgeUnlockedPayload struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Days   int    `json:"days"`
	Streak int    `json:"streak"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
