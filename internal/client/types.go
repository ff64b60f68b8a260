// Package client provides WebSocket and HTTP clients for a wellnest
// server. Payloads reuse the server's protocol types.
package client

import (
	"encoding/json"

	"github.com/spoorthylakshmi/wellnest/internal/ws"
)

// WSMessage is the envelope for all WebSocket messages, with the payload
// left raw until the type is known.
type WSMessage struct {
	Type    ws.MessageType  `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// --- Bubble Tea messages ---

// WSConnectedMsg is sent when the WebSocket connects.
type WSConnectedMsg struct{}

// WSDisconnectedMsg is sent when the connection drops.
type WSDisconnectedMsg struct{ Err error }

// WSSnapshotMsg delivers the periodic full snapshot.
type WSSnapshotMsg struct{ Payload ws.SnapshotPayload }

// WSSessionUpdateMsg delivers one controller event.
type WSSessionUpdateMsg struct{ Payload ws.SessionUpdatePayload }

// WSSessionRemovedMsg is sent when a session is deleted.
type WSSessionRemovedMsg struct{ Payload ws.SessionRemovedPayload }

// WSCycleCompleteMsg is sent when any session finishes a cycle.
type WSCycleCompleteMsg struct{ Payload ws.CycleCompletePayload }

// WSReminderMsg delivers a wellness reminder.
type WSReminderMsg struct{ Payload ws.ReminderPayload }

// WSBadgeMsg is sent when a practice badge unlocks.
type WSBadgeMsg struct{ Payload ws.BadgeUnlockedPayload }

// WSErrorMsg wraps a server-side error.
type WSErrorMsg struct{ Payload ws.ErrorPayload }
