package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spoorthylakshmi/wellnest/internal/breathing"
	"github.com/spoorthylakshmi/wellnest/internal/reminder"
	"github.com/spoorthylakshmi/wellnest/internal/session"
)

type rawMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// streamHarness wires a store, a broadcaster observing it and a server,
// and dials /ws as a client.
type streamHarness struct {
	store *session.Store
	b     *Broadcaster
	conn  *websocket.Conn
}

func newStreamHarness(t *testing.T) *streamHarness {
	t.Helper()
	store := newTestStore(t)
	b := newBroadcasterWithLimit(t, store, 0)
	store.Observe(b.Observe)

	srv := httptest.NewServer(NewServer(store, b, nil, nil, nil).Routes())
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return &streamHarness{store: store, b: b, conn: conn}
}

func (h *streamHarness) read(t *testing.T) rawMessage {
	t.Helper()
	require.NoError(t, h.conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg rawMessage
	require.NoError(t, h.conn.ReadJSON(&msg))
	return msg
}

func decode[T any](t *testing.T, msg rawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(msg.Payload, &v))
	return v
}

func TestStream_SnapshotOnConnect(t *testing.T) {
	h := newStreamHarness(t)

	msg := h.read(t)
	require.Equal(t, MsgSnapshot, msg.Type)
	snap := decode[SnapshotPayload](t, msg)
	assert.Equal(t, breathing.DefaultPattern(), snap.Pattern)
	assert.Empty(t, snap.Sessions)
	assert.Equal(t, 0, snap.ActiveCount)
}

func TestStream_SessionUpdates(t *testing.T) {
	h := newStreamHarness(t)
	h.read(t) // snapshot

	c := h.store.Create()
	c.OnStartClick()

	msg := h.read(t)
	require.Equal(t, MsgSessionUpdate, msg.Type)
	upd := decode[SessionUpdatePayload](t, msg)
	assert.Equal(t, breathing.EventStarted, upd.Event)
	assert.Equal(t, c.ID(), upd.SessionID)
	assert.Equal(t, breathing.Inhale, upd.State.Phase)
	assert.Equal(t, 4, upd.State.SecondsRemaining)
	assert.True(t, upd.State.IsActive)
	assert.Equal(t, "Breathe In", upd.Display.MainText)
	assert.Equal(t, 1.5, upd.Display.VisualScale)
	assert.Equal(t, 4, upd.Display.Countdown)

	c.OnPauseClick()
	upd = decode[SessionUpdatePayload](t, h.read(t))
	assert.Equal(t, breathing.EventPaused, upd.Event)
	assert.False(t, upd.State.IsActive)
	assert.False(t, upd.Display.ShowCountdown)
}

func TestStream_CycleCompleteMessage(t *testing.T) {
	h := newStreamHarness(t)
	h.read(t)

	h.b.Observe(session.Event{
		SessionID: "abc",
		Event: breathing.Event{
			Kind:  breathing.EventCycleComplete,
			From:  breathing.Exhale,
			To:    breathing.Exhale,
			State: breathing.SessionState{Phase: breathing.Exhale, SecondsRemaining: 1, CycleCount: 3, IsActive: true},
		},
	})

	msg := h.read(t)
	require.Equal(t, MsgCycleComplete, msg.Type)
	assert.Equal(t, CycleCompletePayload{
		SessionID:  "abc",
		CycleCount: 3,
		From:       breathing.Exhale,
		To:         breathing.Exhale,
		State:      breathing.SessionState{Phase: breathing.Exhale, SecondsRemaining: 1, CycleCount: 3, IsActive: true},
	}, decode[CycleCompletePayload](t, msg))
}

func TestStream_ReminderAndBadge(t *testing.T) {
	h := newStreamHarness(t)
	h.read(t)

	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	h.b.PublishReminder(reminder.Reminder{Kind: reminder.KindWater, Title: "Hydration", Message: "Drink", At: at})
	msg := h.read(t)
	require.Equal(t, MsgReminder, msg.Type)
	r := decode[ReminderPayload](t, msg)
	assert.Equal(t, reminder.KindWater, r.Kind)
	assert.True(t, r.At.Equal(at))

	h.b.PublishBadge("starter", "Starter", 3, 3)
	msg = h.read(t)
	require.Equal(t, MsgBadgeUnlocked, msg.Type)
	assert.Equal(t, BadgeUnlockedPayload{ID: "starter", Name: "Starter", Days: 3, Streak: 3}, decode[BadgeUnlockedPayload](t, msg))
}

func TestSnapshotMessage_CountsActive(t *testing.T) {
	store := newTestStore(t)
	b := newBroadcasterWithLimit(t, store, 0)

	store.Create().OnStartClick()
	store.Create()

	snap := b.snapshotMessage().Payload.(SnapshotPayload)
	assert.Len(t, snap.Sessions, 2)
	assert.Equal(t, 1, snap.ActiveCount)
	texts := []string{snap.Sessions[0].Display.MainText, snap.Sessions[1].Display.MainText}
	assert.ElementsMatch(t, []string{"Breathe In", "Ready to Begin"}, texts)
}
