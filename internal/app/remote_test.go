package app

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spoorthylakshmi/wellnest/internal/breathing"
	"github.com/spoorthylakshmi/wellnest/internal/client"
	"github.com/spoorthylakshmi/wellnest/internal/present"
	"github.com/spoorthylakshmi/wellnest/internal/reminder"
	"github.com/spoorthylakshmi/wellnest/internal/session"
	"github.com/spoorthylakshmi/wellnest/internal/ws"
)

type remoteHarness struct {
	store *session.Store
	b     *ws.Broadcaster
	srv   *httptest.Server
}

func newRemoteHarness(t *testing.T) *remoteHarness {
	t.Helper()
	store := session.NewStore(session.Options{Interval: time.Hour})
	t.Cleanup(store.Close)
	b := ws.NewBroadcaster(store, present.NewAdapter(breathing.DefaultPattern()), time.Hour, 0, 0, nil)
	t.Cleanup(b.Stop)
	store.Observe(b.Observe)
	srv := httptest.NewServer(ws.NewServer(store, b, nil, nil, nil).Routes())
	t.Cleanup(srv.Close)
	return &remoteHarness{store: store, b: b, srv: srv}
}

func (h *remoteHarness) driver(sessionID string) *RemoteDriver {
	wsURL := "ws" + strings.TrimPrefix(h.srv.URL, "http") + "/ws"
	return NewRemote(h.srv.URL, client.NewWSClient(wsURL), client.NewHTTPClient(h.srv.URL), sessionID)
}

func TestRemoteDriver_CreatesAndDeletesSession(t *testing.T) {
	h := newRemoteHarness(t)
	d := h.driver("")

	st, ok := d.Init()().(StateMsg)
	require.True(t, ok)
	assert.Equal(t, breathing.SessionState{}, st.State)
	require.Equal(t, 1, h.store.Len())

	st, ok = d.Start()().(StateMsg)
	require.True(t, ok)
	assert.Equal(t, breathing.Inhale, st.State.Phase)
	assert.True(t, st.State.IsActive)
	assert.Equal(t, "Breathe In", st.Display.MainText)

	st, ok = d.Pause()().(StateMsg)
	require.True(t, ok)
	assert.False(t, st.State.IsActive)

	d.Close()
	assert.Equal(t, 0, h.store.Len())
}

func TestRemoteDriver_AttachKeepsSession(t *testing.T) {
	h := newRemoteHarness(t)
	ctrl := h.store.Create()

	d := h.driver(ctrl.ID())
	_, ok := d.Init()().(StateMsg)
	require.True(t, ok)

	d.Close()
	assert.Equal(t, 1, h.store.Len(), "attached sessions outlive the TUI")
}

func TestRemoteDriver_UnknownSession(t *testing.T) {
	h := newRemoteHarness(t)
	d := h.driver("missing")
	defer d.Close()

	msg, ok := d.Init()().(ErrMsg)
	require.True(t, ok)
	assert.Contains(t, msg.Err.Error(), "404")
}

func TestRemoteDriver_CommandBeforeInit(t *testing.T) {
	h := newRemoteHarness(t)
	d := h.driver("")
	defer d.Close()

	msg, ok := d.Start()().(ErrMsg)
	require.True(t, ok)
	assert.ErrorIs(t, msg.Err, errNoSession)
}

func TestRemoteDriver_PracticeOffIsQuiet(t *testing.T) {
	h := newRemoteHarness(t)
	d := h.driver("")
	defer d.Close()
	assert.Nil(t, d.Practice()())
}

func TestRemoteDriver_StreamFiltersBySession(t *testing.T) {
	h := newRemoteHarness(t)
	d := h.driver("")
	defer d.Close()

	_, ok := d.Init()().(StateMsg)
	require.True(t, ok)
	id := d.sessionID()

	assert.Equal(t, ConnMsg{Connected: true}, next(t, d.Listen()))

	snap, ok := next(t, d.Listen()).(StateMsg)
	require.True(t, ok)
	assert.Equal(t, breathing.DefaultPattern(), snap.Pattern)

	other := breathing.Event{Kind: breathing.EventStarted, To: breathing.Inhale,
		State: breathing.SessionState{Phase: breathing.Inhale, SecondsRemaining: 4, IsActive: true}}
	h.b.Observe(session.Event{SessionID: "someone-else", Event: other})
	assert.Equal(t, ignoredMsg{}, next(t, d.Listen()))

	h.b.Observe(session.Event{SessionID: id, Event: other})
	ev, ok := next(t, d.Listen()).(EventMsg)
	require.True(t, ok)
	assert.Equal(t, breathing.EventStarted, ev.Event.Kind)
	assert.Equal(t, 4, ev.Display.Countdown)

	cycle := breathing.Event{
		Kind:  breathing.EventCycleComplete,
		From:  breathing.Exhale,
		To:    breathing.Exhale,
		State: breathing.SessionState{Phase: breathing.Exhale, SecondsRemaining: 1, CycleCount: 2, IsActive: true},
	}
	h.b.Observe(session.Event{SessionID: id, Event: cycle})
	ev, ok = next(t, d.Listen()).(EventMsg)
	require.True(t, ok)
	// Same event a local observer gets, not a zero Idle state.
	assert.Equal(t, cycle, ev.Event)

	h.b.PublishReminder(reminder.Reminder{Kind: reminder.KindTip, Title: "Tip", Message: "Stretch"})
	rem, ok := next(t, d.Listen()).(ReminderMsg)
	require.True(t, ok)
	assert.Equal(t, "Stretch", rem.Reminder.Message)

	h.b.PublishBadge("starter", "Starter", 3, 3)
	assert.Equal(t, BadgeMsg{Name: "Starter", Streak: 3}, next(t, d.Listen()))

	h.b.QueueRemoval(id)
	gone, ok := next(t, d.Listen()).(ErrMsg)
	require.True(t, ok)
	assert.ErrorIs(t, gone.Err, errSessionRemoved)
}
