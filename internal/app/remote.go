package app

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/spoorthylakshmi/wellnest/internal/breathing"
	"github.com/spoorthylakshmi/wellnest/internal/client"
	"github.com/spoorthylakshmi/wellnest/internal/ws"
)

var (
	errNoSession      = errors.New("no session yet")
	errSessionRemoved = errors.New("session was removed on the server")
)

// RemoteDriver controls a session on a wellnest server: commands go over
// REST and transitions come back over the WebSocket stream.
type RemoteDriver struct {
	addr string
	ws   *client.WSClient
	http *client.HTTPClient

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	id      string
	created bool // delete the session on Close
}

// NewRemote attaches to sessionID, or creates a session when it is empty.
func NewRemote(addr string, wsc *client.WSClient, httpc *client.HTTPClient, sessionID string) *RemoteDriver {
	ctx, cancel := context.WithCancel(context.Background())
	return &RemoteDriver{
		addr:   addr,
		ws:     wsc,
		http:   httpc,
		ctx:    ctx,
		cancel: cancel,
		id:     sessionID,
	}
}

func (d *RemoteDriver) Name() string { return d.addr }

func (d *RemoteDriver) sessionID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.id
}

func (d *RemoteDriver) Init() tea.Cmd {
	return func() tea.Msg {
		var (
			v   ws.SessionView
			err error
		)
		if id := d.sessionID(); id != "" {
			v, err = d.http.GetSession(d.ctx, id)
		} else {
			v, err = d.http.CreateSession(d.ctx)
			if err == nil {
				d.mu.Lock()
				d.id = v.ID
				d.created = true
				d.mu.Unlock()
			}
		}
		if err != nil {
			return ErrMsg{Err: err}
		}
		return StateMsg{State: v.State, Display: v.Display}
	}
}

func (d *RemoteDriver) Listen() tea.Cmd {
	return func() tea.Msg {
		if !d.ws.Connected() {
			if d.ws.Listen(d.ctx)() == nil {
				return nil
			}
			return Listened{Msg: ConnMsg{Connected: true}}
		}
		msg := d.ws.ReadLoop(d.ctx)()
		if msg == nil {
			return nil
		}
		return Listened{Msg: d.translate(msg)}
	}
}

// translate maps stream messages onto the model's messages, dropping those
// about other sessions.
func (d *RemoteDriver) translate(msg tea.Msg) tea.Msg {
	id := d.sessionID()
	switch msg := msg.(type) {
	case client.WSDisconnectedMsg:
		return ConnMsg{Connected: false, Err: msg.Err}
	case client.WSSnapshotMsg:
		for _, s := range msg.Payload.Sessions {
			if s.ID == id {
				return StateMsg{State: s.State, Display: s.Display, Pattern: msg.Payload.Pattern}
			}
		}
	case client.WSSessionUpdateMsg:
		p := msg.Payload
		if p.SessionID == id {
			return EventMsg{
				Event:   breathing.Event{Kind: p.Event, From: p.From, To: p.To, State: p.State},
				Display: p.Display,
			}
		}
	case client.WSCycleCompleteMsg:
		p := msg.Payload
		if p.SessionID == id {
			return EventMsg{Event: breathing.Event{
				Kind:  breathing.EventCycleComplete,
				From:  p.From,
				To:    p.To,
				State: p.State,
			}}
		}
	case client.WSSessionRemovedMsg:
		if msg.Payload.SessionID == id {
			return ErrMsg{Err: errSessionRemoved}
		}
	case client.WSReminderMsg:
		return ReminderMsg{Reminder: msg.Payload}
	case client.WSBadgeMsg:
		return BadgeMsg{Name: msg.Payload.Name, Streak: msg.Payload.Streak}
	case client.WSErrorMsg:
		return ErrMsg{Err: errors.New(msg.Payload.Message)}
	}
	return ignoredMsg{}
}

type commandFunc func(ctx context.Context, id string) (ws.SessionView, error)

func (d *RemoteDriver) command(fn commandFunc) tea.Cmd {
	return func() tea.Msg {
		id := d.sessionID()
		if id == "" {
			return ErrMsg{Err: errNoSession}
		}
		v, err := fn(d.ctx, id)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return StateMsg{State: v.State, Display: v.Display}
	}
}

func (d *RemoteDriver) Start() tea.Cmd { return d.command(d.http.Start) }
func (d *RemoteDriver) Pause() tea.Cmd { return d.command(d.http.Pause) }
func (d *RemoteDriver) Reset() tea.Cmd { return d.command(d.http.Reset) }

func (d *RemoteDriver) Practice() tea.Cmd {
	return func() tea.Msg {
		sum, err := d.http.GetPractice(d.ctx)
		var se *client.StatusError
		if errors.As(err, &se) && se.Code == http.StatusServiceUnavailable {
			// The server runs without practice tracking.
			return nil
		}
		if err != nil {
			return ErrMsg{Err: err}
		}
		return PracticeMsg{Summary: sum}
	}
}

// Close drops the stream and deletes the session if this driver created it.
func (d *RemoteDriver) Close() {
	d.cancel()
	d.ws.Close()

	d.mu.Lock()
	id, created := d.id, d.created
	d.created = false
	d.mu.Unlock()
	if created {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = d.http.DeleteSession(ctx, id)
	}
}
