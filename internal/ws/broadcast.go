package ws

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/spoorthylakshmi/wellnest/internal/breathing"
	"github.com/spoorthylakshmi/wellnest/internal/present"
	"github.com/spoorthylakshmi/wellnest/internal/reminder"
	"github.com/spoorthylakshmi/wellnest/internal/session"
)

// ErrTooManyConnections is returned by AddClient when the connection limit
// is reached.
var ErrTooManyConnections = errors.New("too many websocket connections")

// ErrBroadcasterStopped is returned by AddClient after Stop.
var ErrBroadcasterStopped = errors.New("broadcaster stopped")

const (
	writeTimeout      = 10 * time.Second
	defaultClientSend = 64
)

type client struct {
	conn *websocket.Conn
	b    *Broadcaster
	send chan []byte
}

func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			c.b.RemoveClient(c)
			return
		}
	}
}

// Broadcaster fans session events, reminders and badges out to every
// connected WebSocket client, and sends periodic full snapshots.
type Broadcaster struct {
	mu       sync.RWMutex
	clients  map[*client]bool
	store    *session.Store
	adapter  present.Adapter
	maxConns int
	sendBuf  int
	log      *zap.Logger

	snapshotTicker *time.Ticker
	stopOnce       sync.Once
	stop           chan struct{}
}

// NewBroadcaster starts the snapshot loop. maxConns <= 0 means unlimited.
func NewBroadcaster(store *session.Store, adapter present.Adapter, snapshotInterval time.Duration, maxConns, sendBuf int, logger *zap.Logger) *Broadcaster {
	if sendBuf <= 0 {
		sendBuf = defaultClientSend
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Broadcaster{
		clients:        make(map[*client]bool),
		store:          store,
		adapter:        adapter,
		maxConns:       maxConns,
		sendBuf:        sendBuf,
		log:            logger,
		snapshotTicker: time.NewTicker(snapshotInterval),
		stop:           make(chan struct{}),
	}
	go b.snapshotLoop()
	return b
}

// Stop ends the snapshot loop and disconnects every client.
func (b *Broadcaster) Stop() {
	b.stopOnce.Do(func() {
		b.snapshotTicker.Stop()
		close(b.stop)

		b.mu.Lock()
		for c := range b.clients {
			delete(b.clients, c)
			close(c.send)
		}
		b.mu.Unlock()
	})
}

// AddClient registers conn and queues a snapshot for it. It fails with
// ErrBroadcasterStopped once Stop has been called.
func (b *Broadcaster) AddClient(conn *websocket.Conn) (*client, error) {
	c := &client{conn: conn, b: b, send: make(chan []byte, b.sendBuf)}
	data, err := json.Marshal(b.snapshotMessage())

	// Stop and RemoveClient close c.send under mu.
	b.mu.Lock()
	defer b.mu.Unlock()
	select {
	case <-b.stop:
		return nil, ErrBroadcasterStopped
	default:
	}
	if b.maxConns > 0 && len(b.clients) >= b.maxConns {
		return nil, ErrTooManyConnections
	}
	b.clients[c] = true
	if err == nil {
		select {
		case c.send <- data:
		default:
			// Client too slow, drop the snapshot
		}
	}

	go c.writePump()
	return c, nil
}

func (b *Broadcaster) RemoveClient(c *client) {
	b.mu.Lock()
	if _, ok := b.clients[c]; ok {
		delete(b.clients, c)
		close(c.send)
	}
	b.mu.Unlock()
}

func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// View renders a store snapshot for clients.
func (b *Broadcaster) View(s session.Snapshot) SessionView {
	return SessionView{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		State:     s.State,
		Display:   b.adapter.Present(s.State),
	}
}

func (b *Broadcaster) snapshotMessage() WSMessage {
	snaps := b.store.GetAll()
	views := make([]SessionView, 0, len(snaps))
	active := 0
	for _, s := range snaps {
		views = append(views, b.View(s))
		if s.State.IsActive {
			active++
		}
	}
	return WSMessage{
		Type: MsgSnapshot,
		Payload: SnapshotPayload{
			Pattern:     b.store.Pattern(),
			Sessions:    views,
			ActiveCount: active,
		},
	}
}

// Observe is a session.Observer that streams every controller event.
func (b *Broadcaster) Observe(ev session.Event) {
	if ev.Kind == breathing.EventCycleComplete {
		b.broadcast(WSMessage{
			Type: MsgCycleComplete,
			Payload: CycleCompletePayload{
				SessionID:  ev.SessionID,
				CycleCount: ev.State.CycleCount,
				From:       ev.From,
				To:         ev.To,
				State:      ev.State,
			},
		})
		return
	}
	b.broadcast(WSMessage{
		Type: MsgSessionUpdate,
		Payload: SessionUpdatePayload{
			Event:     ev.Kind,
			SessionID: ev.SessionID,
			From:      ev.From,
			To:        ev.To,
			State:     ev.State,
			Display:   b.adapter.Present(ev.State),
		},
	})
}

func (b *Broadcaster) QueueRemoval(id string) {
	b.broadcast(WSMessage{Type: MsgSessionRemoved, Payload: SessionRemovedPayload{SessionID: id}})
}

// PublishReminder is a reminder.Sink.
func (b *Broadcaster) PublishReminder(r reminder.Reminder) {
	b.broadcast(WSMessage{Type: MsgReminder, Payload: ReminderPayload(r)})
}

func (b *Broadcaster) PublishBadge(id, name string, days, streak int) {
	b.broadcast(WSMessage{
		Type:    MsgBadgeUnlocked,
		Payload: BadgeUnlockedPayload{ID: id, Name: name, Days: days, Streak: streak},
	})
}

func (b *Broadcaster) snapshotLoop() {
	for {
		select {
		case <-b.stop:
			return
		case <-b.snapshotTicker.C:
			b.broadcast(b.snapshotMessage())
		}
	}
}

func (b *Broadcaster) broadcast(msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		b.log.Error("broadcast marshal error", zap.Error(err))
		return
	}

	b.mu.RLock()
	clients := make([]*client, 0, len(b.clients))
	for c := range b.clients {
		clients = append(clients, c)
	}
	b.mu.RUnlock()

	for _, c := range clients {
		if !b.trySend(c, data) {
			// Client can't keep up, disconnect it
			b.log.Warn("ws client too slow, disconnecting")
			b.RemoveClient(c)
		}
	}
}

// trySend queues data unless the client's buffer is full. A client
// removed concurrently has a closed channel; treat that as delivered.
func (b *Broadcaster) trySend(c *client, data []byte) (ok bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.clients[c] {
		return true
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}
