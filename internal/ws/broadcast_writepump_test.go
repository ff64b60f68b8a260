package ws

import (
	"testing"
	"time"
)

// TestWritePump_RemovesClientOnWriteError verifies that when writePump
// encounters a write error it calls RemoveClient so the dead client is
// removed from the broadcaster's client map.
func TestWritePump_RemovesClientOnWriteError(t *testing.T) {
	_, serverConn := dialTestWS(t)
	b := newBroadcasterWithLimit(t, newTestStore(t), 0)

	// Build a client directly so we control when writePump starts.
	c := &client{
		conn: serverConn,
		b:    b,
		send: make(chan []byte, 64),
	}
	b.mu.Lock()
	b.clients[c] = true
	b.mu.Unlock()

	if got := b.ClientCount(); got != 1 {
		t.Fatalf("expected 1 client before test, got %d", got)
	}

	// Close the connection so any write attempt will immediately fail.
	serverConn.Close()

	c.send <- []byte(`{"type":"test"}`)
	go c.writePump()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if b.ClientCount() == 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Fatalf("client not removed after write error; ClientCount = %d", b.ClientCount())
}

func TestBroadcast_DropsSlowClient(t *testing.T) {
	b := newBroadcasterWithLimit(t, newTestStore(t), 0)

	// No writePump drains this client, so its one-slot buffer fills.
	c := &client{b: b, send: make(chan []byte, 1)}
	b.mu.Lock()
	b.clients[c] = true
	b.mu.Unlock()

	b.QueueRemoval("a")
	if got := b.ClientCount(); got != 1 {
		t.Fatalf("expected client kept after first message, got %d", got)
	}
	b.QueueRemoval("b")
	if got := b.ClientCount(); got != 0 {
		t.Fatalf("expected slow client dropped, got %d", got)
	}
}
