package ws

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/spoorthylakshmi/wellnest/internal/breathing"
	"github.com/spoorthylakshmi/wellnest/internal/present"
)

// wsConnSource upgrades every request on one test server and hands out
// the server-side connections.
type wsConnSource struct {
	url   string
	conns chan *websocket.Conn
}

func newWSConnSource(t *testing.T) *wsConnSource {
	t.Helper()
	src := &wsConnSource{conns: make(chan *websocket.Conn, 1)}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		src.conns <- c
	}))
	t.Cleanup(srv.Close)
	src.url = "ws" + strings.TrimPrefix(srv.URL, "http")
	return src
}

func (s *wsConnSource) next(t *testing.T) *websocket.Conn {
	t.Helper()
	clientConn, _, err := websocket.DefaultDialer.Dial(s.url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { clientConn.Close() })
	select {
	case c := <-s.conns:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for server-side WebSocket connection")
		return nil
	}
}

func TestAddClient_AfterStop(t *testing.T) {
	b := newBroadcasterWithLimit(t, newTestStore(t), 0)
	b.Stop()

	_, conn := dialTestWS(t)
	defer conn.Close()
	if _, err := b.AddClient(conn); !errors.Is(err, ErrBroadcasterStopped) {
		t.Fatalf("expected ErrBroadcasterStopped, got %v", err)
	}
	if got := b.ClientCount(); got != 0 {
		t.Fatalf("expected 0 clients, got %d", got)
	}
}

// Run with -race: the first snapshot must not be sent on a channel Stop
// is closing.
func TestAddClient_ConcurrentStop(t *testing.T) {
	store := newTestStore(t)
	src := newWSConnSource(t)
	adapter := present.NewAdapter(breathing.DefaultPattern())

	for i := 0; i < 300; i++ {
		b := NewBroadcaster(store, adapter, time.Hour, 0, 1, nil)
		conn := src.next(t)

		var (
			wg     sync.WaitGroup
			addErr error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			b.Stop()
		}()
		go func() {
			defer wg.Done()
			_, addErr = b.AddClient(conn)
		}()
		wg.Wait()

		switch {
		case addErr == nil:
		case errors.Is(addErr, ErrBroadcasterStopped):
			conn.Close()
		default:
			t.Fatalf("iteration %d: unexpected AddClient error: %v", i, addErr)
		}
		if got := b.ClientCount(); got != 0 {
			t.Fatalf("iteration %d: expected 0 clients after Stop, got %d", i, got)
		}
	}
}
