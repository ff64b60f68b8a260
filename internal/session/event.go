package session

import (
	"time"

	"github.com/spoorthylakshmi/wellnest/internal/breathing"
)

// Event carries a sequencer event to observers, tagged with the session
// it belongs to.
type Event struct {
	SessionID string
	At        time.Time
	breathing.Event
}

// Observer receives controller events in the order they happened. An
// observer must not issue commands on the same controller synchronously.
type Observer func(Event)
