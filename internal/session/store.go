package session

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spoorthylakshmi/wellnest/internal/breathing"
)

var ErrNotFound = errors.New("session not found")

// Snapshot is a point-in-time copy of one controller's state.
type Snapshot struct {
	ID        string                 `json:"id"`
	CreatedAt time.Time              `json:"createdAt"`
	Pattern   breathing.Pattern      `json:"pattern"`
	State     breathing.SessionState `json:"state"`
}

// Store owns the server's breathing controllers, keyed by session ID.
// Every controller it creates reports to the store's observers.
type Store struct {
	mu          sync.RWMutex
	controllers map[string]*Controller
	defaults    Options

	obsMu     sync.RWMutex
	observers []Observer
}

// NewStore returns a store whose controllers are built from defaults.
// defaults.Observers is ignored; use Observe.
func NewStore(defaults Options) *Store {
	defaults.Observers = nil
	return &Store{
		controllers: make(map[string]*Controller),
		defaults:    defaults,
	}
}

// Observe registers o for events from every controller, including ones
// created earlier.
func (s *Store) Observe(o Observer) {
	s.obsMu.Lock()
	s.observers = append(s.observers, o)
	s.obsMu.Unlock()
}

func (s *Store) fanOut(ev Event) {
	s.obsMu.RLock()
	obs := s.observers
	s.obsMu.RUnlock()
	for _, o := range obs {
		o(ev)
	}
}

// Create builds a new Idle controller with a random ID.
func (s *Store) Create() *Controller {
	opts := s.defaults
	opts.Observers = []Observer{s.fanOut}
	c := NewController(uuid.NewString(), opts)

	s.mu.Lock()
	s.controllers[c.ID()] = c
	s.mu.Unlock()
	return c
}

func (s *Store) Get(id string) (*Controller, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.controllers[id]
	return c, ok
}

// Snapshot returns the state of a single session.
func (s *Store) Snapshot(id string) (Snapshot, error) {
	c, ok := s.Get(id)
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	return snapshotOf(c), nil
}

// GetAll returns snapshots of every session, oldest first.
func (s *Store) GetAll() []Snapshot {
	s.mu.RLock()
	ctrls := make([]*Controller, 0, len(s.controllers))
	for _, c := range s.controllers {
		ctrls = append(ctrls, c)
	}
	s.mu.RUnlock()

	sort.Slice(ctrls, func(i, j int) bool {
		if ctrls[i].CreatedAt().Equal(ctrls[j].CreatedAt()) {
			return ctrls[i].ID() < ctrls[j].ID()
		}
		return ctrls[i].CreatedAt().Before(ctrls[j].CreatedAt())
	})

	out := make([]Snapshot, 0, len(ctrls))
	for _, c := range ctrls {
		out = append(out, snapshotOf(c))
	}
	return out
}

// Remove closes and forgets a session.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	c, ok := s.controllers[id]
	delete(s.controllers, id)
	s.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	c.Close()
	return nil
}

// ActiveCount returns how many sessions are currently breathing.
func (s *Store) ActiveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, c := range s.controllers {
		if c.Snapshot().IsActive {
			count++
		}
	}
	return count
}

// Pattern is the timing new sessions are created with.
func (s *Store) Pattern() breathing.Pattern {
	if s.defaults.Pattern.Validate() != nil {
		return breathing.DefaultPattern()
	}
	return s.defaults.Pattern
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.controllers)
}

// Close stops every controller's tick loop.
func (s *Store) Close() {
	s.mu.Lock()
	ctrls := s.controllers
	s.controllers = make(map[string]*Controller)
	s.mu.Unlock()
	for _, c := range ctrls {
		c.Close()
	}
	if s.defaults.Logger != nil {
		s.defaults.Logger.Debug("session store closed", zap.Int("sessions", len(ctrls)))
	}
}

func snapshotOf(c *Controller) Snapshot {
	return Snapshot{
		ID:        c.ID(),
		CreatedAt: c.CreatedAt(),
		Pattern:   c.Pattern(),
		State:     c.Snapshot(),
	}
}
