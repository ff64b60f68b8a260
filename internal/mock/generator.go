// Package mock drives demo breathing sessions so the stream and the TUI
// have something to show without a user clicking.
package mock

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/spoorthylakshmi/wellnest/internal/session"
)

// Behaviour decides what a demo session does on each step.
type Behaviour string

const (
	// Steady starts once and keeps breathing.
	Steady Behaviour = "steady"
	// Interrupted pauses now and then and resumes a few steps later.
	Interrupted Behaviour = "interrupted"
	// Restless resets occasionally and starts over.
	Restless Behaviour = "restless"
)

type mockSession struct {
	ctrl      *session.Controller
	behaviour Behaviour
	startAt   int // step at which the session first starts
	idleFor   int // steps left before a paused/reset session starts again
}

var defaultBehaviours = []Behaviour{Steady, Interrupted, Restless}

type MockGenerator struct {
	store    *session.Store
	interval time.Duration
	log      *zap.Logger
	rng      *rand.Rand
	sessions []*mockSession
	step     int
}

// NewGenerator returns a generator that acts every interval.
func NewGenerator(store *session.Store, interval time.Duration, logger *zap.Logger) *MockGenerator {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MockGenerator{
		store:    store,
		interval: interval,
		log:      logger,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Start creates one demo session per behaviour and drives them until ctx
// is cancelled. Sessions are created synchronously.
func (g *MockGenerator) Start(ctx context.Context) {
	g.seed()
	go g.run(ctx)
}

func (g *MockGenerator) seed() {
	for i, b := range defaultBehaviours {
		c := g.store.Create()
		g.sessions = append(g.sessions, &mockSession{ctrl: c, behaviour: b, startAt: i})
		g.log.Info("demo session created", zap.String("session", c.ID()), zap.String("behaviour", string(b)))
	}
}

func (g *MockGenerator) run(ctx context.Context) {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	g.stepAll()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.stepAll()
		}
	}
}

func (g *MockGenerator) stepAll() {
	for _, ms := range g.sessions {
		g.stepSession(ms)
	}
	g.step++
}

func (g *MockGenerator) stepSession(ms *mockSession) {
	if g.step < ms.startAt {
		return
	}
	st := ms.ctrl.Snapshot()
	if !st.IsActive {
		if ms.idleFor > 0 {
			ms.idleFor--
			return
		}
		ms.ctrl.OnStartClick()
		return
	}

	switch ms.behaviour {
	case Interrupted:
		if g.rng.Float64() < 0.2 {
			ms.ctrl.OnPauseClick()
			ms.idleFor = 1 + g.rng.Intn(3)
		}
	case Restless:
		if g.rng.Float64() < 0.1 {
			ms.ctrl.OnResetClick()
			ms.idleFor = 2
		}
	}
}
