package session

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spoorthylakshmi/wellnest/internal/breathing"
)

const DefaultTickInterval = time.Second

// Options configures a Controller. Zero values fall back to defaults.
type Options struct {
	Pattern   breathing.Pattern
	Interval  time.Duration
	NewTicker TickerFunc
	Logger    *zap.Logger
	Observers []Observer
}

// Controller drives one breathing Sequencer from a periodic ticker and
// exposes the start/pause/reset intents of the breathing screen. It holds
// at most one live tick loop: starting cancels any earlier loop, and
// pause/reset stop the loop before they return. Ticks that arrive from a
// cancelled loop are dropped by generation.
type Controller struct {
	id        string
	createdAt time.Time
	interval  time.Duration
	newTicker TickerFunc
	log       *zap.Logger

	mu     sync.Mutex
	seq    *breathing.Sequencer
	gen    uint64
	stop   chan struct{}
	closed bool

	// loops counts tick goroutines, including superseded ones that may
	// still be delivering.
	loops sync.WaitGroup

	// notifyMu keeps observer delivery in transition order without
	// holding mu during callbacks.
	notifyMu  sync.Mutex
	observers []Observer
}

func NewController(id string, opts Options) *Controller {
	if opts.Pattern == (breathing.Pattern{}) {
		opts.Pattern = breathing.DefaultPattern()
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultTickInterval
	}
	if opts.NewTicker == nil {
		opts.NewTicker = NewTicker
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Controller{
		id:        id,
		createdAt: time.Now(),
		interval:  opts.Interval,
		newTicker: opts.NewTicker,
		log:       opts.Logger.With(zap.String("session", id)),
		seq:       breathing.NewSequencer(opts.Pattern),
		observers: append([]Observer(nil), opts.Observers...),
	}
}

func (c *Controller) ID() string { return c.id }

func (c *Controller) CreatedAt() time.Time { return c.createdAt }

func (c *Controller) Pattern() breathing.Pattern {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq.Pattern()
}

// Snapshot returns the current state for rendering.
func (c *Controller) Snapshot() breathing.SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq.State()
}

// Observe registers an observer for subsequent events.
func (c *Controller) Observe(o Observer) {
	c.notifyMu.Lock()
	c.observers = append(c.observers, o)
	c.notifyMu.Unlock()
}

// OnStartClick starts a fresh Inhale and installs the tick loop.
func (c *Controller) OnStartClick() breathing.SessionState {
	c.mu.Lock()
	if c.closed {
		st := c.seq.State()
		c.mu.Unlock()
		return st
	}
	st, events := c.seq.Start()
	if len(events) > 0 {
		c.stopLoopLocked()
		c.startLoopLocked()
		c.log.Debug("breathing started", zap.Int("cycles", st.CycleCount))
	}
	c.publishLocked(events)
	return st
}

// OnPauseClick freezes the countdown and stops the tick loop.
func (c *Controller) OnPauseClick() breathing.SessionState {
	c.mu.Lock()
	st, events := c.seq.Pause()
	c.stopLoopLocked()
	if len(events) > 0 {
		c.log.Debug("breathing paused", zap.Stringer("phase", st.Phase), zap.Int("remaining", st.SecondsRemaining))
	}
	c.publishLocked(events)
	return st
}

// OnResetClick stops the tick loop and collapses the session to Idle.
func (c *Controller) OnResetClick() breathing.SessionState {
	c.mu.Lock()
	st, events := c.seq.Reset()
	c.stopLoopLocked()
	c.log.Debug("breathing reset")
	c.publishLocked(events)
	return st
}

// Close stops the tick loop and waits for every loop goroutine it ever
// started to exit. Further start clicks are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.seq.Pause()
	c.stopLoopLocked()
	c.mu.Unlock()
	c.loops.Wait()
}

func (c *Controller) startLoopLocked() {
	c.gen++
	c.stop = make(chan struct{})
	t := c.newTicker(c.interval)
	c.loops.Add(1)
	go c.run(c.gen, t, c.stop)
}

// stopLoopLocked signals the current loop to exit and invalidates its
// generation so any tick it is already delivering becomes a no-op.
func (c *Controller) stopLoopLocked() {
	if c.stop == nil {
		return
	}
	close(c.stop)
	c.stop = nil
	c.gen++
}

func (c *Controller) run(gen uint64, t Ticker, stop <-chan struct{}) {
	defer c.loops.Done()
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C():
			c.tick(gen)
		}
	}
}

func (c *Controller) tick(gen uint64) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		c.log.Debug("dropping stale tick", zap.Uint64("gen", gen))
		return
	}
	_, events := c.seq.Tick()
	c.publishLocked(events)
}

// publishLocked hands events to observers. It must be called with mu held
// and releases it.
func (c *Controller) publishLocked(events []breathing.Event) {
	if len(events) == 0 {
		c.mu.Unlock()
		return
	}
	c.notifyMu.Lock()
	c.mu.Unlock()
	defer c.notifyMu.Unlock()

	now := time.Now()
	for _, ev := range events {
		out := Event{SessionID: c.id, At: now, Event: ev}
		for _, o := range c.observers {
			o(out)
		}
	}
}
