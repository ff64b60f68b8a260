package practice

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spoorthylakshmi/wellnest/internal/breathing"
	"github.com/spoorthylakshmi/wellnest/internal/session"
)

// BadgeCallback is invoked for each newly earned badge.
type BadgeCallback func(b Badge, streak Streak)

// EarnedBadge is a badge definition plus when it was awarded.
type EarnedBadge struct {
	Badge
	EarnedAt time.Time `json:"earnedAt"`
}

// Summary is the practice view served to clients.
type Summary struct {
	Streak      Streak        `json:"streak"`
	Badges      []EarnedBadge `json:"badges"`
	CyclesToday int           `json:"cyclesToday"`
	TotalCycles int           `json:"totalCycles"`
}

// Tracker turns completed breathing cycles into practice days. It
// receives session events on a channel, logs each completed cycle and
// advances the streak.
type Tracker struct {
	store   *Store
	events  chan session.Event
	log     *zap.Logger
	now     func() time.Time
	onBadge BadgeCallback

	mu    sync.Mutex
	state State
}

// NewTracker loads the saved streak. Events reach the tracker through
// Observer, and the caller must run Run in a goroutine.
func NewTracker(ctx context.Context, store *Store, logger *zap.Logger) (*Tracker, error) {
	st, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{
		store:  store,
		events: make(chan session.Event, 256),
		log:    logger,
		now:    time.Now,
		state:  st,
	}, nil
}

// OnBadge registers a callback invoked whenever a badge is earned.
// Must be called before Run.
func (t *Tracker) OnBadge(cb BadgeCallback) {
	t.onBadge = cb
}

// Observer returns a session observer that forwards cycle completions to
// the tracker without blocking the controller.
func (t *Tracker) Observer() session.Observer {
	return func(ev session.Event) {
		if ev.Kind != breathing.EventCycleComplete {
			return
		}
		select {
		case t.events <- ev:
		default:
			t.log.Warn("practice tracker backlog full, dropping cycle", zap.String("session", ev.SessionID))
		}
	}
}

// Run processes events until ctx is cancelled.
func (t *Tracker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-t.events:
			t.processEvent(ctx, ev)
		}
	}
}

func (t *Tracker) processEvent(ctx context.Context, ev session.Event) {
	if ev.Kind != breathing.EventCycleComplete {
		return
	}
	at := ev.At
	if at.IsZero() {
		at = t.now()
	}

	if err := t.store.RecordCycle(ctx, ev.SessionID, at); err != nil {
		t.log.Error("failed to record cycle", zap.Error(err))
	}

	t.mu.Lock()
	next, unlocked := Advance(t.state, at)
	t.state = next
	t.mu.Unlock()

	if err := t.store.Save(ctx, next); err != nil {
		t.log.Error("failed to save streak", zap.Error(err))
	}

	for _, b := range unlocked {
		t.log.Info("badge earned", zap.String("badge", b.ID), zap.Int("streak", next.Streak.Current))
		if t.onBadge != nil {
			t.onBadge(b, next.Streak)
		}
	}
}

// Summary returns the current streak, earned badges and cycle counts.
func (t *Tracker) Summary(ctx context.Context) (Summary, error) {
	t.mu.Lock()
	st := t.state.clone()
	t.mu.Unlock()

	sum := Summary{Streak: st.Streak, Badges: []EarnedBadge{}}
	for id, at := range st.Earned {
		b, ok := BadgeByID(id)
		if !ok {
			continue
		}
		sum.Badges = append(sum.Badges, EarnedBadge{Badge: b, EarnedAt: at})
	}
	sort.Slice(sum.Badges, func(i, j int) bool { return sum.Badges[i].Days < sum.Badges[j].Days })

	var err error
	if sum.CyclesToday, err = t.store.CyclesOn(ctx, t.now()); err != nil {
		return Summary{}, err
	}
	if sum.TotalCycles, err = t.store.TotalCycles(ctx); err != nil {
		return Summary{}, err
	}
	return sum, nil
}
