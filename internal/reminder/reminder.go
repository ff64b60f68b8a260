// Package reminder schedules periodic wellness nudges: hydration
// reminders, wellness tips and a daily motivation quote.
package reminder

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

type Kind string

const (
	KindWater Kind = "water"
	KindTip   Kind = "tip"
	KindQuote Kind = "quote"
)

// Reminder is one delivered nudge.
type Reminder struct {
	Kind    Kind      `json:"kind"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Sink receives reminders as they fire.
type Sink func(Reminder)

var (
	waterReminders = []string{
		"Time to drink water 💧",
		"Stay hydrated for better focus.",
		"A glass of water can boost your energy.",
		"Hydration keeps your body balanced.",
	}
	wellnessTips = []string{
		"Take a 5-minute break every hour.",
		"Stretch your body after long sitting.",
		"Avoid screens 30 minutes before sleep.",
		"Practice deep breathing to reduce stress.",
	}
	wellnessQuotes = []string{
		"Take care of your body. It's the only place you have to live.",
		"Small daily habits create big results.",
		"Your health is your greatest wealth.",
		"A calm mind brings inner strength.",
	}
)

type schedule struct {
	kind     Kind
	title    string
	interval time.Duration
	messages []string
}

// Intervals sets how often each kind fires. A non-positive interval
// disables that kind.
type Intervals struct {
	Water time.Duration
	Tip   time.Duration
	Quote time.Duration
}

// NextFire reports when a kind is next due.
type NextFire struct {
	Kind  Kind      `json:"kind"`
	Title string    `json:"title"`
	Every string    `json:"every"`
	Next  time.Time `json:"next"`
}

// Scheduler fires reminders on independent tickers.
type Scheduler struct {
	schedules []schedule
	sink      Sink
	log       *zap.Logger

	started atomic.Bool

	mu   sync.Mutex
	rng  *rand.Rand
	next map[Kind]time.Time
}

func NewScheduler(iv Intervals, sink Sink, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Scheduler{
		sink: sink,
		log:  logger,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
		next: make(map[Kind]time.Time),
	}
	for _, sc := range []schedule{
		{KindWater, "Hydration Reminder 💧", iv.Water, waterReminders},
		{KindTip, "Wellness Tip 🌱", iv.Tip, wellnessTips},
		{KindQuote, "Daily Motivation ✨", iv.Quote, wellnessQuotes},
	} {
		if sc.interval > 0 {
			s.schedules = append(s.schedules, sc)
		}
	}
	return s
}

// Run fires reminders until ctx is cancelled. Only the first call runs;
// later calls return immediately.
func (s *Scheduler) Run(ctx context.Context) {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	var wg sync.WaitGroup
	for _, sc := range s.schedules {
		wg.Add(1)
		go func(sc schedule) {
			defer wg.Done()
			s.loop(ctx, sc)
		}(sc)
	}
	wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, sc schedule) {
	ticker := time.NewTicker(sc.interval)
	defer ticker.Stop()
	s.setNext(sc.kind, time.Now().Add(sc.interval))

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.setNext(sc.kind, now.Add(sc.interval))
			r := s.build(sc, now)
			s.log.Debug("reminder", zap.String("kind", string(r.Kind)))
			if s.sink != nil {
				s.sink(r)
			}
		}
	}
}

func (s *Scheduler) build(sc schedule, now time.Time) Reminder {
	s.mu.Lock()
	msg := sc.messages[s.rng.Intn(len(sc.messages))]
	s.mu.Unlock()
	return Reminder{Kind: sc.kind, Title: sc.title, Message: msg, At: now}
}

func (s *Scheduler) setNext(k Kind, t time.Time) {
	s.mu.Lock()
	s.next[k] = t
	s.mu.Unlock()
}

// Upcoming lists each enabled kind with its next fire time. Kinds whose
// loop has not started yet report a zero Next.
func (s *Scheduler) Upcoming() []NextFire {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]NextFire, 0, len(s.schedules))
	for _, sc := range s.schedules {
		out = append(out, NextFire{
			Kind:  sc.kind,
			Title: sc.title,
			Every: sc.interval.String(),
			Next:  s.next[sc.kind],
		})
	}
	return out
}
