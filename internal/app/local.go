package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/spoorthylakshmi/wellnest/internal/breathing"
	"github.com/spoorthylakshmi/wellnest/internal/practice"
	"github.com/spoorthylakshmi/wellnest/internal/present"
	"github.com/spoorthylakshmi/wellnest/internal/reminder"
	"github.com/spoorthylakshmi/wellnest/internal/session"
)

const localBacklog = 256

// LocalOptions configures an in-process session.
type LocalOptions struct {
	Pattern   breathing.Pattern
	Interval  time.Duration
	NewTicker session.TickerFunc
	// Tracker, when set, records completed cycles. The driver runs it.
	Tracker *practice.Tracker
	// Reminders enables the kinds with a positive interval.
	Reminders reminder.Intervals
	Logger    *zap.Logger
}

// LocalDriver runs a breathing controller inside the TUI process.
type LocalDriver struct {
	ctrl    *session.Controller
	adapter present.Adapter
	tracker *practice.Tracker
	msgs    chan tea.Msg
	log     *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

func NewLocal(opts LocalOptions) *LocalDriver {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	d := &LocalDriver{
		tracker: opts.Tracker,
		msgs:    make(chan tea.Msg, localBacklog),
		log:     opts.Logger,
		ctx:     ctx,
		cancel:  cancel,
	}

	observers := []session.Observer{d.observe}
	if d.tracker != nil {
		d.tracker.OnBadge(func(b practice.Badge, s practice.Streak) {
			d.push(BadgeMsg{Name: b.Name, Streak: s.Current})
		})
		observers = append(observers, d.tracker.Observer())
		go d.tracker.Run(ctx)
	}

	d.ctrl = session.NewController("local", session.Options{
		Pattern:   opts.Pattern,
		Interval:  opts.Interval,
		NewTicker: opts.NewTicker,
		Logger:    opts.Logger,
		Observers: observers,
	})
	d.adapter = present.NewAdapter(d.ctrl.Pattern())

	sched := reminder.NewScheduler(opts.Reminders, func(r reminder.Reminder) {
		d.push(ReminderMsg{Reminder: r})
	}, opts.Logger)
	go sched.Run(ctx)

	return d
}

func (d *LocalDriver) Name() string { return "local" }

func (d *LocalDriver) observe(ev session.Event) {
	msg := EventMsg{Event: ev.Event, Display: d.adapter.Present(ev.State)}
	if ev.Kind == breathing.EventTick {
		// The next tick carries the full state, so a dropped one is harmless.
		select {
		case d.msgs <- msg:
		default:
			d.log.Debug("tui backlog full, dropping tick")
		}
		return
	}
	d.push(msg)
}

func (d *LocalDriver) push(msg tea.Msg) {
	select {
	case d.msgs <- msg:
	case <-d.ctx.Done():
	}
}

func (d *LocalDriver) Init() tea.Cmd {
	st := d.ctrl.Snapshot()
	return tea.Batch(
		func() tea.Msg {
			return StateMsg{State: st, Display: d.adapter.Present(st), Pattern: d.ctrl.Pattern()}
		},
		func() tea.Msg { return ConnMsg{Connected: true} },
	)
}

func (d *LocalDriver) Listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-d.msgs:
			return Listened{Msg: msg}
		case <-d.ctx.Done():
			return nil
		}
	}
}

func (d *LocalDriver) Start() tea.Cmd {
	d.ctrl.OnStartClick()
	return nil
}

func (d *LocalDriver) Pause() tea.Cmd {
	d.ctrl.OnPauseClick()
	return nil
}

func (d *LocalDriver) Reset() tea.Cmd {
	d.ctrl.OnResetClick()
	return nil
}

func (d *LocalDriver) Practice() tea.Cmd {
	if d.tracker == nil {
		return nil
	}
	return func() tea.Msg {
		sum, err := d.tracker.Summary(d.ctx)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return PracticeMsg{Summary: sum}
	}
}

// Close stops the controller, the tracker and the reminders.
func (d *LocalDriver) Close() {
	d.cancel()
	d.ctrl.Close()
}
