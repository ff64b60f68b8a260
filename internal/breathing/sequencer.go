package breathing

// Sequencer advances a SessionState through the breathing cycle. It has
// no clock of its own: the owner calls Tick once per second while the
// session is active. A Sequencer is not safe for concurrent use.
type Sequencer struct {
	pattern Pattern
	state   SessionState
}

// NewSequencer returns an Idle sequencer bound to pt. Invalid patterns
// fall back to DefaultPattern so the countdown bound always holds.
func NewSequencer(pt Pattern) *Sequencer {
	if pt.Validate() != nil {
		pt = DefaultPattern()
	}
	return &Sequencer{pattern: pt}
}

func (s *Sequencer) Pattern() Pattern { return s.pattern }

func (s *Sequencer) State() SessionState { return s.state }

// Start begins a fresh Inhale. It is a no-op while already active; after
// a pause it restarts the cycle instead of resuming the frozen phase.
func (s *Sequencer) Start() (SessionState, []Event) {
	if s.state.IsActive {
		return s.state, nil
	}
	from := s.state.Phase
	s.state.IsActive = true
	s.state.Phase = Inhale
	s.state.SecondsRemaining = s.pattern.Duration(Inhale)
	return s.state, []Event{s.event(EventStarted, from)}
}

// Pause stops advancing and keeps the phase and countdown as they were.
func (s *Sequencer) Pause() (SessionState, []Event) {
	if !s.state.IsActive {
		return s.state, nil
	}
	s.state.IsActive = false
	return s.state, []Event{s.event(EventPaused, s.state.Phase)}
}

// Reset collapses the session to Idle and clears the cycle counter.
func (s *Sequencer) Reset() (SessionState, []Event) {
	from := s.state.Phase
	s.state = SessionState{}
	return s.state, []Event{s.event(EventReset, from)}
}

// Tick decrements the countdown. When it runs out the next phase is
// loaded; leaving Exhale counts a completed cycle first. Ticks delivered
// while inactive are ignored.
func (s *Sequencer) Tick() (SessionState, []Event) {
	if !s.state.IsActive {
		return s.state, nil
	}
	if s.state.SecondsRemaining > 1 {
		s.state.SecondsRemaining--
		return s.state, []Event{s.event(EventTick, s.state.Phase)}
	}

	from := s.state.Phase
	var events []Event
	if from == Exhale {
		s.state.CycleCount++
		events = append(events, s.event(EventCycleComplete, from))
	}
	s.state.Phase = from.Next()
	s.state.SecondsRemaining = s.pattern.Duration(s.state.Phase)
	events = append(events, s.event(EventPhaseChange, from))
	return s.state, events
}

func (s *Sequencer) event(kind EventKind, from Phase) Event {
	return Event{Kind: kind, From: from, To: s.state.Phase, State: s.state}
}
