package breathing

import (
	"encoding/json"
	"fmt"
)

// EventKind classifies what a sequencer operation did.
type EventKind int

const (
	EventStarted       EventKind = iota // Idle/paused → fresh Inhale
	EventPaused                         // countdown frozen
	EventReset                          // collapsed to Idle, cycles cleared
	EventTick                           // countdown decremented within a phase
	EventPhaseChange                    // countdown exhausted, next phase loaded
	EventCycleComplete                  // Exhale finished; emitted before its phase change
)

var eventKindNames = map[EventKind]string{
	EventStarted:       "started",
	EventPaused:        "paused",
	EventReset:         "reset",
	EventTick:          "tick",
	EventPhaseChange:   "phase_change",
	EventCycleComplete: "cycle_complete",
}

func (k EventKind) String() string {
	if s, ok := eventKindNames[k]; ok {
		return s
	}
	return "unknown"
}

func (k EventKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *EventKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for kind, name := range eventKindNames {
		if name == s {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown event kind %q", s)
}

// Event carries a state snapshot taken right after the transition.
type Event struct {
	Kind  EventKind    `json:"kind"`
	From  Phase        `json:"from"`
	To    Phase        `json:"to"`
	State SessionState `json:"state"`
}
