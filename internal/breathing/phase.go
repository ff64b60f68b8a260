// Package breathing implements the guided breathing cycle: the phase
// enumeration, the per-phase durations and the clock-free sequencer that
// advances through Inhale, Hold and Exhale one tick at a time.
package breathing

import (
	"encoding/json"
	"fmt"
)

type Phase int

const (
	Idle Phase = iota
	Inhale
	Hold
	Exhale
)

var phaseNames = map[Phase]string{
	Idle:   "idle",
	Inhale: "inhale",
	Hold:   "hold",
	Exhale: "exhale",
}

var phaseFromName = map[string]Phase{
	"idle":   Idle,
	"inhale": Inhale,
	"hold":   Hold,
	"exhale": Exhale,
}

func (p Phase) String() string {
	if s, ok := phaseNames[p]; ok {
		return s
	}
	return "unknown"
}

func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Phase) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, ok := phaseFromName[s]
	if !ok {
		return fmt.Errorf("unknown phase %q", s)
	}
	*p = v
	return nil
}

// ParsePhase maps a lower-case phase name back to its Phase.
func ParsePhase(s string) (Phase, bool) {
	p, ok := phaseFromName[s]
	return p, ok
}

// Next returns the phase that follows p in the cycle. Idle leads into
// Inhale; Exhale wraps back to Inhale.
func (p Phase) Next() Phase {
	switch p {
	case Inhale:
		return Hold
	case Hold:
		return Exhale
	default:
		return Inhale
	}
}

// Pattern holds the whole-second duration of each active phase. A pattern
// is fixed when a Sequencer is built and is never changed afterwards.
type Pattern struct {
	Inhale int `json:"inhale" yaml:"inhale"`
	Hold   int `json:"hold" yaml:"hold"`
	Exhale int `json:"exhale" yaml:"exhale"`
}

const (
	DefaultInhaleSeconds = 4
	DefaultHoldSeconds   = 4
	DefaultExhaleSeconds = 6
)

// DefaultPattern is the 4-4-6 rhythm.
func DefaultPattern() Pattern {
	return Pattern{
		Inhale: DefaultInhaleSeconds,
		Hold:   DefaultHoldSeconds,
		Exhale: DefaultExhaleSeconds,
	}
}

// Duration returns the configured length of p in seconds. Idle is 0.
func (pt Pattern) Duration(p Phase) int {
	switch p {
	case Inhale:
		return pt.Inhale
	case Hold:
		return pt.Hold
	case Exhale:
		return pt.Exhale
	default:
		return 0
	}
}

// CycleSeconds is the length of one full Inhale→Hold→Exhale traversal.
func (pt Pattern) CycleSeconds() int {
	return pt.Inhale + pt.Hold + pt.Exhale
}

// Validate reports whether every active phase lasts at least one second.
func (pt Pattern) Validate() error {
	for _, p := range []Phase{Inhale, Hold, Exhale} {
		if pt.Duration(p) < 1 {
			return fmt.Errorf("%s duration must be at least 1s, got %d", p, pt.Duration(p))
		}
	}
	return nil
}
