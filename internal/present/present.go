// Package present maps a breathing SessionState to what a renderer shows:
// the caption, the ball scale and how long the scale transition takes.
package present

import "github.com/spoorthylakshmi/wellnest/internal/breathing"

const (
	scaleRest     = 1.0
	scaleExpanded = 1.5

	// quickTransition is used for phases that do not animate the ball.
	quickTransition = 0.3
)

// Display is the render record for one state.
type Display struct {
	MainText                  string  `json:"mainText"`
	SubText                   string  `json:"subText"`
	VisualScale               float64 `json:"visualScale"`
	TransitionDurationSeconds float64 `json:"transitionDurationSeconds"`
	ShowCountdown             bool    `json:"showCountdown"`
	Countdown                 int     `json:"countdown,omitempty"`
	ShowCycles                bool    `json:"showCycles"`
	CycleCount                int     `json:"cycleCount,omitempty"`
	StartLabel                string  `json:"startLabel"`
}

type caption struct {
	main string
	sub  string
}

var captions = map[breathing.Phase]caption{
	breathing.Idle:   {"Ready to Begin", "Press start to begin your breathing exercise"},
	breathing.Inhale: {"Breathe In", "Slowly fill your lungs with fresh air..."},
	breathing.Hold:   {"Hold", "Keep the breath... feel the calm..."},
	breathing.Exhale: {"Breathe Out", "Release slowly... let go of tension..."},
}

var scales = map[breathing.Phase]float64{
	breathing.Idle:   scaleRest,
	breathing.Inhale: scaleExpanded,
	breathing.Hold:   scaleExpanded,
	breathing.Exhale: scaleRest,
}

// Adapter binds the transition timings to a breathing pattern.
type Adapter struct {
	pattern breathing.Pattern
}

func NewAdapter(pt breathing.Pattern) Adapter {
	return Adapter{pattern: pt}
}

// Present uses the default 4-4-6 pattern.
func Present(st breathing.SessionState) Display {
	return NewAdapter(breathing.DefaultPattern()).Present(st)
}

// Present builds the Display for st. It has no side effects.
func (a Adapter) Present(st breathing.SessionState) Display {
	c, ok := captions[st.Phase]
	if !ok {
		c = captions[breathing.Idle]
	}
	scale, ok := scales[st.Phase]
	if !ok {
		scale = scaleRest
	}

	d := Display{
		MainText:                  c.main,
		SubText:                   c.sub,
		VisualScale:               scale,
		TransitionDurationSeconds: a.transition(st.Phase),
		ShowCountdown:             st.IsActive && st.SecondsRemaining > 0,
		ShowCycles:                st.CycleCount > 0,
		StartLabel:                "Start",
	}
	if d.ShowCountdown {
		d.Countdown = st.SecondsRemaining
	}
	if d.ShowCycles {
		d.CycleCount = st.CycleCount
		d.StartLabel = "Resume"
	}
	return d
}

// The ball grows over the whole inhale and shrinks over the whole exhale.
func (a Adapter) transition(p breathing.Phase) float64 {
	switch p {
	case breathing.Inhale, breathing.Exhale:
		return float64(a.pattern.Duration(p))
	default:
		return quickTransition
	}
}
