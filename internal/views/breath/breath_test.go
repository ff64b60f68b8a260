package breath

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spoorthylakshmi/wellnest/internal/breathing"
	"github.com/spoorthylakshmi/wellnest/internal/present"
)

func inhaleState() breathing.SessionState {
	return breathing.SessionState{Phase: breathing.Inhale, SecondsRemaining: 4, IsActive: true}
}

func TestNewStartsAtRest(t *testing.T) {
	m := New(breathing.DefaultPattern())
	assert.Equal(t, 1.0, m.Scale())
	assert.False(t, m.animating)
	assert.Equal(t, "Start", m.StartLabel())
}

func TestSetStateAnimatesToTarget(t *testing.T) {
	m := New(breathing.DefaultPattern())
	st := inhaleState()

	cmd := m.SetState(st, present.Present(st))
	require.NotNil(t, cmd)
	assert.True(t, m.animating)

	// A second update while animating must not start another frame loop.
	assert.Nil(t, m.SetState(st, present.Present(st)))

	frames := 0
	for m.animating && frames < 2000 {
		m, cmd = m.Update(FrameMsg{})
		frames++
	}
	assert.False(t, m.animating, "animation never settled")
	assert.Nil(t, cmd)
	assert.Equal(t, 1.5, m.Scale())
	assert.Greater(t, frames, 10, "inhale should ease, not jump")
}

func TestSetStateWithoutScaleChangeIsStill(t *testing.T) {
	m := New(breathing.DefaultPattern())
	st := breathing.SessionState{Phase: breathing.Exhale, SecondsRemaining: 6, IsActive: true}
	assert.Nil(t, m.SetState(st, present.Present(st)))
}

func TestUpdateIgnoresOtherMessages(t *testing.T) {
	m := New(breathing.DefaultPattern())
	m2, cmd := m.Update("not a frame")
	assert.Nil(t, cmd)
	assert.Equal(t, m.Scale(), m2.Scale())
}

func TestPhaseProgress(t *testing.T) {
	pt := breathing.DefaultPattern()
	tests := []struct {
		name string
		st   breathing.SessionState
		want float64
	}{
		{"idle", breathing.SessionState{}, 0},
		{"fresh inhale", breathing.SessionState{Phase: breathing.Inhale, SecondsRemaining: 4}, 0},
		{"half inhale", breathing.SessionState{Phase: breathing.Inhale, SecondsRemaining: 2}, 0.5},
		{"last exhale second", breathing.SessionState{Phase: breathing.Exhale, SecondsRemaining: 1}, 5.0 / 6.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, PhaseProgress(pt, tt.st), 1e-9)
		})
	}
}

func widest(rows []string) int {
	w := 0
	for _, r := range rows {
		if n := strings.Count(r, "█"); n > w {
			w = n
		}
	}
	return w
}

func TestBallGrowsWithScale(t *testing.T) {
	small := Ball(1.0)
	large := Ball(1.5)

	assert.Len(t, large, len(small), "canvas height must not depend on scale")
	assert.Greater(t, widest(large), widest(small))
	for _, r := range append(small, large...) {
		assert.Equal(t, lipgloss.Width(small[0]), lipgloss.Width(r))
	}
}

func TestViewShowsCaptionCountdownAndCycles(t *testing.T) {
	m := New(breathing.DefaultPattern())
	m.Width = 80
	st := breathing.SessionState{Phase: breathing.Hold, SecondsRemaining: 3, CycleCount: 2, IsActive: true}
	m.SetState(st, present.Present(st))

	out := m.View()
	assert.Contains(t, out, "Hold")
	assert.Contains(t, out, "3")
	assert.Contains(t, out, "Cycles completed: 2")
	assert.Equal(t, "Resume", m.StartLabel())
}

func TestViewIdle(t *testing.T) {
	m := New(breathing.DefaultPattern())
	out := m.View()
	assert.Contains(t, out, "Ready to Begin")
	assert.NotContains(t, out, "Cycles completed")
}
