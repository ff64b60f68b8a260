package badges

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spoorthylakshmi/wellnest/internal/practice"
)

func TestViewWithoutPractice(t *testing.T) {
	out := New().ViewOverlay(100, 40)
	assert.Contains(t, out, "Practice tracking is off.")
}

func TestViewListsBadges(t *testing.T) {
	m := New()
	m.SetSummary(practice.Summary{
		Streak:      practice.Streak{Current: 4, Longest: 6, FreezeAvailable: 1},
		Badges:      []practice.EarnedBadge{{Badge: practice.Badges[0]}},
		CyclesToday: 3,
		TotalCycles: 40,
	})

	out := m.ViewOverlay(100, 40)
	assert.Contains(t, out, "4-day streak")
	assert.Contains(t, out, "best 6")
	assert.Contains(t, out, "3 cycles today, 40 in total")
	assert.Contains(t, out, "1 / 4 unlocked")
	assert.Contains(t, out, "3 more day(s) to a 7-day streak")
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name    string
		badge   practice.Badge
		current int
		want    string
	}{
		{"reached", practice.Badge{Days: 3}, 5, "3-day streak reached"},
		{"pending", practice.Badge{Days: 14, Freeze: 2}, 10, "4 more day(s) to a 14-day streak, grants 2 freeze(s)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, describe(tt.badge, tt.current))
		})
	}
}

func TestScrollBounds(t *testing.T) {
	m := New()
	m.ScrollUp()
	assert.Equal(t, 0, m.scroll)
	for i := 0; i < 10; i++ {
		m.ScrollDown()
	}
	assert.Equal(t, len(practice.Badges)-1, m.scroll)
}
