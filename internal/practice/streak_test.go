package practice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func at(days int) time.Time {
	return day0.AddDate(0, 0, days)
}

func TestAdvance_FirstVisit(t *testing.T) {
	st, unlocked := Advance(NewState(), day0)
	assert.Equal(t, 1, st.Streak.Current)
	assert.Equal(t, 1, st.Streak.Longest)
	assert.Equal(t, day0, st.Streak.LastVisit)
	assert.Empty(t, unlocked)
}

func TestAdvance_ConsecutiveDays(t *testing.T) {
	st := NewState()
	var unlocked []Badge
	for d := 0; d < 3; d++ {
		st, unlocked = Advance(st, at(d))
	}
	assert.Equal(t, 3, st.Streak.Current)
	require.Len(t, unlocked, 1)
	assert.Equal(t, "starter", unlocked[0].ID)
	assert.Contains(t, st.Earned, "starter")
}

func TestAdvance_SameDayIsNoop(t *testing.T) {
	st, _ := Advance(NewState(), day0)
	st, _ = Advance(st, day0.Add(5*time.Hour))
	assert.Equal(t, 1, st.Streak.Current)
}

func TestAdvance_GapResetsWithoutFreeze(t *testing.T) {
	st := NewState()
	st, _ = Advance(st, at(0))
	st, _ = Advance(st, at(1))
	st, _ = Advance(st, at(4))
	assert.Equal(t, 1, st.Streak.Current)
	assert.Equal(t, 2, st.Streak.Longest)
}

func TestAdvance_GapSpendsFreeze(t *testing.T) {
	st := NewState()
	st.Streak = Streak{Current: 5, Longest: 5, LastVisit: at(0), FreezeAvailable: 1}

	st, _ = Advance(st, at(3))
	assert.Equal(t, 5, st.Streak.Current, "a freeze keeps the streak without extending it")
	assert.Equal(t, 0, st.Streak.FreezeAvailable)

	st, _ = Advance(st, at(4))
	assert.Equal(t, 6, st.Streak.Current)
}

func TestAdvance_BadgesGrantFreezes(t *testing.T) {
	st := NewState()
	var all []Badge
	for d := 0; d < 30; d++ {
		var unlocked []Badge
		st, unlocked = Advance(st, at(d))
		all = append(all, unlocked...)
	}

	require.Len(t, all, len(Badges))
	for i, b := range Badges {
		assert.Equal(t, b.ID, all[i].ID)
	}
	assert.Equal(t, 0+1+2+3, st.Streak.FreezeAvailable)
	assert.Equal(t, 30, st.Streak.Longest)
}

func TestAdvance_BadgeAwardedOnce(t *testing.T) {
	st := NewState()
	st.Streak = Streak{Current: 2, Longest: 10, LastVisit: at(0)}
	st.Earned["starter"] = at(-20)

	st, unlocked := Advance(st, at(1))
	assert.Equal(t, 3, st.Streak.Current)
	assert.Empty(t, unlocked)
	assert.Equal(t, at(-20), st.Earned["starter"])
}

func TestAdvance_DoesNotMutateInput(t *testing.T) {
	prev := NewState()
	prev.Streak = Streak{Current: 2, Longest: 2, LastVisit: at(0)}
	_, _ = Advance(prev, at(1))
	assert.Equal(t, 2, prev.Streak.Current)
	assert.Empty(t, prev.Earned)
}

func TestDaysBetweenUsesCalendarDays(t *testing.T) {
	late := time.Date(2026, 3, 1, 23, 59, 0, 0, time.UTC)
	early := time.Date(2026, 3, 2, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 1, daysBetween(late, early))
	assert.Equal(t, 0, daysBetween(early, early.Add(time.Hour)))
}
