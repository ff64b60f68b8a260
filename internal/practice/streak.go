// Package practice keeps the daily breathing streak: which days a cycle
// was completed, the current and longest run of days, streak freezes and
// the badges earned along the way.
package practice

import "time"

// Badge is awarded once the current streak reaches Days. Each badge also
// grants Freeze streak freezes.
type Badge struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Days   int    `json:"days"`
	Freeze int    `json:"freeze"`
}

// Badges is ordered by Days.
var Badges = []Badge{
	{ID: "starter", Name: "🌱 Starter", Days: 3, Freeze: 0},
	{ID: "consistent_visitor", Name: "💪 Consistent Visitor", Days: 7, Freeze: 1},
	{ID: "habit_builder", Name: "🧠 Habit Builder", Days: 14, Freeze: 2},
	{ID: "wellnest_regular", Name: "🏆 Wellnest Regular", Days: 30, Freeze: 3},
}

// BadgeByID looks up a badge definition.
func BadgeByID(id string) (Badge, bool) {
	for _, b := range Badges {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}

// Streak is the persistent streak record.
type Streak struct {
	Current         int       `json:"current"`
	Longest         int       `json:"longest"`
	LastVisit       time.Time `json:"lastVisit"`
	FreezeAvailable int       `json:"freezeAvailable"`
}

// State is everything Advance reads and writes.
type State struct {
	Streak Streak               `json:"streak"`
	Earned map[string]time.Time `json:"earned"` // badge ID -> award time
}

func NewState() State {
	return State{Earned: make(map[string]time.Time)}
}

func (s State) clone() State {
	out := s
	out.Earned = make(map[string]time.Time, len(s.Earned))
	for k, v := range s.Earned {
		out.Earned[k] = v
	}
	return out
}

// Advance records a practice day at now. Consecutive days extend the
// streak; a gap of more than one day spends a freeze if one is
// available and otherwise restarts the streak at 1. Practising twice on
// the same day changes nothing but LastVisit. Newly earned badges are
// returned in Days order and their freezes are added.
func Advance(prev State, now time.Time) (State, []Badge) {
	st := prev.clone()
	if st.Earned == nil {
		st.Earned = make(map[string]time.Time)
	}
	s := &st.Streak

	if s.LastVisit.IsZero() {
		s.Current = 1
	} else {
		switch gap := daysBetween(s.LastVisit, now); {
		case gap == 1:
			s.Current++
		case gap > 1:
			if s.FreezeAvailable > 0 {
				s.FreezeAvailable--
			} else {
				s.Current = 1
			}
		}
	}
	if s.Current > s.Longest {
		s.Longest = s.Current
	}

	var unlocked []Badge
	for _, b := range Badges {
		if _, held := st.Earned[b.ID]; held || s.Current < b.Days {
			continue
		}
		st.Earned[b.ID] = now.UTC()
		s.FreezeAvailable += b.Freeze
		unlocked = append(unlocked, b)
	}

	s.LastVisit = now.UTC()
	return st, unlocked
}

// daysBetween counts UTC calendar days from a to b.
func daysBetween(a, b time.Time) int {
	da := dayOf(a)
	db := dayOf(b)
	return int(db.Sub(da).Hours() / 24)
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
