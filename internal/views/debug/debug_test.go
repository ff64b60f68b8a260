package debug

import (
	"strings"
	"testing"

	"github.com/spoorthylakshmi/wellnest/internal/breathing"
)

func TestAddEntry(t *testing.T) {
	m := New()
	m.Add("conn", "connected")
	if len(m.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(m.Entries))
	}
	if m.Entries[0].Kind != "conn" {
		t.Errorf("expected kind 'conn', got %q", m.Entries[0].Kind)
	}
}

func TestMaxEntries(t *testing.T) {
	m := New()
	for i := 0; i < maxEntries+50; i++ {
		m.Add("conn", "msg")
	}
	if len(m.Entries) != maxEntries {
		t.Errorf("expected %d entries, got %d", maxEntries, len(m.Entries))
	}
}

func TestScrollUpDown(t *testing.T) {
	m := New()
	for i := 0; i < 20; i++ {
		m.Add("conn", "msg")
	}
	if m.Offset != 0 {
		t.Fatal("expected offset 0 after adds")
	}

	m.ScrollUp(5)
	if m.Offset != 5 {
		t.Errorf("expected offset 5, got %d", m.Offset)
	}

	m.ScrollDown(3)
	if m.Offset != 2 {
		t.Errorf("expected offset 2, got %d", m.Offset)
	}

	m.ScrollDown(10) // shouldn't go below 0
	if m.Offset != 0 {
		t.Errorf("expected offset 0, got %d", m.Offset)
	}
}

func TestScrollUpCapped(t *testing.T) {
	m := New()
	for i := 0; i < 5; i++ {
		m.Add("conn", "msg")
	}
	m.ScrollUp(100)
	if m.Offset != 4 { // max is len-1
		t.Errorf("expected offset 4, got %d", m.Offset)
	}
}

func TestViewEmpty(t *testing.T) {
	m := New()
	v := m.View(80, 20)
	if !strings.Contains(v, "No events") {
		t.Error("empty view should show 'No events' message")
	}
}

func TestViewWithEntries(t *testing.T) {
	m := New()
	m.Add("conn", "connected")
	m.Add("err", "timeout")
	v := m.View(80, 20)
	if !strings.Contains(v, "connected") {
		t.Error("view should contain 'connected'")
	}
	if !strings.Contains(v, "timeout") {
		t.Error("view should contain 'timeout'")
	}
}

func TestAddResetsScroll(t *testing.T) {
	m := New()
	for i := 0; i < 10; i++ {
		m.Add("conn", "msg")
	}
	m.ScrollUp(5)
	m.Add("conn", "new")
	if m.Offset != 0 {
		t.Error("adding entry should reset scroll to 0")
	}
}

func TestAddEvent(t *testing.T) {
	m := New()
	m.AddEvent(breathing.Event{Kind: breathing.EventStarted, From: breathing.Idle, To: breathing.Inhale,
		State: breathing.SessionState{Phase: breathing.Inhale, SecondsRemaining: 4, IsActive: true}})
	m.AddEvent(breathing.Event{Kind: breathing.EventTick, From: breathing.Inhale, To: breathing.Inhale,
		State: breathing.SessionState{Phase: breathing.Inhale, SecondsRemaining: 3, IsActive: true}})
	m.AddEvent(breathing.Event{Kind: breathing.EventCycleComplete, From: breathing.Exhale, To: breathing.Exhale,
		State: breathing.SessionState{Phase: breathing.Exhale, SecondsRemaining: 1, CycleCount: 1, IsActive: true}})
	m.AddEvent(breathing.Event{Kind: breathing.EventPhaseChange, From: breathing.Exhale, To: breathing.Inhale,
		State: breathing.SessionState{Phase: breathing.Inhale, SecondsRemaining: 4, CycleCount: 1, IsActive: true}})

	want := []struct{ kind, msg string }{
		{"cmd", "started: inhale 4s active=true cycles=0"},
		{"tick", "inhale 3s left"},
		{"cyc", "cycle 1 complete"},
		{"phs", "exhale -> inhale (4s)"},
	}
	if len(m.Entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(m.Entries))
	}
	for i, w := range want {
		if m.Entries[i].Kind != w.kind || m.Entries[i].Message != w.msg {
			t.Errorf("entry %d = %s %q, want %s %q", i, m.Entries[i].Kind, m.Entries[i].Message, w.kind, w.msg)
		}
	}
}

func TestTicksHiddenByDefault(t *testing.T) {
	m := New()
	m.Add("tick", "inhale 3s left")
	m.Add("phs", "inhale -> hold (4s)")

	v := m.View(80, 20)
	if strings.Contains(v, "inhale 3s left") {
		t.Error("tick entries should be hidden by default")
	}
	if !strings.Contains(v, "inhale -> hold") {
		t.Error("phase changes should always be shown")
	}

	m.ToggleTicks()
	if v := m.View(80, 20); !strings.Contains(v, "inhale 3s left") {
		t.Error("tick entries should show after ToggleTicks")
	}
}

func TestScrollCapIgnoresHiddenTicks(t *testing.T) {
	m := New()
	for i := 0; i < 5; i++ {
		m.Add("tick", "t")
	}
	m.Add("cyc", "cycle 1 complete")
	m.Add("cyc", "cycle 2 complete")

	m.ScrollUp(10)
	if m.Offset != 1 {
		t.Errorf("expected offset 1, got %d", m.Offset)
	}
}
