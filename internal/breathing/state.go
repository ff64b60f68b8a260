package breathing

import "fmt"

// SessionState is the only mutable value of a breathing session.
type SessionState struct {
	Phase            Phase `json:"phase"`
	SecondsRemaining int   `json:"secondsRemaining"`
	CycleCount       int   `json:"cycleCount"`
	IsActive         bool  `json:"isActive"`
}

// IsIdle reports whether the state is the collapsed post-reset state.
func (s SessionState) IsIdle() bool {
	return s.Phase == Idle && s.SecondsRemaining == 0 && !s.IsActive
}

// Check verifies the countdown bound against pt.
func (s SessionState) Check(pt Pattern) error {
	if s.SecondsRemaining < 0 {
		return fmt.Errorf("secondsRemaining %d is negative", s.SecondsRemaining)
	}
	if max := pt.Duration(s.Phase); s.SecondsRemaining > max {
		return fmt.Errorf("secondsRemaining %d exceeds %s duration %d", s.SecondsRemaining, s.Phase, max)
	}
	if s.CycleCount < 0 {
		return fmt.Errorf("cycleCount %d is negative", s.CycleCount)
	}
	if s.IsActive && s.Phase == Idle {
		return fmt.Errorf("active session cannot be idle")
	}
	return nil
}
