package domain

import "time"

// Unset is reported as the remaining time when no deadline is set.
const Unset = -1

// DefaultLowTime is the remaining time at or below which the countdown
// enters the low-time warning state.
const DefaultLowTime = 15 * time.Minute

type State string

const (
	StateUnset   State = "unset"
	StateRunning State = "running"
	StateLowTime State = "low_time"
	StateTimesUp State = "times_up"
)

// SessionState is the countdown deadline plus the instant from which time
// spent on the current task is measured. A zero Deadline means none is set.
type SessionState struct {
	Deadline    time.Time
	SpentAnchor time.Time
}

func NewSessionState(now time.Time) SessionState {
	return SessionState{SpentAnchor: now}
}

func (s SessionState) HasDeadline() bool {
	return !s.Deadline.IsZero()
}

// SetDeadline stores deadline and restarts spent time.
func (s *SessionState) SetDeadline(deadline, now time.Time) {
	s.Deadline = deadline
	s.SpentAnchor = now
}

// ResetDeadline clears the deadline. The spent anchor is untouched.
func (s *SessionState) ResetDeadline() {
	s.Deadline = time.Time{}
}

// Touch restarts spent time; called whenever the current task flips its
// completed flag.
func (s *SessionState) Touch(now time.Time) {
	s.SpentAnchor = now
}

// RemainingSeconds is max(deadline-now, 0) in whole seconds, or Unset.
func (s SessionState) RemainingSeconds(now time.Time) int {
	if !s.HasDeadline() {
		return Unset
	}
	left := s.Deadline.Sub(now)
	if left <= 0 {
		return 0
	}
	return int(left / time.Second)
}

// SpentSeconds is now-anchor in whole seconds, floored at 0.
func (s SessionState) SpentSeconds(now time.Time) int {
	spent := now.Sub(s.SpentAnchor)
	if spent <= 0 {
		return 0
	}
	return int(spent / time.Second)
}

// Classify maps a remaining-seconds value to its display state.
func Classify(remaining int, lowTime time.Duration) State {
	switch {
	case remaining < 0:
		return StateUnset
	case remaining == 0:
		return StateTimesUp
	case time.Duration(remaining)*time.Second <= lowTime:
		return StateLowTime
	default:
		return StateRunning
	}
}

// IsAllDone reports whether at least one task exists and all are completed.
func IsAllDone(completed []bool) bool {
	if len(completed) == 0 {
		return false
	}
	for _, done := range completed {
		if !done {
			return false
		}
	}
	return true
}
