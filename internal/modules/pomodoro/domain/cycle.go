package domain

import (
	"fmt"
	"math"
	"time"

	apperrors "tasktracker/internal/platform/errors"
)

const (
	DefaultWork = 25 * time.Minute
	DefaultRest = 5 * time.Minute

	// MaxMinutes caps a configured session length.
	MaxMinutes  = 24 * 60
	maxDuration = MaxMinutes * time.Minute
)

type Phase string

const (
	PhaseWork Phase = "work"
	PhaseRest Phase = "rest"
)

func (p Phase) Validate() error {
	switch p {
	case PhaseWork, PhaseRest:
		return nil
	default:
		return fmt.Errorf("%w: unknown phase %q", apperrors.ErrInvalidInput, string(p))
	}
}

func (p Phase) next() Phase {
	if p == PhaseWork {
		return PhaseRest
	}
	return PhaseWork
}

// Transition describes one finished session.
type Transition struct {
	Finished  Phase
	StartedAt time.Time
	EndedAt   time.Time
	Duration  time.Duration
}

type Snapshot struct {
	RemainingSeconds       int
	Phase                  Phase
	IsWorkSession          bool
	IsRunning              bool
	IsPaused               bool
	SessionComplete        bool
	SessionChanged         bool
	PreviousSessionWasWork bool
	WorkSessionsCompleted  int
	RestSessionsCompleted  int
	WorkDuration           time.Duration
	RestDuration           time.Duration
	Progress               float64
	FocusMode              bool
	Transitions            []Transition
}

type Statistics struct {
	WorkSessions      int
	RestSessions      int
	TotalSessions     int
	TotalWork         time.Duration
	TotalRest         time.Duration
	ProductivityRatio float64
}

// Cycle is the work/rest state machine. It holds no lock and reads no clock:
// every method takes now, and the owner serializes access.
//
// Invariant: while running, now-sessionStart < current duration after
// advance; each crossed boundary moves sessionStart forward by exactly the
// finished duration.
type Cycle struct {
	work        time.Duration
	rest        time.Duration
	pendingWork time.Duration
	pendingRest time.Duration

	phase        Phase
	sessionStart time.Time
	pausedAt     time.Time
	running      bool
	started      bool
	focus        bool

	workDone   int
	restDone   int
	workTotal  time.Duration
	restTotal  time.Duration
	unreported []Transition
}

func NewCycle(work, rest time.Duration, now time.Time) Cycle {
	if work <= 0 {
		work = DefaultWork
	}
	if rest <= 0 {
		rest = DefaultRest
	}
	return Cycle{work: work, rest: rest, phase: PhaseWork, sessionStart: now}
}

// SessionLengths converts whole minutes into durations. Values are checked
// before the multiplication so a huge count cannot wrap into a valid length.
func SessionLengths(workMinutes, restMinutes int) (time.Duration, time.Duration, error) {
	if workMinutes <= 0 || restMinutes <= 0 || workMinutes > MaxMinutes || restMinutes > MaxMinutes {
		return 0, 0, fmt.Errorf("%w: work and rest must be between 1 and %d minutes (got %d/%d)",
			apperrors.ErrInvalidConfig, MaxMinutes, workMinutes, restMinutes)
	}
	return time.Duration(workMinutes) * time.Minute, time.Duration(restMinutes) * time.Minute, nil
}

// Configure validates and stores new durations. A cycle that has not started
// takes them at once; otherwise they apply from the next session boundary so
// the session underway keeps its length.
func (c *Cycle) Configure(work, rest time.Duration, now time.Time) error {
	if work <= 0 || rest <= 0 || work > maxDuration || rest > maxDuration {
		return fmt.Errorf("%w: work and rest durations must be positive and at most %s (got %s/%s)",
			apperrors.ErrInvalidConfig, maxDuration, work, rest)
	}
	if !c.started {
		c.work, c.rest = work, rest
		c.pendingWork, c.pendingRest = 0, 0
		return nil
	}
	c.advance(now)
	c.pendingWork, c.pendingRest = work, rest
	return nil
}

// Start runs the cycle. The first start anchors the session at now; a start
// after Pause shifts the anchor by the paused interval.
func (c *Cycle) Start(now time.Time) {
	if c.running {
		return
	}
	if !c.started {
		c.started = true
		c.sessionStart = now
	} else if !c.pausedAt.IsZero() && now.After(c.pausedAt) {
		c.sessionStart = c.sessionStart.Add(now.Sub(c.pausedAt))
	}
	c.pausedAt = time.Time{}
	c.running = true
}

func (c *Cycle) Pause(now time.Time) {
	if !c.running {
		return
	}
	c.advance(now)
	c.pausedAt = now
	c.running = false
}

// Reset returns to a fresh, stopped work session with zeroed counters.
// Focus mode is left as is.
func (c *Cycle) Reset(now time.Time) {
	c.applyPending()
	c.phase = PhaseWork
	c.sessionStart = now
	c.pausedAt = time.Time{}
	c.running = false
	c.started = false
	c.workDone, c.restDone = 0, 0
	c.workTotal, c.restTotal = 0, 0
	c.unreported = nil
}

// SwitchTo abandons the session underway and begins a fresh one of phase at
// now. The abandoned session is not counted.
func (c *Cycle) SwitchTo(phase Phase, now time.Time) error {
	if err := phase.Validate(); err != nil {
		return err
	}
	c.advance(now)
	c.applyPending()
	c.phase = phase
	c.sessionStart = now
	if !c.running && c.started {
		c.pausedAt = now
	}
	return nil
}

// SetFocus toggles focus mode; leaving focus mode resets the cycle.
func (c *Cycle) SetFocus(on bool, now time.Time) {
	if c.focus && !on {
		c.Reset(now)
	}
	c.focus = on
}

// Tick applies every pending transition up to now and reports them. A cycle
// that is not running returns its frozen snapshot and never reports changes.
func (c *Cycle) Tick(now time.Time) Snapshot {
	if !c.running {
		return c.snapshot(now, nil)
	}
	c.advance(now)
	reported := c.unreported
	c.unreported = nil
	return c.snapshot(now, reported)
}

// Peek is Tick without side effects.
func (c Cycle) Peek(now time.Time) Snapshot {
	c.unreported = nil
	if c.running {
		c.advance(now)
	}
	return c.snapshot(now, nil)
}

func (c Cycle) Statistics() Statistics {
	stats := Statistics{
		WorkSessions:  c.workDone,
		RestSessions:  c.restDone,
		TotalSessions: c.workDone + c.restDone,
		TotalWork:     c.workTotal,
		TotalRest:     c.restTotal,
	}
	if total := c.workTotal + c.restTotal; total > 0 {
		ratio := float64(c.workTotal) / float64(total) * 100
		stats.ProductivityRatio = math.Round(ratio*10) / 10
	}
	return stats
}

func (c Cycle) Phase() Phase    { return c.phase }
func (c Cycle) Running() bool   { return c.running }
func (c Cycle) FocusMode() bool { return c.focus }

func (c *Cycle) advance(now time.Time) {
	if !c.running {
		return
	}
	for {
		d := c.currentDuration()
		if now.Sub(c.sessionStart) < d {
			return
		}
		end := c.sessionStart.Add(d)
		c.record(Transition{Finished: c.phase, StartedAt: c.sessionStart, EndedAt: end, Duration: d})
		if c.phase == PhaseWork {
			c.workDone++
			c.workTotal += d
		} else {
			c.restDone++
			c.restTotal += d
		}
		c.phase = c.phase.next()
		c.sessionStart = end
		c.applyPending()
	}
}

func (c *Cycle) record(t Transition) {
	c.unreported = append(c.unreported, t)
}

func (c *Cycle) applyPending() {
	if c.pendingWork > 0 {
		c.work = c.pendingWork
	}
	if c.pendingRest > 0 {
		c.rest = c.pendingRest
	}
	c.pendingWork, c.pendingRest = 0, 0
}

func (c Cycle) currentDuration() time.Duration {
	if c.phase == PhaseWork {
		return c.work
	}
	return c.rest
}

func (c Cycle) elapsed(now time.Time) time.Duration {
	if !c.started {
		return 0
	}
	until := now
	if !c.running {
		until = c.pausedAt
	}
	if e := until.Sub(c.sessionStart); e > 0 {
		return e
	}
	return 0
}

func (c Cycle) snapshot(now time.Time, transitions []Transition) Snapshot {
	d := c.currentDuration()
	elapsed := c.elapsed(now)
	left := d - elapsed
	if left < 0 {
		left = 0
	}
	progress := float64(elapsed) / float64(d)
	if progress > 1 {
		progress = 1
	}
	snap := Snapshot{
		RemainingSeconds:      int((left + time.Second - 1) / time.Second),
		Phase:                 c.phase,
		IsWorkSession:         c.phase == PhaseWork,
		IsRunning:             c.running,
		IsPaused:              c.started && !c.running,
		WorkSessionsCompleted: c.workDone,
		RestSessionsCompleted: c.restDone,
		WorkDuration:          c.work,
		RestDuration:          c.rest,
		Progress:              progress,
		FocusMode:             c.focus,
		Transitions:           transitions,
	}
	if len(transitions) > 0 {
		snap.SessionChanged = true
		snap.SessionComplete = true
		snap.PreviousSessionWasWork = transitions[len(transitions)-1].Finished == PhaseWork
	}
	return snap
}
