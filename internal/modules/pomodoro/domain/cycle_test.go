package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "tasktracker/internal/platform/errors"
)

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func at(seconds int) time.Time { return t0.Add(time.Duration(seconds) * time.Second) }

func TestNewCycleIsStoppedFullWorkSession(t *testing.T) {
	c := NewCycle(0, 0, t0)
	snap := c.Tick(at(600))
	assert.Equal(t, PhaseWork, snap.Phase)
	assert.False(t, snap.IsRunning)
	assert.False(t, snap.IsPaused)
	assert.Equal(t, 25*60, snap.RemainingSeconds)
	assert.False(t, snap.SessionChanged)
}

func TestWorkToRestTransitionFiresOnce(t *testing.T) {
	c := NewCycle(0, 0, t0)
	require.NoError(t, c.Configure(25*time.Minute, 5*time.Minute, t0))
	c.Start(t0)

	snap := c.Tick(at(25*60 + 1))
	assert.Equal(t, PhaseRest, snap.Phase)
	assert.False(t, snap.IsWorkSession)
	assert.True(t, snap.SessionChanged)
	assert.True(t, snap.SessionComplete)
	assert.True(t, snap.PreviousSessionWasWork)
	assert.Equal(t, 1, snap.WorkSessionsCompleted)
	assert.Equal(t, 299, snap.RemainingSeconds)
	require.Len(t, snap.Transitions, 1)
	assert.Equal(t, at(25*60), snap.Transitions[0].EndedAt)

	again := c.Tick(at(25*60 + 1))
	assert.False(t, again.SessionChanged)
	assert.False(t, again.SessionComplete)
	assert.Equal(t, 1, again.WorkSessionsCompleted)
}

func TestTickCatchesUpAcrossSeveralBoundaries(t *testing.T) {
	c := NewCycle(0, 0, t0)
	require.NoError(t, c.Configure(time.Minute, time.Minute, t0))
	c.Start(t0)

	snap := c.Tick(at(185))
	assert.Equal(t, 2, snap.WorkSessionsCompleted)
	assert.Equal(t, 1, snap.RestSessionsCompleted)
	assert.Equal(t, PhaseRest, snap.Phase)
	assert.Equal(t, 55, snap.RemainingSeconds)
	assert.Len(t, snap.Transitions, 3)
	assert.True(t, snap.PreviousSessionWasWork)
}

func TestPauseFreezesAndResumeShiftsStart(t *testing.T) {
	c := NewCycle(10*time.Minute, 2*time.Minute, t0)
	c.Start(t0)
	c.Pause(at(120))

	frozen := c.Tick(at(3600))
	assert.False(t, frozen.IsRunning)
	assert.True(t, frozen.IsPaused)
	assert.Equal(t, 480, frozen.RemainingSeconds)
	assert.False(t, frozen.SessionChanged)
	assert.Equal(t, 0, frozen.WorkSessionsCompleted)

	c.Start(at(3600))
	snap := c.Tick(at(3600 + 60))
	assert.True(t, snap.IsRunning)
	assert.Equal(t, 420, snap.RemainingSeconds)
	assert.Equal(t, PhaseWork, snap.Phase)
}

func TestTransitionCrossedBeforePauseIsReportedAfterResume(t *testing.T) {
	c := NewCycle(time.Minute, time.Minute, t0)
	c.Start(t0)
	c.Pause(at(70))

	assert.False(t, c.Tick(at(80)).SessionChanged)

	c.Start(at(100))
	snap := c.Tick(at(100))
	assert.True(t, snap.SessionChanged)
	assert.Equal(t, 1, snap.WorkSessionsCompleted)
	assert.Equal(t, PhaseRest, snap.Phase)
	assert.Equal(t, 50, snap.RemainingSeconds)
}

func TestConfigureBeforeStartAppliesImmediately(t *testing.T) {
	c := NewCycle(0, 0, t0)
	require.NoError(t, c.Configure(50*time.Minute, 10*time.Minute, t0))
	snap := c.Tick(t0)
	assert.Equal(t, 50*60, snap.RemainingSeconds)
	assert.Equal(t, 50*time.Minute, snap.WorkDuration)
}

func TestConfigureWhileRunningAppliesAtNextBoundary(t *testing.T) {
	c := NewCycle(25*time.Minute, 5*time.Minute, t0)
	c.Start(t0)
	require.NoError(t, c.Configure(50*time.Minute, 10*time.Minute, at(60)))

	mid := c.Tick(at(120))
	assert.Equal(t, 25*60-120, mid.RemainingSeconds)
	assert.Equal(t, 25*time.Minute, mid.WorkDuration)

	rest := c.Tick(at(25 * 60))
	assert.True(t, rest.SessionChanged)
	assert.Equal(t, PhaseRest, rest.Phase)
	assert.Equal(t, 10*60, rest.RemainingSeconds)
	assert.Equal(t, 50*time.Minute, rest.WorkDuration)
}

func TestConfigureRejectsNonPositive(t *testing.T) {
	c := NewCycle(0, 0, t0)
	err := c.Configure(0, 5*time.Minute, t0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidConfig))
	assert.Equal(t, 25*60, c.Tick(t0).RemainingSeconds)
}

func TestConfigureRejectsOversizedDurations(t *testing.T) {
	c := NewCycle(0, 0, t0)
	err := c.Configure(25*time.Hour, 5*time.Minute, t0)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidConfig))
	assert.Equal(t, 25*60, c.Tick(t0).RemainingSeconds)
}

func TestSessionLengthsRejectsOverflowingMinutes(t *testing.T) {
	_, _, err := SessionLengths(307445735, 5)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidConfig))

	_, _, err = SessionLengths(25, 0)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidConfig))

	work, rest, err := SessionLengths(MaxMinutes, 5)
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, work)
	assert.Equal(t, 5*time.Minute, rest)
}

func TestResetReturnsToStoppedWork(t *testing.T) {
	c := NewCycle(time.Minute, time.Minute, t0)
	c.Start(t0)
	c.Tick(at(130))
	c.Reset(at(130))

	snap := c.Tick(at(500))
	assert.Equal(t, PhaseWork, snap.Phase)
	assert.False(t, snap.IsRunning)
	assert.False(t, snap.IsPaused)
	assert.Equal(t, 0, snap.WorkSessionsCompleted)
	assert.Equal(t, 0, snap.RestSessionsCompleted)
	assert.Equal(t, 60, snap.RemainingSeconds)

	c.Start(at(500))
	assert.Equal(t, 60, c.Tick(at(500)).RemainingSeconds)
}

func TestSwitchToDoesNotCount(t *testing.T) {
	c := NewCycle(25*time.Minute, 5*time.Minute, t0)
	c.Start(t0)
	require.NoError(t, c.SwitchTo(PhaseRest, at(300)))

	snap := c.Tick(at(360))
	assert.Equal(t, PhaseRest, snap.Phase)
	assert.Equal(t, 240, snap.RemainingSeconds)
	assert.Equal(t, 0, snap.WorkSessionsCompleted)
	assert.False(t, snap.SessionChanged)

	assert.Error(t, c.SwitchTo(Phase("nap"), at(360)))
}

func TestLeavingFocusModeResets(t *testing.T) {
	c := NewCycle(time.Minute, time.Minute, t0)
	c.SetFocus(true, t0)
	c.Start(t0)
	c.Tick(at(90))

	c.SetFocus(false, at(90))
	snap := c.Tick(at(90))
	assert.False(t, snap.FocusMode)
	assert.False(t, snap.IsRunning)
	assert.Equal(t, 0, snap.WorkSessionsCompleted)
}

func TestStatistics(t *testing.T) {
	c := NewCycle(3*time.Minute, time.Minute, t0)
	c.Start(t0)
	c.Tick(at(8 * 60))

	stats := c.Statistics()
	assert.Equal(t, 2, stats.WorkSessions)
	assert.Equal(t, 2, stats.RestSessions)
	assert.Equal(t, 4, stats.TotalSessions)
	assert.Equal(t, 6*time.Minute, stats.TotalWork)
	assert.Equal(t, 75.0, stats.ProductivityRatio)

	assert.Zero(t, NewCycle(0, 0, t0).Statistics().ProductivityRatio)
}

func TestPeekHasNoSideEffects(t *testing.T) {
	c := NewCycle(time.Minute, time.Minute, t0)
	c.Start(t0)

	peek := c.Peek(at(61))
	assert.Equal(t, PhaseRest, peek.Phase)
	assert.False(t, peek.SessionChanged)
	assert.Equal(t, PhaseWork, c.Phase())

	assert.True(t, c.Tick(at(61)).SessionChanged)
}

func TestLongGapReportsEveryTransition(t *testing.T) {
	c := NewCycle(time.Minute, time.Minute, t0)
	c.Start(t0)
	snap := c.Tick(at(100 * 60))
	assert.Equal(t, 50, snap.WorkSessionsCompleted)
	assert.Equal(t, 50, snap.RestSessionsCompleted)
	require.Len(t, snap.Transitions, 100)
	assert.Equal(t, t0, snap.Transitions[0].StartedAt)
	assert.Equal(t, at(100*60), snap.Transitions[99].EndedAt)
	assert.Empty(t, c.Tick(at(100*60)).Transitions)
}
