package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasktracker/internal/modules/countdown/domain"
	apperrors "tasktracker/internal/platform/errors"
)

func TestResolveOffsets(t *testing.T) {
	t.Parallel()
	cases := map[string]time.Duration{
		"+5 min":    5 * time.Minute,
		"+15 MIN":   15 * time.Minute,
		" +1  hour": time.Hour,
		"+2 hours":  2 * time.Hour,
		"+15m":      15 * time.Minute,
		"+1h":       time.Hour,
	}
	for in, want := range cases {
		got, err := domain.ResolveDeadline(in, base, domain.DefaultGrace)
		require.NoError(t, err, in)
		assert.WithinDuration(t, base.Add(want), got, 0, in)
	}
}

func TestResolveRejectsUnknownValues(t *testing.T) {
	t.Parallel()
	for _, in := range []string{"", "soon", "+7 min", "+7m", "+1 day", "13:00 PM", "10:07 AM", "0:15 AM", "10:60 AM", "1015 am"} {
		_, err := domain.ResolveDeadline(in, base, domain.DefaultGrace)
		require.Error(t, err, in)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidDeadline), in)
	}
}

func TestResolveEndOfDay(t *testing.T) {
	t.Parallel()
	got, err := domain.ResolveDeadline("End of Day", base, domain.DefaultGrace)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), got, 0)
}

func TestResolveClockTimes(t *testing.T) {
	t.Parallel()
	got, err := domain.ResolveDeadline("11:00 PM", base, domain.DefaultGrace)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Date(2026, 3, 2, 23, 0, 0, 0, time.UTC), got, 0)

	got, err = domain.ResolveDeadline("1:15am", base, domain.DefaultGrace)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Date(2026, 3, 3, 1, 15, 0, 0, time.UTC), got, 0, "early morning rolls to tomorrow")

	got, err = domain.ResolveDeadline("12:00 AM", time.Date(2026, 3, 2, 22, 0, 0, 0, time.UTC), domain.DefaultGrace)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), got, 0)
}

func TestResolveClockWithinGraceStaysToday(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 2, 14, 0, 30, 0, time.UTC)
	got, err := domain.ResolveDeadline("2:00 PM", now, domain.DefaultGrace)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC), got, 0)
}

func TestResolveStaleClockIsRejected(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 2, 14, 5, 0, 0, time.UTC)
	_, err := domain.ResolveDeadline("2:00 PM", now, domain.DefaultGrace)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidDeadline)
}

func TestMenuShape(t *testing.T) {
	t.Parallel()
	menu := domain.Menu(base)
	require.Len(t, menu, 9+1+domain.SlotCount)

	clocks := menu[10:]
	assert.Equal(t, "2:15 PM", clocks[0].Label)
	assert.Equal(t, "2:30 PM", clocks[1].Label)
	assert.Equal(t, "2:00 AM", clocks[len(clocks)-1].Label)
	assert.Equal(t, domain.OptionEndOfDay, menu[9].Kind)
}

func TestEveryMenuEntryResolves(t *testing.T) {
	t.Parallel()
	for _, now := range []time.Time{base, time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC), time.Date(2026, 3, 2, 23, 59, 59, 0, time.UTC)} {
		for _, opt := range domain.Menu(now) {
			got, err := domain.ResolveDeadline(opt.Label, now, domain.DefaultGrace)
			require.NoError(t, err, "%s at %s", opt.Label, now)
			assert.WithinDuration(t, opt.At, got, 0, "%s at %s", opt.Label, now)
		}
	}
}
