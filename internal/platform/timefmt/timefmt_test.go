package timefmt_test

import (
	"testing"
	"time"

	"tasktracker/internal/platform/timefmt"
)

func TestCountdown(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   int
		want string
	}{
		{-1, "--:--"},
		{0, "0:00"},
		{59, "0:59"},
		{900, "15:00"},
		{3599, "59:59"},
		{3600, "1:00:00"},
		{3723, "1:02:03"},
	}
	for _, tc := range cases {
		if got := timefmt.Countdown(tc.in); got != tc.want {
			t.Fatalf("Countdown(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestLap(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   int
		want string
	}{
		{-5, "0s"},
		{45, "45s"},
		{330, "5m 30s"},
		{5445, "1h 30m 45s"},
	}
	for _, tc := range cases {
		if got := timefmt.Lap(tc.in); got != tc.want {
			t.Fatalf("Lap(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestClockTime(t *testing.T) {
	t.Parallel()
	cases := map[time.Time]string{
		time.Date(2026, 3, 1, 0, 15, 0, 0, time.UTC):  "12:15 AM",
		time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC):  "12:00 PM",
		time.Date(2026, 3, 1, 23, 45, 0, 0, time.UTC): "11:45 PM",
		time.Date(2026, 3, 1, 9, 5, 0, 0, time.UTC):   "9:05 AM",
	}
	for in, want := range cases {
		if got := timefmt.ClockTime(in); got != want {
			t.Fatalf("ClockTime(%s) = %q, want %q", in, got, want)
		}
	}
}
