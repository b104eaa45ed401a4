// Package timefmt renders durations and deadlines the way every surface
// (HTTP, CLI, TUI) shows them.
package timefmt

import (
	"fmt"
	"time"
)

// Countdown renders M:SS below one hour and H:MM:SS from one hour up.
// Negative values render as the neutral placeholder.
func Countdown(seconds int) string {
	if seconds < 0 {
		return "--:--"
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// Lap renders "45s", "5m 30s" or "1h 30m 45s".
func Lap(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	return fmt.Sprintf("%dm %ds", m, s)
}

// ClockTime renders a wall-clock instant as "h:mm AM".
func ClockTime(t time.Time) string {
	return t.Format("3:04 PM")
}
