package dto

import "time"

type ConfigureInput struct {
	WorkMinutes int `json:"work_minutes"`
	RestMinutes int `json:"rest_minutes"`
}

type FocusInput struct {
	Enabled bool `json:"enabled"`
}

type SwitchInput struct {
	Phase string `json:"phase"`
}

type TransitionOutput struct {
	Finished        string    `json:"finished"`
	StartedAt       time.Time `json:"started_at"`
	EndedAt         time.Time `json:"ended_at"`
	DurationSeconds int       `json:"duration_seconds"`
}

// SnapshotOutput is what one tick reports. SessionChanged is true only on the
// tick that crossed a session boundary; collaborators fire their one-shot cue
// from it.
type SnapshotOutput struct {
	RemainingSeconds       int                `json:"remaining_seconds"`
	Phase                  string             `json:"phase"`
	IsWorkSession          bool               `json:"is_work_session"`
	IsRunning              bool               `json:"is_running"`
	IsPaused               bool               `json:"is_paused"`
	SessionComplete        bool               `json:"session_complete"`
	SessionChanged         bool               `json:"session_changed"`
	PreviousSessionWasWork bool               `json:"previous_session_was_work"`
	WorkSessionsCompleted  int                `json:"work_sessions_completed"`
	RestSessionsCompleted  int                `json:"rest_sessions_completed"`
	WorkMinutes            int                `json:"work_minutes"`
	RestMinutes            int                `json:"rest_minutes"`
	Progress               float64            `json:"progress"`
	FocusMode              bool               `json:"focus_mode"`
	Transitions            []TransitionOutput `json:"transitions,omitempty"`
}

type StatisticsOutput struct {
	WorkSessions      int     `json:"work_sessions"`
	RestSessions      int     `json:"rest_sessions"`
	TotalSessions     int     `json:"total_sessions"`
	TotalWorkMinutes  int     `json:"total_work_minutes"`
	TotalRestMinutes  int     `json:"total_rest_minutes"`
	ProductivityRatio float64 `json:"productivity_ratio"`
}
