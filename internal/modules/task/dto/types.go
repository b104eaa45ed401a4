package dto

import "time"

type AddTaskInput struct {
	Text     string     `json:"text"`
	Priority int        `json:"priority"`
	Deadline *time.Time `json:"deadline,omitempty"`
}

// ListInput.Sort is one of "" (insertion order), "priority" or "deadline".
type ListInput struct {
	Sort string `json:"sort"`
}

type SetPriorityInput struct {
	ID       string `json:"-"`
	Priority int    `json:"priority"`
}

// SetTaskDeadlineInput clears the deadline when Deadline is nil.
type SetTaskDeadlineInput struct {
	ID       string     `json:"-"`
	Deadline *time.Time `json:"deadline"`
}

type TaskOutput struct {
	ID          string     `json:"id"`
	Text        string     `json:"text"`
	Priority    int        `json:"priority"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Completed   bool       `json:"completed"`
	LapSeconds  int        `json:"lap_seconds"`
	LapDisplay  string     `json:"lap_display,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Overdue     bool       `json:"overdue"`
	Age         string     `json:"age"`
}

type ListOutput struct {
	Tasks   []TaskOutput `json:"tasks"`
	AllDone bool         `json:"all_done"`
	Current *TaskOutput  `json:"current,omitempty"`
	Overdue []string     `json:"overdue"`
}

type ToggleOutput struct {
	Task       TaskOutput `json:"task"`
	NewFastest bool       `json:"new_fastest"`
	AllDone    bool       `json:"all_done"`
}

type StatsOutput struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	Incomplete     int     `json:"incomplete"`
	Overdue        int     `json:"overdue"`
	CompletionRate float64 `json:"completion_rate"`
}

type LogEntryOutput struct {
	Key            string    `json:"key"`
	Text           string    `json:"text"`
	FastestSeconds int       `json:"fastest_seconds"`
	FastestDisplay string    `json:"fastest_display"`
	UpdatedAt      time.Time `json:"updated_at"`
}
