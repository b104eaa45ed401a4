package domain

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	apperrors "tasktracker/internal/platform/errors"
)

const (
	MinPriority     = 1
	MaxPriority     = 5
	DefaultPriority = 3
	maxTextLength   = 500
)

// Task is one entry of the task list. Priority 1 is the most urgent.
// LapSeconds is meaningful only while Completed is true.
type Task struct {
	ID          string
	Text        string
	Priority    int
	Deadline    time.Time
	Completed   bool
	LapSeconds  int
	CreatedAt   time.Time
	CompletedAt time.Time
}

func ValidatePriority(priority int) error {
	if priority < MinPriority || priority > MaxPriority {
		return fmt.Errorf("%w: priority must be between %d and %d, got %d", apperrors.ErrInvalidInput, MinPriority, MaxPriority, priority)
	}
	return nil
}

func (t Task) Validate() error {
	text := strings.TrimSpace(t.Text)
	if text == "" {
		return fmt.Errorf("%w: task text is required", apperrors.ErrInvalidInput)
	}
	if len(text) > maxTextLength {
		return fmt.Errorf("%w: task text longer than %d characters", apperrors.ErrInvalidInput, maxTextLength)
	}
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("%w: task id is required", apperrors.ErrInvalidInput)
	}
	return ValidatePriority(t.Priority)
}

func (t Task) HasDeadline() bool {
	return !t.Deadline.IsZero()
}

// IsOverdue reports an incomplete task whose deadline has passed.
func (t Task) IsOverdue(now time.Time) bool {
	return t.HasDeadline() && !t.Completed && now.After(t.Deadline)
}

// MarkCompleted is a no-op on a task that is already completed.
func (t *Task) MarkCompleted(lapSeconds int, now time.Time) {
	if t.Completed {
		return
	}
	if lapSeconds < 0 {
		lapSeconds = 0
	}
	t.Completed = true
	t.LapSeconds = lapSeconds
	t.CompletedAt = now
}

func (t *Task) MarkIncomplete() {
	t.Completed = false
	t.LapSeconds = 0
	t.CompletedAt = time.Time{}
}

// Current picks the task to work on next: the most urgent incomplete task,
// oldest first on ties.
func Current(tasks []Task) (Task, bool) {
	var (
		best  Task
		found bool
	)
	for _, t := range tasks {
		if t.Completed {
			continue
		}
		if !found || t.Priority < best.Priority || (t.Priority == best.Priority && t.CreatedAt.Before(best.CreatedAt)) {
			best, found = t, true
		}
	}
	return best, found
}

func OverdueIDs(tasks []Task, now time.Time) []string {
	out := []string{}
	for _, t := range tasks {
		if t.IsOverdue(now) {
			out = append(out, t.ID)
		}
	}
	return out
}

func CompletedFlags(tasks []Task) []bool {
	flags := make([]bool, len(tasks))
	for i, t := range tasks {
		flags[i] = t.Completed
	}
	return flags
}

// SortByDeadline orders tasks by deadline, then priority, then age. Tasks
// without a deadline go last.
func SortByDeadline(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if a.HasDeadline() != b.HasDeadline() {
			return a.HasDeadline()
		}
		if !a.Deadline.Equal(b.Deadline) {
			return a.Deadline.Before(b.Deadline)
		}
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}

func SortByPriority(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Priority != tasks[j].Priority {
			return tasks[i].Priority < tasks[j].Priority
		}
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
}

type Stats struct {
	Total          int
	Completed      int
	Incomplete     int
	Overdue        int
	CompletionRate float64
}

func ComputeStats(tasks []Task, now time.Time) Stats {
	stats := Stats{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			stats.Completed++
		}
		if t.IsOverdue(now) {
			stats.Overdue++
		}
	}
	stats.Incomplete = stats.Total - stats.Completed
	if stats.Total > 0 {
		stats.CompletionRate = math.Round(float64(stats.Completed)/float64(stats.Total)*1000) / 10
	}
	return stats
}

// LogEntry is the fastest lap ever recorded for one task text.
type LogEntry struct {
	Key            string
	Text           string
	FastestSeconds int
	UpdatedAt      time.Time
}
