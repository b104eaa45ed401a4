package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	humanize "github.com/dustin/go-humanize"
	hclog "github.com/hashicorp/go-hclog"

	countdownin "tasktracker/internal/modules/countdown/port/in"
	"tasktracker/internal/modules/task/domain"
	"tasktracker/internal/modules/task/dto"
	taskin "tasktracker/internal/modules/task/port/in"
	"tasktracker/internal/modules/task/service"
	apperrors "tasktracker/internal/platform/errors"
	"tasktracker/internal/platform/timefmt"
)

// Interactor is the task list. It tells the countdown about every change of
// a task's completed flag.
type Interactor struct {
	mu        sync.Mutex
	svc       *service.TaskService
	countdown countdownin.Usecase
	logger    hclog.Logger
}

func NewInteractor(svc *service.TaskService, countdown countdownin.Usecase, logger hclog.Logger) taskin.Usecase {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Interactor{svc: svc, countdown: countdown, logger: logger}
}

func (i *Interactor) Add(ctx context.Context, input dto.AddTaskInput) (dto.TaskOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	var deadline time.Time
	if input.Deadline != nil {
		deadline = *input.Deadline
	}
	task, err := i.svc.Add(ctx, input.Text, input.Priority, deadline)
	if err != nil {
		return dto.TaskOutput{}, err
	}
	i.logger.Info("task added", "id", task.ID, "priority", task.Priority)
	return toTaskOutput(task, i.svc.Now()), nil
}

// Toggle completes an open task, stamping it with the time spent since the
// last completion, or reopens a completed one. Either way the countdown's
// spent anchor moves to now once the task is saved. A failure to update the
// fastest-time log is logged and does not fail the toggle.
func (i *Interactor) Toggle(ctx context.Context, id string) (dto.ToggleOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	task, err := i.svc.Get(ctx, id)
	if err != nil {
		return dto.ToggleOutput{}, err
	}

	var improved bool
	if !task.Completed {
		lap := i.countdown.SpentSeconds(ctx)
		task, err = i.svc.Complete(ctx, task, lap)
		if err != nil {
			return dto.ToggleOutput{}, err
		}
		if err := i.countdown.TaskCompleted(ctx); err != nil {
			return dto.ToggleOutput{}, err
		}
		improved, err = i.svc.RecordLap(ctx, task)
		if err != nil {
			i.logger.Warn("record lap failed", "id", task.ID, "error", err)
		}
		i.logger.Info("task completed", "id", task.ID, "lap", timefmt.Lap(task.LapSeconds), "new_fastest", improved)
	} else {
		task, err = i.svc.Reopen(ctx, task)
		if err != nil {
			return dto.ToggleOutput{}, err
		}
		if err := i.countdown.TaskUncompleted(ctx); err != nil {
			return dto.ToggleOutput{}, err
		}
		i.logger.Info("task reopened", "id", task.ID)
	}

	tasks, err := i.svc.List(ctx)
	if err != nil {
		return dto.ToggleOutput{}, err
	}
	return dto.ToggleOutput{
		Task:       toTaskOutput(task, i.svc.Now()),
		NewFastest: improved,
		AllDone:    i.countdown.IsAllDone(ctx, domain.CompletedFlags(tasks)),
	}, nil
}

func (i *Interactor) Delete(ctx context.Context, id string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if err := i.svc.Delete(ctx, id); err != nil {
		return err
	}
	i.logger.Info("task deleted", "id", id)
	return nil
}

func (i *Interactor) SetPriority(ctx context.Context, input dto.SetPriorityInput) (dto.TaskOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	task, err := i.svc.SetPriority(ctx, input.ID, input.Priority)
	if err != nil {
		return dto.TaskOutput{}, err
	}
	return toTaskOutput(task, i.svc.Now()), nil
}

func (i *Interactor) SetDeadline(ctx context.Context, input dto.SetTaskDeadlineInput) (dto.TaskOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	var deadline time.Time
	if input.Deadline != nil {
		deadline = *input.Deadline
	}
	task, err := i.svc.SetDeadline(ctx, input.ID, deadline)
	if err != nil {
		return dto.TaskOutput{}, err
	}
	return toTaskOutput(task, i.svc.Now()), nil
}

func (i *Interactor) List(ctx context.Context, input dto.ListInput) (dto.ListOutput, error) {
	tasks, err := i.svc.List(ctx)
	if err != nil {
		return dto.ListOutput{}, err
	}
	ordered := append([]domain.Task(nil), tasks...)
	switch strings.ToLower(strings.TrimSpace(input.Sort)) {
	case "", "created":
	case "priority":
		domain.SortByPriority(ordered)
	case "deadline":
		domain.SortByDeadline(ordered)
	default:
		return dto.ListOutput{}, fmt.Errorf("%w: unknown sort %q", apperrors.ErrInvalidInput, input.Sort)
	}
	now := i.svc.Now()
	out := dto.ListOutput{
		Tasks:   make([]dto.TaskOutput, 0, len(tasks)),
		AllDone: i.countdown.IsAllDone(ctx, domain.CompletedFlags(tasks)),
		Overdue: domain.OverdueIDs(tasks, now),
	}
	for _, task := range ordered {
		out.Tasks = append(out.Tasks, toTaskOutput(task, now))
	}
	if current, ok := domain.Current(tasks); ok {
		currentOut := toTaskOutput(current, now)
		out.Current = &currentOut
	}
	return out, nil
}

func (i *Interactor) Stats(ctx context.Context) (dto.StatsOutput, error) {
	tasks, err := i.svc.List(ctx)
	if err != nil {
		return dto.StatsOutput{}, err
	}
	stats := domain.ComputeStats(tasks, i.svc.Now())
	return dto.StatsOutput{
		Total:          stats.Total,
		Completed:      stats.Completed,
		Incomplete:     stats.Incomplete,
		Overdue:        stats.Overdue,
		CompletionRate: stats.CompletionRate,
	}, nil
}

func (i *Interactor) Log(ctx context.Context) ([]dto.LogEntryOutput, error) {
	entries, err := i.svc.Log(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LogEntryOutput, 0, len(entries))
	for _, entry := range entries {
		out = append(out, dto.LogEntryOutput{
			Key:            entry.Key,
			Text:           entry.Text,
			FastestSeconds: entry.FastestSeconds,
			FastestDisplay: timefmt.Lap(entry.FastestSeconds),
			UpdatedAt:      entry.UpdatedAt,
		})
	}
	return out, nil
}

func toTaskOutput(task domain.Task, now time.Time) dto.TaskOutput {
	out := dto.TaskOutput{
		ID:        task.ID,
		Text:      task.Text,
		Priority:  task.Priority,
		Completed: task.Completed,
		CreatedAt: task.CreatedAt,
		Overdue:   task.IsOverdue(now),
		Age:       humanize.RelTime(task.CreatedAt, now, "ago", "from now"),
	}
	if task.HasDeadline() {
		deadline := task.Deadline
		out.Deadline = &deadline
	}
	if task.Completed {
		completedAt := task.CompletedAt
		out.CompletedAt = &completedAt
		out.LapSeconds = task.LapSeconds
		out.LapDisplay = timefmt.Lap(task.LapSeconds)
	}
	return out
}
