package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"tasktracker/internal/modules/task/domain"
	taskout "tasktracker/internal/modules/task/port/out"
	"tasktracker/internal/platform/clock"
	"tasktracker/internal/platform/id"
	"tasktracker/internal/platform/slug"
)

type TaskService struct {
	clock clock.Clock
	idGen id.Generator
	store taskout.TaskStore
	log   taskout.TaskLog
}

func NewTaskService(clock clock.Clock, idGen id.Generator, store taskout.TaskStore, log taskout.TaskLog) *TaskService {
	return &TaskService{clock: clock, idGen: idGen, store: store, log: log}
}

func (s *TaskService) Now() time.Time {
	return s.clock.Now()
}

// idAttempts bounds the retries when a short random id is already taken.
const idAttempts = 5

// Add stores a new task. A zero priority takes the default.
func (s *TaskService) Add(ctx context.Context, text string, priority int, deadline time.Time) (domain.Task, error) {
	if priority == 0 {
		priority = domain.DefaultPriority
	}
	task := domain.Task{
		ID:        s.idGen.New(),
		Text:      strings.TrimSpace(text),
		Priority:  priority,
		Deadline:  deadline,
		CreatedAt: s.clock.Now(),
	}
	if err := task.Validate(); err != nil {
		return domain.Task{}, err
	}
	for attempt := 1; ; attempt++ {
		err := s.store.Insert(ctx, task)
		if err == nil {
			return task, nil
		}
		if !errors.Is(err, taskout.ErrDuplicateID) || attempt == idAttempts {
			return domain.Task{}, err
		}
		task.ID = s.idGen.New()
	}
}

func (s *TaskService) Get(ctx context.Context, id string) (domain.Task, error) {
	return s.store.FindByID(ctx, strings.TrimSpace(id))
}

// Complete marks the task done with the given lap.
func (s *TaskService) Complete(ctx context.Context, task domain.Task, lapSeconds int) (domain.Task, error) {
	task.MarkCompleted(lapSeconds, s.clock.Now())
	if err := s.store.Save(ctx, task); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

// RecordLap offers a completed task's lap to the fastest-time log. The bool
// reports a new fastest time.
func (s *TaskService) RecordLap(ctx context.Context, task domain.Task) (bool, error) {
	_, improved, err := s.log.RecordLap(ctx, slug.Make(task.Text), task.Text, task.LapSeconds, task.CompletedAt)
	return improved, err
}

func (s *TaskService) Reopen(ctx context.Context, task domain.Task) (domain.Task, error) {
	task.MarkIncomplete()
	if err := s.store.Save(ctx, task); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, strings.TrimSpace(id))
}

func (s *TaskService) SetPriority(ctx context.Context, id string, priority int) (domain.Task, error) {
	if err := domain.ValidatePriority(priority); err != nil {
		return domain.Task{}, err
	}
	task, err := s.Get(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}
	task.Priority = priority
	if err := s.store.Save(ctx, task); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

func (s *TaskService) SetDeadline(ctx context.Context, id string, deadline time.Time) (domain.Task, error) {
	task, err := s.Get(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}
	task.Deadline = deadline
	if err := s.store.Save(ctx, task); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

func (s *TaskService) List(ctx context.Context) ([]domain.Task, error) {
	return s.store.List(ctx)
}

func (s *TaskService) Log(ctx context.Context) ([]domain.LogEntry, error) {
	return s.log.List(ctx)
}
