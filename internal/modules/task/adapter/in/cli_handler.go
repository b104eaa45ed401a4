package in

import (
	"context"
	"fmt"
	"strings"
	"time"

	taskdto "tasktracker/internal/modules/task/dto"
	taskin "tasktracker/internal/modules/task/port/in"
	apperrors "tasktracker/internal/platform/errors"
)

type CLIHandler struct {
	usecase taskin.Usecase
}

func NewCLIHandler(usecase taskin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

// Add accepts a deadline either as a Go duration from now ("90m") or as an
// RFC 3339 timestamp. An empty deadline means none.
func (h CLIHandler) Add(ctx context.Context, text string, priority int, deadline string, now time.Time) (taskdto.TaskOutput, error) {
	parsed, err := ParseTaskDeadline(deadline, now)
	if err != nil {
		return taskdto.TaskOutput{}, err
	}
	return h.usecase.Add(ctx, taskdto.AddTaskInput{Text: text, Priority: priority, Deadline: parsed})
}

func (h CLIHandler) Toggle(ctx context.Context, id string) (taskdto.ToggleOutput, error) {
	return h.usecase.Toggle(ctx, id)
}

func (h CLIHandler) Delete(ctx context.Context, id string) error {
	return h.usecase.Delete(ctx, id)
}

func (h CLIHandler) SetPriority(ctx context.Context, id string, priority int) (taskdto.TaskOutput, error) {
	return h.usecase.SetPriority(ctx, taskdto.SetPriorityInput{ID: id, Priority: priority})
}

// SetDeadline clears the deadline when value is "none".
func (h CLIHandler) SetDeadline(ctx context.Context, id, value string, now time.Time) (taskdto.TaskOutput, error) {
	var deadline *time.Time
	if !strings.EqualFold(strings.TrimSpace(value), "none") {
		parsed, err := ParseTaskDeadline(value, now)
		if err != nil {
			return taskdto.TaskOutput{}, err
		}
		if parsed == nil {
			return taskdto.TaskOutput{}, fmt.Errorf("%w: deadline is required, use none to clear", apperrors.ErrInvalidInput)
		}
		deadline = parsed
	}
	return h.usecase.SetDeadline(ctx, taskdto.SetTaskDeadlineInput{ID: id, Deadline: deadline})
}

func (h CLIHandler) List(ctx context.Context, sort string) (taskdto.ListOutput, error) {
	return h.usecase.List(ctx, taskdto.ListInput{Sort: sort})
}

func ParseTaskDeadline(value string, now time.Time) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if d, err := time.ParseDuration(value); err == nil {
		if d <= 0 {
			return nil, fmt.Errorf("%w: deadline offset must be positive", apperrors.ErrInvalidInput)
		}
		at := now.Add(d)
		return &at, nil
	}
	at, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("%w: deadline %q is neither a duration nor RFC 3339", apperrors.ErrInvalidInput, value)
	}
	return &at, nil
}
