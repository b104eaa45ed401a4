package in

import (
	"context"

	"tasktracker/internal/modules/task/dto"
)

type Usecase interface {
	Add(ctx context.Context, input dto.AddTaskInput) (dto.TaskOutput, error)
	Toggle(ctx context.Context, id string) (dto.ToggleOutput, error)
	Delete(ctx context.Context, id string) error
	SetPriority(ctx context.Context, input dto.SetPriorityInput) (dto.TaskOutput, error)
	SetDeadline(ctx context.Context, input dto.SetTaskDeadlineInput) (dto.TaskOutput, error)
	List(ctx context.Context, input dto.ListInput) (dto.ListOutput, error)
	Stats(ctx context.Context) (dto.StatsOutput, error)
	Log(ctx context.Context) ([]dto.LogEntryOutput, error)
}
