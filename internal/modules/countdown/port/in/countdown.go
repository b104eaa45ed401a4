package in

import (
	"context"

	"tasktracker/internal/modules/countdown/dto"
)

type Usecase interface {
	SetDeadline(ctx context.Context, input dto.SetDeadlineInput) (dto.DeadlineOutput, error)
	ResetDeadline(ctx context.Context) error
	TaskCompleted(ctx context.Context) error
	TaskUncompleted(ctx context.Context) error
	RemainingSeconds(ctx context.Context) int
	SpentSeconds(ctx context.Context) int
	Status(ctx context.Context) dto.StatusOutput
	Options(ctx context.Context) []dto.OptionOutput
	IsAllDone(ctx context.Context, completed []bool) bool
}
