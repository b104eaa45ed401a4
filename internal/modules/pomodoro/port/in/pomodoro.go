package in

import (
	"context"

	"tasktracker/internal/modules/pomodoro/dto"
)

type Usecase interface {
	Configure(ctx context.Context, input dto.ConfigureInput) (dto.SnapshotOutput, error)
	Start(ctx context.Context) dto.SnapshotOutput
	Pause(ctx context.Context) dto.SnapshotOutput
	Reset(ctx context.Context) dto.SnapshotOutput
	Tick(ctx context.Context) dto.SnapshotOutput
	Peek(ctx context.Context) dto.SnapshotOutput
	SetFocusMode(ctx context.Context, input dto.FocusInput) dto.SnapshotOutput
	SwitchTo(ctx context.Context, input dto.SwitchInput) (dto.SnapshotOutput, error)
	Statistics(ctx context.Context) dto.StatisticsOutput
	History(ctx context.Context, limit int) ([]dto.TransitionOutput, error)
}
