package in

import (
	"context"

	pomodorodto "tasktracker/internal/modules/pomodoro/dto"
	pomodoroin "tasktracker/internal/modules/pomodoro/port/in"
)

type CLIHandler struct {
	usecase pomodoroin.Usecase
}

func NewCLIHandler(usecase pomodoroin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Configure(ctx context.Context, workMinutes, restMinutes int) (pomodorodto.SnapshotOutput, error) {
	return h.usecase.Configure(ctx, pomodorodto.ConfigureInput{WorkMinutes: workMinutes, RestMinutes: restMinutes})
}

// Toggle starts a stopped cycle and pauses a running one.
func (h CLIHandler) Toggle(ctx context.Context) pomodorodto.SnapshotOutput {
	if h.usecase.Peek(ctx).IsRunning {
		return h.usecase.Pause(ctx)
	}
	return h.usecase.Start(ctx)
}

func (h CLIHandler) Reset(ctx context.Context) pomodorodto.SnapshotOutput {
	return h.usecase.Reset(ctx)
}

func (h CLIHandler) Tick(ctx context.Context) pomodorodto.SnapshotOutput {
	return h.usecase.Tick(ctx)
}

func (h CLIHandler) SetFocus(ctx context.Context, enabled bool) pomodorodto.SnapshotOutput {
	return h.usecase.SetFocusMode(ctx, pomodorodto.FocusInput{Enabled: enabled})
}

func (h CLIHandler) SwitchTo(ctx context.Context, phase string) (pomodorodto.SnapshotOutput, error) {
	return h.usecase.SwitchTo(ctx, pomodorodto.SwitchInput{Phase: phase})
}

func (h CLIHandler) Statistics(ctx context.Context) pomodorodto.StatisticsOutput {
	return h.usecase.Statistics(ctx)
}
