package in

import (
	"context"

	countdowndto "tasktracker/internal/modules/countdown/dto"
	countdownin "tasktracker/internal/modules/countdown/port/in"
)

type CLIHandler struct {
	usecase countdownin.Usecase
}

func NewCLIHandler(usecase countdownin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) SetDeadline(ctx context.Context, value string) (countdowndto.DeadlineOutput, error) {
	return h.usecase.SetDeadline(ctx, countdowndto.SetDeadlineInput{Value: value})
}

func (h CLIHandler) ResetDeadline(ctx context.Context) error {
	return h.usecase.ResetDeadline(ctx)
}

func (h CLIHandler) Status(ctx context.Context) countdowndto.StatusOutput {
	return h.usecase.Status(ctx)
}
