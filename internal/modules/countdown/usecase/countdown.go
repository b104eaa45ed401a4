package usecase

import (
	"context"

	hclog "github.com/hashicorp/go-hclog"

	"tasktracker/internal/modules/countdown/domain"
	"tasktracker/internal/modules/countdown/dto"
	countdownin "tasktracker/internal/modules/countdown/port/in"
	"tasktracker/internal/modules/countdown/service"
	"tasktracker/internal/platform/timefmt"
)

type Interactor struct {
	svc    *service.ClockService
	logger hclog.Logger
}

func NewInteractor(svc *service.ClockService, logger hclog.Logger) countdownin.Usecase {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Interactor{svc: svc, logger: logger}
}

func (i *Interactor) SetDeadline(_ context.Context, input dto.SetDeadlineInput) (dto.DeadlineOutput, error) {
	deadline, err := i.svc.SetDeadline(input.Value)
	if err != nil {
		i.logger.Debug("deadline rejected", "value", input.Value, "error", err)
		return dto.DeadlineOutput{}, err
	}
	display := timefmt.ClockTime(deadline)
	i.logger.Info("deadline set", "value", input.Value, "deadline", display)
	return dto.DeadlineOutput{Deadline: deadline, Display: display}, nil
}

func (i *Interactor) ResetDeadline(_ context.Context) error {
	i.svc.ResetDeadline()
	i.logger.Info("deadline reset")
	return nil
}

func (i *Interactor) TaskCompleted(_ context.Context) error {
	i.svc.Touch()
	return nil
}

func (i *Interactor) TaskUncompleted(_ context.Context) error {
	i.svc.Touch()
	return nil
}

func (i *Interactor) RemainingSeconds(_ context.Context) int {
	return i.svc.Remaining()
}

func (i *Interactor) SpentSeconds(_ context.Context) int {
	return i.svc.Spent()
}

func (i *Interactor) Status(_ context.Context) dto.StatusOutput {
	state, remaining, spent, classified := i.svc.Snapshot()
	out := dto.StatusOutput{
		HasDeadline:      state.HasDeadline(),
		RemainingSeconds: remaining,
		SpentSeconds:     spent,
		State:            string(classified),
		LowTime:          classified == domain.StateLowTime,
		TimesUp:          classified == domain.StateTimesUp,
	}
	if out.HasDeadline {
		out.Deadline = state.Deadline
		out.DeadlineDisplay = timefmt.ClockTime(state.Deadline)
	}
	return out
}

func (i *Interactor) Options(_ context.Context) []dto.OptionOutput {
	menu := i.svc.Menu()
	out := make([]dto.OptionOutput, 0, len(menu))
	for _, opt := range menu {
		out = append(out, dto.OptionOutput{Label: opt.Label, Kind: string(opt.Kind), At: opt.At})
	}
	return out
}

func (i *Interactor) IsAllDone(_ context.Context, completed []bool) bool {
	return domain.IsAllDone(completed)
}
