package out

import (
	"context"
	"errors"

	hclog "github.com/hashicorp/go-hclog"

	"tasktracker/internal/modules/pomodoro/domain"
	pomodoroout "tasktracker/internal/modules/pomodoro/port/out"
	"tasktracker/internal/platform/timefmt"
)

// LogNotifier writes one line per finished session.
type LogNotifier struct {
	logger hclog.Logger
}

func NewLogNotifier(logger hclog.Logger) pomodoroout.Notifier {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return LogNotifier{logger: logger}
}

func (n LogNotifier) SessionCompleted(_ context.Context, transition domain.Transition) error {
	message := "work session complete, time for a break"
	if transition.Finished == domain.PhaseRest {
		message = "break over, back to work"
	}
	n.logger.Info(message,
		"finished", transition.Finished,
		"next", nextPhase(transition.Finished),
		"ended_at", timefmt.ClockTime(transition.EndedAt),
		"length", timefmt.Lap(int(transition.Duration.Seconds())),
	)
	return nil
}

// MultiNotifier fans one event out to every notifier and joins their errors.
type MultiNotifier []pomodoroout.Notifier

func (m MultiNotifier) SessionCompleted(ctx context.Context, transition domain.Transition) error {
	var errs []error
	for _, notifier := range m {
		if err := notifier.SessionCompleted(ctx, transition); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
