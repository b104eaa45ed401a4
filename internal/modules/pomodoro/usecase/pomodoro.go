package usecase

import (
	"context"
	"strings"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"tasktracker/internal/modules/pomodoro/domain"
	"tasktracker/internal/modules/pomodoro/dto"
	pomodoroin "tasktracker/internal/modules/pomodoro/port/in"
	pomodoroout "tasktracker/internal/modules/pomodoro/port/out"
	"tasktracker/internal/modules/pomodoro/service"
)

const (
	defaultHistoryLimit = 20
	// maxReported caps the transitions echoed back in one snapshot.
	maxReported = 32
)

type Interactor struct {
	svc        *service.CycleService
	recorder   pomodoroout.SessionRecorder
	dispatcher *Dispatcher
	logger     hclog.Logger
}

// NewInteractor wires the cycle to its side effects. recorder serves History;
// dispatcher takes finished sessions off the tick path. Either may be nil.
func NewInteractor(svc *service.CycleService, recorder pomodoroout.SessionRecorder, dispatcher *Dispatcher, logger hclog.Logger) pomodoroin.Usecase {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Interactor{svc: svc, recorder: recorder, dispatcher: dispatcher, logger: logger}
}

func (i *Interactor) Configure(_ context.Context, input dto.ConfigureInput) (dto.SnapshotOutput, error) {
	work, rest, err := domain.SessionLengths(input.WorkMinutes, input.RestMinutes)
	if err != nil {
		return dto.SnapshotOutput{}, err
	}
	snap, err := i.svc.Configure(work, rest)
	if err != nil {
		return dto.SnapshotOutput{}, err
	}
	i.logger.Info("pomodoro configured", "work_minutes", input.WorkMinutes, "rest_minutes", input.RestMinutes)
	return toSnapshotOutput(snap), nil
}

func (i *Interactor) Start(_ context.Context) dto.SnapshotOutput {
	snap := i.svc.Start()
	i.logger.Debug("pomodoro started", "phase", snap.Phase)
	return toSnapshotOutput(snap)
}

func (i *Interactor) Pause(_ context.Context) dto.SnapshotOutput {
	snap := i.svc.Pause()
	i.logger.Debug("pomodoro paused", "phase", snap.Phase, "remaining", snap.RemainingSeconds)
	return toSnapshotOutput(snap)
}

func (i *Interactor) Reset(_ context.Context) dto.SnapshotOutput {
	i.logger.Debug("pomodoro reset")
	return toSnapshotOutput(i.svc.Reset())
}

// Tick advances the cycle and hands finished sessions to the dispatcher. It
// never waits on recording or notification.
func (i *Interactor) Tick(_ context.Context) dto.SnapshotOutput {
	snap := i.svc.Tick()
	if n := len(snap.Transitions); n > 0 {
		last := snap.Transitions[n-1]
		i.logger.Info("session complete", "finished", last.Finished, "ended_at", last.EndedAt, "transitions", n)
		if i.dispatcher != nil {
			i.dispatcher.Enqueue(snap.Transitions)
		}
	}
	return toSnapshotOutput(snap)
}

func (i *Interactor) Peek(_ context.Context) dto.SnapshotOutput {
	return toSnapshotOutput(i.svc.Peek())
}

func (i *Interactor) SetFocusMode(_ context.Context, input dto.FocusInput) dto.SnapshotOutput {
	i.logger.Debug("focus mode", "enabled", input.Enabled)
	return toSnapshotOutput(i.svc.SetFocus(input.Enabled))
}

func (i *Interactor) SwitchTo(_ context.Context, input dto.SwitchInput) (dto.SnapshotOutput, error) {
	phase := domain.Phase(strings.ToLower(strings.TrimSpace(input.Phase)))
	snap, err := i.svc.SwitchTo(phase)
	if err != nil {
		return dto.SnapshotOutput{}, err
	}
	i.logger.Info("switched session", "phase", phase)
	return toSnapshotOutput(snap), nil
}

func (i *Interactor) Statistics(_ context.Context) dto.StatisticsOutput {
	stats := i.svc.Statistics()
	return dto.StatisticsOutput{
		WorkSessions:      stats.WorkSessions,
		RestSessions:      stats.RestSessions,
		TotalSessions:     stats.TotalSessions,
		TotalWorkMinutes:  int(stats.TotalWork / time.Minute),
		TotalRestMinutes:  int(stats.TotalRest / time.Minute),
		ProductivityRatio: stats.ProductivityRatio,
	}
}

func (i *Interactor) History(ctx context.Context, limit int) ([]dto.TransitionOutput, error) {
	if i.recorder == nil {
		return []dto.TransitionOutput{}, nil
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	records, err := i.recorder.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	return toTransitionOutputs(records), nil
}

func toSnapshotOutput(snap domain.Snapshot) dto.SnapshotOutput {
	return dto.SnapshotOutput{
		RemainingSeconds:       snap.RemainingSeconds,
		Phase:                  string(snap.Phase),
		IsWorkSession:          snap.IsWorkSession,
		IsRunning:              snap.IsRunning,
		IsPaused:               snap.IsPaused,
		SessionComplete:        snap.SessionComplete,
		SessionChanged:         snap.SessionChanged,
		PreviousSessionWasWork: snap.PreviousSessionWasWork,
		WorkSessionsCompleted:  snap.WorkSessionsCompleted,
		RestSessionsCompleted:  snap.RestSessionsCompleted,
		WorkMinutes:            int(snap.WorkDuration / time.Minute),
		RestMinutes:            int(snap.RestDuration / time.Minute),
		Progress:               snap.Progress,
		FocusMode:              snap.FocusMode,
		Transitions:            toTransitionOutputs(lastTransitions(snap.Transitions, maxReported)),
	}
}

func lastTransitions(transitions []domain.Transition, n int) []domain.Transition {
	if len(transitions) > n {
		return transitions[len(transitions)-n:]
	}
	return transitions
}

func toTransitionOutputs(transitions []domain.Transition) []dto.TransitionOutput {
	if len(transitions) == 0 {
		return nil
	}
	out := make([]dto.TransitionOutput, 0, len(transitions))
	for _, t := range transitions {
		out = append(out, dto.TransitionOutput{
			Finished:        string(t.Finished),
			StartedAt:       t.StartedAt,
			EndedAt:         t.EndedAt,
			DurationSeconds: int(t.Duration / time.Second),
		})
	}
	return out
}
