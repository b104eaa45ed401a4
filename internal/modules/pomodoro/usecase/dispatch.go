package usecase

import (
	"context"

	hclog "github.com/hashicorp/go-hclog"

	"tasktracker/internal/modules/pomodoro/domain"
	pomodoroout "tasktracker/internal/modules/pomodoro/port/out"
)

const (
	defaultQueueSize = 64
	// maxNotified caps the announcements for one catch-up batch. Every
	// transition in the batch is still recorded.
	maxNotified = 32
)

// Dispatcher records and announces finished sessions on its own goroutine,
// so a tick never waits on sqlite or a notifier plugin.
type Dispatcher struct {
	recorder pomodoroout.SessionRecorder
	notifier pomodoroout.Notifier
	logger   hclog.Logger
	queue    chan []domain.Transition
	done     chan struct{}
}

// NewDispatcher returns a stopped dispatcher; call Run to start it. recorder
// and notifier may be nil.
func NewDispatcher(recorder pomodoroout.SessionRecorder, notifier pomodoroout.Notifier, logger hclog.Logger, queueSize int) *Dispatcher {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &Dispatcher{
		recorder: recorder,
		notifier: notifier,
		logger:   logger,
		queue:    make(chan []domain.Transition, queueSize),
		done:     make(chan struct{}),
	}
}

// Enqueue never blocks. A batch that does not fit is dropped and logged.
func (d *Dispatcher) Enqueue(batch []domain.Transition) bool {
	if len(batch) == 0 {
		return true
	}
	select {
	case d.queue <- batch:
		return true
	default:
		d.logger.Warn("session queue full, dropping batch", "transitions", len(batch))
		return false
	}
}

// Run drains the queue until ctx is cancelled. Batches still queued at that
// point are recorded but not announced.
func (d *Dispatcher) Run(ctx context.Context) {
	defer close(d.done)
	for {
		select {
		case batch := <-d.queue:
			d.dispatch(ctx, batch)
		case <-ctx.Done():
			d.flush()
			return
		}
	}
}

// Done is closed once Run has returned.
func (d *Dispatcher) Done() <-chan struct{} {
	return d.done
}

func (d *Dispatcher) dispatch(ctx context.Context, batch []domain.Transition) {
	// History survives a shutdown that races the batch.
	d.record(context.WithoutCancel(ctx), batch)
	if d.notifier == nil {
		return
	}
	announce := batch
	if len(announce) > maxNotified {
		d.logger.Debug("skipping announcements", "skipped", len(announce)-maxNotified)
		announce = announce[len(announce)-maxNotified:]
	}
	for _, transition := range announce {
		if ctx.Err() != nil {
			return
		}
		if err := d.notifier.SessionCompleted(ctx, transition); err != nil {
			d.logger.Warn("notify session failed", "error", err)
		}
	}
}

func (d *Dispatcher) record(ctx context.Context, batch []domain.Transition) {
	if d.recorder == nil {
		return
	}
	for _, transition := range batch {
		if err := d.recorder.Record(ctx, transition); err != nil {
			d.logger.Warn("record session failed", "error", err, "ended_at", transition.EndedAt)
		}
	}
}

func (d *Dispatcher) flush() {
	ctx := context.Background()
	for {
		select {
		case batch := <-d.queue:
			d.record(ctx, batch)
		default:
			return
		}
	}
}
