package out

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"tasktracker/internal/modules/pomodoro/domain"
)

type countingNotifier struct {
	calls int
	err   error
}

func (c *countingNotifier) SessionCompleted(context.Context, domain.Transition) error {
	c.calls++
	return c.err
}

func sampleTransition() domain.Transition {
	start := time.Date(2026, 2, 25, 9, 0, 0, 0, time.UTC)
	return domain.Transition{Finished: domain.PhaseWork, StartedAt: start, EndedAt: start.Add(25 * time.Minute), Duration: 25 * time.Minute}
}

func TestLogNotifierWritesOneLine(t *testing.T) {
	var buf bytes.Buffer
	logger := hclog.New(&hclog.LoggerOptions{Output: &buf, Level: hclog.Info})
	if err := NewLogNotifier(logger).SessionCompleted(context.Background(), sampleTransition()); err != nil {
		t.Fatalf("notify: %v", err)
	}
	out := buf.String()
	if strings.Count(out, "\n") != 1 {
		t.Fatalf("expected one log line, got %q", out)
	}
	if !strings.Contains(out, "time for a break") || !strings.Contains(out, "next=rest") || !strings.Contains(out, "length=\"25m 0s\"") {
		t.Fatalf("unexpected log line: %q", out)
	}
}

func TestMultiNotifierCallsAllAndJoinsErrors(t *testing.T) {
	ok := &countingNotifier{}
	failing := &countingNotifier{err: errors.New("speaker unplugged")}
	multi := MultiNotifier{failing, ok}

	err := multi.SessionCompleted(context.Background(), sampleTransition())
	if err == nil || !strings.Contains(err.Error(), "speaker unplugged") {
		t.Fatalf("expected joined error, got %v", err)
	}
	if ok.calls != 1 || failing.calls != 1 {
		t.Fatalf("every notifier must be called once, got %d/%d", ok.calls, failing.calls)
	}
}
