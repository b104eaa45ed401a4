package out_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	pomodoroout "tasktracker/internal/modules/pomodoro/adapter/out"
	"tasktracker/internal/modules/pomodoro/domain"
)

func TestPluginNotifierIntegrationChime(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the chime plugin")
	}
	binPath := buildChimePlugin(t)
	logPath := filepath.Join(t.TempDir(), "chime.log")
	t.Setenv("TASKTRACKER_CHIME_LOG", logPath)

	notifier := pomodoroout.NewPluginNotifier([]string{binPath}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	metadata, err := notifier.Check(ctx)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if len(metadata) != 1 || metadata[0].Name != "chime" {
		t.Fatalf("unexpected metadata: %+v", metadata)
	}

	start := time.Date(2026, 2, 25, 9, 0, 0, 0, time.UTC)
	transition := domain.Transition{Finished: domain.PhaseWork, StartedAt: start, EndedAt: start.Add(25 * time.Minute), Duration: 25 * time.Minute}
	if err := notifier.SessionCompleted(ctx, transition); err != nil {
		t.Fatalf("session completed: %v", err)
	}

	raw, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read chime log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 1 || !strings.HasPrefix(lines[0], "work -> rest at ") {
		t.Fatalf("expected one chime line, got %q", string(raw))
	}
}

func TestPluginNotifierMissingBinary(t *testing.T) {
	notifier := pomodoroout.NewPluginNotifier([]string{filepath.Join(t.TempDir(), "missing")}, nil)
	err := notifier.SessionCompleted(context.Background(), domain.Transition{Finished: domain.PhaseRest})
	if err == nil {
		t.Fatalf("expected error for a missing plugin binary")
	}
}

func buildChimePlugin(t *testing.T) string {
	t.Helper()
	binPath := filepath.Join(t.TempDir(), "chime-plugin")
	cmd := exec.Command("go", "build", "-o", binPath, "./plugins/chime")
	cmd.Dir = repositoryRoot(t)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build chime plugin: %v\n%s", err, string(out))
	}
	return binPath
}

func repositoryRoot(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller failed")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "../../../../../"))
}
