package focus

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	pomodorodto "tasktracker/internal/modules/pomodoro/dto"
	"tasktracker/internal/platform/timefmt"
	"tasktracker/internal/ui/theme"
)

const toastFor = 5 * time.Second

type Model struct {
	snap       pomodorodto.SnapshotOutput
	stats      pomodorodto.StatisticsOutput
	bar        progress.Model
	toast      string
	toastUntil time.Time
	now        time.Time
	width      int
}

func New() Model {
	bar := progress.New(progress.WithGradient(string(theme.Sapphire), string(theme.Lavender)))
	return Model{bar: bar}
}

// SetSnapshot stores the latest tick. A tick that crossed a session boundary
// raises a toast for a few seconds; later ticks never raise it again.
func (m *Model) SetSnapshot(snap pomodorodto.SnapshotOutput, stats pomodorodto.StatisticsOutput, now time.Time) {
	m.snap = snap
	m.stats = stats
	m.now = now
	if snap.SessionChanged {
		m.toast = "Break over, back to work."
		if snap.PreviousSessionWasWork {
			m.toast = "Work session complete. Take a break!"
		}
		m.toastUntil = now.Add(toastFor)
	}
}

func (m Model) Toast() string {
	if m.toast == "" || !m.now.Before(m.toastUntil) {
		return ""
	}
	return m.toast
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.bar.Width = max(min(size.Width-8, 60), 10)
	}
	return m, nil
}

func (m Model) View() string {
	phase := "WORK"
	phaseStyle := theme.Hot
	if !m.snap.IsWorkSession {
		phase = "REST"
		phaseStyle = theme.Good
	}
	state := "stopped"
	switch {
	case m.snap.IsRunning:
		state = "running"
	case m.snap.IsPaused:
		state = "paused"
	}
	focus := "off"
	if m.snap.FocusMode {
		focus = "on"
	}

	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Focus") + theme.Muted.Render(fmt.Sprintf("  mode %s · %d/%d min", focus, m.snap.WorkMinutes, m.snap.RestMinutes)) + "\n\n")
	sb.WriteString(phaseStyle.Render(phase) + "  " + timefmt.Countdown(m.snap.RemainingSeconds) + theme.Muted.Render("  "+state) + "\n")
	sb.WriteString(m.bar.ViewAs(m.snap.Progress) + "\n\n")
	sb.WriteString(fmt.Sprintf("work sessions %d · rest sessions %d", m.snap.WorkSessionsCompleted, m.snap.RestSessionsCompleted) + "\n")
	sb.WriteString(theme.Muted.Render(fmt.Sprintf("focused %d min · rested %d min · productivity %.1f%%",
		m.stats.TotalWorkMinutes, m.stats.TotalRestMinutes, m.stats.ProductivityRatio)) + "\n")
	if toast := m.Toast(); toast != "" {
		sb.WriteString("\n" + theme.Toast.Render(toast) + "\n")
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(sb.String())
}
