package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	countdowndto "tasktracker/internal/modules/countdown/dto"
	pomodorodto "tasktracker/internal/modules/pomodoro/dto"
	taskdto "tasktracker/internal/modules/task/dto"
	"tasktracker/internal/platform/clock"
	"tasktracker/internal/ui/components"
	"tasktracker/internal/ui/theme"
	focusview "tasktracker/internal/ui/views/focus"
	tasksview "tasktracker/internal/ui/views/tasks"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.

type taskPort interface {
	Add(ctx context.Context, text string, priority int, deadline string, now time.Time) (taskdto.TaskOutput, error)
	Toggle(ctx context.Context, id string) (taskdto.ToggleOutput, error)
	Delete(ctx context.Context, id string) error
	SetPriority(ctx context.Context, id string, priority int) (taskdto.TaskOutput, error)
	SetDeadline(ctx context.Context, id, value string, now time.Time) (taskdto.TaskOutput, error)
	List(ctx context.Context, sort string) (taskdto.ListOutput, error)
}

type countdownPort interface {
	SetDeadline(ctx context.Context, value string) (countdowndto.DeadlineOutput, error)
	ResetDeadline(ctx context.Context) error
	Status(ctx context.Context) countdowndto.StatusOutput
}

type pomodoroPort interface {
	Configure(ctx context.Context, workMinutes, restMinutes int) (pomodorodto.SnapshotOutput, error)
	Toggle(ctx context.Context) pomodorodto.SnapshotOutput
	Reset(ctx context.Context) pomodorodto.SnapshotOutput
	Tick(ctx context.Context) pomodorodto.SnapshotOutput
	SetFocus(ctx context.Context, enabled bool) pomodorodto.SnapshotOutput
	SwitchTo(ctx context.Context, phase string) (pomodorodto.SnapshotOutput, error)
	Statistics(ctx context.Context) pomodorodto.StatisticsOutput
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabTasks tabID = iota
	tabFocus
	tabCount
)

var tabLabels = [tabCount]string{"Tasks", "Focus"}

var sortModes = []string{"", "priority", "deadline"}

// ─── async messages ───────────────────────────────────────────────────────────

type tickMsg time.Time

type refreshedMsg struct {
	listing taskdto.ListOutput
	status  countdowndto.StatusOutput
	snap    pomodorodto.SnapshotOutput
	stats   pomodorodto.StatisticsOutput
	now     time.Time
	err     error
}

// actionDoneMsg reports the outcome of a user action; a refresh follows it.
type actionDoneMsg struct {
	status string
	err    error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Toggle  key.Binding
	Delete  key.Binding
	Pomo    key.Binding
	Sort    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Toggle:  key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle task")),
		Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete task")),
		Pomo:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "start/pause pomodoro")),
		Sort:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "cycle task order")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Toggle, k.Delete, k.Sort},
		{k.Pomo},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It polls the countdown, the task list
// and the pomodoro cycle on a fixed interval and routes user actions back to
// the ports. Rendering is delegated to sub-views.
type Model struct {
	tasks     taskPort
	countdown countdownPort
	pomodoro  pomodoroPort
	clock     clock.Clock
	interval  time.Duration

	tasksView tasksview.Model
	focusView focusview.Model

	activeTab tabID
	sortMode  int
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(tasks taskPort, countdown countdownPort, pomodoro pomodoroPort, clk clock.Clock, interval time.Duration) Model {
	if clk == nil {
		clk = clock.SystemClock{}
	}
	if interval <= 0 {
		interval = time.Second
	}
	return Model{
		tasks:     tasks,
		countdown: countdown,
		pomodoro:  pomodoro,
		clock:     clk,
		interval:  interval,
		tasksView: tasksview.New(),
		focusView: focusview.New(),
		keys:      defaultKeys(),
		help:      help.New(),
		palette:   components.NewPalette(),
		status:    "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(), m.tickCmd())
}

// ─── update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while it is visible.
	if m.palette.Visible() {
		switch msg.(type) {
		case tea.KeyMsg:
			var cmd tea.Cmd
			m.palette, cmd = m.palette.Update(msg)
			return m, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.palette.SetWidth(msg.Width)
		m.propagateSize()
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.refreshCmd(), m.tickCmd())

	case refreshedMsg:
		if msg.err != nil {
			m.status = "refresh: " + msg.err.Error()
		}
		cmd := m.tasksView.SetData(msg.listing, msg.status)
		m.focusView.SetSnapshot(msg.snap, msg.stats, msg.now)
		return m, cmd

	case actionDoneMsg:
		if msg.err != nil {
			m.status = "error: " + msg.err.Error()
		} else if msg.status != "" {
			m.status = msg.status
		}
		return m, m.refreshCmd()

	case tasksview.ToggleRequestMsg:
		return m, m.toggleTaskCmd(msg.ID)

	case tasksview.DeleteRequestMsg:
		return m, m.deleteTaskCmd(msg.ID)

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to the task list while its filter is being typed.
		if m.activeTab == tabTasks && m.tasksView.Filtering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			cmds = append(cmds, m.palette.Open())
			return m, tea.Batch(cmds...)
		case "s":
			if m.activeTab == tabTasks {
				m.sortMode = (m.sortMode + 1) % len(sortModes)
				m.status = "order: " + sortLabel(sortModes[m.sortMode])
				return m, m.refreshCmd()
			}
		case "p":
			return m, m.actionCmd(func(ctx context.Context) (string, error) {
				snap := m.pomodoro.Toggle(ctx)
				if snap.IsRunning {
					return "pomodoro running", nil
				}
				return "pomodoro paused", nil
			})
		}
	}

	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabTasks:
		m.tasksView, tabCmd = m.tasksView.Update(msg)
	case tabFocus:
		m.focusView, tabCmd = m.focusView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()

	contentH := m.height - lipgloss.Height(tabBar) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabTasks:
		return m.tasksView.View()
	case tabFocus:
		return m.focusView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "tasktracker  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if toast := m.focusView.Toast(); toast != "" && m.activeTab != tabFocus {
		left = theme.Good.Render("● "+toast) + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  p:pomodoro  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), parts[0]))

	switch parts[0] {
	case "task:add":
		priority := 0
		text := rest
		if len(parts) >= 3 {
			if p, err := strconv.Atoi(parts[1]); err == nil {
				priority = p
				text = strings.TrimSpace(strings.TrimPrefix(rest, parts[1]))
			}
		}
		if text == "" {
			m.status = "usage: task:add [1-5] <text>"
			return m, nil
		}
		m.activeTab = tabTasks
		return m, m.actionCmd(func(ctx context.Context) (string, error) {
			out, err := m.tasks.Add(ctx, text, priority, "", m.clock.Now())
			if err != nil {
				return "", err
			}
			return "added " + out.ID, nil
		})

	case "task:done":
		if len(parts) < 2 {
			m.status = "usage: task:done <id>"
			return m, nil
		}
		return m, m.toggleTaskCmd(parts[1])

	case "task:delete":
		if len(parts) < 2 {
			m.status = "usage: task:delete <id>"
			return m, nil
		}
		return m, m.deleteTaskCmd(parts[1])

	case "task:priority":
		if len(parts) < 3 {
			m.status = "usage: task:priority <id> <1-5>"
			return m, nil
		}
		priority, err := strconv.Atoi(parts[2])
		if err != nil {
			m.status = "invalid priority"
			return m, nil
		}
		id := parts[1]
		return m, m.actionCmd(func(ctx context.Context) (string, error) {
			out, err := m.tasks.SetPriority(ctx, id, priority)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%s priority %d", out.ID, out.Priority), nil
		})

	case "task:due":
		if len(parts) < 3 {
			m.status = "usage: task:due <id> <90m|rfc3339|none>"
			return m, nil
		}
		id, value := parts[1], parts[2]
		return m, m.actionCmd(func(ctx context.Context) (string, error) {
			out, err := m.tasks.SetDeadline(ctx, id, value, m.clock.Now())
			if err != nil {
				return "", err
			}
			if out.Deadline == nil {
				return out.ID + " deadline cleared", nil
			}
			return out.ID + " due " + out.Deadline.Local().Format(time.Kitchen), nil
		})

	case "deadline":
		if rest == "" {
			m.status = "usage: deadline <+15 min|end of day|h:mm AM>"
			return m, nil
		}
		return m, m.actionCmd(func(ctx context.Context) (string, error) {
			out, err := m.countdown.SetDeadline(ctx, rest)
			if err != nil {
				return "", err
			}
			return "deadline " + out.Display, nil
		})

	case "deadline:reset":
		return m, m.actionCmd(func(ctx context.Context) (string, error) {
			if err := m.countdown.ResetDeadline(ctx); err != nil {
				return "", err
			}
			return "deadline cleared", nil
		})

	case "pomo:start", "pomo:pause":
		want := parts[0] == "pomo:start"
		return m, m.actionCmd(func(ctx context.Context) (string, error) {
			snap := m.pomodoro.Tick(ctx)
			if snap.IsRunning != want {
				snap = m.pomodoro.Toggle(ctx)
			}
			if snap.IsRunning {
				return "pomodoro running", nil
			}
			return "pomodoro paused", nil
		})

	case "pomo:reset":
		return m, m.actionCmd(func(ctx context.Context) (string, error) {
			m.pomodoro.Reset(ctx)
			return "pomodoro reset", nil
		})

	case "pomo:config":
		if len(parts) < 3 {
			m.status = "usage: pomo:config <work> <rest>"
			return m, nil
		}
		work, errW := strconv.Atoi(parts[1])
		brk, errR := strconv.Atoi(parts[2])
		if errW != nil || errR != nil {
			m.status = "durations must be whole minutes"
			return m, nil
		}
		return m, m.actionCmd(func(ctx context.Context) (string, error) {
			if _, err := m.pomodoro.Configure(ctx, work, brk); err != nil {
				return "", err
			}
			return fmt.Sprintf("pomodoro %d/%d min", work, brk), nil
		})

	case "pomo:focus":
		if len(parts) < 2 || (parts[1] != "on" && parts[1] != "off") {
			m.status = "usage: pomo:focus <on|off>"
			return m, nil
		}
		on := parts[1] == "on"
		return m, m.actionCmd(func(ctx context.Context) (string, error) {
			m.pomodoro.SetFocus(ctx, on)
			return "focus mode " + parts[1], nil
		})

	case "pomo:switch":
		if len(parts) < 2 {
			m.status = "usage: pomo:switch <work|rest>"
			return m, nil
		}
		phase := parts[1]
		return m, m.actionCmd(func(ctx context.Context) (string, error) {
			snap, err := m.pomodoro.SwitchTo(ctx, phase)
			if err != nil {
				return "", err
			}
			return "switched to " + snap.Phase, nil
		})

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.tasksView, _ = m.tasksView.Update(sz)
	m.focusView, _ = m.focusView.Update(sz)
}

func sortLabel(mode string) string {
	if mode == "" {
		return "added"
	}
	return mode
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		out := refreshedMsg{
			status: m.countdown.Status(ctx),
			snap:   m.pomodoro.Tick(ctx),
			stats:  m.pomodoro.Statistics(ctx),
			now:    m.clock.Now(),
		}
		out.listing, out.err = m.tasks.List(ctx, sortModes[m.sortMode])
		return out
	}
}

func (m Model) actionCmd(fn func(ctx context.Context) (string, error)) tea.Cmd {
	return func() tea.Msg {
		status, err := fn(context.Background())
		return actionDoneMsg{status: status, err: err}
	}
}

func (m Model) toggleTaskCmd(id string) tea.Cmd {
	return m.actionCmd(func(ctx context.Context) (string, error) {
		out, err := m.tasks.Toggle(ctx, id)
		if err != nil {
			return "", err
		}
		switch {
		case out.AllDone:
			return "All done! Every task is complete.", nil
		case out.NewFastest:
			return fmt.Sprintf("new fastest time for %q: %s", out.Task.Text, out.Task.LapDisplay), nil
		case out.Task.Completed:
			return fmt.Sprintf("completed %q in %s", out.Task.Text, out.Task.LapDisplay), nil
		default:
			return fmt.Sprintf("reopened %q", out.Task.Text), nil
		}
	})
}

func (m Model) deleteTaskCmd(id string) tea.Cmd {
	return m.actionCmd(func(ctx context.Context) (string, error) {
		if err := m.tasks.Delete(ctx, id); err != nil {
			return "", err
		}
		return "deleted " + id, nil
	})
}
