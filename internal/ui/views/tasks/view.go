package tasks

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	countdowndto "tasktracker/internal/modules/countdown/dto"
	taskdto "tasktracker/internal/modules/task/dto"
	"tasktracker/internal/platform/timefmt"
	"tasktracker/internal/ui/theme"
)

// ToggleRequestMsg asks the root model to flip a task's completed flag.
type ToggleRequestMsg struct{ ID string }

// DeleteRequestMsg asks the root model to delete a task.
type DeleteRequestMsg struct{ ID string }

type taskItem struct {
	task taskdto.TaskOutput
}

func (i taskItem) Title() string {
	box := "[ ]"
	if i.task.Completed {
		box = "[x]"
	}
	return box + " " + i.task.Text
}

func (i taskItem) Description() string {
	parts := []string{fmt.Sprintf("P%d", i.task.Priority), i.task.Age}
	if i.task.Completed && i.task.LapDisplay != "" {
		parts = append(parts, "lap "+i.task.LapDisplay)
	}
	if i.task.Deadline != nil {
		due := "due " + timefmt.ClockTime(i.task.Deadline.Local())
		if i.task.Overdue {
			due += " (overdue)"
		}
		parts = append(parts, due)
	}
	return strings.Join(parts, " · ")
}

func (i taskItem) FilterValue() string { return i.task.Text }

type Model struct {
	list    list.Model
	listing taskdto.ListOutput
	status  countdowndto.StatusOutput
	loaded  bool
	width   int
	height  int
}

func New() Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Tasks"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	return Model{list: l}
}

// SetData replaces the rendered task list and countdown status.
func (m *Model) SetData(listing taskdto.ListOutput, status countdowndto.StatusOutput) tea.Cmd {
	m.listing = listing
	m.status = status
	m.loaded = true
	items := make([]list.Item, len(listing.Tasks))
	for i, task := range listing.Tasks {
		items[i] = taskItem{task: task}
	}
	return m.list.SetItems(items)
}

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, max(msg.Height-lipgloss.Height(m.header()), 3))
		return m, nil
	case tea.KeyMsg:
		if m.Filtering() {
			break
		}
		selected, ok := m.list.SelectedItem().(taskItem)
		switch msg.String() {
		case " ", "x":
			if ok {
				id := selected.task.ID
				return m, func() tea.Msg { return ToggleRequestMsg{ID: id} }
			}
			return m, nil
		case "d":
			if ok {
				id := selected.task.ID
				return m, func() tea.Msg { return DeleteRequestMsg{ID: id} }
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left, m.header(), m.list.View())
}

func (m Model) header() string {
	if !m.loaded {
		return theme.Muted.Render("loading…")
	}
	remaining := theme.Title.Render("Remaining ") + renderRemaining(m.status)
	spent := theme.Title.Render("Spent ") + timefmt.Countdown(m.status.SpentSeconds)
	line := remaining + "   " + spent
	if m.status.HasDeadline {
		line += theme.Muted.Render("   until " + m.status.DeadlineDisplay)
	}

	lines := []string{line}
	switch {
	case m.listing.AllDone:
		lines = append(lines, theme.Good.Render("All done! Every task is complete."))
	case m.listing.Current != nil:
		lines = append(lines, theme.Muted.Render("Now: ")+m.listing.Current.Text)
	}
	if n := len(m.listing.Overdue); n > 0 {
		lines = append(lines, theme.Hot.Render(fmt.Sprintf("%d overdue", n)))
	}
	return strings.Join(lines, "\n") + "\n"
}

func renderRemaining(status countdowndto.StatusOutput) string {
	text := timefmt.Countdown(status.RemainingSeconds)
	switch {
	case status.TimesUp:
		return theme.Alert.Render("TIME'S UP")
	case status.LowTime:
		return theme.Hot.Render(text)
	default:
		return text
	}
}
