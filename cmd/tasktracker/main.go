package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"tasktracker/internal/bootstrap"
	"tasktracker/internal/client"
	pomodorodto "tasktracker/internal/modules/pomodoro/dto"
	taskinadapter "tasktracker/internal/modules/task/adapter/in"
	taskdto "tasktracker/internal/modules/task/dto"
	"tasktracker/internal/platform/clock"
	"tasktracker/internal/platform/config"
	"tasktracker/internal/platform/logging"
	"tasktracker/internal/platform/timefmt"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	logLevel   string
	addr       string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "tasktracker",
		Short:         "Deadline countdown, task list and pomodoro timer",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ~/.tasktracker/config.yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: trace|debug|info|warn|error")
	root.PersistentFlags().StringVar(&opts.addr, "addr", "", "server address (overrides server.addr)")

	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newTUICmd(opts))
	root.AddCommand(newTaskCmd(opts))
	root.AddCommand(newDeadlineCmd(opts))
	root.AddCommand(newPomoCmd(opts))
	root.AddCommand(newConfigCmd(opts))
	root.AddCommand(newNotifierCmd(opts))
	return root
}

func loadConfig(opts *rootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}
	return cfg, nil
}

func loadApp(ctx context.Context, opts *rootOptions, logOutput io.Writer) (*bootstrap.App, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.JSON, logOutput)
	return bootstrap.New(ctx, cfg, logger)
}

func remote(opts *rootOptions) (*client.Client, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	return client.New(cfg.Server.Addr), nil
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API in the foreground",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			app, err := loadApp(ctx, opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()
			return bootstrap.RunServe(ctx, app)
		},
	}
}

func newTUICmd(opts *rootOptions) *cobra.Command {
	var serve bool
	tui := &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			// The alternate screen owns the terminal, so logs go to a file.
			logPath := filepath.Join(filepath.Dir(cfg.Path), "tasktracker.log")
			if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
				return fmt.Errorf("create log directory: %w", err)
			}
			logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer logFile.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
			defer stop()
			app, err := bootstrap.New(ctx, cfg, logging.New(cfg.Log.Level, cfg.Log.JSON, logFile))
			if err != nil {
				return err
			}
			defer app.Close()
			return bootstrap.RunTUI(ctx, app, serve)
		},
	}
	tui.Flags().BoolVar(&serve, "serve", false, "also serve the HTTP API")
	return tui
}

// ─── task ────────────────────────────────────────────────────────────────────

func newTaskCmd(opts *rootOptions) *cobra.Command {
	task := &cobra.Command{Use: "task", Short: "Manage tasks on the running server"}

	var priority int
	var due string
	add := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deadline, err := taskinadapter.ParseTaskDeadline(due, clock.SystemClock{}.Now())
			if err != nil {
				return err
			}
			c, err := remote(opts)
			if err != nil {
				return err
			}
			out, err := c.AddTask(cmd.Context(), taskdto.AddTaskInput{
				Text:     strings.Join(args, " "),
				Priority: priority,
				Deadline: deadline,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %s (P%d) %s\n", out.ID, out.Priority, out.Text)
			return nil
		},
	}
	add.Flags().IntVar(&priority, "priority", 0, "priority 1 (highest) to 5, default 3")
	add.Flags().StringVar(&due, "due", "", "deadline as a duration (90m) or RFC 3339")

	var sortBy string
	list := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := remote(opts)
			if err != nil {
				return err
			}
			out, err := c.ListTasks(cmd.Context(), sortBy)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(out.Tasks) == 0 {
				_, _ = fmt.Fprintln(w, "no tasks")
				return nil
			}
			for _, t := range out.Tasks {
				printTask(w, t)
			}
			switch {
			case out.AllDone:
				_, _ = fmt.Fprintln(w, "all done!")
			case out.Current != nil:
				_, _ = fmt.Fprintf(w, "now: %s\n", out.Current.Text)
			}
			return nil
		},
	}

	list.Flags().StringVar(&sortBy, "sort", "", "order: priority|deadline (default insertion order)")

	done := &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle a task between done and open",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := remote(opts)
			if err != nil {
				return err
			}
			out, err := c.ToggleTask(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if !out.Task.Completed {
				_, _ = fmt.Fprintf(w, "reopened %s\n", out.Task.Text)
				return nil
			}
			_, _ = fmt.Fprintf(w, "completed %s in %s\n", out.Task.Text, out.Task.LapDisplay)
			if out.NewFastest {
				_, _ = fmt.Fprintln(w, "new fastest time!")
			}
			if out.AllDone {
				_, _ = fmt.Fprintln(w, "all done!")
			}
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := remote(opts)
			if err != nil {
				return err
			}
			if err := c.DeleteTask(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}

	prio := &cobra.Command{
		Use:   "priority <id> <1-5>",
		Short: "Change a task's priority",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("priority must be a number: %w", err)
			}
			c, err := remote(opts)
			if err != nil {
				return err
			}
			out, err := c.SetTaskPriority(cmd.Context(), args[0], value)
			if err != nil {
				return err
			}
			printTask(cmd.OutOrStdout(), out)
			return nil
		},
	}

	dueCmd := &cobra.Command{
		Use:   "due <id> <90m|rfc3339|none>",
		Short: "Set or clear a task's deadline",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var deadline *time.Time
			if !strings.EqualFold(args[1], "none") {
				parsed, err := taskinadapter.ParseTaskDeadline(args[1], clock.SystemClock{}.Now())
				if err != nil {
					return err
				}
				deadline = parsed
			}
			c, err := remote(opts)
			if err != nil {
				return err
			}
			out, err := c.SetTaskDeadline(cmd.Context(), args[0], deadline)
			if err != nil {
				return err
			}
			printTask(cmd.OutOrStdout(), out)
			return nil
		},
	}

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show completion statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := remote(opts)
			if err != nil {
				return err
			}
			out, err := c.TaskStats(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "total=%d completed=%d incomplete=%d overdue=%d rate=%.1f%%\n",
				out.Total, out.Completed, out.Incomplete, out.Overdue, out.CompletionRate)
			return nil
		},
	}

	logCmd := &cobra.Command{
		Use:   "log",
		Short: "Show the fastest completion time per task",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := remote(opts)
			if err != nil {
				return err
			}
			entries, err := c.TaskLog(cmd.Context())
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no completed tasks yet")
				return nil
			}
			for _, e := range entries {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", e.FastestDisplay, e.Text)
			}
			return nil
		},
	}

	task.AddCommand(add, list, done, del, prio, dueCmd, stats, logCmd)
	return task
}

func printTask(w io.Writer, t taskdto.TaskOutput) {
	box := "[ ]"
	if t.Completed {
		box = "[x]"
	}
	line := fmt.Sprintf("%s %s\tP%d\t%s", box, t.ID, t.Priority, t.Text)
	if t.Deadline != nil {
		line += "\tdue " + timefmt.ClockTime(t.Deadline.Local())
		if t.Overdue {
			line += " (overdue)"
		}
	}
	if t.Completed && t.LapDisplay != "" {
		line += "\tlap " + t.LapDisplay
	}
	if t.Age != "" {
		line += "\tadded " + t.Age
	}
	_, _ = fmt.Fprintln(w, line)
}

// ─── deadline ────────────────────────────────────────────────────────────────

func newDeadlineCmd(opts *rootOptions) *cobra.Command {
	deadline := &cobra.Command{Use: "deadline", Short: "Work-session countdown"}

	deadline.AddCommand(&cobra.Command{
		Use:   "set <+15 min|end of day|h:mm AM>",
		Short: "Set the countdown deadline",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := remote(opts)
			if err != nil {
				return err
			}
			out, err := c.SetDeadline(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deadline %s\n", out.Display)
			return nil
		},
	})

	deadline.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Clear the deadline and restart spent time",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := remote(opts)
			if err != nil {
				return err
			}
			if err := c.ResetDeadline(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "deadline cleared")
			return nil
		},
	})

	deadline.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show remaining and spent time",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := remote(opts)
			if err != nil {
				return err
			}
			out, err := c.Status(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "remaining=%s spent=%s state=%s\n",
				timefmt.Countdown(out.RemainingSeconds), timefmt.Countdown(out.SpentSeconds), out.State)
			switch {
			case out.TimesUp:
				_, _ = fmt.Fprintln(w, "time's up!")
			case out.LowTime:
				_, _ = fmt.Fprintln(w, "running low on time")
			}
			if out.HasDeadline {
				_, _ = fmt.Fprintf(w, "deadline %s\n", out.DeadlineDisplay)
			}
			return nil
		},
	})

	deadline.AddCommand(&cobra.Command{
		Use:   "options",
		Short: "List the deadline menu",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := remote(opts)
			if err != nil {
				return err
			}
			options, err := c.DeadlineOptions(cmd.Context())
			if err != nil {
				return err
			}
			for _, o := range options {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", o.Label, timefmt.ClockTime(o.At.Local()))
			}
			return nil
		},
	})
	return deadline
}

// ─── pomodoro ────────────────────────────────────────────────────────────────

func newPomoCmd(opts *rootOptions) *cobra.Command {
	pomo := &cobra.Command{Use: "pomo", Short: "Pomodoro work/rest cycle"}

	snapshot := func(name, short string, fn func(ctx context.Context, c *client.Client) (pomodorodto.SnapshotOutput, error)) *cobra.Command {
		return &cobra.Command{
			Use:   name,
			Short: short,
			RunE: func(cmd *cobra.Command, _ []string) error {
				c, err := remote(opts)
				if err != nil {
					return err
				}
				out, err := fn(cmd.Context(), c)
				if err != nil {
					return err
				}
				printSnapshot(cmd.OutOrStdout(), out)
				return nil
			},
		}
	}

	pomo.AddCommand(snapshot("status", "Show the current session", func(ctx context.Context, c *client.Client) (pomodorodto.SnapshotOutput, error) {
		snap, err := c.Pomodoro(ctx)
		return snap, err
	}))
	pomo.AddCommand(snapshot("start", "Start or resume the cycle", func(ctx context.Context, c *client.Client) (pomodorodto.SnapshotOutput, error) {
		snap, err := c.StartPomodoro(ctx)
		return snap, err
	}))
	pomo.AddCommand(snapshot("pause", "Pause the cycle", func(ctx context.Context, c *client.Client) (pomodorodto.SnapshotOutput, error) {
		snap, err := c.PausePomodoro(ctx)
		return snap, err
	}))
	pomo.AddCommand(snapshot("toggle", "Start when paused, pause when running", func(ctx context.Context, c *client.Client) (pomodorodto.SnapshotOutput, error) {
		snap, err := c.Pomodoro(ctx)
		if err != nil {
			return pomodorodto.SnapshotOutput{}, err
		}
		if snap.IsRunning {
			snap, err = c.PausePomodoro(ctx)
		} else {
			snap, err = c.StartPomodoro(ctx)
		}
		return snap, err
	}))
	pomo.AddCommand(snapshot("reset", "Stop and clear counters", func(ctx context.Context, c *client.Client) (pomodorodto.SnapshotOutput, error) {
		snap, err := c.ResetPomodoro(ctx)
		return snap, err
	}))

	pomo.AddCommand(&cobra.Command{
		Use:   "config <work-minutes> <rest-minutes>",
		Short: "Change session lengths",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			work, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("work minutes must be a number: %w", err)
			}
			rest, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("rest minutes must be a number: %w", err)
			}
			c, err := remote(opts)
			if err != nil {
				return err
			}
			snap, err := c.ConfigurePomodoro(cmd.Context(), work, rest)
			if err != nil {
				return err
			}
			printSnapshot(cmd.OutOrStdout(), snap)
			return nil
		},
	})

	pomo.AddCommand(&cobra.Command{
		Use:       "focus <on|off>",
		Short:     "Toggle focus mode",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := remote(opts)
			if err != nil {
				return err
			}
			snap, err := c.SetFocus(cmd.Context(), args[0] == "on")
			if err != nil {
				return err
			}
			printSnapshot(cmd.OutOrStdout(), snap)
			return nil
		},
	})

	pomo.AddCommand(&cobra.Command{
		Use:   "switch <work|rest>",
		Short: "Jump to a phase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := remote(opts)
			if err != nil {
				return err
			}
			snap, err := c.SwitchPhase(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printSnapshot(cmd.OutOrStdout(), snap)
			return nil
		},
	})

	pomo.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show session statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := remote(opts)
			if err != nil {
				return err
			}
			out, err := c.PomodoroStats(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "work=%d rest=%d total=%d focused=%dmin rested=%dmin productivity=%.1f%%\n",
				out.WorkSessions, out.RestSessions, out.TotalSessions, out.TotalWorkMinutes, out.TotalRestMinutes, out.ProductivityRatio)
			return nil
		},
	})

	var limit int
	history := &cobra.Command{
		Use:   "history",
		Short: "List recently completed sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := remote(opts)
			if err != nil {
				return err
			}
			items, err := c.PomodoroHistory(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no completed sessions")
				return nil
			}
			for _, item := range items {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n",
					item.Finished, item.EndedAt.Local().Format("2006-01-02 15:04"), timefmt.Lap(item.DurationSeconds))
			}
			return nil
		},
	}
	history.Flags().IntVar(&limit, "limit", 20, "number of sessions to show")
	pomo.AddCommand(history)
	return pomo
}

func printSnapshot(w io.Writer, snap pomodorodto.SnapshotOutput) {
	state := "stopped"
	switch {
	case snap.IsRunning:
		state = "running"
	case snap.IsPaused:
		state = "paused"
	}
	_, _ = fmt.Fprintf(w, "%s %s %s (%d/%d min) work=%d rest=%d focus=%t\n",
		snap.Phase, timefmt.Countdown(snap.RemainingSeconds), state, snap.WorkMinutes, snap.RestMinutes,
		snap.WorkSessionsCompleted, snap.RestSessionsCompleted, snap.FocusMode)
}

// ─── config / notifier ───────────────────────────────────────────────────────

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration file"}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if _, err := os.Stat(cfg.Path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", cfg.Path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("stat config: %w", err)
			}
			fresh := config.Default(filepath.Dir(cfg.Path))
			fresh.Path = cfg.Path
			if err := config.Save(fresh); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", fresh.Path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cfgCmd.AddCommand(initCmd)
	return cfgCmd
}

func newNotifierCmd(opts *rootOptions) *cobra.Command {
	notifier := &cobra.Command{Use: "notifier", Short: "Session-complete notifier plugins"}
	notifier.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Start each configured plugin once and print its metadata",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()
			if len(app.Config.Notifier.Plugins) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no notifier plugins configured")
				return nil
			}
			metas, err := app.Plugins.Check(cmd.Context())
			if err != nil {
				return err
			}
			for i, meta := range metas {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", meta.Name, meta.Version, app.Config.Notifier.Plugins[i])
			}
			return nil
		},
	})
	return notifier
}
