package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	hclog "github.com/hashicorp/go-hclog"

	countdowninadapter "tasktracker/internal/modules/countdown/adapter/in"
	countdownservice "tasktracker/internal/modules/countdown/service"
	countdownusecase "tasktracker/internal/modules/countdown/usecase"
	pomodoroinadapter "tasktracker/internal/modules/pomodoro/adapter/in"
	pomodorooutadapter "tasktracker/internal/modules/pomodoro/adapter/out"
	pomodorodomain "tasktracker/internal/modules/pomodoro/domain"
	pomodoroservice "tasktracker/internal/modules/pomodoro/service"
	pomodorousecase "tasktracker/internal/modules/pomodoro/usecase"
	taskinadapter "tasktracker/internal/modules/task/adapter/in"
	taskoutadapter "tasktracker/internal/modules/task/adapter/out"
	taskservice "tasktracker/internal/modules/task/service"
	taskusecase "tasktracker/internal/modules/task/usecase"
	"tasktracker/internal/platform/clock"
	"tasktracker/internal/platform/config"
	"tasktracker/internal/platform/id"
	"tasktracker/internal/platform/sqlitedb"
	"tasktracker/internal/server"
	uiapp "tasktracker/internal/ui/app"
)

type App struct {
	Config       config.Config
	Clock        clock.Clock
	Logger       hclog.Logger
	CountdownCLI countdowninadapter.CLIHandler
	TaskCLI      taskinadapter.CLIHandler
	PomodoroCLI  pomodoroinadapter.CLIHandler
	Plugins      *pomodorooutadapter.PluginNotifier
	Server       *server.Server

	db           *sql.DB
	stopSessions context.CancelFunc
	sessions     *pomodorousecase.Dispatcher
}

func New(ctx context.Context, cfg config.Config, logger hclog.Logger) (*App, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	clk := clock.SystemClock{}

	db, err := sqlitedb.Open(ctx, cfg.Storage.DBPath)
	if err != nil {
		return nil, err
	}
	app, err := wire(ctx, cfg, clk, db, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func wire(ctx context.Context, cfg config.Config, clk clock.Clock, db *sql.DB, logger hclog.Logger) (*App, error) {
	countdownUC := countdownusecase.NewInteractor(
		countdownservice.NewClockService(clk, countdownservice.Settings{
			LowTime: cfg.LowTimeThreshold(),
			Grace:   cfg.DeadlineGrace(),
		}),
		logger.Named("countdown"),
	)

	taskStore, err := taskoutadapter.NewSQLiteTaskStore(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("new task store: %w", err)
	}
	taskLog, err := taskoutadapter.NewSQLiteTaskLog(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("new task log: %w", err)
	}
	taskUC := taskusecase.NewInteractor(
		taskservice.NewTaskService(clk, id.RandomHex{}, taskStore, taskLog),
		countdownUC,
		logger.Named("task"),
	)

	recorder, err := pomodorooutadapter.NewSQLiteSessionRecorder(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("new session recorder: %w", err)
	}
	plugins := pomodorooutadapter.NewPluginNotifier(cfg.Notifier.Plugins, logger.Named("notifier"))
	notifiers := pomodorooutadapter.MultiNotifier{pomodorooutadapter.NewLogNotifier(logger.Named("pomodoro"))}
	if len(cfg.Notifier.Plugins) > 0 {
		notifiers = append(notifiers, plugins)
	}
	work, rest, err := pomodorodomain.SessionLengths(cfg.Pomodoro.WorkMinutes, cfg.Pomodoro.RestMinutes)
	if err != nil {
		return nil, fmt.Errorf("pomodoro config: %w", err)
	}
	sessions := pomodorousecase.NewDispatcher(recorder, notifiers, logger.Named("sessions"), 0)
	pomodoroUC := pomodorousecase.NewInteractor(
		pomodoroservice.NewCycleService(clk, work, rest),
		recorder,
		sessions,
		logger.Named("pomodoro"),
	)
	sessionCtx, stopSessions := context.WithCancel(context.WithoutCancel(ctx))
	go sessions.Run(sessionCtx)

	srv := server.New(cfg.Server.Addr, logger.Named("http"),
		countdowninadapter.NewHTTPHandler(countdownUC),
		taskinadapter.NewHTTPHandler(taskUC),
		pomodoroinadapter.NewHTTPHandler(pomodoroUC),
	)

	return &App{
		Config:       cfg,
		Clock:        clk,
		Logger:       logger,
		CountdownCLI: countdowninadapter.NewCLIHandler(countdownUC),
		TaskCLI:      taskinadapter.NewCLIHandler(taskUC),
		PomodoroCLI:  pomodoroinadapter.NewCLIHandler(pomodoroUC),
		Plugins:      plugins,
		Server:       srv,
		db:           db,
		stopSessions: stopSessions,
		sessions:     sessions,
	}, nil
}

// Close stops the session dispatcher, letting it record what is queued,
// then closes the database.
func (a *App) Close() error {
	if a.stopSessions != nil {
		a.stopSessions()
		<-a.sessions.Done()
	}
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func RunServe(ctx context.Context, app *App) error {
	return app.Server.Run(ctx)
}

// RunTUI blocks until the user quits. With serve set the HTTP API runs
// alongside it against the same state.
func RunTUI(ctx context.Context, app *App, serve bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	serveErr := make(chan error, 1)
	if serve {
		go func() { serveErr <- app.Server.Run(ctx) }()
	}

	model := uiapp.NewModel(app.TaskCLI, app.CountdownCLI, app.PomodoroCLI, app.Clock, app.Config.TickInterval())
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	cancel()
	if serve {
		if serr := <-serveErr; serr != nil && err == nil {
			err = serr
		}
	}
	return err
}
