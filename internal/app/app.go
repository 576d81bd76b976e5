package app

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/tastectl/cli/internal/config"
	"github.com/tastectl/cli/internal/gateway"
	"github.com/tastectl/cli/internal/session"
	"github.com/tastectl/cli/internal/storage"
	"github.com/tastectl/cli/internal/theme"
	"github.com/tastectl/cli/internal/ui"
)

// App wires the durable storage, session store, theme store and request
// gateway together for command handlers. Commands construct one App per
// invocation instead of reaching for package singletons, so tests can
// build the same graph around fakes.
type App struct {
	Config  *config.Config
	Storage storage.Store
	Session *session.Store
	Theme   *theme.Store
	Gateway *gateway.Client
	Console *ui.Console
	Logger  zerolog.Logger
}

// New builds the component graph from the loaded configuration.
func New() (*App, error) {
	cfg := config.Get()

	statePath, err := storage.DefaultPath()
	if err != nil {
		return nil, err
	}
	store := storage.NewFileStore(statePath)
	sess := session.NewStore(store)
	th := theme.NewStore(store)
	console := ui.NewConsole(cfg.Format.Colors)
	logger := NewLogger()

	client := gateway.NewClient(cfg.Server.URL, sess, gateway.Hooks{
		Notifier:  console,
		Navigator: console,
		Loader:    console,
	}, logger)
	if d, err := time.ParseDuration(cfg.Server.Timeout); err == nil && d > 0 {
		client.HTTPClient.Timeout = d
	}

	return &App{
		Config:  cfg,
		Storage: store,
		Session: sess,
		Theme:   th,
		Gateway: client,
		Console: console,
		Logger:  logger,
	}, nil
}

// NewLogger creates the stderr console logger. Debug mode lowers the level
// to Debug so gateway request logs become visible.
func NewLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if config.IsDebug() {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()
}

// Close drains side effects still in flight before the process exits. A
// 401 schedules its login redirect on a timer; without this wait the
// command would return and the process would exit before the redirect
// hint ever fires.
func (a *App) Close() {
	a.Gateway.WaitForRedirect()
}

// RequireLogin returns an error unless the session is authenticated.
func (a *App) RequireLogin() error {
	if !a.Session.Snapshot().IsLoggedIn() {
		return fmt.Errorf("not logged in; run 'tastectl auth login' first")
	}
	return nil
}
