package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/vk/taskgrid/internal/config"
	"github.com/vk/taskgrid/internal/ctxlog"
	"github.com/vk/taskgrid/internal/executor"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	errW   io.Writer
	logger *slog.Logger
	runID  string
	model  *config.Model
	eval   config.Evaluator
	runner executor.ProcessRunner
}

// Option customizes an App.
type Option func(*App)

// WithRunner replaces the process runner, mainly for tests.
func WithRunner(r executor.ProcessRunner) Option {
	return func(a *App) { a.runner = r }
}

// NewApp is the constructor for the main application. It builds the App's
// own logger and loads the task files named by cfg. Logs go to errW;
// listings, plans and subprocess output go to outW.
func NewApp(outW, errW io.Writer, cfg *Config, loader config.Loader, opts ...Option) (*App, error) {
	runID := uuid.NewString()
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, errW).With("run_id", runID)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, eval, err := loader.Load(ctx, cfg.TaskPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load task files: %w", err)
	}
	logger.Debug("Task files loaded.", "path", cfg.TaskPath, "tasks", len(model.Order))

	runner := executor.NewOSRunner()
	runner.Stdout = outW
	runner.Stderr = errW

	a := &App{
		outW:   outW,
		errW:   errW,
		logger: logger,
		runID:  runID,
		model:  model,
		eval:   eval,
		runner: runner,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// RunID returns the identifier attached to every log record of this App.
func (a *App) RunID() string {
	return a.runID
}

// Model returns the loaded task model. This is primarily for testing.
func (a *App) Model() *config.Model {
	return a.model
}
