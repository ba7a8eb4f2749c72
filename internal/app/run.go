package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vk/taskgrid/internal/ctxlog"
	"github.com/vk/taskgrid/internal/executor"
	"github.com/vk/taskgrid/internal/telemetry"
	"gopkg.in/yaml.v3"
)

// shutdownTimeout bounds flushing telemetry after the run.
const shutdownTimeout = 5 * time.Second

// Run executes the main application logic based on the provided configuration.
func (a *App) Run(ctx context.Context, cfg *Config) (err error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if cfg.List {
		return a.List()
	}

	opts := []executor.Option{executor.WithRunner(a.runner)}

	if cfg.TraceFile != "" {
		tp, terr := telemetry.NewFileTracer(cfg.TraceFile, a.runID)
		if terr != nil {
			return terr
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer cancel()
			if serr := tp.Shutdown(sctx); serr != nil {
				a.logger.Warn("Failed to flush traces.", "error", serr)
			}
		}()
		opts = append(opts, executor.WithTracerProvider(tp))
	}

	var metrics *telemetry.Metrics
	if cfg.MetricsFile != "" && !cfg.DryRun {
		metrics = telemetry.NewMetrics()
		opts = append(opts, executor.WithObserver(metrics))
	}

	exec, err := executor.New(a.model, a.eval, opts...)
	if err != nil {
		return err
	}

	if cfg.DryRun {
		return a.dryRun(ctx, exec, cfg)
	}

	err = exec.Run(ctx, cfg.Task, cfg.Params)
	if metrics != nil {
		metrics.RunFinished(cfg.Task, time.Now(), err)
		if werr := metrics.WriteTextfile(cfg.MetricsFile); werr != nil {
			err = errors.Join(err, werr)
		}
	}
	if err != nil {
		return err
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// dryRun resolves the full plan and prints it as YAML without starting any
// process.
func (a *App) dryRun(ctx context.Context, exec *executor.Executor, cfg *Config) error {
	plan, err := exec.Plan(ctx, cfg.Task, cfg.Params)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(a.outW)
	enc.SetIndent(2)
	if err := enc.Encode(plan); err != nil {
		return fmt.Errorf("failed to write plan: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to write plan: %w", err)
	}
	a.logger.Info("Plan resolved, nothing was executed.", "target", plan.Target, "tasks", len(plan.Steps))
	return nil
}
