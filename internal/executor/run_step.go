package executor

import (
	"context"
	"time"

	"github.com/vk/taskgrid/internal/ctxlog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Execute runs the steps of a plan one after another and stops at the first
// failure. Partially produced artifacts are left in place.
func (e *Executor) Execute(ctx context.Context, plan *Plan) error {
	logger := ctxlog.FromContext(ctx)
	ctx, span := e.tracer.Start(ctx, "run "+plan.Target, trace.WithAttributes(
		attribute.String("taskgrid.target", plan.Target),
		attribute.Int("taskgrid.steps", len(plan.Steps)),
	))
	defer span.End()

	logger.Info("🚀 Starting run.", "target", plan.Target, "tasks", plan.Tasks())
	for _, step := range plan.Steps {
		if err := e.runStep(ctx, step); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
	}
	logger.Info("🏁 Run finished.", "target", plan.Target)
	return nil
}

// runStep executes every command of a single task in order.
func (e *Executor) runStep(ctx context.Context, step *Step) error {
	logger := ctxlog.FromContext(ctx).With("task", step.Task)
	ctx, span := e.tracer.Start(ctx, "task "+step.Task, trace.WithAttributes(
		attribute.String("taskgrid.task", step.Task),
	))
	defer span.End()

	logger.Info("▶️ Running task.", "commands", len(step.Commands))
	e.started(step.Task)
	start := time.Now()

	for i, cmd := range step.Commands {
		logger.Debug("Starting command.", "index", i, "args", cmd.Args, "dir", cmd.Dir)
		code, err := e.runner.Run(ctx, cmd)
		if err == nil && code == 0 {
			continue
		}
		if code == 0 {
			code = 1
		}
		actionErr := &ActionError{Task: step.Task, ExitCode: code, Args: cmd.Args, Err: err}
		span.SetAttributes(attribute.Int("taskgrid.exit_code", code))
		span.RecordError(actionErr)
		span.SetStatus(codes.Error, actionErr.Error())
		logger.Error("❌ Task failed.", "exit_code", code, "error", actionErr)
		e.finished(step.Task, time.Since(start), actionErr)
		return actionErr
	}

	elapsed := time.Since(start)
	span.SetAttributes(attribute.Int("taskgrid.exit_code", 0))
	logger.Info("✅ Finished task.", "duration", elapsed)
	e.finished(step.Task, elapsed, nil)
	return nil
}
