package executor

import (
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Observer receives task lifecycle events. Calls are made sequentially from
// the executor's goroutine.
type Observer interface {
	TaskStarted(task string)
	TaskFinished(task string, elapsed time.Duration, err error)
}

// Option configures an Executor.
type Option func(*Executor)

// WithRunner replaces the process runner. The default starts real processes
// attached to the caller's console.
func WithRunner(r ProcessRunner) Option {
	return func(e *Executor) {
		if r != nil {
			e.runner = r
		}
	}
}

// WithObserver attaches an observer to receive task lifecycle events.
func WithObserver(o Observer) Option {
	return func(e *Executor) {
		if o != nil {
			e.observers = append(e.observers, o)
		}
	}
}

// WithTracerProvider sets the provider used for run and task spans. The
// global provider is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(e *Executor) {
		if tp != nil {
			e.tracer = tp.Tracer(tracerName)
		}
	}
}

const tracerName = "github.com/vk/taskgrid/internal/executor"

func defaultTracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// started and finished fan events out to every observer.
func (e *Executor) started(task string) {
	for _, o := range e.observers {
		o.TaskStarted(task)
	}
}

func (e *Executor) finished(task string, elapsed time.Duration, err error) {
	for _, o := range e.observers {
		o.TaskFinished(task, elapsed, err)
	}
}
