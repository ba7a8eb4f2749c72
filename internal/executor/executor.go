package executor

import (
	"context"
	"fmt"

	"github.com/vk/taskgrid/internal/config"
	"github.com/vk/taskgrid/internal/dag"
	"go.opentelemetry.io/otel/trace"
)

// Executor runs tasks from a loaded model.
type Executor struct {
	model     *config.Model
	eval      config.Evaluator
	graph     *dag.Graph
	runner    ProcessRunner
	observers []Observer
	tracer    trace.Tracer
}

// New builds the dependency graph of the model and returns an Executor for
// it. Dependency edges are added in declaration order.
func New(model *config.Model, eval config.Evaluator, opts ...Option) (*Executor, error) {
	if model == nil || eval == nil {
		return nil, fmt.Errorf("executor: model and evaluator are required")
	}

	graph := dag.New()
	for _, name := range model.Order {
		graph.AddNode(name)
	}
	for _, name := range model.Order {
		for _, dep := range model.Tasks[name].DependsOn {
			if err := graph.AddEdge(dep.Task, name); err != nil {
				return nil, fmt.Errorf("task %q: %w", name, err)
			}
		}
	}

	e := &Executor{
		model:  model,
		eval:   eval,
		graph:  graph,
		runner: NewOSRunner(),
		tracer: defaultTracer(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Run resolves target with the given parameters and executes the resulting
// plan. Nothing is started unless the whole plan resolves.
func (e *Executor) Run(ctx context.Context, target string, params map[string]string) error {
	plan, err := e.Plan(ctx, target, params)
	if err != nil {
		return err
	}
	return e.Execute(ctx, plan)
}
