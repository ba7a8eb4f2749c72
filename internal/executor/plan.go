package executor

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/vk/taskgrid/internal/config"
	"github.com/vk/taskgrid/internal/ctxlog"
	"github.com/vk/taskgrid/internal/dag"
)

// Step is one task of a plan with its parameters bound and its commands
// rendered.
type Step struct {
	Task     string                    `yaml:"task"`
	Params   map[string]string         `yaml:"params,omitempty"`
	Commands []*config.RenderedCommand `yaml:"commands,omitempty"`
}

// Plan is the resolved execution order for a target: dependencies before
// dependents, siblings left to right as declared, each task once.
type Plan struct {
	Target string  `yaml:"target"`
	Steps  []*Step `yaml:"steps"`
}

// Tasks returns the task names of the plan in execution order.
func (p *Plan) Tasks() []string {
	names := make([]string, 0, len(p.Steps))
	for _, s := range p.Steps {
		names = append(names, s.Task)
	}
	return names
}

// Plan resolves target into an execution plan without starting anything.
//
// Every task of the chain takes each parameter from, in order: the binding on
// the edge that first reaches it, the invocation value of the same name, its
// own default. A task reached a second time keeps the parameters of its
// first resolution. An invocation value that no task of the chain declares
// is rejected.
func (e *Executor) Plan(ctx context.Context, target string, params map[string]string) (*Plan, error) {
	logger := ctxlog.FromContext(ctx)

	if !e.graph.Has(target) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTask, target)
	}

	chain, err := e.chain(target)
	if err != nil {
		return nil, err
	}
	if err := checkInvocation(e.model, target, chain, params); err != nil {
		return nil, err
	}

	plan := &Plan{Target: target}
	bound := make(map[string]map[string]string)

	visit := func(id, parent string) error {
		var edge map[string]string
		if parent != "" {
			var err error
			edge, err = e.forward(ctx, e.model.Tasks[parent], id, bound[parent])
			if err != nil {
				return err
			}
		}
		values, err := bindParams(e.model.Tasks[id], edge, params)
		if err != nil {
			return err
		}
		bound[id] = values
		return nil
	}

	leave := func(id string) error {
		task := e.model.Tasks[id]
		step := &Step{Task: id, Params: bound[id]}
		for i, action := range task.Actions {
			cmd, err := e.eval.Command(ctx, action, bound[id])
			if err != nil {
				return fmt.Errorf("task %q, command #%d: %w", id, i+1, err)
			}
			step.Commands = append(step.Commands, cmd)
		}
		plan.Steps = append(plan.Steps, step)
		return nil
	}

	if err := e.graph.Walk(target, visit, leave); err != nil {
		return nil, e.walkError(err)
	}

	logger.Debug("Plan resolved.", "target", target, "tasks", plan.Tasks())
	return plan, nil
}

// chain returns the tasks reachable from target, dependencies first.
func (e *Executor) chain(target string) ([]string, error) {
	var names []string
	err := e.graph.Walk(target, nil, func(id string) error {
		names = append(names, id)
		return nil
	})
	if err != nil {
		return nil, e.walkError(err)
	}
	return names, nil
}

func (e *Executor) walkError(err error) error {
	if errors.Is(err, dag.ErrNodeNotFound) {
		return fmt.Errorf("%w: %v", ErrUnknownTask, err)
	}
	return err
}

// checkInvocation rejects invocation parameters that no task of the chain
// declares. Names are checked in sorted order.
func checkInvocation(model *config.Model, target string, chain []string, params map[string]string) error {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		declared := false
		for _, id := range chain {
			if model.Tasks[id].Param(name) != nil {
				declared = true
				break
			}
		}
		if !declared {
			return &ParamError{Kind: ErrUnknownParameter, Task: target, Param: name}
		}
	}
	return nil
}

// forward evaluates the bindings on the edge parent -> child against the
// parent's parameters.
func (e *Executor) forward(ctx context.Context, parent *config.Task, child string, parentParams map[string]string) (map[string]string, error) {
	dep := parent.Dependency(child)
	if dep == nil {
		return nil, fmt.Errorf("task %q has no edge to %q", parent.Name, child)
	}
	values := make(map[string]string, len(dep.Bindings))
	for _, name := range dep.BindingNames() {
		v, err := e.eval.String(ctx, dep.Bindings[name], parentParams)
		if err != nil {
			return nil, fmt.Errorf("task %q, binding %s.%s: %w", parent.Name, child, name, err)
		}
		values[name] = v
	}
	return values, nil
}

// bindParams resolves every declared parameter of task from the edge
// bindings, then the invocation values, then the default.
func bindParams(task *config.Task, edge, invocation map[string]string) (map[string]string, error) {
	names := make([]string, 0, len(edge))
	for name := range edge {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if task.Param(name) == nil {
			return nil, &ParamError{Kind: ErrUnknownParameter, Task: task.Name, Param: name}
		}
	}

	values := make(map[string]string, len(task.Params))
	for _, p := range task.Params {
		if v, ok := edge[p.Name]; ok {
			values[p.Name] = v
			continue
		}
		if v, ok := invocation[p.Name]; ok {
			values[p.Name] = v
			continue
		}
		if !p.Required() {
			values[p.Name] = *p.Default
			continue
		}
		return nil, &ParamError{Kind: ErrMissingParameter, Task: task.Name, Param: p.Name}
	}
	return values, nil
}
