// This file contains the logic for translating decoded HCL blocks into the
// format-agnostic model defined in the config package.

package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/taskgrid/internal/config"
	"github.com/vk/taskgrid/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// paramRoot is the only variable namespace visible to task expressions.
const paramRoot = "param"

// translateTask converts a task block into the agnostic model, rejecting
// duplicates and references to parameters the task does not declare.
func (l *Loader) translateTask(ctx context.Context, b *taskBlock) (*config.Task, error) {
	logger := ctxlog.FromContext(ctx)

	task := &config.Task{
		Name:        b.Name,
		Description: b.Description,
	}

	for _, p := range b.Params {
		if task.Param(p.Name) != nil {
			return nil, fmt.Errorf("task %q declares parameter %q more than once", b.Name, p.Name)
		}
		task.Params = append(task.Params, &config.ParamDefinition{
			Name:        p.Name,
			Description: p.Description,
			Default:     p.Default,
		})
	}

	for _, d := range b.DependsOn {
		if task.Dependency(d.Task) != nil {
			return nil, fmt.Errorf("task %q lists dependency %q more than once", b.Name, d.Task)
		}
		attrs, diags := d.Bindings.JustAttributes()
		if diags.HasErrors() {
			return nil, fmt.Errorf("task %q, dependency %q: %w", b.Name, d.Task, diags)
		}
		bindings := make(map[string]hcl.Expression, len(attrs))
		for name, attr := range attrs {
			if err := checkParamRefs(task, attr.Expr); err != nil {
				return nil, fmt.Errorf("task %q, binding %s.%s: %w", b.Name, d.Task, name, err)
			}
			bindings[name] = attr.Expr
		}
		task.DependsOn = append(task.DependsOn, &config.Dependency{Task: d.Task, Bindings: bindings})
	}

	for i, e := range b.Execs {
		for _, expr := range []hcl.Expression{e.Args, e.Dir, e.Stdout, e.Env} {
			if err := checkParamRefs(task, expr); err != nil {
				return nil, fmt.Errorf("task %q, exec #%d: %w", b.Name, i+1, err)
			}
		}
		task.Actions = append(task.Actions, &config.Command{
			Args:   e.Args,
			Dir:    e.Dir,
			Stdout: e.Stdout,
			Env:    e.Env,
		})
	}

	logger.Debug("Translated task.", "task", task.Name, "params", len(task.Params), "deps", len(task.DependsOn), "commands", len(task.Actions))
	return task, nil
}

// checkParamRefs verifies that every variable the expression refers to is a
// `param.<name>` traversal naming a parameter declared by the task.
func checkParamRefs(task *config.Task, expr hcl.Expression) error {
	if expr == nil {
		return nil
	}
	for _, traversal := range expr.Variables() {
		if traversal.RootName() != paramRoot {
			return fmt.Errorf("unknown variable %q at %s; only %s.<name> is available", traversal.RootName(), traversal.SourceRange(), paramRoot)
		}
		if len(traversal) < 2 {
			return fmt.Errorf("%s must be followed by a parameter name at %s", paramRoot, traversal.SourceRange())
		}
		var name string
		switch step := traversal[1].(type) {
		case hcl.TraverseAttr:
			name = step.Name
		case hcl.TraverseIndex:
			if !step.Key.Type().Equals(cty.String) || !step.Key.IsKnown() || step.Key.IsNull() {
				return fmt.Errorf("parameter index must be a string at %s", traversal.SourceRange())
			}
			name = step.Key.AsString()
		default:
			return fmt.Errorf("invalid parameter reference at %s", traversal.SourceRange())
		}
		if task.Param(name) == nil {
			return fmt.Errorf("reference to undeclared parameter %q at %s", name, traversal.SourceRange())
		}
	}
	return nil
}
