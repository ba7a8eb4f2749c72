package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/taskgrid/internal/config"
	"github.com/vk/taskgrid/internal/ctxlog"
	"github.com/vk/taskgrid/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL task file loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every task file found under the given paths, translates the
// task blocks into the format-agnostic model and validates the references
// between tasks.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, config.Evaluator, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.CollectFiles(paths, ".hcl")
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		return nil, nil, fmt.Errorf("no task files found in %v", paths)
	}
	logger.Debug("Discovered task files.", "count", len(files))

	parser := hclparse.NewParser()
	model := config.NewModel()
	evalCtx := &hcl.EvalContext{Functions: builtinFunctions()}

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, nil, fmt.Errorf("failed to parse task file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &root)
		if diags.HasErrors() {
			return nil, nil, fmt.Errorf("failed to decode task file %s: %w", file, diags)
		}

		for _, block := range root.Tasks {
			if _, exists := model.Tasks[block.Name]; exists {
				return nil, nil, fmt.Errorf("%s: task %q is declared more than once", file, block.Name)
			}
			task, err := l.translateTask(ctx, block)
			if err != nil {
				return nil, nil, fmt.Errorf("%s: %w", file, err)
			}
			model.Tasks[task.Name] = task
			model.Order = append(model.Order, task.Name)
		}
	}

	if err := validateReferences(model); err != nil {
		return nil, nil, err
	}

	logger.Debug("HCL loading complete.", "tasks", len(model.Tasks))
	return model, NewEvaluator(), nil
}

// validateReferences checks every dependency edge against the whole model:
// the target must exist and every binding must name one of its parameters.
func validateReferences(model *config.Model) error {
	for _, name := range model.Order {
		task := model.Tasks[name]
		for _, dep := range task.DependsOn {
			target, ok := model.Tasks[dep.Task]
			if !ok {
				return fmt.Errorf("task %q depends on undeclared task %q", name, dep.Task)
			}
			for _, param := range dep.BindingNames() {
				if target.Param(param) == nil {
					return fmt.Errorf("task %q binds unknown parameter %q of task %q", name, param, dep.Task)
				}
			}
		}
	}
	return nil
}
