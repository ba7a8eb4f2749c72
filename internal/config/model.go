package config

import (
	"sort"

	"github.com/hashicorp/hcl/v2"
)

// Model is the unified, format-agnostic representation of every task
// declared in the loaded task files.
type Model struct {
	Tasks map[string]*Task
	// Order holds task names in declaration order.
	Order []string
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{Tasks: make(map[string]*Task)}
}

// Task is the format-agnostic representation of a `task` block.
type Task struct {
	Name        string
	Description string
	Params      []*ParamDefinition
	DependsOn   []*Dependency
	Actions     []*Command
}

// Param returns the declared parameter with the given name, or nil.
func (t *Task) Param(name string) *ParamDefinition {
	for _, p := range t.Params {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Dependency returns the edge to the named task, or nil.
func (t *Task) Dependency(name string) *Dependency {
	for _, d := range t.DependsOn {
		if d.Task == name {
			return d
		}
	}
	return nil
}

// ParamDefinition declares a single task parameter.
type ParamDefinition struct {
	Name        string
	Description string
	Default     *string
}

// Required reports whether the parameter has no default.
func (p *ParamDefinition) Required() bool {
	return p.Default == nil
}

// Dependency is an edge from a task to one of its prerequisites. Bindings
// map the prerequisite's parameter names to expressions evaluated against
// the dependent task's parameters.
type Dependency struct {
	Task     string
	Bindings map[string]hcl.Expression
}

// BindingNames returns the bound parameter names in sorted order.
func (d *Dependency) BindingNames() []string {
	names := make([]string, 0, len(d.Bindings))
	for name := range d.Bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Command is one external command template of a task's action.
type Command struct {
	Args   hcl.Expression
	Dir    hcl.Expression
	Stdout hcl.Expression
	Env    hcl.Expression
}

// RenderedCommand is a Command with every placeholder resolved.
type RenderedCommand struct {
	Args   []string          `yaml:"args"`
	Dir    string            `yaml:"dir,omitempty"`
	Stdout string            `yaml:"stdout,omitempty"`
	Env    map[string]string `yaml:"env,omitempty"`
}
