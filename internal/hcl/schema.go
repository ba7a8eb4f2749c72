package hcl

import (
	"github.com/hashicorp/hcl/v2"
)

// fileRoot is used to decode all top-level blocks from any task file. Any
// other block or attribute is a decode error.
type fileRoot struct {
	Tasks []*taskBlock `hcl:"task,block"`
}

// taskBlock represents a `task` block. It is a named unit of work with
// parameters, ordered prerequisites and an action.
type taskBlock struct {
	Name        string            `hcl:"name,label"`
	Description string            `hcl:"description,optional"`
	Params      []*paramBlock     `hcl:"param,block"`
	DependsOn   []*dependsOnBlock `hcl:"depends_on,block"`
	Execs       []*execBlock      `hcl:"exec,block"`
}

// paramBlock declares a parameter of the enclosing task.
type paramBlock struct {
	Name        string  `hcl:"name,label"`
	Description string  `hcl:"description,optional"`
	Default     *string `hcl:"default,optional"`
}

// dependsOnBlock names a prerequisite task. Its attributes bind the
// prerequisite's parameters, e.g. `account = param.account`.
type dependsOnBlock struct {
	Task     string   `hcl:"task,label"`
	Bindings hcl.Body `hcl:",remain"`
}

// execBlock is a single external command of the task's action.
type execBlock struct {
	Args   hcl.Expression `hcl:"args"`
	Dir    hcl.Expression `hcl:"dir,optional"`
	Stdout hcl.Expression `hcl:"stdout,optional"`
	Env    hcl.Expression `hcl:"env,optional"`
}
