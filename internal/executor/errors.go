package executor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vk/taskgrid/internal/dag"
)

var (
	ErrUnknownTask      = errors.New("unknown task")
	ErrUnknownParameter = errors.New("unknown parameter")
	ErrMissingParameter = errors.New("missing required parameter")
	ErrCyclicDependency = dag.ErrCycle
	ErrActionFailed     = errors.New("action failed")
)

// ParamError reports a parameter problem found while resolving a task.
// Kind is ErrUnknownParameter or ErrMissingParameter.
type ParamError struct {
	Kind  error
	Task  string
	Param string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s %q for task %q", e.Kind.Error(), e.Param, e.Task)
}

func (e *ParamError) Unwrap() error { return e.Kind }

// ActionError reports a command of a task that did not exit successfully.
// ExitCode is always non-zero.
type ActionError struct {
	Task     string
	ExitCode int
	Args     []string
	// Err is set when the process could not be started or was interrupted.
	Err error
}

func (e *ActionError) Error() string {
	msg := fmt.Sprintf("task %q: command %q exited with code %d", e.Task, strings.Join(e.Args, " "), e.ExitCode)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is matches ErrActionFailed.
func (e *ActionError) Is(target error) bool { return target == ErrActionFailed }

func (e *ActionError) Unwrap() error { return e.Err }
