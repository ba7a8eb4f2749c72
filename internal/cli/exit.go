package cli

import (
	"errors"

	"github.com/vk/taskgrid/internal/executor"
)

// Exit codes for failures that do not come from a subprocess.
const (
	ExitFailure = 1
	ExitCycle   = 2
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// ExitCode maps an error returned by a run to the process exit code. A
// failed command propagates its own exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	var actionErr *executor.ActionError
	if errors.As(err, &actionErr) {
		return actionErr.ExitCode
	}
	if errors.Is(err, executor.ErrCyclicDependency) {
		return ExitCycle
	}
	return ExitFailure
}
