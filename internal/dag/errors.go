package dag

import (
	"errors"
	"strings"
)

var (
	ErrNodeNotFound = errors.New("node not found")
	ErrCycle        = errors.New("cycle detected")
)

// CycleError reports a dependency cycle. Path starts and ends with the same
// node, e.g. [a b a].
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	if e == nil || len(e.Path) == 0 {
		return ErrCycle.Error()
	}
	return ErrCycle.Error() + ": " + strings.Join(e.Path, " -> ")
}

func (e *CycleError) Unwrap() error { return ErrCycle }

// cycleError builds the cycle closed by re-entering id from the given
// resolution path.
func cycleError(path []string, id string) error {
	start := 0
	for i, p := range path {
		if p == id {
			start = i
			break
		}
	}
	cycle := make([]string, 0, len(path)-start+1)
	cycle = append(cycle, path[start:]...)
	cycle = append(cycle, id)
	return &CycleError{Path: cycle}
}
