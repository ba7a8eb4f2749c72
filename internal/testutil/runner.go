package testutil

import (
	"context"
	"slices"
	"sync"

	"github.com/vk/taskgrid/internal/config"
)

// RecordingRunner is a process runner that starts nothing. It records every
// command it is asked to run and answers with the exit code configured for
// the command's program name (args[0]), or 0.
type RecordingRunner struct {
	mu        sync.Mutex
	calls     []*config.RenderedCommand
	ExitCodes map[string]int
}

// NewRecordingRunner returns a runner where every program succeeds.
func NewRecordingRunner() *RecordingRunner {
	return &RecordingRunner{ExitCodes: make(map[string]int)}
}

// Run implements executor.ProcessRunner.
func (r *RecordingRunner) Run(ctx context.Context, cmd *config.RenderedCommand) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, cmd)
	if err := ctx.Err(); err != nil {
		return 130, err
	}
	return r.ExitCodes[cmd.Args[0]], nil
}

// Calls returns the recorded commands in invocation order.
func (r *RecordingRunner) Calls() []*config.RenderedCommand {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.calls)
}

// Programs returns args[0] of every recorded command in invocation order.
func (r *RecordingRunner) Programs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.calls))
	for _, c := range r.calls {
		names = append(names, c.Args[0])
	}
	return names
}
