package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"time"

	"github.com/vk/taskgrid/internal/config"
	"github.com/vk/taskgrid/internal/ctxlog"
)

// exitNotFound is reported when a command cannot be started at all, the
// same code a POSIX shell uses for a missing program.
const exitNotFound = 127

// exitInterrupted is reported when the run was canceled before the command
// could start, the code a shell reports after SIGINT.
const exitInterrupted = 130

// ProcessRunner starts a rendered command and waits for it to exit.
type ProcessRunner interface {
	// Run returns the exit code of the process. A non-nil error means the
	// process could not be started or was interrupted; exitCode is then the
	// best available approximation.
	Run(ctx context.Context, cmd *config.RenderedCommand) (exitCode int, err error)
}

// OSRunner starts real processes with the caller's standard streams.
type OSRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// WaitDelay bounds how long a process may keep running after it was
	// asked to terminate before it is killed.
	WaitDelay time.Duration
}

// NewOSRunner returns a runner attached to os.Stdin, os.Stdout and os.Stderr.
func NewOSRunner() *OSRunner {
	return &OSRunner{
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		WaitDelay: 10 * time.Second,
	}
}

// Run executes the command directly, without a shell. When ctx is canceled
// the process receives a termination request and is killed if it outlives
// WaitDelay.
func (r *OSRunner) Run(ctx context.Context, rc *config.RenderedCommand) (int, error) {
	logger := ctxlog.FromContext(ctx)
	if len(rc.Args) == 0 {
		return exitNotFound, errors.New("empty command")
	}

	cmd := exec.CommandContext(ctx, rc.Args[0], rc.Args[1:]...)
	cmd.Dir = rc.Dir
	cmd.Env = mergeEnv(os.Environ(), rc.Env)
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	cmd.Cancel = func() error {
		logger.Warn("Forwarding termination to running command.", "pid", cmd.Process.Pid)
		return terminate(cmd.Process)
	}
	cmd.WaitDelay = r.WaitDelay

	if rc.Stdout != "" {
		path := rc.Stdout
		if !filepath.IsAbs(path) && rc.Dir != "" {
			path = filepath.Join(rc.Dir, path)
		}
		f, err := os.Create(path)
		if err != nil {
			return 1, fmt.Errorf("failed to open stdout file: %w", err)
		}
		defer f.Close()
		cmd.Stdout = f
	}

	if err := cmd.Start(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return exitInterrupted, fmt.Errorf("interrupted: %w", ctxErr)
		}
		return exitNotFound, fmt.Errorf("failed to start command: %w", err)
	}

	err := cmd.Wait()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitCode(exitErr)
		if ctx.Err() != nil {
			return code, fmt.Errorf("interrupted: %w", ctx.Err())
		}
		return code, nil
	}
	return 1, fmt.Errorf("failed to wait for command: %w", err)
}

// mergeEnv overlays extra onto base, which is in os.Environ form. Keys of
// extra are applied in sorted order.
func mergeEnv(base []string, extra map[string]string) []string {
	if len(extra) == 0 {
		return base
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := make([]string, 0, len(base)+len(extra))
	env = append(env, base...)
	for _, k := range keys {
		// exec.Cmd keeps the last value for duplicate keys.
		env = append(env, k+"="+extra[k])
	}
	return env
}
