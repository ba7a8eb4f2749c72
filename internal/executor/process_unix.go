//go:build unix

package executor

import (
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// terminate asks the process to shut down with SIGTERM.
func terminate(p *os.Process) error {
	return unix.Kill(p.Pid, unix.SIGTERM)
}

// exitCode follows the shell convention of 128+signal for processes killed
// by a signal.
func exitCode(err *exec.ExitError) int {
	if ws, ok := err.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return err.ExitCode()
}
