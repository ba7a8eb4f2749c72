//go:build !unix

package executor

import (
	"os"
	"os/exec"
)

func terminate(p *os.Process) error {
	return p.Kill()
}

func exitCode(err *exec.ExitError) int {
	if code := err.ExitCode(); code > 0 {
		return code
	}
	return 1
}
