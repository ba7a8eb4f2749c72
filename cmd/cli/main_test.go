package main

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/taskgrid/internal/cli"
)

func writeTaskFile(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.hcl")
	require.NoError(t, os.WriteFile(path, []byte(src), 0600))
	return path
}

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestRun_LoadError(t *testing.T) {
	t.Parallel()

	invalidHCL := `
task "clean" {
  exec {
    args = ["rm"]
	// Missing closing brace here
`
	path := writeTaskFile(t, invalidHCL)
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}

	err := run(context.Background(), out, errOut, []string{"-f", path, "clean"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load task files")
	assert.Contains(t, err.Error(), "failed to parse")
	assert.Equal(t, 1, cli.ExitCode(err))
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()
	out := &bytes.Buffer{}

	err := run(context.Background(), out, &bytes.Buffer{}, []string{"-h"})
	require.NoError(t, err)
	require.Contains(t, out.String(), "Usage:")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{"--this-is-not-a-valid-flag"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown flag: --this-is-not-a-valid-flag")
	assert.Equal(t, 1, cli.ExitCode(err))
}

const shellRecipe = `
task "clean" {
  exec {
    args = ["sh", "-c", "echo clean"]
  }
}

task "build" {
  depends_on "clean" {}
  exec {
    args = ["sh", "-c", "echo build"]
  }
}

task "sign" {
  param "account" {}
  depends_on "build" {}
  exec {
    args = ["sh", "-c", "echo sign as $0", param.account]
  }
}

task "checksum" {
  param "account" {}
  depends_on "sign" {
    account = param.account
  }
  exec {
    args = ["sh", "-c", "echo checksum"]
  }
}

task "release" {
  param "account" {}
  depends_on "checksum" {
    account = param.account
  }
}

task "broken" {
  depends_on "clean" {}
  exec {
    args = ["sh", "-c", "exit 7"]
  }
}

task "loop-a" {
  depends_on "loop-b" {}
}

task "loop-b" {
  depends_on "loop-a" {}
}

task "self" {
  depends_on "self" {}
  exec {
    args = ["sh", "-c", "echo never"]
  }
}
`

func TestRun_ExitCodes(t *testing.T) {
	requireShell(t)
	path := writeTaskFile(t, shellRecipe)

	testCases := []struct {
		name     string
		args     []string
		wantCode int
		wantOut  string
	}{
		{name: "release", args: []string{"release", "account=ops"}, wantCode: 0, wantOut: "clean\nbuild\nsign as ops\nchecksum\n"},
		{name: "unknown task", args: []string{"publish"}, wantCode: 1},
		{name: "missing parameter", args: []string{"release"}, wantCode: 1},
		{name: "unknown parameter", args: []string{"clean", "force=yes"}, wantCode: 1},
		{name: "cycle", args: []string{"loop-a"}, wantCode: 2},
		{name: "self cycle", args: []string{"self"}, wantCode: 2},
		{name: "action failed", args: []string{"broken"}, wantCode: 7, wantOut: "clean\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			args := append([]string{"-f", path, "--log-format", "json"}, tc.args...)

			err := run(context.Background(), out, &bytes.Buffer{}, args)
			assert.Equal(t, tc.wantCode, cli.ExitCode(err), "error: %v", err)
			assert.Equal(t, tc.wantOut, out.String())
		})
	}
}

func TestRun_List(t *testing.T) {
	path := writeTaskFile(t, shellRecipe)
	out := &bytes.Buffer{}

	require.NoError(t, run(context.Background(), out, &bytes.Buffer{}, []string{"-f", path}))
	assert.True(t, strings.HasPrefix(out.String(), "TASK"))
	assert.Contains(t, out.String(), "release")
}
