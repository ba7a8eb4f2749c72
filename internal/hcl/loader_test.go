package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/taskgrid/internal/config"
)

// writeTaskFiles writes the given files below a temporary directory.
func writeTaskFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func load(t *testing.T, src string) (*config.Model, config.Evaluator, error) {
	t.Helper()
	root := writeTaskFiles(t, map[string]string{"tasks.hcl": src})
	return NewLoader().Load(context.Background(), filepath.Join(root, "tasks.hcl"))
}

const releaseTasks = `
task "clean" {
  description = "Remove build output"
  exec {
    args = ["rm", "-rf", "dist"]
  }
  exec {
    args = ["mkdir", "-p", "dist"]
  }
}

task "build" {
  param "target" {
    description = "GOOS/GOARCH pair"
    default     = "linux/amd64"
  }
  depends_on "clean" {}
  exec {
    args = ["go", "build", "-o", "dist/app", "."]
  }
}

task "sign" {
  param "account" {}
  param "target" {
    default = "linux/arm64"
  }
  depends_on "build" {
    target = param.target
  }
  exec {
    args = ["signer", "--account", param.account, "dist/app", "dist/app.signed"]
  }
}
`

func TestLoad_Release(t *testing.T) {
	model, eval, err := load(t, releaseTasks)
	require.NoError(t, err)
	require.NotNil(t, eval)

	assert.Equal(t, []string{"clean", "build", "sign"}, model.Order)

	clean := model.Tasks["clean"]
	assert.Equal(t, "Remove build output", clean.Description)
	assert.Len(t, clean.Actions, 2)
	assert.Empty(t, clean.DependsOn)

	build := model.Tasks["build"]
	require.Len(t, build.Params, 1)
	assert.Equal(t, "GOOS/GOARCH pair", build.Params[0].Description)
	require.NotNil(t, build.Params[0].Default)
	assert.Equal(t, "linux/amd64", *build.Params[0].Default)
	require.Len(t, build.DependsOn, 1)
	assert.Equal(t, "clean", build.DependsOn[0].Task)
	assert.Empty(t, build.DependsOn[0].Bindings)

	sign := model.Tasks["sign"]
	assert.True(t, sign.Param("account").Required())
	assert.False(t, sign.Param("target").Required())
	require.NotNil(t, sign.Dependency("build"))
	assert.Equal(t, []string{"target"}, sign.Dependency("build").BindingNames())
}

func TestLoad_Directory(t *testing.T) {
	root := writeTaskFiles(t, map[string]string{
		"a.hcl":        `task "one" {}`,
		"nested/b.hcl": "task \"two\" {\n  depends_on \"one\" {}\n}",
		"README.md":    "not a task file",
	})

	model, _, err := NewLoader().Load(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, model.Order)
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		src     string
		wantErr string
	}{
		{
			name:    "syntax error",
			src:     `task "a" {`,
			wantErr: "failed to parse task file",
		},
		{
			name:    "missing args",
			src:     "task \"a\" {\n  exec {}\n}",
			wantErr: "failed to decode task file",
		},
		{
			name:    "unknown top-level block",
			src:     `recipe "a" {}`,
			wantErr: "failed to decode task file",
		},
		{
			name:    "duplicate task",
			src:     "task \"a\" {}\ntask \"a\" {}",
			wantErr: `task "a" is declared more than once`,
		},
		{
			name:    "undeclared dependency",
			src:     "task \"a\" {\n  depends_on \"ghost\" {}\n}",
			wantErr: `task "a" depends on undeclared task "ghost"`,
		},
		{
			name: "duplicate dependency",
			src: `
task "b" {}
task "a" {
  depends_on "b" {}
  depends_on "b" {}
}`,
			wantErr: `lists dependency "b" more than once`,
		},
		{
			name: "duplicate parameter",
			src: `
task "a" {
  param "x" {}
  param "x" {}
}`,
			wantErr: `declares parameter "x" more than once`,
		},
		{
			name: "binding names unknown parameter of dependency",
			src: `
task "b" {}
task "a" {
  depends_on "b" {
    nope = "1"
  }
}`,
			wantErr: `binds unknown parameter "nope" of task "b"`,
		},
		{
			name: "binding reads undeclared parameter",
			src: `
task "b" {
  param "x" {}
}
task "a" {
  depends_on "b" {
    x = param.missing
  }
}`,
			wantErr: `reference to undeclared parameter "missing"`,
		},
		{
			name:    "args reads undeclared parameter",
			src:     "task \"a\" {\n  exec {\n    args = [\"echo\", param.nope]\n  }\n}",
			wantErr: `reference to undeclared parameter "nope"`,
		},
		{
			name:    "unknown variable namespace",
			src:     "task \"a\" {\n  exec {\n    args = [\"echo\", var.x]\n  }\n}",
			wantErr: `unknown variable "var"`,
		},
		{
			name:    "bare param object",
			src:     "task \"a\" {\n  exec {\n    args = [\"echo\", param]\n  }\n}",
			wantErr: "must be followed by a parameter name",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := load(t, tc.src)
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestLoad_SelfDependencyIsLeftToTheGraph(t *testing.T) {
	src := `
task "a" {
  depends_on "a" {}
}
task "ok" {}
`
	model, _, err := load(t, src)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "ok"}, model.Order)
	assert.NotNil(t, model.Tasks["a"].Dependency("a"))
}

func TestLoad_DuplicateAcrossFiles(t *testing.T) {
	root := writeTaskFiles(t, map[string]string{
		"a.hcl": `task "same" {}`,
		"b.hcl": `task "same" {}`,
	})
	_, _, err := NewLoader().Load(context.Background(), root)
	assert.ErrorContains(t, err, `task "same" is declared more than once`)
}

func TestLoad_NoFiles(t *testing.T) {
	_, _, err := NewLoader().Load(context.Background(), t.TempDir())
	assert.ErrorContains(t, err, "no task files found")

	_, _, err = NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "missing.hcl"))
	assert.ErrorContains(t, err, "error accessing path")
}
