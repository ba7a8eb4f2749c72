package executor

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/taskgrid/internal/hcl"
	"github.com/vk/taskgrid/internal/testutil"
)

func TestPlan_ExampleRecipe(t *testing.T) {
	ctx, _ := testutil.Context(t)
	model, eval, err := hcl.NewLoader().Load(ctx, filepath.Join("..", "..", "examples", "release.hcl"))
	require.NoError(t, err)

	runner := testutil.NewRecordingRunner()
	exec, err := New(model, eval, WithRunner(runner))
	require.NoError(t, err)

	plan, err := exec.Plan(ctx, "release", map[string]string{"account": "ci", "target": "darwin/arm64"})
	require.NoError(t, err)
	assert.Equal(t, []string{"clean", "build", "sign", "checksum", "release"}, plan.Tasks())

	build := plan.Steps[1].Commands[0]
	assert.Contains(t, build.Args, "dist/taskgrid-darwin-arm64")
	assert.Equal(t, "darwin", build.Env["GOOS"])
	assert.Equal(t, "arm64", build.Env["GOARCH"])

	sign := plan.Steps[2].Commands[0]
	assert.Contains(t, sign.Args, "env://CI_SIGNING_KEY")

	checksum := plan.Steps[3].Commands[0]
	assert.Equal(t, "dist", checksum.Dir)
	assert.Equal(t, "SHA256SUMS", checksum.Stdout)

	require.NoError(t, exec.Execute(ctx, plan))
	assert.Equal(t, []string{"rm", "mkdir", "go", "cosign", "sh"}, runner.Programs())
}

func TestPlan_ExampleRecipeVersionReachesBuild(t *testing.T) {
	ctx, _ := testutil.Context(t)
	model, eval, err := hcl.NewLoader().Load(ctx, filepath.Join("..", "..", "examples", "release.hcl"))
	require.NoError(t, err)
	exec, err := New(model, eval, WithRunner(testutil.NewRecordingRunner()))
	require.NoError(t, err)

	plan, err := exec.Plan(ctx, "release", map[string]string{"account": "ops", "version": "1.2.3"})
	require.NoError(t, err)

	build := plan.Steps[1]
	require.Equal(t, "build", build.Task)
	assert.Equal(t, "1.2.3", build.Params["version"])
	assert.Contains(t, build.Commands[0].Args, "-s -w -X main.version=1.2.3")
}
