package telemetry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileTracer_WritesSpans(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.json")
	tp, err := NewFileTracer(path, "run-123")
	require.NoError(t, err)

	_, span := tp.Tracer("test").Start(context.Background(), "task build")
	span.End()
	require.NoError(t, tp.Shutdown(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Name":"task build"`)
	assert.Contains(t, string(data), "run-123")
}

func TestFileTracer_BadPath(t *testing.T) {
	_, err := NewFileTracer(filepath.Join(t.TempDir(), "missing", "trace.json"), "run")
	assert.ErrorContains(t, err, "failed to create trace file")
}
