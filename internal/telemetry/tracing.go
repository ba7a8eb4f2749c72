package telemetry

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const serviceName = "taskgrid"

// FileTracer is a tracer provider whose spans are written as JSON to a file.
type FileTracer struct {
	*sdktrace.TracerProvider
	file *os.File
}

// NewFileTracer creates path and returns a provider exporting into it. Spans
// are exported synchronously so that nothing is lost when the process exits
// right after the run.
func NewFileTracer(path, runID string) (*FileTracer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace file: %w", err)
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(f))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", serviceName),
		attribute.String("taskgrid.run_id", runID),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithResource(res),
	)
	return &FileTracer{TracerProvider: tp, file: f}, nil
}

// Shutdown flushes the provider and closes the file.
func (t *FileTracer) Shutdown(ctx context.Context) error {
	return errors.Join(t.TracerProvider.Shutdown(ctx), t.file.Close())
}
