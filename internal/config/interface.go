package config

import (
	"context"

	"github.com/hashicorp/hcl/v2"
)

// Loader is the interface for a format-specific task file loader.
type Loader interface {
	// Load reads task declarations from the given paths, translates them into
	// the format-agnostic model, and returns a matching Evaluator.
	Load(ctx context.Context, paths ...string) (*Model, Evaluator, error)
}

// Evaluator renders the templates held by the model. Parameter values are
// opaque strings.
type Evaluator interface {
	// String evaluates a single expression (e.g. a dependency binding) to a
	// string.
	String(ctx context.Context, expr hcl.Expression, params map[string]string) (string, error)

	// Command renders an action template into a concrete process invocation.
	Command(ctx context.Context, cmd *Command, params map[string]string) (*RenderedCommand, error)
}
