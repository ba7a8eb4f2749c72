package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/taskgrid/internal/config"
	"github.com/vk/taskgrid/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
)

// Evaluator is the HCL-specific implementation of the config.Evaluator interface.
type Evaluator struct {
	functions map[string]function.Function
}

// NewEvaluator creates a new HCL evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{functions: builtinFunctions()}
}

// evalContext exposes the parameter set as the `param` object.
func (e *Evaluator) evalContext(params map[string]string) *hcl.EvalContext {
	vals := make(map[string]cty.Value, len(params))
	for name, value := range params {
		vals[name] = cty.StringVal(value)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{paramRoot: cty.ObjectVal(vals)},
		Functions: e.functions,
	}
}

// String evaluates expr and converts the result to a string.
func (e *Evaluator) String(ctx context.Context, expr hcl.Expression, params map[string]string) (string, error) {
	val, diags := expr.Value(e.evalContext(params))
	if diags.HasErrors() {
		return "", diags
	}
	return asString(val)
}

// Command renders every expression of cmd. Each element of `args` becomes
// exactly one argv entry, so values containing whitespace are never split.
func (e *Evaluator) Command(ctx context.Context, cmd *config.Command, params map[string]string) (*config.RenderedCommand, error) {
	logger := ctxlog.FromContext(ctx)
	evalCtx := e.evalContext(params)

	args, err := e.renderArgs(cmd.Args, evalCtx)
	if err != nil {
		return nil, fmt.Errorf("args: %w", err)
	}
	dir, err := optionalString(cmd.Dir, evalCtx)
	if err != nil {
		return nil, fmt.Errorf("dir: %w", err)
	}
	stdout, err := optionalString(cmd.Stdout, evalCtx)
	if err != nil {
		return nil, fmt.Errorf("stdout: %w", err)
	}
	env, err := renderEnv(cmd.Env, evalCtx)
	if err != nil {
		return nil, fmt.Errorf("env: %w", err)
	}

	logger.Debug("Rendered command.", "args", args, "dir", dir, "stdout", stdout)
	return &config.RenderedCommand{Args: args, Dir: dir, Stdout: stdout, Env: env}, nil
}

func (e *Evaluator) renderArgs(expr hcl.Expression, evalCtx *hcl.EvalContext) ([]string, error) {
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() {
		return nil, fmt.Errorf("a command is required")
	}
	ty := val.Type()
	if !ty.IsListType() && !ty.IsTupleType() {
		return nil, fmt.Errorf("must be a list of strings, got %s", ty.FriendlyName())
	}
	if !val.IsWhollyKnown() {
		return nil, fmt.Errorf("value is not known")
	}
	if val.LengthInt() == 0 {
		return nil, fmt.Errorf("must not be empty")
	}

	args := make([]string, 0, val.LengthInt())
	for it := val.ElementIterator(); it.Next(); {
		idx, elem := it.Element()
		s, err := asString(elem)
		if err != nil {
			return nil, fmt.Errorf("element %s: %w", idx.AsBigFloat().String(), err)
		}
		args = append(args, s)
	}
	if args[0] == "" {
		return nil, fmt.Errorf("program name must not be empty")
	}
	return args, nil
}

func optionalString(expr hcl.Expression, evalCtx *hcl.EvalContext) (string, error) {
	if expr == nil {
		return "", nil
	}
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return "", diags
	}
	if val.IsNull() {
		return "", nil
	}
	return asString(val)
}

func renderEnv(expr hcl.Expression, evalCtx *hcl.EvalContext) (map[string]string, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() {
		return nil, nil
	}
	ty := val.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("must be a map of strings, got %s", ty.FriendlyName())
	}
	if !val.IsWhollyKnown() {
		return nil, fmt.Errorf("value is not known")
	}

	env := make(map[string]string)
	for it := val.ElementIterator(); it.Next(); {
		key, elem := it.Element()
		s, err := asString(elem)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key.AsString(), err)
		}
		env[key.AsString()] = s
	}
	return env, nil
}

// asString converts a primitive cty value to its string form.
func asString(val cty.Value) (string, error) {
	if val.IsNull() {
		return "", fmt.Errorf("value must not be null")
	}
	if !val.IsKnown() {
		return "", fmt.Errorf("value is not known")
	}
	converted, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", fmt.Errorf("cannot convert %s to string: %w", val.Type().FriendlyName(), err)
	}
	return converted.AsString(), nil
}
