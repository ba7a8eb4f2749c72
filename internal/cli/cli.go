package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vk/taskgrid/internal/app"
)

// Environment variables that override flag defaults.
const (
	EnvFile     = "TASKGRID_FILE"
	EnvLogLevel = "TASKGRID_LOG_LEVEL"
)

// Parse processes command-line arguments. It returns a populated Config, a
// boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	var (
		cfg    app.Config
		parsed bool
	)

	cmd := &cobra.Command{
		Use:   "taskgrid [flags] <task> [param=value ...]",
		Short: "Run a task and its dependencies from an HCL task file",
		Long: `taskgrid runs a named task after running each of its dependencies once,
depth-first in declaration order. Every command is started directly with its
argument list; parameter values are never split by a shell.

Without a task name the declared tasks are listed.`,
		Example: `  taskgrid -f release.hcl release account=ops
  taskgrid -f release.hcl --dry-run build target=darwin/arm64
  taskgrid -f tasks/ --list`,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, positional []string) error {
			parsed = true
			if len(positional) == 0 {
				cfg.List = true
				return nil
			}
			cfg.Task = positional[0]
			params, err := parseParams(positional[1:])
			if err != nil {
				return err
			}
			cfg.Params = params
			return nil
		},
	}
	if args == nil {
		// cobra falls back to os.Args for a nil slice.
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetOut(output)
	cmd.SetErr(output)

	flags := cmd.Flags()
	flags.SetInterspersed(false)
	flags.StringVarP(&cfg.TaskPath, "file", "f", envOr(EnvFile, "tasks.hcl"), "Task file, or directory of *.hcl task files. Env: "+EnvFile)
	flags.StringVar(&cfg.LogLevel, "log-level", envOr(EnvLogLevel, "info"), "Logging level: debug, info, warn or error. Env: "+EnvLogLevel)
	flags.StringVar(&cfg.LogFormat, "log-format", "auto", "Log output format: text, json or auto (text on a terminal).")
	flags.BoolVar(&cfg.DryRun, "dry-run", false, "Resolve the task and print the plan as YAML without running anything.")
	flags.BoolVar(&cfg.List, "list", false, "List the declared tasks and exit.")
	flags.StringVar(&cfg.TraceFile, "trace-file", "", "Write OpenTelemetry spans of the run as JSON to this file.")
	flags.StringVar(&cfg.MetricsFile, "metrics-file", "", "Write Prometheus metrics of the run to this textfile.")

	if err := cmd.Execute(); err != nil {
		if exitErr, ok := err.(*ExitError); ok {
			return nil, false, exitErr
		}
		return nil, false, &ExitError{Code: 1, Message: err.Error()}
	}
	if !parsed {
		// --help was printed.
		return nil, true, nil
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: 1, Message: err.Error()}
	}
	return config, false, nil
}

// parseParams turns name=value arguments into a map. Values are kept
// verbatim and may contain '=' or spaces.
func parseParams(args []string) (map[string]string, error) {
	params := make(map[string]string, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, &ExitError{Code: 1, Message: fmt.Sprintf("invalid parameter %q: expected name=value", arg)}
		}
		if _, dup := params[name]; dup {
			return nil, &ExitError{Code: 1, Message: fmt.Sprintf("parameter %q given more than once", name)}
		}
		params[name] = value
	}
	return params, nil
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
