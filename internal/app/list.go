package app

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/vk/taskgrid/internal/config"
)

// List prints the declared tasks sorted by name with their parameters and
// descriptions. Required parameters are shown bare, optional ones with
// their default.
func (a *App) List() error {
	return writeTaskList(a.outW, a.model)
}

func writeTaskList(w io.Writer, model *config.Model) error {
	names := make([]string, 0, len(model.Tasks))
	for name := range model.Tasks {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TASK\tPARAMS\tDEPENDS ON\tDESCRIPTION")
	for _, name := range names {
		task := model.Tasks[name]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			name,
			orDash(formatParams(task.Params)),
			orDash(formatDeps(task.DependsOn)),
			task.Description,
		)
	}
	return tw.Flush()
}

func formatParams(params []*config.ParamDefinition) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		if p.Required() {
			parts = append(parts, p.Name)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%q", p.Name, *p.Default))
	}
	return strings.Join(parts, " ")
}

func formatDeps(deps []*config.Dependency) string {
	parts := make([]string, 0, len(deps))
	for _, d := range deps {
		parts = append(parts, d.Task)
	}
	return strings.Join(parts, ", ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
