package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertTaskFinished checks the captured log output to confirm that a task
// completed successfully.
func AssertTaskFinished(t *testing.T, logs string, task string) {
	t.Helper()

	for _, line := range strings.Split(logs, "\n") {
		if strings.Contains(line, "Finished task") && strings.Contains(line, fmt.Sprintf("task=%s", task)) {
			return
		}
	}
	require.Fail(t, "task did not finish", "expected log output for task %q was not found in logs", task)
}
