package telemetry

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "taskgrid"

// Outcome label values of the task counter.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics collects task metrics for a single run in its own registry. It
// satisfies the executor's Observer interface.
type Metrics struct {
	registry *prometheus.Registry

	taskDuration  *prometheus.HistogramVec
	tasksTotal    *prometheus.CounterVec
	lastRunStatus *prometheus.GaugeVec
	lastRunTime   *prometheus.GaugeVec
}

// NewMetrics registers the task metrics on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		// taskDuration measures how long each task's commands ran.
		// Labels: task
		taskDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "task_duration_seconds",
			Help:      "Wall-clock duration of a task's commands in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600},
		}, []string{"task"}),

		// tasksTotal counts finished tasks.
		// Labels: task, outcome (success, failure)
		tasksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_total",
			Help:      "Tasks finished, by outcome",
		}, []string{"task", "outcome"}),

		lastRunStatus: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_success",
			Help:      "1 if the last run of the target succeeded, 0 otherwise",
		}, []string{"target"}),

		lastRunTime: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run of the target finished",
		}, []string{"target"}),
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// TaskStarted is a no-op; tasks are measured when they finish.
func (m *Metrics) TaskStarted(string) {}

// TaskFinished records the duration and outcome of a task.
func (m *Metrics) TaskFinished(task string, elapsed time.Duration, err error) {
	m.taskDuration.WithLabelValues(task).Observe(elapsed.Seconds())
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	m.tasksTotal.WithLabelValues(task, outcome).Inc()
}

// RunFinished records the result of the whole run.
func (m *Metrics) RunFinished(target string, at time.Time, err error) {
	success := 1.0
	if err != nil {
		success = 0
	}
	m.lastRunStatus.WithLabelValues(target).Set(success)
	m.lastRunTime.WithLabelValues(target).Set(float64(at.Unix()))
}

// WriteTextfile writes the registry in the node-exporter textfile collector
// format. The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if path == "" {
		return errors.New("metrics file path is empty")
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}
