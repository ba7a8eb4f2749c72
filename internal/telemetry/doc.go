// Package telemetry exports run traces and task metrics to files so that a
// one-shot CLI run can be inspected afterwards.
package telemetry
