// Package executor resolves a requested task into an execution plan and runs
// it. Resolution walks the dependency graph depth-first, binds parameters
// along each edge and renders every command before anything is started, so a
// plan that fails to resolve never leaves side effects behind.
// Execution is strictly sequential and stops at the first failing command.
package executor
