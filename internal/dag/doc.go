// Package dag holds the task dependency graph: an adjacency mapping whose
// edges keep their declaration order. Walk turns it into a depth-first,
// at-most-once traversal with cycle detection, which is the resolution order
// the executor runs tasks in.
package dag
