package dag

// Graph is a collection of nodes and their ordered dependencies. It is built
// once and then only read; it is not safe for concurrent mutation.
type Graph struct {
	// nodes stores all nodes in the graph, keyed by their unique ID.
	nodes map[string]*node
	// order records node IDs in insertion order.
	order []string
}

// node represents a single vertex in the graph. It is un-exported to
// enforce interaction with the graph via the public API (using string IDs),
// not by direct struct manipulation.
type node struct {
	id string
	// deps holds the IDs this node depends on, in the order the edges were added.
	deps []string
}

// VisitFunc is called by Walk when a node is first reached. parent is the ID
// of the node whose edge led there, or "" for the root.
type VisitFunc func(id, parent string) error

// LeaveFunc is called by Walk once all of a node's dependencies are done.
type LeaveFunc func(id string) error
