package dag

import (
	"fmt"
	"slices"
)

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*node),
	}
}

// AddNode adds a new node with the given ID to the graph. If a node with
// the same ID already exists, the function does nothing.
func (g *Graph) AddNode(id string) {
	if _, ok := g.nodes[id]; ok {
		return
	}
	g.nodes[id] = &node{id: id}
	g.order = append(g.order, id)
}

// Has reports whether a node with the given ID exists.
func (g *Graph) Has(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Nodes returns all node IDs in insertion order.
func (g *Graph) Nodes() []string {
	return slices.Clone(g.order)
}

// AddEdge creates a directed edge from the `fromID` node to the `toID` node.
// This signifies that `toID` has a dependency on `fromID`. Edges keep the
// order in which they were added; adding an existing edge again is a no-op.
// An error is returned if either node does not exist. A self-edge is
// accepted and reported by Walk as a cycle of length one.
func (g *Graph) AddEdge(fromID, toID string) error {
	if _, ok := g.nodes[fromID]; !ok {
		return fmt.Errorf("source %w: %s", ErrNodeNotFound, fromID)
	}
	toNode, ok := g.nodes[toID]
	if !ok {
		return fmt.Errorf("destination %w: %s", ErrNodeNotFound, toID)
	}

	if slices.Contains(toNode.deps, fromID) {
		return nil
	}
	toNode.deps = append(toNode.deps, fromID)
	return nil
}

// Dependencies returns the IDs the given node depends on, in edge order.
func (g *Graph) Dependencies(id string) ([]string, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	return slices.Clone(n.deps), nil
}

// Walk performs a depth-first traversal from root, following dependencies in
// edge order. Every reachable node is visited at most once: visit is called
// when the node is first reached, leave after all of its dependencies have
// been left. The sequence of leave calls is therefore a topological order.
//
// A node that is reached again while still on the current path closes a
// cycle, and Walk returns a *CycleError describing it. The first error
// returned by a callback stops the walk.
func (g *Graph) Walk(root string, visit VisitFunc, leave LeaveFunc) error {
	if !g.Has(root) {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, root)
	}

	done := make(map[string]bool)
	onPath := make(map[string]bool)
	var path []string

	var walk func(id, parent string) error
	walk = func(id, parent string) error {
		if onPath[id] {
			return cycleError(path, id)
		}
		if done[id] {
			return nil
		}
		n, ok := g.nodes[id]
		if !ok {
			return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
		}

		onPath[id] = true
		path = append(path, id)

		if visit != nil {
			if err := visit(id, parent); err != nil {
				return err
			}
		}
		for _, dep := range n.deps {
			if err := walk(dep, id); err != nil {
				return err
			}
		}
		if leave != nil {
			if err := leave(id); err != nil {
				return err
			}
		}

		path = path[:len(path)-1]
		delete(onPath, id)
		done[id] = true
		return nil
	}

	return walk(root, "")
}
