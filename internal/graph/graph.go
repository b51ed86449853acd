// Package graph implements the directed dependency graph used to order modules.
//
// Nodes are keyed by id and remember their insertion order. A node may exist
// without a payload (a placeholder), which is how references to ids that were
// never registered are represented. Edges point from a node to the nodes it
// depends on.
package graph

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCycle is matched by every *CycleError.
var ErrCycle = errors.New("dependency cycle")

// CycleError reports a cycle found during a topological sort. Path starts and
// ends with the same id, e.g. [a b a].
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCycle, strings.Join(e.Path, " -> "))
}

func (e *CycleError) Is(target error) bool {
	return target == ErrCycle
}

type node[T any] struct {
	id         string
	payload    T
	hasPayload bool
	edges      []string
}

// Graph is a directed graph with insertion-ordered nodes. It is not safe for
// concurrent use.
type Graph[T any] struct {
	nodes map[string]*node[T]
	order []string
}

// New returns an empty graph.
func New[T any]() *Graph[T] {
	return &Graph[T]{nodes: make(map[string]*node[T])}
}

func (g *Graph[T]) ensure(id string) *node[T] {
	n, ok := g.nodes[id]
	if !ok {
		n = &node[T]{id: id}
		g.nodes[id] = n
		g.order = append(g.order, id)
	}
	return n
}

// AddNode adds a placeholder node for id if it does not exist yet.
func (g *Graph[T]) AddNode(id string) {
	g.ensure(id)
}

// SetPayload adds the node if needed and attaches payload to it.
func (g *Graph[T]) SetPayload(id string, payload T) {
	n := g.ensure(id)
	n.payload = payload
	n.hasPayload = true
}

// Payload returns the payload of id. The boolean is false for placeholders and
// unknown ids.
func (g *Graph[T]) Payload(id string) (T, bool) {
	n, ok := g.nodes[id]
	if !ok || !n.hasPayload {
		var zero T
		return zero, false
	}
	return n.payload, true
}

// Has reports whether a node exists for id.
func (g *Graph[T]) Has(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// AddEdge records that from depends on to. Missing endpoints are created as
// placeholders. Duplicate edges are ignored.
func (g *Graph[T]) AddEdge(from, to string) {
	n := g.ensure(from)
	g.ensure(to)
	for _, e := range n.edges {
		if e == to {
			return
		}
	}
	n.edges = append(n.edges, to)
}

// Successors returns the ids id depends on, in the order the edges were added.
func (g *Graph[T]) Successors(id string) []string {
	n, ok := g.nodes[id]
	if !ok {
		return nil
	}
	out := make([]string, len(n.edges))
	copy(out, n.edges)
	return out
}

// Nodes returns every node id in insertion order.
func (g *Graph[T]) Nodes() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Len returns the number of nodes, placeholders included.
func (g *Graph[T]) Len() int {
	return len(g.order)
}

// Placeholders returns the ids of nodes without a payload, in insertion order.
func (g *Graph[T]) Placeholders() []string {
	var out []string
	for _, id := range g.order {
		if !g.nodes[id].hasPayload {
			out = append(out, id)
		}
	}
	return out
}

// Edges returns a copy of the adjacency lists keyed by node id.
func (g *Graph[T]) Edges() map[string][]string {
	out := make(map[string][]string, len(g.order))
	for _, id := range g.order {
		out[id] = g.Successors(id)
	}
	return out
}

// TopologicalSort orders the nodes so that every node comes after all the
// nodes it depends on. Independent nodes keep their insertion order.
func (g *Graph[T]) TopologicalSort() ([]string, error) {
	result := make([]string, 0, len(g.order))
	visited := make(map[string]bool, len(g.order))
	onStack := make(map[string]bool)
	var stack []string

	var visit func(id string) error
	visit = func(id string) error {
		if onStack[id] {
			start := 0
			for i, s := range stack {
				if s == id {
					start = i
					break
				}
			}
			path := append(append([]string{}, stack[start:]...), id)
			return &CycleError{Path: path}
		}
		if visited[id] {
			return nil
		}
		onStack[id] = true
		stack = append(stack, id)

		for _, dep := range g.nodes[id].edges {
			if err := visit(dep); err != nil {
				return err
			}
		}

		stack = stack[:len(stack)-1]
		onStack[id] = false
		visited[id] = true
		result = append(result, id)
		return nil
	}

	for _, id := range g.order {
		if visited[id] {
			continue
		}
		if err := visit(id); err != nil {
			return nil, err
		}
	}
	return result, nil
}
