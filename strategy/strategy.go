// Package strategy implements the pluggable frontier policies deciding
// which discovered vertex the driver expands next.
//
// The reference policy is breadth-first, which guarantees shortest-step
// proofs when one exists and the branching factor at each depth is finite.
// Best-first orders the frontier by a caller-supplied score, typically the
// token-overlap heuristic against the opposite goal side. Policies are
// looked up by tag through a Registry, so alternatives are swappable
// without touching the driver.
package strategy

import "github.com/hupe1980/eqsearch/core"

// Item is one frontier entry: a vertex awaiting expansion.
type Item struct {
	// Vertex is the id of the discovered vertex.
	Vertex core.VertexID

	// Depth is the number of edges between the vertex and its side's root.
	Depth int

	// Score is the heuristic priority used by score-ordered policies.
	// Depth-ordered policies ignore it.
	Score float64
}

// Strategy manages the frontier of one search tree.
//
// Implementations need not be safe for concurrent use; the driver owns one
// instance per search tree.
type Strategy interface {
	// Enqueue adds a newly discovered vertex to the frontier.
	Enqueue(item Item)

	// Next removes and returns the vertex to expand next. The second
	// return is false once the frontier is exhausted.
	Next() (Item, bool)

	// Len returns the number of vertices awaiting expansion.
	Len() int
}
