package graph

import (
	"fmt"
	"sync"

	"github.com/hupe1980/eqsearch/core"
)

// Edge is a directed, justified transition between two vertices. Immutable
// after creation except for forcing the lazy proof.
type Edge[P any] struct {
	ID   core.EdgeID
	From core.VertexID
	To   core.VertexID

	// Rule describes the rewrite justifying the transition.
	Rule core.Rule

	force func() (P, error)
}

// Proof forces the edge's lazy proof. The underlying thunk runs at most
// once; every copy of the edge shares the memoized result.
func (e Edge[P]) Proof() (P, error) {
	return e.force()
}

// OtherEndpoint returns the endpoint of e that is not known, supporting
// undirected traversal. The second return is false when known is neither
// endpoint.
func OtherEndpoint[P any](e Edge[P], known core.VertexID) (core.VertexID, bool) {
	switch known {
	case e.From:
		return e.To, true
	case e.To:
		return e.From, true
	default:
		return core.InvalidVertexID, false
	}
}

// EdgeStore is the append-only edge arena. An edge's position is its id.
type EdgeStore[P any] struct {
	mu    sync.RWMutex
	edges []Edge[P]
}

// NewEdgeStore creates an empty edge store.
func NewEdgeStore[P any]() *EdgeStore[P] {
	return &EdgeStore[P]{}
}

// Create appends a new edge from from to to. The proof thunk is wrapped so
// that forcing is memoized. A nil thunk is a bug in the caller and panics.
func (s *EdgeStore[P]) Create(from, to core.VertexID, rule core.Rule, proof func() (P, error)) Edge[P] {
	if proof == nil {
		panic("graph: nil proof thunk")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e := Edge[P]{
		ID:    core.EdgeID(len(s.edges)), //nolint:gosec
		From:  from,
		To:    to,
		Rule:  rule,
		force: sync.OnceValues(proof),
	}

	s.edges = append(s.edges, e)

	return e
}

// Get returns the edge stored at id. Ids the store never issued indicate a
// violated invariant and panic.
func (s *EdgeStore[P]) Get(id core.EdgeID) Edge[P] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if int(id) >= len(s.edges) {
		panic(fmt.Sprintf("graph: edge id %d out of range (store size %d)", id, len(s.edges)))
	}

	return s.edges[id]
}

// Len returns the number of edges issued.
func (s *EdgeStore[P]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.edges)
}
