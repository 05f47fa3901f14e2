// Package graph holds the arena-backed vertex and edge stores of a search
// session. Both arenas are append-only and index-addressed: vertices and
// edges reference each other by dense ids only, so the parent/adjacency
// relationships cannot form ownership cycles. Ids 0 and 1 are reserved for
// the left and right goal roots.
package graph

import (
	"fmt"
	"sync"

	"github.com/hupe1980/eqsearch/core"
	"github.com/hupe1980/eqsearch/rewrite"
)

// KeyFunc canonicalizes a pretty form for duplicate detection. Two
// expressions whose keys match are treated as the same vertex.
type KeyFunc func(pretty string) string

// Vertex is one explored expression. Vertices are exclusively owned by the
// VertexStore; all other components hold the id.
type Vertex[E, P any] struct {
	ID     core.VertexID
	Expr   E
	Pretty string

	// Tokens holds the ordered token ids of the pretty form.
	Tokens []core.TokenID

	Root bool
	Side core.Side

	// Visited is set once the rule iterator for this vertex is exhausted.
	Visited bool

	// Parent is the edge over which this vertex was first reached from its
	// side's root, or core.InvalidEdgeID at the roots.
	Parent core.EdgeID

	// Cursor is the resume position for the external rule iterator.
	Cursor int

	// Pending buffers rule applications the rewriter has produced but the
	// driver has not consumed yet.
	Pending []rewrite.Rewrite[E, P]

	// Adjacency lists every edge touching this vertex.
	Adjacency []core.EdgeID
}

// VertexStore is the append-only vertex arena plus a canonical-form index
// for duplicate detection.
type VertexStore[E, P any] struct {
	mu       sync.RWMutex
	keyFn    KeyFunc
	vertices []Vertex[E, P]
	byKey    map[string]core.VertexID
}

// NewVertexStore creates an empty vertex store. A nil keyFn means vertices
// are matched on the pretty form verbatim.
func NewVertexStore[E, P any](keyFn KeyFunc) *VertexStore[E, P] {
	if keyFn == nil {
		keyFn = func(pretty string) string { return pretty }
	}

	return &VertexStore[E, P]{
		keyFn: keyFn,
		byKey: make(map[string]core.VertexID),
	}
}

// Key returns the canonical matching key for a pretty form.
func (s *VertexStore[E, P]) Key(pretty string) string {
	return s.keyFn(pretty)
}

// Create allocates the next vertex id for expr. The first two created
// vertices take the reserved root ids 0 and 1. The canonical key is
// registered first-match-wins and fixed for the vertex's lifetime.
func (s *VertexStore[E, P]) Create(expr E, pretty string, tokens []core.TokenID, root bool, side core.Side) Vertex[E, P] {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.createLocked(expr, pretty, tokens, root, side)
}

// GetOrCreate returns the vertex whose canonical key matches pretty, or
// creates a non-root vertex when none exists. The second return reports
// whether a vertex was created. This is the check-and-insert used for
// duplicate detection during expansion.
func (s *VertexStore[E, P]) GetOrCreate(expr E, pretty string, tokens []core.TokenID, side core.Side) (Vertex[E, P], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.byKey[s.keyFn(pretty)]; ok {
		return s.vertices[id], false
	}

	return s.createLocked(expr, pretty, tokens, false, side), true
}

func (s *VertexStore[E, P]) createLocked(expr E, pretty string, tokens []core.TokenID, root bool, side core.Side) Vertex[E, P] {
	v := Vertex[E, P]{
		ID:     core.VertexID(len(s.vertices)), //nolint:gosec
		Expr:   expr,
		Pretty: pretty,
		Tokens: tokens,
		Root:   root,
		Side:   side,
		Parent: core.InvalidEdgeID,
	}

	s.vertices = append(s.vertices, v)

	key := s.keyFn(pretty)
	if _, ok := s.byKey[key]; !ok {
		s.byKey[key] = v.ID
	}

	return v
}

// Get returns the vertex stored at id. Ids the store never issued indicate
// a violated invariant and panic.
func (s *VertexStore[E, P]) Get(id core.VertexID) Vertex[E, P] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if int(id) >= len(s.vertices) {
		panic(fmt.Sprintf("graph: vertex id %d out of range (store size %d)", id, len(s.vertices)))
	}

	return s.vertices[id]
}

// Set overwrites the stored vertex at v.ID. Used to record expansion
// progress (visited flag, cursor, pending buffer, parent, adjacency)
// without reallocating.
func (s *VertexStore[E, P]) Set(v Vertex[E, P]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if int(v.ID) >= len(s.vertices) {
		panic(fmt.Sprintf("graph: vertex id %d out of range (store size %d)", v.ID, len(s.vertices)))
	}

	s.vertices[v.ID] = v
}

// Lookup returns the id of the vertex whose canonical key matches pretty.
func (s *VertexStore[E, P]) Lookup(pretty string) (core.VertexID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byKey[s.keyFn(pretty)]
	return id, ok
}

// Len returns the number of vertices issued.
func (s *VertexStore[E, P]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.vertices)
}
