package engine

import (
	"fmt"
	"sync"

	"github.com/hupe1980/eqsearch/core"
	"github.com/hupe1980/eqsearch/graph"
	"github.com/hupe1980/eqsearch/rewrite"
	"github.com/hupe1980/eqsearch/token"
)

// State aggregates everything a search session owns: the token table, the
// posting index, the vertex and edge arenas. All graph mutations run under
// a single mutex, so a discovery is one atomic check-and-insert even with
// one expansion worker per side.
type State[E, P any] struct {
	mu       sync.Mutex
	tokens   *token.Table
	postings *token.Postings
	vertices *graph.VertexStore[E, P]
	edges    *graph.EdgeStore[P]
}

// NewState creates an empty search state. A nil keyFn matches vertices on
// their pretty form verbatim.
func NewState[E, P any](keyFn graph.KeyFunc) *State[E, P] {
	return &State[E, P]{
		tokens:   token.NewTable(),
		postings: token.NewPostings(),
		vertices: graph.NewVertexStore[E, P](keyFn),
		edges:    graph.NewEdgeStore[P](),
	}
}

// Tokens returns the session's token table.
func (s *State[E, P]) Tokens() *token.Table {
	return s.tokens
}

// Postings returns the session's token posting index.
func (s *State[E, P]) Postings() *token.Postings {
	return s.postings
}

// AddRoot creates a root vertex for one side of the goal. The left root
// must be added first so that the reserved ids 0 and 1 line up.
func (s *State[E, P]) AddRoot(expr E, pretty string, side core.Side) graph.Vertex[E, P] {
	s.mu.Lock()
	defer s.mu.Unlock()

	tokens := s.tokens.Intern(pretty, side)

	v := s.vertices.Create(expr, pretty, tokens, true, side)
	if v.ID != side.Root() {
		panic(fmt.Sprintf("engine: root for %v allocated id %d, want %d", side, v.ID, side.Root()))
	}

	s.postings.AddAll(tokens, v.ID)

	return v
}

// Vertex returns a snapshot of the vertex stored at id.
func (s *State[E, P]) Vertex(id core.VertexID) graph.Vertex[E, P] {
	return s.vertices.Get(id)
}

// UpdateVertex applies fn to the vertex stored at id and writes it back,
// as one atomic read-modify-write. It returns the updated vertex.
func (s *State[E, P]) UpdateVertex(id core.VertexID, fn func(*graph.Vertex[E, P])) graph.Vertex[E, P] {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.vertices.Get(id)
	fn(&v)
	s.vertices.Set(v)

	return v
}

// Edge returns the edge stored at id.
func (s *State[E, P]) Edge(id core.EdgeID) graph.Edge[P] {
	return s.edges.Get(id)
}

// DiscoveryKind classifies what recording a rewrite produced.
type DiscoveryKind uint8

const (
	// DiscoveryFresh means a new vertex and its justifying edge were
	// created.
	DiscoveryFresh DiscoveryKind = iota

	// DiscoveryDuplicate means the result matched an existing vertex on
	// the same side. Nothing was recorded; the rewrite is a
	// non-simplifying cycle.
	DiscoveryDuplicate

	// DiscoveryMeeting means the result matched a vertex on the opposite
	// side. The recorded edge connects the two search trees.
	DiscoveryMeeting
)

// Discovery is the outcome of recording one rewrite.
type Discovery[E, P any] struct {
	Kind DiscoveryKind

	// Vertex is the matched or created vertex.
	Vertex graph.Vertex[E, P]

	// Edge is the created edge. Unset for DiscoveryDuplicate.
	Edge graph.Edge[P]
}

// Discover records the result of applying rw at vertex from: it looks up
// the canonical form, and either discards a same-side duplicate, creates
// the meeting edge to an opposite-side match, or creates a fresh vertex
// with its justifying edge. The whole operation is atomic.
func (s *State[E, P]) Discover(from core.VertexID, rw rewrite.Rewrite[E, P]) Discovery[E, P] {
	s.mu.Lock()
	defer s.mu.Unlock()

	src := s.vertices.Get(from)

	if id, ok := s.vertices.Lookup(rw.Pretty); ok {
		match := s.vertices.Get(id)

		if match.Side == src.Side {
			return Discovery[E, P]{Kind: DiscoveryDuplicate, Vertex: match}
		}

		e := s.edges.Create(from, id, rw.Rule, rw.Proof)
		s.appendAdjacencyLocked(from, e.ID)
		s.appendAdjacencyLocked(id, e.ID)

		return Discovery[E, P]{Kind: DiscoveryMeeting, Vertex: match, Edge: e}
	}

	tokens := s.tokens.Intern(rw.Pretty, src.Side)

	v := s.vertices.Create(rw.Expr, rw.Pretty, tokens, false, src.Side)
	s.postings.AddAll(tokens, v.ID)

	e := s.edges.Create(from, v.ID, rw.Rule, rw.Proof)

	v.Parent = e.ID
	v.Adjacency = append(v.Adjacency, e.ID)
	s.vertices.Set(v)

	s.appendAdjacencyLocked(from, e.ID)

	return Discovery[E, P]{Kind: DiscoveryFresh, Vertex: v, Edge: e}
}

func (s *State[E, P]) appendAdjacencyLocked(id core.VertexID, edge core.EdgeID) {
	v := s.vertices.Get(id)
	v.Adjacency = append(v.Adjacency, edge)
	s.vertices.Set(v)
}

// Key returns the canonical matching key for a pretty form.
func (s *State[E, P]) Key(pretty string) string {
	return s.vertices.Key(pretty)
}

// VertexCount returns the number of vertices in the session.
func (s *State[E, P]) VertexCount() int {
	return s.vertices.Len()
}

// EdgeCount returns the number of edges in the session.
func (s *State[E, P]) EdgeCount() int {
	return s.edges.Len()
}

// TokenCount returns the number of distinct tokens in the session.
func (s *State[E, P]) TokenCount() int {
	return s.tokens.Len()
}
