// Package core defines the identifier types and descriptors shared by all
// eqsearch packages. Vertices, edges and tokens are arena-allocated and
// referenced everywhere by dense integer ids, never by pointer, so the
// parent/adjacency relationships between vertices and edges cannot form
// reference cycles.
package core

// VertexID is a dense, internal identifier for a vertex within a single
// search session. It is strictly 32-bit. Used for all hot-path structures
// (adjacency lists, frontier queues, posting bitmaps).
type VertexID uint32

// EdgeID is a dense, internal identifier for an edge within a single
// search session.
type EdgeID uint32

// TokenID is a dense, internal identifier for an interned token.
type TokenID uint32

// InvalidVertexID is the sentinel for "no vertex". It is never issued by a
// vertex store.
const InvalidVertexID = ^VertexID(0)

// InvalidEdgeID is the sentinel for "no edge". Root vertices carry it as
// their parent edge.
const InvalidEdgeID = ^EdgeID(0)

// Reserved vertex ids for the two goal expressions. The vertex store issues
// these for the first two vertices created, so the left root is always id 0
// and the right root always id 1.
const (
	LeftRootID  VertexID = 0
	RightRootID VertexID = 1
)
