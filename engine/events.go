package engine

import "github.com/hupe1980/eqsearch/core"

// EventKind identifies what happened during an expansion step.
type EventKind uint8

const (
	// EventRootAdded fires once per goal side during initialization.
	EventRootAdded EventKind = iota

	// EventVertexDiscovered fires when a rewrite produced a fresh vertex.
	EventVertexDiscovered

	// EventDuplicateDiscarded fires when a rewrite matched an existing
	// vertex on the same side and was dropped.
	EventDuplicateDiscarded

	// EventVertexExpanded fires when a vertex's rule iterator is
	// exhausted and the vertex is marked visited.
	EventVertexExpanded

	// EventMeeting fires when an edge connects the two search trees.
	EventMeeting
)

// String returns a string representation of the EventKind.
func (k EventKind) String() string {
	switch k {
	case EventRootAdded:
		return "root_added"
	case EventVertexDiscovered:
		return "vertex_discovered"
	case EventDuplicateDiscarded:
		return "duplicate_discarded"
	case EventVertexExpanded:
		return "vertex_expanded"
	case EventMeeting:
		return "meeting"
	default:
		return "unknown"
	}
}

// Event describes one observable driver action. Diagnostics are threaded
// through an explicit observer rather than ambient tracing state.
type Event struct {
	Kind EventKind

	// Vertex is the subject vertex: the discovered vertex, the expanded
	// vertex, or the opposite-side vertex reached by the meeting edge.
	Vertex core.VertexID

	// Edge is the created edge for discovery and meeting events, and
	// core.InvalidEdgeID otherwise.
	Edge core.EdgeID

	Side  core.Side
	Depth int

	// Step is the expansion step count at the time of the event.
	Step int64

	// Pretty is the canonical form involved, when one is.
	Pretty string

	// Rule justifies the edge for discovery and meeting events.
	Rule core.Rule
}

// Observer receives driver events. Callbacks run synchronously on the
// expanding goroutine and must be fast; they may be invoked concurrently
// by ParallelDriver workers.
type Observer func(Event)
