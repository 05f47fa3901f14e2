package journal

import (
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/eqsearch/core"
)

// DurabilityMode defines the fsync behavior for journal writes.
type DurabilityMode int

const (
	// DurabilityNone never fsyncs; the OS flushes on its own schedule.
	// Fastest, suitable when the journal is purely diagnostic.
	DurabilityNone DurabilityMode = iota

	// DurabilityAsync fsyncs periodically from a background goroutine.
	// Bounded data loss on crash, small overhead per append.
	DurabilityAsync

	// DurabilitySync fsyncs after every append. Slowest but loses
	// nothing; use when the journal doubles as an audit trail.
	DurabilitySync
)

// OpType represents the type of event in the journal.
type OpType uint8

const (
	// OpVertex records a vertex entering the graph: a goal root or a
	// fresh discovery together with its justifying edge.
	OpVertex OpType = iota

	// OpDuplicate records a rewrite discarded as a same-side duplicate.
	OpDuplicate

	// OpExpand records a vertex whose rule iterator was exhausted.
	OpExpand

	// OpMeeting records the edge connecting the two search trees.
	OpMeeting

	// OpResult records the terminal outcome of the session.
	OpResult

	// OpAbort records a budget or capability abort.
	OpAbort
)

// String returns a string representation of the OpType.
func (t OpType) String() string {
	switch t {
	case OpVertex:
		return "vertex"
	case OpDuplicate:
		return "duplicate"
	case OpExpand:
		return "expand"
	case OpMeeting:
		return "meeting"
	case OpResult:
		return "result"
	case OpAbort:
		return "abort"
	default:
		return "unknown"
	}
}

// Entry represents a single event in the journal.
type Entry struct {
	Type   OpType
	SeqNum uint64

	// Vertex and Edge identify the subject of the event;
	// core.InvalidVertexID / core.InvalidEdgeID when not applicable.
	Vertex core.VertexID
	Edge   core.EdgeID

	Side  core.Side
	Depth int32

	// Rule justifies OpVertex, OpDuplicate and OpMeeting events.
	Rule core.Rule

	// Pretty carries the canonical form involved, or the outcome
	// message for OpResult and OpAbort.
	Pretty string
}

// Options contains configuration for the journal.
type Options struct {
	// Path is the directory where journal files are stored.
	Path string

	// SessionID names the search session. A zero value gets a fresh
	// random id.
	SessionID uuid.UUID

	// Compress enables zstd stream compression.
	Compress bool

	// CompressionLevel sets the zstd compression level (1-22).
	// Default (3) provides a good balance.
	CompressionLevel int

	// DurabilityMode controls fsync behavior (None, Async, Sync).
	DurabilityMode DurabilityMode

	// SyncInterval is the background fsync period in Async mode.
	SyncInterval time.Duration
}

// DefaultOptions returns default journal options.
var DefaultOptions = Options{
	Path:             ".",
	Compress:         false,
	CompressionLevel: 3,
	DurabilityMode:   DurabilityNone,
	SyncInterval:     10 * time.Millisecond,
}
