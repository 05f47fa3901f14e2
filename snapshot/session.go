package snapshot

import (
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/eqsearch/core"
)

// Session is the persisted form of a finished (or aborted) search
// session. Proof objects are opaque to the engine and are not persisted;
// the step records keep the rule chain for diagnostics and replay against
// a live rewrite capability.
type Session struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	// Status is "success", "exhausted" or "aborted".
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`

	// LHS and RHS are the canonical forms of the goal sides.
	LHS string `json:"lhs"`
	RHS string `json:"rhs"`

	Tokens   []TokenRecord  `json:"tokens"`
	Vertices []VertexRecord `json:"vertices"`
	Edges    []EdgeRecord   `json:"edges"`

	// Steps is the combined left-root-to-right-root chain, empty unless
	// Status is "success".
	Steps []StepRecord `json:"steps,omitempty"`
}

// TokenRecord is one interned token with its per-side frequencies.
type TokenRecord struct {
	ID    core.TokenID `json:"id"`
	Text  string       `json:"text"`
	Left  uint32       `json:"left"`
	Right uint32       `json:"right"`
}

// VertexRecord is one explored expression.
type VertexRecord struct {
	ID      core.VertexID `json:"id"`
	Pretty  string        `json:"pretty"`
	Side    core.Side     `json:"side"`
	Root    bool          `json:"root,omitempty"`
	Visited bool          `json:"visited,omitempty"`

	// Parent is the justifying edge id, or core.InvalidEdgeID at roots.
	Parent core.EdgeID `json:"parent"`
}

// EdgeRecord is one justified transition.
type EdgeRecord struct {
	ID       core.EdgeID   `json:"id"`
	From     core.VertexID `json:"from"`
	To       core.VertexID `json:"to"`
	Rule     string        `json:"rule"`
	Reversed bool          `json:"reversed,omitempty"`
}

// StepRecord is one link of the combined proof chain.
type StepRecord struct {
	Rule     string `json:"rule"`
	Reversed bool   `json:"reversed,omitempty"`
	From     string `json:"from"`
	To       string `json:"to"`
}
