package eqsearch

import (
	"github.com/hupe1980/eqsearch/core"
	"github.com/hupe1980/eqsearch/engine"
	"github.com/hupe1980/eqsearch/rewrite"
)

// Status is the terminal status of a completed search. Aborts are
// returned as errors instead.
type Status uint8

const (
	// StatusSuccess means a proof connecting the two sides was found.
	StatusSuccess Status = iota

	// StatusExhausted means the search space drained without a meeting.
	StatusExhausted
)

// String returns a string representation of the Status.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Step is one justified link of a proof chain, oriented along the chain.
type Step struct {
	Rule core.Rule

	// From and To are the canonical forms on either end of the step.
	From string
	To   string

	// Reversed marks that the rule's proof equates To with From rather
	// than From with To.
	Reversed bool
}

// ProofUnit groups the steps contributed by one goal side. Steps run
// from the side's root outward; the meeting step belongs to the unit of
// the side that discovered it.
type ProofUnit[P any] struct {
	Side  core.Side
	Proof P
	Steps []Step
}

// Result is the outcome of a search that ran to an ordinary conclusion.
type Result[P any] struct {
	Status Status

	// Message describes the failure for StatusExhausted.
	Message string

	// Proof equates the two goal expressions. Set for StatusSuccess.
	Proof P

	// Units groups the per-side step chains.
	Units []ProofUnit[P]

	// Steps is the combined chain from the left root to the right root.
	Steps []Step

	// Expansions is the number of expansion steps performed.
	Expansions int64
}

// Stats reports the sizes reached by the most recent search.
type Stats struct {
	Tokens          int
	Vertices        int
	Edges           int
	Steps           int64
	MaxDepthReached int
}

func publicSteps[P any](in []rewrite.Step[P]) []Step {
	if len(in) == 0 {
		return nil
	}
	out := make([]Step, len(in))
	for i, s := range in {
		out[i] = Step{Rule: s.Rule, From: s.From, To: s.To, Reversed: s.Reversed}
	}
	return out
}

func publicResult[P any](in engine.Result[P]) Result[P] {
	out := Result[P]{
		Message:    in.Message,
		Proof:      in.Proof,
		Steps:      publicSteps(in.Steps),
		Expansions: in.Expansions,
	}
	if in.Status == engine.StatusExhausted {
		out.Status = StatusExhausted
	}
	for _, u := range in.Units {
		out.Units = append(out.Units, ProofUnit[P]{
			Side:  u.Side,
			Proof: u.Proof,
			Steps: publicSteps(u.Steps),
		})
	}
	return out
}
