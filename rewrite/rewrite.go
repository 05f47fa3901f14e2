// Package rewrite defines the external capabilities the search engine
// consumes: a Rewriter producing rule applications for an expression, and a
// Composer folding justified steps into a single proof.
//
// The engine treats expressions (type parameter E) and proofs (type
// parameter P) as opaque. Applicability checking, proof-term construction
// and pretty-printing all live behind these interfaces.
package rewrite

import (
	"context"

	"github.com/hupe1980/eqsearch/core"
)

// Rewriter enumerates the rewrite rules applicable to an expression.
//
// Iteration is lazy and resumable: the engine passes back the cursor from
// the previous Outcome, so an implementation can continue where it left off
// instead of re-deriving from scratch. Implementations may return several
// rewrites per call; the engine buffers and consumes them one expansion step
// at a time.
type Rewriter[E, P any] interface {
	// NextRules resumes rule iteration for expr at cursor. An Outcome with
	// no rewrites reports that the iterator is exhausted.
	NextRules(ctx context.Context, expr E, cursor int) (Outcome[E, P], error)
}

// Outcome is one batch of rule applications discovered by a Rewriter.
type Outcome[E, P any] struct {
	// Rewrites holds the rule applications discovered by this call, in the
	// order they should be tried. Empty means no more rules apply.
	Rewrites []Rewrite[E, P]

	// Cursor is the resume position for the next NextRules call.
	Cursor int
}

// Rewrite is a single successful rule application.
type Rewrite[E, P any] struct {
	// Expr is the resulting expression.
	Expr E

	// Pretty is the canonical printed form of Expr. The engine keys all
	// duplicate detection and token heuristics on it.
	Pretty string

	// Rule describes the rewrite that was applied.
	Rule core.Rule

	// Proof lazily produces the proof that the source expression equals
	// Expr. The engine forces it at most once.
	Proof func() (P, error)
}

// Composer folds an ordered chain of justified steps into one proof.
type Composer[P any] interface {
	// Compose returns a proof that the expression printed as from equals
	// the one printed as to, following steps in order. steps may be empty,
	// in which case from and to are canonically equal and the result is a
	// reflexivity proof. Steps marked Reversed prove to-equals-from and
	// must be flipped by the composer.
	Compose(ctx context.Context, from, to string, steps []Step[P]) (P, error)
}

// Step is one link in a chain handed to a Composer.
type Step[P any] struct {
	// Rule describes the rewrite justifying the step.
	Rule core.Rule

	// Proof is the forced proof object of the step's edge.
	Proof P

	// Reversed marks that Proof equates To with From rather than From
	// with To.
	Reversed bool

	// From and To are the canonical forms on either end of the step,
	// oriented along the composed chain.
	From string
	To   string
}
