package engine

import (
	"context"
	"fmt"

	"github.com/hupe1980/eqsearch/core"
	"github.com/hupe1980/eqsearch/graph"
	"github.com/hupe1980/eqsearch/rewrite"
)

// conclude reconstructs the proof once the meeting edge is known: it walks
// parent edges from both endpoints of the meeting edge back to their roots,
// stitches the chains into one left-root-to-right-root sequence, and hands
// the result to the composer. Every edge proof is forced at most once; the
// per-side units share the memoized values with the combined chain.
func conclude[E, P any](ctx context.Context, state *State[E, P], composer rewrite.Composer[P], meeting core.EdgeID, expansions int64) (Result[P], error) {
	e := state.Edge(meeting)

	src := state.Vertex(e.From)
	dst := state.Vertex(e.To)

	// The expanding vertex is always the From endpoint, so the side of
	// From is the side that discovered the meeting.
	var leftEnd, rightEnd graph.Vertex[E, P]
	if src.Side == core.SideLeft {
		leftEnd, rightEnd = src, dst
	} else {
		leftEnd, rightEnd = dst, src
	}

	leftSteps, err := chainFromRoot(ctx, state, leftEnd)
	if err != nil {
		return Result[P]{Meeting: meeting}, err
	}

	rightSteps, err := chainFromRoot(ctx, state, rightEnd)
	if err != nil {
		return Result[P]{Meeting: meeting}, err
	}

	meetingStep, err := stepFor(e, leftEnd.Pretty, rightEnd.Pretty, src.Side == core.SideRight)
	if err != nil {
		return Result[P]{Meeting: meeting}, err
	}

	combined := make([]rewrite.Step[P], 0, len(leftSteps)+1+len(rightSteps))
	combined = append(combined, leftSteps...)
	combined = append(combined, meetingStep)
	for i := len(rightSteps) - 1; i >= 0; i-- {
		combined = append(combined, flip(rightSteps[i]))
	}

	leftRoot := state.Vertex(core.LeftRootID)
	rightRoot := state.Vertex(core.RightRootID)

	proof, err := composer.Compose(ctx, leftRoot.Pretty, rightRoot.Pretty, combined)
	if err != nil {
		return Result[P]{Meeting: meeting}, fmt.Errorf("compose proof: %w", err)
	}

	units, err := buildUnits(ctx, state, composer, leftSteps, rightSteps, meetingStep, src.Side, leftEnd, rightEnd)
	if err != nil {
		return Result[P]{Meeting: meeting}, err
	}

	return Result[P]{
		Status:     StatusSuccess,
		Proof:      proof,
		Units:      units,
		Steps:      combined,
		Meeting:    meeting,
		Expansions: expansions,
	}, nil
}

// concludeTrivial resolves a goal whose sides already match canonically:
// the composed chain is empty and the proof is pure reflexivity.
func concludeTrivial[E, P any](ctx context.Context, state *State[E, P], composer rewrite.Composer[P]) (Result[P], error) {
	leftRoot := state.Vertex(core.LeftRootID)
	rightRoot := state.Vertex(core.RightRootID)

	proof, err := composer.Compose(ctx, leftRoot.Pretty, rightRoot.Pretty, nil)
	if err != nil {
		return Result[P]{Meeting: core.InvalidEdgeID}, fmt.Errorf("compose reflexivity proof: %w", err)
	}

	return Result[P]{
		Status:  StatusSuccess,
		Proof:   proof,
		Meeting: core.InvalidEdgeID,
	}, nil
}

// chainFromRoot collects the steps from v's root down to v, oriented away
// from the root. Roots return an empty chain.
func chainFromRoot[E, P any](ctx context.Context, state *State[E, P], v graph.Vertex[E, P]) ([]rewrite.Step[P], error) {
	var steps []rewrite.Step[P]

	cur := v
	for !cur.Root {
		if cur.Parent == core.InvalidEdgeID {
			panic(fmt.Sprintf("engine: non-root vertex %d has no parent edge", cur.ID))
		}
		if err := ctx.Err(); err != nil {
			return nil, abortBudget(context.Cause(ctx))
		}

		e := state.Edge(cur.Parent)

		prev, ok := graph.OtherEndpoint(e, cur.ID)
		if !ok {
			panic(fmt.Sprintf("engine: parent edge %d does not touch vertex %d", e.ID, cur.ID))
		}

		parent := state.Vertex(prev)

		// Parent edges always run from the expanding vertex to the
		// discovered one, so along the root-outward chain this step is
		// forward-oriented.
		step, err := stepFor(e, parent.Pretty, cur.Pretty, false)
		if err != nil {
			return nil, err
		}

		steps = append(steps, step)
		cur = parent
	}

	// Collected leaf-to-root; reverse in place for root-outward order.
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}

	return steps, nil
}

// buildUnits groups the per-side chains for diagnostic reporting. The
// meeting step is attributed to the side that discovered it.
func buildUnits[E, P any](ctx context.Context, state *State[E, P], composer rewrite.Composer[P], leftSteps, rightSteps []rewrite.Step[P], meetingStep rewrite.Step[P], discoverer core.Side, leftEnd, rightEnd graph.Vertex[E, P]) ([]ProofUnit[P], error) {
	leftRoot := state.Vertex(core.LeftRootID)
	rightRoot := state.Vertex(core.RightRootID)

	leftUnit := append([]rewrite.Step[P]{}, leftSteps...)
	leftTo := leftEnd.Pretty

	rightUnit := append([]rewrite.Step[P]{}, rightSteps...)
	rightTo := rightEnd.Pretty

	if discoverer == core.SideLeft {
		leftUnit = append(leftUnit, meetingStep)
		leftTo = rightEnd.Pretty
	} else {
		// Discovered while expanding the right tree: oriented from the
		// right endpoint toward the left one.
		rightUnit = append(rightUnit, flip(meetingStep))
		rightTo = leftEnd.Pretty
	}

	leftProof, err := composer.Compose(ctx, leftRoot.Pretty, leftTo, leftUnit)
	if err != nil {
		return nil, fmt.Errorf("compose left unit: %w", err)
	}

	rightProof, err := composer.Compose(ctx, rightRoot.Pretty, rightTo, rightUnit)
	if err != nil {
		return nil, fmt.Errorf("compose right unit: %w", err)
	}

	return []ProofUnit[P]{
		{Side: core.SideLeft, Proof: leftProof, Steps: leftUnit},
		{Side: core.SideRight, Proof: rightProof, Steps: rightUnit},
	}, nil
}

// stepFor forces the edge's proof and binds it to an oriented step.
func stepFor[P any](e graph.Edge[P], from, to string, reversed bool) (rewrite.Step[P], error) {
	proof, err := e.Proof()
	if err != nil {
		return rewrite.Step[P]{}, fmt.Errorf("force proof for rule %s: %w", e.Rule, err)
	}

	return rewrite.Step[P]{
		Rule:     e.Rule,
		Proof:    proof,
		Reversed: reversed,
		From:     from,
		To:       to,
	}, nil
}

// flip reverses a step's orientation along a chain.
func flip[P any](s rewrite.Step[P]) rewrite.Step[P] {
	s.Reversed = !s.Reversed
	s.From, s.To = s.To, s.From
	return s
}
