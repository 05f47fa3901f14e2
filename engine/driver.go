package engine

import (
	"context"
	"sync/atomic"

	"github.com/hupe1980/eqsearch/core"
	"github.com/hupe1980/eqsearch/graph"
	"github.com/hupe1980/eqsearch/resource"
	"github.com/hupe1980/eqsearch/rewrite"
	"github.com/hupe1980/eqsearch/strategy"
	"github.com/hupe1980/eqsearch/token"
)

// Config bundles a driver's budgets and optional collaborators.
type Config struct {
	// MaxDepth caps how deep either search tree is expanded. Frontier
	// entries beyond the cap are dropped, so an out-of-depth search
	// surfaces as ordinary exhaustion, not an abort. Negative means
	// unlimited.
	MaxDepth int

	// MaxSteps caps the number of expansion steps across the whole
	// search. Exceeding it aborts. Negative means unlimited; zero aborts
	// before the first expansion.
	MaxSteps int

	// Observer receives driver events. Optional.
	Observer Observer

	// Logger used for driver progress. Optional.
	Logger Logger

	// Controller governs calls to the rewrite capability. Optional.
	Controller *resource.Controller
}

// StepOutcome is the state-machine result of one expansion step.
type StepOutcome uint8

const (
	// StepContinue means the step made progress; keep searching.
	StepContinue StepOutcome = iota

	// StepRepeat means the step discarded a same-side duplicate; the same
	// vertex has more rules to try.
	StepRepeat

	// StepDone means the meeting edge was found. Terminal success.
	StepDone

	// StepExhausted means the frontier drained without a meeting.
	// Terminal ordinary failure.
	StepExhausted

	// StepAbort means a budget or the external capability cut the search
	// short. Terminal.
	StepAbort
)

// StepResult carries the outcome of one expansion step.
type StepResult struct {
	Outcome StepOutcome

	// Meeting is the edge connecting the two trees when Outcome is
	// StepDone, and core.InvalidEdgeID otherwise.
	Meeting core.EdgeID

	// Err is the abort cause when Outcome is StepAbort.
	Err error
}

// Status is the terminal status of a completed search.
type Status uint8

const (
	// StatusSuccess means a proof connecting the two sides was found.
	StatusSuccess Status = iota

	// StatusExhausted means the search space drained without a meeting.
	StatusExhausted
)

// ProofUnit groups the proof steps contributed by one goal side, for
// diagnostic reporting. Steps run from the side's root outward; the
// meeting edge belongs to the unit of the side that discovered it.
type ProofUnit[P any] struct {
	Side  core.Side
	Proof P
	Steps []rewrite.Step[P]
}

// Result is the terminal outcome of a driver run. Aborts are returned as
// errors instead.
type Result[P any] struct {
	Status Status

	// Message describes the failure for StatusExhausted.
	Message string

	// Proof equates the two goal expressions. Set for StatusSuccess.
	Proof P

	// Units groups the per-side step chains.
	Units []ProofUnit[P]

	// Steps is the combined chain from the left root to the right root.
	Steps []rewrite.Step[P]

	// Meeting is the edge that connected the trees, or core.InvalidEdgeID
	// when the goal was trivial or the search failed.
	Meeting core.EdgeID

	// Expansions is the number of expansion steps performed.
	Expansions int64
}

// Driver is the single-threaded reference loop: it expands one frontier
// vertex at a time until the trees meet, the space is exhausted, or a
// budget trips.
type Driver[E, P any] struct {
	state    *State[E, P]
	rewriter rewrite.Rewriter[E, P]
	composer rewrite.Composer[P]
	frontier strategy.Strategy
	cfg      Config
	logger   Logger

	steps   *atomic.Int64
	scorers [2]*token.Scorer

	current    core.VertexID
	curDepth   int
	hasCurrent bool
	trivial    bool
	seeded     bool
}

// NewDriver creates a driver over state using the given capabilities and
// frontier policy. Call Init before Run.
func NewDriver[E, P any](state *State[E, P], rw rewrite.Rewriter[E, P], comp rewrite.Composer[P], frontier strategy.Strategy, cfg Config) *Driver[E, P] {
	return newDriver(state, rw, comp, frontier, cfg, new(atomic.Int64))
}

func newDriver[E, P any](state *State[E, P], rw rewrite.Rewriter[E, P], comp rewrite.Composer[P], frontier strategy.Strategy, cfg Config, steps *atomic.Int64) *Driver[E, P] {
	logger := cfg.Logger
	if logger == nil {
		logger = &noopLogger{}
	}

	return &Driver[E, P]{
		state:    state,
		rewriter: rw,
		composer: comp,
		frontier: frontier,
		cfg:      cfg,
		logger:   logger,
		steps:    steps,
	}
}

// Init creates the two root vertices and seeds the frontier. A goal whose
// sides already match canonically is flagged trivial and resolved by Run
// without any expansion.
func (d *Driver[E, P]) Init(lhs E, lhsPretty string, rhs E, rhsPretty string) {
	if d.seeded {
		panic("engine: driver initialized twice")
	}
	d.seeded = true

	left := d.state.AddRoot(lhs, lhsPretty, core.SideLeft)
	right := d.state.AddRoot(rhs, rhsPretty, core.SideRight)

	d.scorers[core.SideLeft] = token.NewScorer(d.state.Postings(), right.Tokens)
	d.scorers[core.SideRight] = token.NewScorer(d.state.Postings(), left.Tokens)

	d.emit(Event{Kind: EventRootAdded, Vertex: left.ID, Edge: core.InvalidEdgeID, Side: core.SideLeft, Pretty: left.Pretty})
	d.emit(Event{Kind: EventRootAdded, Vertex: right.ID, Edge: core.InvalidEdgeID, Side: core.SideRight, Pretty: right.Pretty})

	if d.state.Key(lhsPretty) == d.state.Key(rhsPretty) {
		d.trivial = true
		d.logger.Infof("goal sides match canonically, no search needed")
		return
	}

	d.enqueue(left, 0)
	d.enqueue(right, 0)

	d.logger.Infof("search initialized: %q vs %q", lhsPretty, rhsPretty)
}

// Step performs one expansion step of the state machine.
//
// A popped vertex stays current across steps until its rule iterator is
// exhausted; StepContinue and StepRepeat differ only in whether the step
// added anything to the graph. Budgets are checked before any work.
func (d *Driver[E, P]) Step(ctx context.Context) StepResult {
	if ctx.Err() != nil {
		return StepResult{Outcome: StepAbort, Meeting: core.InvalidEdgeID, Err: abortBudget(context.Cause(ctx))}
	}

	if d.cfg.MaxSteps >= 0 && d.steps.Load() >= int64(d.cfg.MaxSteps) {
		return StepResult{Outcome: StepAbort, Meeting: core.InvalidEdgeID, Err: abortBudget(ErrBudget)}
	}

	if !d.hasCurrent {
		item, ok := d.nextItem()
		if !ok {
			return StepResult{Outcome: StepExhausted, Meeting: core.InvalidEdgeID}
		}
		d.current, d.curDepth, d.hasCurrent = item.Vertex, item.Depth, true
	}

	d.steps.Add(1)

	v := d.state.Vertex(d.current)

	if len(v.Pending) == 0 {
		out, err := d.nextRules(ctx, v)
		if err != nil {
			d.hasCurrent = false
			if ctx.Err() != nil {
				return StepResult{Outcome: StepAbort, Meeting: core.InvalidEdgeID, Err: abortBudget(context.Cause(ctx))}
			}
			return StepResult{Outcome: StepAbort, Meeting: core.InvalidEdgeID, Err: abortRewriter(err)}
		}

		if len(out.Rewrites) == 0 {
			d.state.UpdateVertex(d.current, func(v *graph.Vertex[E, P]) {
				v.Visited = true
				v.Cursor = out.Cursor
			})
			d.hasCurrent = false

			d.emit(Event{Kind: EventVertexExpanded, Vertex: v.ID, Edge: core.InvalidEdgeID, Side: v.Side, Depth: d.curDepth, Step: d.steps.Load(), Pretty: v.Pretty})

			return StepResult{Outcome: StepContinue, Meeting: core.InvalidEdgeID}
		}

		v = d.state.UpdateVertex(d.current, func(v *graph.Vertex[E, P]) {
			v.Pending = append(v.Pending, out.Rewrites...)
			v.Cursor = out.Cursor
		})
	}

	rw := v.Pending[0]
	d.state.UpdateVertex(d.current, func(v *graph.Vertex[E, P]) {
		v.Pending = v.Pending[1:]
	})

	disc := d.state.Discover(d.current, rw)

	switch disc.Kind {
	case DiscoveryDuplicate:
		d.emit(Event{Kind: EventDuplicateDiscarded, Vertex: disc.Vertex.ID, Edge: core.InvalidEdgeID, Side: v.Side, Depth: d.curDepth, Step: d.steps.Load(), Pretty: rw.Pretty, Rule: rw.Rule})

		return StepResult{Outcome: StepRepeat, Meeting: core.InvalidEdgeID}

	case DiscoveryMeeting:
		d.hasCurrent = false

		d.emit(Event{Kind: EventMeeting, Vertex: disc.Vertex.ID, Edge: disc.Edge.ID, Side: v.Side, Depth: d.curDepth, Step: d.steps.Load(), Pretty: rw.Pretty, Rule: rw.Rule})
		d.logger.Infof("search trees met at %q after %d steps", rw.Pretty, d.steps.Load())

		return StepResult{Outcome: StepDone, Meeting: disc.Edge.ID}

	default:
		d.enqueue(disc.Vertex, d.curDepth+1)

		d.emit(Event{Kind: EventVertexDiscovered, Vertex: disc.Vertex.ID, Edge: disc.Edge.ID, Side: disc.Vertex.Side, Depth: d.curDepth + 1, Step: d.steps.Load(), Pretty: rw.Pretty, Rule: rw.Rule})

		return StepResult{Outcome: StepContinue, Meeting: core.InvalidEdgeID}
	}
}

// Run steps the state machine to a terminal outcome and reconstructs the
// proof on success. Ordinary outcomes are carried in the Result; aborts
// are returned as an *AbortError.
func (d *Driver[E, P]) Run(ctx context.Context) (Result[P], error) {
	if !d.seeded {
		panic("engine: driver not initialized")
	}

	if d.trivial {
		return concludeTrivial(ctx, d.state, d.composer)
	}

	for {
		res := d.Step(ctx)

		switch res.Outcome {
		case StepContinue, StepRepeat:

		case StepDone:
			return conclude(ctx, d.state, d.composer, res.Meeting, d.steps.Load())

		case StepExhausted:
			d.logger.Infof("search space exhausted after %d steps", d.steps.Load())

			return Result[P]{
				Status:     StatusExhausted,
				Message:    ErrExhausted.Error(),
				Meeting:    core.InvalidEdgeID,
				Expansions: d.steps.Load(),
			}, nil

		case StepAbort:
			d.logger.Errorf("search aborted after %d steps: %v", d.steps.Load(), res.Err)

			return Result[P]{Meeting: core.InvalidEdgeID}, res.Err
		}
	}
}

// Expansions returns the number of expansion steps performed so far.
func (d *Driver[E, P]) Expansions() int64 {
	return d.steps.Load()
}

// nextItem pops the next expandable frontier entry, dropping entries that
// are beyond the depth cap or already visited.
func (d *Driver[E, P]) nextItem() (strategy.Item, bool) {
	for {
		item, ok := d.frontier.Next()
		if !ok {
			return strategy.Item{}, false
		}

		if d.cfg.MaxDepth >= 0 && item.Depth > d.cfg.MaxDepth {
			continue
		}

		if d.state.Vertex(item.Vertex).Visited {
			continue
		}

		return item, true
	}
}

func (d *Driver[E, P]) nextRules(ctx context.Context, v graph.Vertex[E, P]) (rewrite.Outcome[E, P], error) {
	if c := d.cfg.Controller; c != nil {
		if err := c.Acquire(ctx); err != nil {
			return rewrite.Outcome[E, P]{}, err
		}
		defer c.Release()
	}

	return d.rewriter.NextRules(ctx, v.Expr, v.Cursor)
}

func (d *Driver[E, P]) enqueue(v graph.Vertex[E, P], depth int) {
	item := strategy.Item{Vertex: v.ID, Depth: depth}
	if sc := d.scorers[v.Side]; sc != nil {
		item.Score = sc.Score(v.Tokens, d.state.VertexCount())
	}

	d.frontier.Enqueue(item)
}

func (d *Driver[E, P]) emit(e Event) {
	if d.cfg.Observer != nil {
		d.cfg.Observer(e)
	}
}
