package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/eqsearch/core"
	"github.com/hupe1980/eqsearch/rewrite"
	"github.com/hupe1980/eqsearch/strategy"
	"github.com/hupe1980/eqsearch/token"
)

// ParallelDriver expands the two search trees concurrently, one worker per
// goal side. Each side owns its frontier; the vertex and edge arenas are
// shared through the State, whose locking makes every discovery an atomic
// check-and-insert. The step budget is shared, so MaxSteps bounds the total
// work across both workers. The first meeting wins and cancels the other
// side.
type ParallelDriver[E, P any] struct {
	state    *State[E, P]
	composer rewrite.Composer[P]
	cfg      Config
	logger   Logger

	steps   *atomic.Int64
	drivers [2]*Driver[E, P]

	seeded  bool
	trivial bool
}

// NewParallelDriver creates a two-worker driver over state. newFrontier is
// called once per side so each worker gets its own strategy instance. Call
// Init before Run.
func NewParallelDriver[E, P any](state *State[E, P], rw rewrite.Rewriter[E, P], comp rewrite.Composer[P], newFrontier func() strategy.Strategy, cfg Config) *ParallelDriver[E, P] {
	logger := cfg.Logger
	if logger == nil {
		logger = &noopLogger{}
	}

	steps := new(atomic.Int64)

	p := &ParallelDriver[E, P]{
		state:    state,
		composer: comp,
		cfg:      cfg,
		logger:   logger,
		steps:    steps,
	}

	for side := range p.drivers {
		p.drivers[side] = newDriver(state, rw, comp, newFrontier(), cfg, steps)
	}

	return p
}

// Init creates the two root vertices and seeds each worker's frontier with
// its own side's root.
func (p *ParallelDriver[E, P]) Init(lhs E, lhsPretty string, rhs E, rhsPretty string) {
	if p.seeded {
		panic("engine: driver initialized twice")
	}
	p.seeded = true

	left := p.state.AddRoot(lhs, lhsPretty, core.SideLeft)
	right := p.state.AddRoot(rhs, rhsPretty, core.SideRight)

	scorers := [2]*token.Scorer{
		core.SideLeft:  token.NewScorer(p.state.Postings(), right.Tokens),
		core.SideRight: token.NewScorer(p.state.Postings(), left.Tokens),
	}

	for _, d := range p.drivers {
		d.seeded = true
		d.scorers = scorers
	}

	p.emit(Event{Kind: EventRootAdded, Vertex: left.ID, Edge: core.InvalidEdgeID, Side: core.SideLeft, Pretty: left.Pretty})
	p.emit(Event{Kind: EventRootAdded, Vertex: right.ID, Edge: core.InvalidEdgeID, Side: core.SideRight, Pretty: right.Pretty})

	if p.state.Key(lhsPretty) == p.state.Key(rhsPretty) {
		p.trivial = true
		p.logger.Infof("goal sides match canonically, no search needed")
		return
	}

	p.drivers[core.SideLeft].enqueue(left, 0)
	p.drivers[core.SideRight].enqueue(right, 0)

	p.logger.Infof("parallel search initialized: %q vs %q", lhsPretty, rhsPretty)
}

// Run expands both sides until one worker finds the meeting edge, both
// frontiers drain, or a budget trips. Reconstruction runs on the calling
// goroutine after both workers have stopped.
func (p *ParallelDriver[E, P]) Run(ctx context.Context) (Result[P], error) {
	if !p.seeded {
		panic("engine: driver not initialized")
	}

	if p.trivial {
		return concludeTrivial(ctx, p.state, p.composer)
	}

	var (
		meetOnce sync.Once
		meeting  = core.InvalidEdgeID
		met      atomic.Bool
	)

	g, gctx := errgroup.WithContext(ctx)
	gctx, cancel := context.WithCancel(gctx)
	defer cancel()

	for side := range p.drivers {
		d := p.drivers[side]

		g.Go(func() error {
			for {
				res := d.Step(gctx)

				switch res.Outcome {
				case StepContinue, StepRepeat:

				case StepDone:
					meetOnce.Do(func() {
						meeting = res.Meeting
						met.Store(true)
					})
					cancel()

					return nil

				case StepExhausted:
					return nil

				case StepAbort:
					// Losing the meeting race surfaces as a context
					// abort on this worker; that is not an error.
					if met.Load() && errors.Is(res.Err, context.Canceled) {
						return nil
					}

					return res.Err
				}
			}
		})
	}

	err := g.Wait()

	if met.Load() {
		return conclude(ctx, p.state, p.composer, meeting, p.steps.Load())
	}

	if err != nil {
		p.logger.Errorf("parallel search aborted after %d steps: %v", p.steps.Load(), err)

		return Result[P]{Meeting: core.InvalidEdgeID}, err
	}

	p.logger.Infof("search space exhausted after %d steps", p.steps.Load())

	return Result[P]{
		Status:     StatusExhausted,
		Message:    ErrExhausted.Error(),
		Meeting:    core.InvalidEdgeID,
		Expansions: p.steps.Load(),
	}, nil
}

// Expansions returns the number of expansion steps performed so far across
// both workers.
func (p *ParallelDriver[E, P]) Expansions() int64 {
	return p.steps.Load()
}

func (p *ParallelDriver[E, P]) emit(e Event) {
	if p.cfg.Observer != nil {
		p.cfg.Observer(e)
	}
}
