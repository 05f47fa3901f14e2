package eqsearch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hupe1980/eqsearch/engine"
	"github.com/hupe1980/eqsearch/journal"
	"github.com/hupe1980/eqsearch/rewrite"
	"github.com/hupe1980/eqsearch/strategy"
)

// Engine answers equational goals: given two expressions, it searches
// for a chain of justified rewrite steps connecting them. It is generic
// over the caller's expression type E and proof type P, neither of which
// it ever inspects; all matching happens on canonical pretty-printed
// forms.
//
// An Engine is safe for concurrent use; each Search runs on its own
// state.
type Engine[E, P any] struct {
	rewriter rewrite.Rewriter[E, P]
	composer rewrite.Composer[P]
	opts     options

	mu     sync.Mutex
	closed bool
	last   *sessionData[E, P]
}

// sessionData retains the most recent search for Stats and Archive.
type sessionData[E, P any] struct {
	state      *engine.State[E, P]
	lhs, rhs   string
	status     string
	message    string
	steps      []Step
	expansions int64
	maxDepth   int
}

// New creates an Engine around the caller's rewrite and composition
// capabilities.
func New[E, P any](rewriter rewrite.Rewriter[E, P], composer rewrite.Composer[P], optFns ...Option) (*Engine[E, P], error) {
	if rewriter == nil {
		return nil, &ErrInvalidParameter{Param: "rewriter", Reason: "must not be nil"}
	}
	if composer == nil {
		return nil, &ErrInvalidParameter{Param: "composer", Reason: "must not be nil"}
	}

	opts := applyOptions(optFns)

	// Fail fast on unknown tags instead of at first Search.
	if _, err := opts.registry.New(opts.strategy); err != nil {
		return nil, &ErrInvalidParameter{Param: "strategy", Reason: err.Error()}
	}

	return &Engine[E, P]{
		rewriter: rewriter,
		composer: composer,
		opts:     opts,
	}, nil
}

// Search grows one search tree from each goal side until an edge
// connects them. lhsPretty and rhsPretty are the canonical forms of the
// goal expressions; the pretty-printer stays with the caller.
//
// Ordinary outcomes, success and exhaustion, are carried in the Result.
// Budget trips, context cancellation and capability failures are
// returned as an *AbortError. Panics out of Search indicate bugs, not
// inputs.
func (e *Engine[E, P]) Search(ctx context.Context, lhs, rhs E, lhsPretty, rhsPretty string) (Result[P], error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return Result[P]{}, ErrClosed
	}
	e.mu.Unlock()

	start := time.Now()
	e.opts.metricsCollector.IncSearches()

	log := e.opts.logger.WithGoal(lhsPretty, rhsPretty)

	state := engine.NewState[E, P](e.opts.keyFn)

	var jnl *journal.Journal
	if e.opts.journalPath != "" {
		var err error
		jnl, err = e.newJournal()
		if err != nil {
			return Result[P]{}, err
		}
		defer func() { _ = jnl.Close() }()
	}

	var maxDepth atomic.Int64
	observer := func(ev engine.Event) {
		for {
			cur := maxDepth.Load()
			if int64(ev.Depth) <= cur || maxDepth.CompareAndSwap(cur, int64(ev.Depth)) {
				break
			}
		}
		if ev.Kind == engine.EventMeeting {
			log.LogMeeting(ctx, ev.Pretty, ev.Step)
		}
		if jnl != nil {
			if _, err := jnl.Append(journalEntry(ev)); err != nil {
				e.opts.logger.Errorf("journal append failed: %v", err)
			}
		}
		if e.opts.observer != nil {
			e.opts.observer(ev)
		}
	}

	cfg := engine.Config{
		MaxDepth:   e.opts.maxDepth,
		MaxSteps:   e.opts.maxSteps,
		Observer:   observer,
		Logger:     e.opts.logger,
		Controller: e.opts.controller,
	}

	var (
		res        engine.Result[P]
		err        error
		expansions int64
	)
	if e.opts.parallel {
		drv := engine.NewParallelDriver(state, e.rewriter, e.composer, e.newFrontier, cfg)
		drv.Init(lhs, lhsPretty, rhs, rhsPretty)
		res, err = drv.Run(ctx)
		expansions = drv.Expansions()
	} else {
		drv := engine.NewDriver(state, e.rewriter, e.composer, e.newFrontier(), cfg)
		drv.Init(lhs, lhsPretty, rhs, rhsPretty)
		res, err = drv.Run(ctx)
		expansions = drv.Expansions()
	}

	elapsed := time.Since(start)
	e.observeMetrics(state, expansions, len(res.Steps), elapsed)

	out := publicResult(res)
	err = translateError(err)

	status, message := out.Status.String(), out.Message
	if err != nil {
		status, message = "aborted", err.Error()
		var ab *AbortError
		if errors.As(err, &ab) {
			log.LogAbort(ctx, ab.Reason, expansions)
		}
	}
	e.finishJournal(jnl, status, message)

	e.mu.Lock()
	e.last = &sessionData[E, P]{
		state:      state,
		lhs:        lhsPretty,
		rhs:        rhsPretty,
		status:     status,
		message:    message,
		steps:      out.Steps,
		expansions: expansions,
		maxDepth:   int(maxDepth.Load()),
	}
	e.mu.Unlock()

	e.opts.logger.LogSearch(ctx, lhsPretty, rhsPretty, expansions, elapsed, err)

	if err != nil {
		return Result[P]{}, err
	}
	return out, nil
}

// Stats reports the sizes reached by the most recent search. The zero
// Stats is returned before the first search.
func (e *Engine[E, P]) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.last == nil {
		return Stats{}
	}
	return Stats{
		Tokens:          e.last.state.TokenCount(),
		Vertices:        e.last.state.VertexCount(),
		Edges:           e.last.state.EdgeCount(),
		Steps:           e.last.expansions,
		MaxDepthReached: e.last.maxDepth,
	}
}

// Close marks the engine closed; subsequent searches return ErrClosed.
// Close is idempotent.
func (e *Engine[E, P]) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.closed = true
	return nil
}

func (e *Engine[E, P]) newFrontier() strategy.Strategy {
	s, err := e.opts.registry.New(e.opts.strategy)
	if err != nil {
		// Validated in New; losing the tag afterwards is a bug.
		panic("eqsearch: " + err.Error())
	}
	return s
}

func (e *Engine[E, P]) newJournal() (*journal.Journal, error) {
	optFns := append([]func(*journal.Options){
		func(o *journal.Options) { o.Path = e.opts.journalPath },
	}, e.opts.journalOptions...)

	return journal.New(optFns...)
}

func (e *Engine[E, P]) observeMetrics(state *engine.State[E, P], expansions int64, forced int, elapsed time.Duration) {
	mc := e.opts.metricsCollector
	mc.IncSteps(expansions)
	mc.IncVerticesCreated(int64(state.VertexCount()))
	mc.IncEdgesCreated(int64(state.EdgeCount()))
	mc.IncProofsForced(int64(forced))
	mc.ObserveSearchDuration(elapsed)
	if expansions > 0 {
		mc.ObserveStepDuration(elapsed / time.Duration(expansions))
	}
}

func (e *Engine[E, P]) finishJournal(jnl *journal.Journal, status, message string) {
	if jnl == nil {
		return
	}

	pretty := status
	if message != "" {
		pretty = status + ": " + message
	}
	entry := journal.Entry{Type: journal.OpResult, Pretty: pretty}
	if status == "aborted" {
		entry = journal.Entry{Type: journal.OpAbort, Pretty: message}
	}
	if _, err := jnl.Append(entry); err != nil {
		e.opts.logger.Errorf("journal append failed: %v", err)
	}
	if err := jnl.Sync(); err != nil {
		e.opts.logger.Errorf("journal sync failed: %v", err)
	}
}

// journalEntry maps a driver event onto its journal record.
func journalEntry(ev engine.Event) journal.Entry {
	entry := journal.Entry{
		Vertex: ev.Vertex,
		Edge:   ev.Edge,
		Side:   ev.Side,
		Depth:  int32(ev.Depth),
		Rule:   ev.Rule,
		Pretty: ev.Pretty,
	}

	switch ev.Kind {
	case engine.EventRootAdded, engine.EventVertexDiscovered:
		entry.Type = journal.OpVertex
	case engine.EventDuplicateDiscarded:
		entry.Type = journal.OpDuplicate
	case engine.EventVertexExpanded:
		entry.Type = journal.OpExpand
	case engine.EventMeeting:
		entry.Type = journal.OpMeeting
	}

	return entry
}
