package eqsearch

import (
	"log/slog"

	"github.com/hupe1980/eqsearch/engine"
	"github.com/hupe1980/eqsearch/graph"
	"github.com/hupe1980/eqsearch/journal"
	"github.com/hupe1980/eqsearch/resource"
	"github.com/hupe1980/eqsearch/strategy"
)

type options struct {
	maxDepth         int
	maxSteps         int
	strategy         string
	registry         *strategy.Registry
	keyFn            graph.KeyFunc
	logger           *Logger
	metricsCollector MetricsCollector
	observer         engine.Observer
	controller       *resource.Controller
	journalPath      string
	journalOptions   []func(*journal.Options)
	parallel         bool
}

// Option configures engine construction.
type Option func(*options)

// WithMaxDepth caps how deep either search tree is expanded. Frontier
// entries beyond the cap are dropped, so an out-of-depth goal surfaces
// as ordinary exhaustion rather than an abort. Negative means unlimited
// (the default).
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// WithMaxSteps caps the number of expansion steps across the whole
// search; exceeding it aborts. Negative means unlimited (the default);
// zero aborts before the first expansion.
func WithMaxSteps(steps int) Option {
	return func(o *options) {
		o.maxSteps = steps
	}
}

// WithStrategy selects the frontier policy by its registry tag.
// Built-in tags are strategy.TagBreadthFirst (the default) and
// strategy.TagBestFirst.
func WithStrategy(tag string) Option {
	return func(o *options) {
		o.strategy = tag
	}
}

// WithStrategyRegistry replaces the strategy registry, allowing custom
// frontier policies to be selected via WithStrategy.
func WithStrategyRegistry(r *strategy.Registry) Option {
	return func(o *options) {
		if r != nil {
			o.registry = r
		}
	}
}

// WithEquality sets the canonical-key function used for duplicate and
// meeting detection. Two pretty forms are considered the same
// expression when fn maps them to the same key. Default is identity.
func WithEquality(fn func(pretty string) string) Option {
	return func(o *options) {
		o.keyFn = fn
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NewNoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets
// it. Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithObserver registers a callback receiving every expansion event.
// The callback runs synchronously on the expanding goroutine and must
// be fast; WithParallel may invoke it concurrently.
func WithObserver(fn engine.Observer) Option {
	return func(o *options) {
		o.observer = fn
	}
}

// WithResourceController governs calls to the rewrite capability:
// concurrency slots, step rate, and IO bandwidth.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.controller = rc
	}
}

// WithJournal writes an append-only event log for every search under
// path, one file per session.
//
// Example:
//
//	eng, _ := eqsearch.New(rw, comp, eqsearch.WithJournal("./journals",
//	    func(o *journal.Options) {
//	        o.Compress = true
//	        o.DurabilityMode = journal.DurabilitySync
//	    }))
func WithJournal(path string, optFns ...func(*journal.Options)) Option {
	return func(o *options) {
		o.journalPath = path
		o.journalOptions = optFns
	}
}

// WithParallel expands both goal sides concurrently, one worker per
// side, sharing the step budget. The first meeting wins.
func WithParallel() Option {
	return func(o *options) {
		o.parallel = true
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		maxDepth:         -1,
		maxSteps:         -1,
		strategy:         strategy.TagBreadthFirst,
		registry:         strategy.NewRegistry(),
		metricsCollector: NoopMetricsCollector{},
		logger:           NewNoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
