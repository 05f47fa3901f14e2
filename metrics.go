package eqsearch

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational
// metrics. Implement it to integrate with monitoring systems like
// Prometheus.
type MetricsCollector interface {
	// IncSearches is called once per Search invocation.
	IncSearches()

	// IncSteps adds the expansion steps performed by a search.
	IncSteps(n int64)

	// IncVerticesCreated adds the vertices a search materialized.
	IncVerticesCreated(n int64)

	// IncEdgesCreated adds the edges a search materialized.
	IncEdgesCreated(n int64)

	// IncProofsForced adds the proof thunks forced during
	// reconstruction.
	IncProofsForced(n int64)

	// ObserveSearchDuration records the wall time of one search.
	ObserveSearchDuration(d time.Duration)

	// ObserveStepDuration records the amortized per-step time of one
	// search.
	ObserveStepDuration(d time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) IncSearches()                        {}
func (NoopMetricsCollector) IncSteps(int64)                      {}
func (NoopMetricsCollector) IncVerticesCreated(int64)            {}
func (NoopMetricsCollector) IncEdgesCreated(int64)               {}
func (NoopMetricsCollector) IncProofsForced(int64)               {}
func (NoopMetricsCollector) ObserveSearchDuration(time.Duration) {}
func (NoopMetricsCollector) ObserveStepDuration(time.Duration)   {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external
// dependencies.
type BasicMetricsCollector struct {
	Searches         atomic.Int64
	Steps            atomic.Int64
	VerticesCreated  atomic.Int64
	EdgesCreated     atomic.Int64
	ProofsForced     atomic.Int64
	SearchTotalNanos atomic.Int64
	StepTotalNanos   atomic.Int64
}

var _ MetricsCollector = (*BasicMetricsCollector)(nil)

// IncSearches implements MetricsCollector.
func (b *BasicMetricsCollector) IncSearches() {
	b.Searches.Add(1)
}

// IncSteps implements MetricsCollector.
func (b *BasicMetricsCollector) IncSteps(n int64) {
	b.Steps.Add(n)
}

// IncVerticesCreated implements MetricsCollector.
func (b *BasicMetricsCollector) IncVerticesCreated(n int64) {
	b.VerticesCreated.Add(n)
}

// IncEdgesCreated implements MetricsCollector.
func (b *BasicMetricsCollector) IncEdgesCreated(n int64) {
	b.EdgesCreated.Add(n)
}

// IncProofsForced implements MetricsCollector.
func (b *BasicMetricsCollector) IncProofsForced(n int64) {
	b.ProofsForced.Add(n)
}

// ObserveSearchDuration implements MetricsCollector.
func (b *BasicMetricsCollector) ObserveSearchDuration(d time.Duration) {
	b.SearchTotalNanos.Add(d.Nanoseconds())
}

// ObserveStepDuration implements MetricsCollector.
func (b *BasicMetricsCollector) ObserveStepDuration(d time.Duration) {
	b.StepTotalNanos.Add(d.Nanoseconds())
}

// Snapshot returns a point-in-time copy of the collected metrics.
func (b *BasicMetricsCollector) Snapshot() MetricsSnapshot {
	searches := b.Searches.Load()
	s := MetricsSnapshot{
		Searches:        searches,
		Steps:           b.Steps.Load(),
		VerticesCreated: b.VerticesCreated.Load(),
		EdgesCreated:    b.EdgesCreated.Load(),
		ProofsForced:    b.ProofsForced.Load(),
	}
	if searches > 0 {
		s.SearchAvgNanos = b.SearchTotalNanos.Load() / searches
		s.StepAvgNanos = b.StepTotalNanos.Load() / searches
	}
	return s
}

// MetricsSnapshot is a snapshot of BasicMetricsCollector state.
type MetricsSnapshot struct {
	Searches        int64
	Steps           int64
	VerticesCreated int64
	EdgesCreated    int64
	ProofsForced    int64
	SearchAvgNanos  int64
	StepAvgNanos    int64
}
