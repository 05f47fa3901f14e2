// Package resource provides an optional governor for a search session's
// interaction with the outside world: the external rewrite capability and
// the archive IO path. A nil controller is valid and imposes no limits.
package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// MaxConcurrentCalls is the maximum number of in-flight rewrite
	// capability calls. Matters when both goal sides expand in parallel.
	// If 0, defaults to 1.
	MaxConcurrentCalls int64

	// StepsPerSec throttles expansion steps across the whole session.
	// If 0, unlimited.
	StepsPerSec float64

	// IOLimitBytesPerSec is the maximum throughput for archive reads and
	// writes. If 0, unlimited.
	IOLimitBytesPerSec int64
}

// Controller governs capability calls and archive IO for one or more
// search sessions.
type Controller struct {
	cfg Config

	callSem  *semaphore.Weighted
	inFlight atomic.Int64

	stepLimiter *rate.Limiter
	ioLimiter   *rate.Limiter
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxConcurrentCalls <= 0 {
		cfg.MaxConcurrentCalls = 1
	}

	c := &Controller{
		cfg:     cfg,
		callSem: semaphore.NewWeighted(cfg.MaxConcurrentCalls),
	}

	if cfg.StepsPerSec > 0 {
		c.stepLimiter = rate.NewLimiter(rate.Limit(cfg.StepsPerSec), 1)
	}

	if cfg.IOLimitBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}

	return c
}

// Acquire reserves a capability-call slot, waiting for the step limiter
// first. Blocks until a slot is free or ctx is canceled. Every successful
// Acquire must be paired with a Release.
func (c *Controller) Acquire(ctx context.Context) error {
	if c == nil {
		return nil
	}

	if c.stepLimiter != nil {
		if err := c.stepLimiter.Wait(ctx); err != nil {
			return err
		}
	}

	if err := c.callSem.Acquire(ctx, 1); err != nil {
		return err
	}

	c.inFlight.Add(1)
	return nil
}

// TryAcquire reserves a capability-call slot without blocking. The step
// limiter is consulted but not waited on.
func (c *Controller) TryAcquire() bool {
	if c == nil {
		return true
	}

	if c.stepLimiter != nil && !c.stepLimiter.Allow() {
		return false
	}

	if !c.callSem.TryAcquire(1) {
		return false
	}

	c.inFlight.Add(1)
	return true
}

// Release returns a capability-call slot.
func (c *Controller) Release() {
	if c == nil {
		return
	}

	c.callSem.Release(1)
	c.inFlight.Add(-1)
}

// InFlight returns the number of capability calls currently running.
func (c *Controller) InFlight() int64 {
	if c == nil {
		return 0
	}
	return c.inFlight.Load()
}

// AcquireIO waits until the IO limit allows the specified number of bytes.
// Requests larger than the limiter's burst are paid off in burst-sized
// installments, so a single big write never exceeds WaitN's burst cap.
func (c *Controller) AcquireIO(ctx context.Context, bytes int) error {
	if c == nil || c.ioLimiter == nil {
		return nil
	}

	for bytes > 0 {
		n := bytes
		if burst := c.ioLimiter.Burst(); n > burst {
			n = burst
		}
		if err := c.ioLimiter.WaitN(ctx, n); err != nil {
			return err
		}
		bytes -= n
	}

	return nil
}
