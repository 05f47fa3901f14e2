package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_ConcurrentCalls(t *testing.T) {
	c := NewController(Config{MaxConcurrentCalls: 2})

	// Acquire 2
	require.NoError(t, c.Acquire(context.Background()))
	require.NoError(t, c.Acquire(context.Background()))
	assert.Equal(t, int64(2), c.InFlight())

	// Try 3rd
	assert.False(t, c.TryAcquire())

	// Acquire 3rd (should block/timeout)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := c.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// Release 1
	c.Release()
	assert.Equal(t, int64(1), c.InFlight())

	// Try 3rd again
	assert.True(t, c.TryAcquire())
}

func TestController_DefaultSlot(t *testing.T) {
	c := NewController(Config{})

	require.NoError(t, c.Acquire(context.Background()))
	assert.False(t, c.TryAcquire())
	c.Release()
	assert.Equal(t, int64(0), c.InFlight())
}

func TestController_NilIsUnlimited(t *testing.T) {
	var c *Controller

	require.NoError(t, c.Acquire(context.Background()))
	assert.True(t, c.TryAcquire())
	c.Release()
	assert.Equal(t, int64(0), c.InFlight())
	require.NoError(t, c.AcquireIO(context.Background(), 1<<20))
}

func TestController_StepRate(t *testing.T) {
	c := NewController(Config{MaxConcurrentCalls: 4, StepsPerSec: 1000})

	start := time.Now()
	for i := 0; i < 5; i++ {
		require.NoError(t, c.Acquire(context.Background()))
		c.Release()
	}
	// 5 acquires at 1000/s with burst 1 need roughly 4ms of waiting.
	assert.GreaterOrEqual(t, time.Since(start), 3*time.Millisecond)
}

func TestController_IOLimit(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})

	require.NoError(t, c.AcquireIO(context.Background(), 1024))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	// Larger than the burst can ever satisfy within the deadline.
	err := c.AcquireIO(ctx, 1<<21)
	assert.Error(t, err)
}

func TestController_IOAcquireBeyondBurst(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})

	// A request above the burst is paid off in installments rather than
	// tripping WaitN's burst cap.
	require.NoError(t, c.AcquireIO(context.Background(), 1<<20+1<<16))
}
