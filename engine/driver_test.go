package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/eqsearch/core"
	"github.com/hupe1980/eqsearch/strategy"
	"github.com/hupe1980/eqsearch/testutil"
)

func newTestDriver(rw *testutil.StubRewriter, cfg Config) (*Driver[string, string], *State[string, string]) {
	state := NewState[string, string](nil)
	d := NewDriver(state, rw, testutil.Composer{}, strategy.NewBreadthFirst(), cfg)

	return d, state
}

func unlimited() Config {
	return Config{MaxDepth: -1, MaxSteps: -1}
}

func TestDriver_ScenarioOneStepMeeting(t *testing.T) {
	rw := testutil.NewStubRewriter().Add("a+b", "comm_add", "b+a")

	d, state := newTestDriver(rw, unlimited())
	d.Init("a+b", "a+b", "b+a", "b+a")

	res, err := d.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, res.Status)
	require.Len(t, res.Steps, 1)
	assert.Equal(t, "comm_add", res.Steps[0].Rule.Name)
	assert.Equal(t, "a+b = b+a : comm_add(a+b=b+a)", res.Proof)

	// The meeting edge connects the expanding left root to the right root.
	e := state.Edge(res.Meeting)
	assert.Equal(t, core.LeftRootID, e.From)
	assert.Equal(t, core.RightRootID, e.To)

	// No vertex was created for the duplicate of the right root.
	assert.Equal(t, 2, state.VertexCount())
}

func TestDriver_MultiStepMeeting(t *testing.T) {
	rw := testutil.NewStubRewriter().
		AddChain("lstep", "a", "b", "c").
		AddChain("rstep", "e", "d", "c")

	d, state := newTestDriver(rw, unlimited())
	d.Init("a", "a", "e", "e")

	res, err := d.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, res.Status)
	require.Len(t, res.Steps, 4)

	// The combined chain runs from the left root to the right root.
	assert.Equal(t, "a", res.Steps[0].From)
	assert.Equal(t, "e", res.Steps[3].To)
	for i := 0; i+1 < len(res.Steps); i++ {
		assert.Equal(t, res.Steps[i].To, res.Steps[i+1].From)
	}

	// Right-hand steps are reversed in the combined orientation.
	assert.False(t, res.Steps[0].Reversed)
	assert.False(t, res.Steps[1].Reversed)
	assert.True(t, res.Steps[2].Reversed)
	assert.True(t, res.Steps[3].Reversed)

	require.Len(t, res.Units, 2)
	assert.Equal(t, core.SideLeft, res.Units[0].Side)
	assert.Equal(t, core.SideRight, res.Units[1].Side)
	assert.Len(t, res.Units[0].Steps, 2)
	assert.Len(t, res.Units[1].Steps, 2)

	// a, e, b, d, c: the meeting vertex exists once.
	assert.Equal(t, 5, state.VertexCount())
}

func TestDriver_ExhaustedSearchSpace(t *testing.T) {
	// No rules at all: both roots expand to nothing.
	rw := testutil.NewStubRewriter()

	d, _ := newTestDriver(rw, unlimited())
	d.Init("a+b", "a+b", "c*d", "c*d")

	res, err := d.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StatusExhausted, res.Status)
	assert.Equal(t, "exhausted search space", res.Message)
	assert.Equal(t, core.InvalidEdgeID, res.Meeting)
}

func TestDriver_DepthBudgetExhausts(t *testing.T) {
	// An infinite alternation that never reaches the right side.
	rw := testutil.NewStubRewriter().
		Add("a", "spin", "b").
		Add("b", "spin", "a2").
		Add("a2", "spin", "b2").
		Add("b2", "spin", "a3").
		Add("a3", "spin", "b3")

	cfg := unlimited()
	cfg.MaxDepth = 2

	d, _ := newTestDriver(rw, cfg)
	d.Init("a", "a", "z", "z")

	res, err := d.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StatusExhausted, res.Status)
	assert.Equal(t, "exhausted search space", res.Message)
}

func TestDriver_SameSideDuplicateRepeats(t *testing.T) {
	// b rewrites back to a, which already exists on the left side.
	rw := testutil.NewStubRewriter().
		Add("a", "fwd", "b").
		Add("b", "bwd", "a")

	d, state := newTestDriver(rw, unlimited())
	d.Init("a", "a", "z", "z")

	var repeated bool
	for {
		res := d.Step(context.Background())
		if res.Outcome == StepRepeat {
			repeated = true
			// The duplicate created no vertex: a, z, b only.
			assert.Equal(t, 3, state.VertexCount())
			assert.Equal(t, 1, state.EdgeCount())
		}
		if res.Outcome == StepExhausted {
			break
		}
		require.NotEqual(t, StepAbort, res.Outcome)
		require.NotEqual(t, StepDone, res.Outcome)
	}

	assert.True(t, repeated)
	assert.Equal(t, 3, state.VertexCount())
}

func TestDriver_ZeroStepBudgetAborts(t *testing.T) {
	rw := testutil.NewStubRewriter().Add("a+b", "comm_add", "b+a")

	cfg := unlimited()
	cfg.MaxSteps = 0

	d, state := newTestDriver(rw, cfg)
	d.Init("a+b", "a+b", "b+a", "b+a")

	_, err := d.Run(context.Background())

	var abort *AbortError
	require.ErrorAs(t, err, &abort)
	assert.Equal(t, "resource exhausted", abort.Reason)
	assert.ErrorIs(t, err, ErrBudget)

	// No expansion happened.
	assert.Equal(t, int64(0), d.Expansions())
	assert.Equal(t, 2, state.VertexCount())
	assert.Equal(t, int64(0), rw.Calls())
}

func TestDriver_StepBudgetAbortsMidSearch(t *testing.T) {
	rw := testutil.NewStubRewriter().
		AddChain("lstep", "a", "b", "c", "d", "e2", "f")

	cfg := unlimited()
	cfg.MaxSteps = 3

	d, _ := newTestDriver(rw, cfg)
	d.Init("a", "a", "z", "z")

	_, err := d.Run(context.Background())

	var abort *AbortError
	require.ErrorAs(t, err, &abort)
	assert.ErrorIs(t, err, ErrBudget)
	assert.Equal(t, int64(3), d.Expansions())
}

func TestDriver_ContextCancelAborts(t *testing.T) {
	rw := testutil.NewStubRewriter().Add("a+b", "comm_add", "b+a")

	d, _ := newTestDriver(rw, unlimited())
	d.Init("a+b", "a+b", "b+a", "b+a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Run(ctx)

	var abort *AbortError
	require.ErrorAs(t, err, &abort)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDriver_RewriterFailureAborts(t *testing.T) {
	boom := errors.New("elaborator crashed")
	rw := testutil.NewStubRewriter().WithError(boom)

	d, _ := newTestDriver(rw, unlimited())
	d.Init("a", "a", "z", "z")

	_, err := d.Run(context.Background())

	var abort *AbortError
	require.ErrorAs(t, err, &abort)
	assert.ErrorIs(t, err, boom)
}

func TestDriver_TrivialGoal(t *testing.T) {
	rw := testutil.NewStubRewriter()

	d, _ := newTestDriver(rw, unlimited())
	d.Init("a+b", "a+b", "a+b", "a+b")

	res, err := d.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, res.Status)
	assert.Empty(t, res.Steps)
	assert.Equal(t, "refl(a+b)", res.Proof)
	assert.Equal(t, int64(0), rw.Calls())
}

func TestDriver_InitTwicePanics(t *testing.T) {
	d, _ := newTestDriver(testutil.NewStubRewriter(), unlimited())
	d.Init("a", "a", "b", "b")

	assert.Panics(t, func() {
		d.Init("a", "a", "b", "b")
	})
}

func TestDriver_RunBeforeInitPanics(t *testing.T) {
	d, _ := newTestDriver(testutil.NewStubRewriter(), unlimited())

	assert.Panics(t, func() {
		_, _ = d.Run(context.Background())
	})
}

func TestDriver_ProofsForcedOnce(t *testing.T) {
	rw := testutil.NewStubRewriter().
		AddChain("lstep", "a", "b", "c").
		AddChain("rstep", "e", "d", "c")

	d, _ := newTestDriver(rw, unlimited())
	d.Init("a", "a", "e", "e")

	res, err := d.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, StatusSuccess, res.Status)

	// One force per edge on the winning chain, shared between the
	// combined proof and the per-side units.
	assert.Equal(t, int64(4), rw.Forced())
}

func TestDriver_ObserverEventSequence(t *testing.T) {
	rw := testutil.NewStubRewriter().Add("a+b", "comm_add", "b+a")

	var kinds []EventKind
	cfg := unlimited()
	cfg.Observer = func(e Event) {
		kinds = append(kinds, e.Kind)
	}

	d, _ := newTestDriver(rw, cfg)
	d.Init("a+b", "a+b", "b+a", "b+a")

	_, err := d.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []EventKind{EventRootAdded, EventRootAdded, EventMeeting}, kinds)
}

func TestDriver_BestFirstFindsMeeting(t *testing.T) {
	rw := testutil.NewStubRewriter().
		Add("f x y", "noise", "g x y").
		Add("f x y", "comm_f", "f y x")

	state := NewState[string, string](nil)
	d := NewDriver(state, rw, testutil.Composer{}, strategy.NewBestFirst(), unlimited())
	d.Init("f x y", "f x y", "f y x", "f y x")

	res, err := d.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, res.Status)
	require.Len(t, res.Steps, 1)
	assert.Equal(t, "comm_f", res.Steps[0].Rule.Name)
}

func TestDriver_CustomEquality(t *testing.T) {
	// Whitespace-insensitive canonical key.
	keyFn := func(pretty string) string {
		out := make([]rune, 0, len(pretty))
		for _, r := range pretty {
			if r != ' ' {
				out = append(out, r)
			}
		}
		return string(out)
	}

	rw := testutil.NewStubRewriter()

	state := NewState[string, string](keyFn)
	d := NewDriver(state, rw, testutil.Composer{}, strategy.NewBreadthFirst(), unlimited())
	d.Init("a + b", "a + b", "a+b", "a+b")

	res, err := d.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, res.Status)
	assert.Empty(t, res.Steps)
}
