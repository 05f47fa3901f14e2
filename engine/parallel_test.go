package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/hupe1980/eqsearch/core"
	"github.com/hupe1980/eqsearch/strategy"
	"github.com/hupe1980/eqsearch/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newParallelDriver(rw *testutil.StubRewriter, cfg Config) (*ParallelDriver[string, string], *State[string, string]) {
	state := NewState[string, string](nil)
	d := NewParallelDriver(state, rw, testutil.Composer{}, func() strategy.Strategy {
		return strategy.NewBreadthFirst()
	}, cfg)

	return d, state
}

func TestParallelDriver_OneStepMeeting(t *testing.T) {
	rw := testutil.NewStubRewriter().Add("a+b", "comm_add", "b+a")

	d, state := newParallelDriver(rw, unlimited())
	d.Init("a+b", "a+b", "b+a", "b+a")

	res, err := d.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, res.Status)
	require.Len(t, res.Steps, 1)
	assert.Equal(t, "comm_add", res.Steps[0].Rule.Name)
	assert.Equal(t, 2, state.VertexCount())
}

func TestParallelDriver_MeetingFromEitherSide(t *testing.T) {
	rw := testutil.NewStubRewriter().
		AddChain("lstep", "a", "b", "c").
		AddChain("rstep", "e", "d", "c")

	d, _ := newParallelDriver(rw, unlimited())
	d.Init("a", "a", "e", "e")

	res, err := d.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, res.Status)
	// Which worker discovers the meeting is timing-dependent, but the
	// combined chain always runs left root to right root.
	require.NotEmpty(t, res.Steps)
	assert.Equal(t, "a", res.Steps[0].From)
	assert.Equal(t, "e", res.Steps[len(res.Steps)-1].To)
	for i := 0; i+1 < len(res.Steps); i++ {
		assert.Equal(t, res.Steps[i].To, res.Steps[i+1].From)
	}
}

func TestParallelDriver_Exhausted(t *testing.T) {
	rw := testutil.NewStubRewriter()

	d, _ := newParallelDriver(rw, unlimited())
	d.Init("a", "a", "z", "z")

	res, err := d.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StatusExhausted, res.Status)
	assert.Equal(t, "exhausted search space", res.Message)
}

func TestParallelDriver_ZeroStepBudgetAborts(t *testing.T) {
	rw := testutil.NewStubRewriter().Add("a+b", "comm_add", "b+a")

	cfg := unlimited()
	cfg.MaxSteps = 0

	d, _ := newParallelDriver(rw, cfg)
	d.Init("a+b", "a+b", "b+a", "b+a")

	_, err := d.Run(context.Background())

	var abort *AbortError
	require.ErrorAs(t, err, &abort)
	assert.ErrorIs(t, err, ErrBudget)
	assert.Equal(t, int64(0), d.Expansions())
}

func TestParallelDriver_SharedBudget(t *testing.T) {
	rw := testutil.NewStubRewriter().
		AddChain("lstep", "a", "b", "c", "d").
		AddChain("rstep", "z", "y", "x", "w")

	cfg := unlimited()
	cfg.MaxSteps = 4

	d, _ := newParallelDriver(rw, cfg)
	d.Init("a", "a", "z", "z")

	_, err := d.Run(context.Background())

	var abort *AbortError
	require.ErrorAs(t, err, &abort)
	// Both workers drain the same budget.
	assert.LessOrEqual(t, d.Expansions(), int64(5))
}

func TestParallelDriver_TrivialGoal(t *testing.T) {
	rw := testutil.NewStubRewriter()

	d, _ := newParallelDriver(rw, unlimited())
	d.Init("a", "a", "a", "a")

	res, err := d.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, "refl(a)", res.Proof)
	assert.Equal(t, core.InvalidEdgeID, res.Meeting)
}

func TestParallelDriver_InitTwicePanics(t *testing.T) {
	d, _ := newParallelDriver(testutil.NewStubRewriter(), unlimited())
	d.Init("a", "a", "b", "b")

	assert.Panics(t, func() {
		d.Init("a", "a", "b", "b")
	})
}
