package eqsearch_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/eqsearch"
	"github.com/hupe1980/eqsearch/blobstore"
	"github.com/hupe1980/eqsearch/core"
	"github.com/hupe1980/eqsearch/engine"
	"github.com/hupe1980/eqsearch/journal"
	"github.com/hupe1980/eqsearch/resource"
	"github.com/hupe1980/eqsearch/testutil"
)

func TestNew_Validation(t *testing.T) {
	t.Run("nil rewriter", func(t *testing.T) {
		_, err := eqsearch.New[string, string](nil, testutil.Composer{})
		require.Error(t, err)

		var perr *eqsearch.ErrInvalidParameter
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, "rewriter", perr.Param)
		assert.ErrorIs(t, err, eqsearch.ErrInvalidConfig)
	})

	t.Run("nil composer", func(t *testing.T) {
		_, err := eqsearch.New[string, string](testutil.NewStubRewriter(), nil)
		require.Error(t, err)

		var perr *eqsearch.ErrInvalidParameter
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, "composer", perr.Param)
	})

	t.Run("unknown strategy", func(t *testing.T) {
		_, err := eqsearch.New[string, string](testutil.NewStubRewriter(), testutil.Composer{},
			eqsearch.WithStrategy("depth-charge"))
		require.Error(t, err)

		var perr *eqsearch.ErrInvalidParameter
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, "strategy", perr.Param)
	})
}

func TestEngine_SearchSuccess(t *testing.T) {
	ctx := context.Background()

	rw := testutil.NewStubRewriter().
		Add("a + 0", "add_zero", "a").
		Add("0 + a", "zero_add", "a")

	eng, err := eqsearch.New[string, string](rw, testutil.Composer{})
	require.NoError(t, err)
	defer eng.Close()

	result, err := eng.Search(ctx, "a + 0", "0 + a", "a + 0", "0 + a")
	require.NoError(t, err)

	assert.Equal(t, eqsearch.StatusSuccess, result.Status)
	assert.NotEmpty(t, result.Proof)
	require.Len(t, result.Steps, 2)
	assert.Equal(t, "a + 0", result.Steps[0].From)
	assert.Equal(t, "a", result.Steps[0].To)
	assert.False(t, result.Steps[0].Reversed)
	assert.Equal(t, "0 + a", result.Steps[1].To)
	assert.True(t, result.Steps[1].Reversed)
	require.Len(t, result.Units, 2)
	assert.Equal(t, core.SideLeft, result.Units[0].Side)
	assert.Equal(t, core.SideRight, result.Units[1].Side)

	stats := eng.Stats()
	assert.Positive(t, stats.Tokens)
	assert.GreaterOrEqual(t, stats.Vertices, 3)
	assert.Positive(t, stats.Edges)
	assert.Positive(t, stats.Steps)
}

func TestEngine_TrivialGoal(t *testing.T) {
	ctx := context.Background()

	eng, err := eqsearch.New[string, string](testutil.NewStubRewriter(), testutil.Composer{})
	require.NoError(t, err)
	defer eng.Close()

	result, err := eng.Search(ctx, "x", "x", "x", "x")
	require.NoError(t, err)

	assert.Equal(t, eqsearch.StatusSuccess, result.Status)
	assert.Equal(t, "refl(x)", result.Proof)
	assert.Empty(t, result.Steps)
}

func TestEngine_Exhausted(t *testing.T) {
	ctx := context.Background()

	eng, err := eqsearch.New[string, string](testutil.NewStubRewriter(), testutil.Composer{})
	require.NoError(t, err)
	defer eng.Close()

	result, err := eng.Search(ctx, "p", "q", "p", "q")
	require.NoError(t, err)

	assert.Equal(t, eqsearch.StatusExhausted, result.Status)
	assert.NotEmpty(t, result.Message)
}

func TestEngine_BudgetAbort(t *testing.T) {
	ctx := context.Background()

	rw := testutil.NewStubRewriter().
		AddChain("assoc", "x", "y", "z", "w")

	eng, err := eqsearch.New[string, string](rw, testutil.Composer{},
		eqsearch.WithMaxSteps(1))
	require.NoError(t, err)
	defer eng.Close()

	_, err = eng.Search(ctx, "x", "w", "x", "w")
	require.Error(t, err)

	var ab *eqsearch.AbortError
	require.ErrorAs(t, err, &ab)
	assert.ErrorIs(t, err, eqsearch.ErrBudgetExhausted)
}

func TestEngine_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rw := testutil.NewStubRewriter().
		AddChain("assoc", "x", "y", "z", "w")

	eng, err := eqsearch.New[string, string](rw, testutil.Composer{})
	require.NoError(t, err)
	defer eng.Close()

	_, err = eng.Search(ctx, "x", "w", "x", "w")
	require.Error(t, err)

	var ab *eqsearch.AbortError
	require.ErrorAs(t, err, &ab)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_MaxDepthExhausts(t *testing.T) {
	ctx := context.Background()

	rw := testutil.NewStubRewriter().
		AddChain("assoc", "a", "b", "c", "d", "e")

	eng, err := eqsearch.New[string, string](rw, testutil.Composer{},
		eqsearch.WithMaxDepth(1))
	require.NoError(t, err)
	defer eng.Close()

	result, err := eng.Search(ctx, "a", "e", "a", "e")
	require.NoError(t, err)

	assert.Equal(t, eqsearch.StatusExhausted, result.Status)
}

func TestEngine_Parallel(t *testing.T) {
	ctx := context.Background()

	rw := testutil.NewStubRewriter().
		AddChain("left", "l0", "l1", "l2", "meet").
		AddChain("right", "r0", "r1", "r2", "meet")

	eng, err := eqsearch.New[string, string](rw, testutil.Composer{},
		eqsearch.WithParallel())
	require.NoError(t, err)
	defer eng.Close()

	result, err := eng.Search(ctx, "l0", "r0", "l0", "r0")
	require.NoError(t, err)

	assert.Equal(t, eqsearch.StatusSuccess, result.Status)
	assert.NotEmpty(t, result.Proof)
}

func TestEngine_Equality(t *testing.T) {
	ctx := context.Background()

	eng, err := eqsearch.New[string, string](testutil.NewStubRewriter(), testutil.Composer{},
		eqsearch.WithEquality(strings.ToLower))
	require.NoError(t, err)
	defer eng.Close()

	result, err := eng.Search(ctx, "X", "x", "X", "x")
	require.NoError(t, err)

	assert.Equal(t, eqsearch.StatusSuccess, result.Status)
	assert.Empty(t, result.Steps)
}

func TestEngine_Observer(t *testing.T) {
	ctx := context.Background()

	rw := testutil.NewStubRewriter().Add("p", "lemma", "q")

	var kinds []engine.EventKind
	eng, err := eqsearch.New[string, string](rw, testutil.Composer{},
		eqsearch.WithObserver(func(ev engine.Event) {
			kinds = append(kinds, ev.Kind)
		}))
	require.NoError(t, err)
	defer eng.Close()

	_, err = eng.Search(ctx, "p", "q", "p", "q")
	require.NoError(t, err)

	require.NotEmpty(t, kinds)
	assert.Equal(t, engine.EventRootAdded, kinds[0])
	assert.Equal(t, engine.EventMeeting, kinds[len(kinds)-1])
}

func TestEngine_Metrics(t *testing.T) {
	ctx := context.Background()

	rw := testutil.NewStubRewriter().Add("p", "lemma", "q")

	mc := &eqsearch.BasicMetricsCollector{}
	eng, err := eqsearch.New[string, string](rw, testutil.Composer{},
		eqsearch.WithMetricsCollector(mc))
	require.NoError(t, err)
	defer eng.Close()

	_, err = eng.Search(ctx, "p", "q", "p", "q")
	require.NoError(t, err)

	snap := mc.Snapshot()
	assert.Equal(t, int64(1), snap.Searches)
	assert.Positive(t, snap.Steps)
	assert.GreaterOrEqual(t, snap.VerticesCreated, int64(3))
	assert.Positive(t, snap.EdgesCreated)
	assert.Positive(t, snap.ProofsForced)
	assert.Positive(t, snap.SearchAvgNanos)
}

func TestEngine_Journal(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	sessionID := uuid.New()

	rw := testutil.NewStubRewriter().Add("p", "lemma", "q")

	eng, err := eqsearch.New[string, string](rw, testutil.Composer{},
		eqsearch.WithJournal(dir, func(o *journal.Options) {
			o.SessionID = sessionID
		}))
	require.NoError(t, err)
	defer eng.Close()

	_, err = eng.Search(ctx, "p", "q", "p", "q")
	require.NoError(t, err)

	// Reopen the session log and replay it.
	jnl, err := journal.New(func(o *journal.Options) {
		o.Path = dir
		o.SessionID = sessionID
	})
	require.NoError(t, err)
	defer jnl.Close()

	var types []journal.OpType
	require.NoError(t, jnl.Replay(func(entry journal.Entry) error {
		types = append(types, entry.Type)
		return nil
	}))

	require.NotEmpty(t, types)
	assert.Equal(t, journal.OpVertex, types[0])
	assert.Contains(t, types, journal.OpMeeting)
	assert.Equal(t, journal.OpResult, types[len(types)-1])
}

func TestEngine_ArchiveRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	rw := testutil.NewStubRewriter().Add("p", "lemma", "q")

	eng, err := eqsearch.New[string, string](rw, testutil.Composer{})
	require.NoError(t, err)
	defer eng.Close()

	t.Run("nothing to archive yet", func(t *testing.T) {
		err := eng.Archive(ctx, store, "too-early")
		assert.ErrorIs(t, err, eqsearch.ErrNotFound)
	})

	_, err = eng.Search(ctx, "p", "q", "p", "q")
	require.NoError(t, err)

	require.NoError(t, eng.Archive(ctx, store, "session-001"))

	sess, err := eqsearch.LoadArchive(ctx, store, "session-001")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, sess.ID)
	assert.WithinDuration(t, time.Now(), sess.CreatedAt, time.Minute)
	assert.Equal(t, "success", sess.Status)
	assert.Equal(t, "p", sess.LHS)
	assert.Equal(t, "q", sess.RHS)
	assert.NotEmpty(t, sess.Tokens)
	assert.GreaterOrEqual(t, len(sess.Vertices), 2)
	assert.NotEmpty(t, sess.Edges)
	require.NotEmpty(t, sess.Steps)
	assert.Equal(t, "lemma", sess.Steps[0].Rule)

	t.Run("missing archive", func(t *testing.T) {
		_, err := eqsearch.LoadArchive(ctx, store, "no-such-session")
		assert.ErrorIs(t, err, eqsearch.ErrNotFound)
	})
}

func TestEngine_ArchiveWithIOLimit(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	rc := resource.NewController(resource.Config{IOLimitBytesPerSec: 1 << 20})

	rw := testutil.NewStubRewriter().Add("p", "lemma", "q")

	eng, err := eqsearch.New[string, string](rw, testutil.Composer{},
		eqsearch.WithResourceController(rc))
	require.NoError(t, err)
	defer eng.Close()

	_, err = eng.Search(ctx, "p", "q", "p", "q")
	require.NoError(t, err)

	require.NoError(t, eng.Archive(ctx, store, "throttled"))

	sess, err := eqsearch.LoadArchive(ctx, store, "throttled", func(o *eqsearch.LoadOptions) {
		o.Controller = rc
	})
	require.NoError(t, err)

	assert.Equal(t, "success", sess.Status)
	assert.NotEmpty(t, sess.Vertices)
}

func TestEngine_Close(t *testing.T) {
	eng, err := eqsearch.New[string, string](testutil.NewStubRewriter(), testutil.Composer{})
	require.NoError(t, err)

	require.NoError(t, eng.Close())
	require.NoError(t, eng.Close())

	_, err = eng.Search(context.Background(), "x", "y", "x", "y")
	assert.ErrorIs(t, err, eqsearch.ErrClosed)
}

func TestTranslateStatusString(t *testing.T) {
	assert.Equal(t, "success", eqsearch.StatusSuccess.String())
	assert.Equal(t, "exhausted", eqsearch.StatusExhausted.String())
	assert.Equal(t, "unknown", eqsearch.Status(99).String())
}
