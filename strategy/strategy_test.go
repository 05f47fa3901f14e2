package strategy

import (
	"testing"

	"github.com/hupe1980/eqsearch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreadthFirstDepthOrder(t *testing.T) {
	s := NewBreadthFirst()

	// roots at depth 0
	s.Enqueue(Item{Vertex: 0})
	s.Enqueue(Item{Vertex: 1})

	first, ok := s.Next()
	require.True(t, ok)
	assert.EqualValues(t, 0, first.Vertex)
	assert.Equal(t, 0, first.Depth)

	// children discovered while expanding depth 0
	s.Enqueue(Item{Vertex: 2})
	s.Enqueue(Item{Vertex: 3})

	var depths []int
	for {
		item, ok := s.Next()
		if !ok {
			break
		}
		depths = append(depths, item.Depth)
	}

	// non-decreasing depth order
	assert.Equal(t, []int{0, 1, 1}, depths)
	for i := 1; i < len(depths); i++ {
		assert.GreaterOrEqual(t, depths[i], depths[i-1])
	}
}

func TestBreadthFirstInterleaved(t *testing.T) {
	s := NewBreadthFirst()

	s.Enqueue(Item{Vertex: 0})

	item, ok := s.Next()
	require.True(t, ok)
	assert.Equal(t, 0, item.Depth)

	// each expansion discovers one child
	s.Enqueue(Item{Vertex: 1})

	item, ok = s.Next()
	require.True(t, ok)
	assert.EqualValues(t, 1, item.Vertex)
	assert.Equal(t, 1, item.Depth)

	s.Enqueue(Item{Vertex: 2})

	item, ok = s.Next()
	require.True(t, ok)
	assert.Equal(t, 2, item.Depth)

	_, ok = s.Next()
	assert.False(t, ok)
}

func TestBreadthFirstExhaustion(t *testing.T) {
	s := NewBreadthFirst()

	_, ok := s.Next()
	assert.False(t, ok)

	s.Enqueue(Item{Vertex: 0})
	_, ok = s.Next()
	assert.True(t, ok)

	_, ok = s.Next()
	assert.False(t, ok)
	assert.Zero(t, s.Len())
}

func TestBreadthFirstLen(t *testing.T) {
	s := NewBreadthFirst()
	assert.Zero(t, s.Len())

	s.Enqueue(Item{Vertex: 0})
	s.Enqueue(Item{Vertex: 1})
	assert.Equal(t, 2, s.Len())

	s.Next()
	assert.Equal(t, 1, s.Len())
}

func TestBestFirstScoreOrder(t *testing.T) {
	s := NewBestFirst()

	s.Enqueue(Item{Vertex: 0, Score: 0.5})
	s.Enqueue(Item{Vertex: 1, Score: 2.0})
	s.Enqueue(Item{Vertex: 2, Score: 1.0})

	var order []core.VertexID
	for {
		item, ok := s.Next()
		if !ok {
			break
		}
		order = append(order, item.Vertex)
	}

	assert.Equal(t, []core.VertexID{1, 2, 0}, order)
}

func TestBestFirstTieBreaksFIFO(t *testing.T) {
	s := NewBestFirst()

	for i := 0; i < 4; i++ {
		s.Enqueue(Item{Vertex: core.VertexID(i), Score: 1.0}) //nolint:gosec
	}

	var order []core.VertexID
	for {
		item, ok := s.Next()
		if !ok {
			break
		}
		order = append(order, item.Vertex)
	}

	assert.Equal(t, []core.VertexID{0, 1, 2, 3}, order)
}

func TestBestFirstEmpty(t *testing.T) {
	s := NewBestFirst()

	_, ok := s.Next()
	assert.False(t, ok)
	assert.Zero(t, s.Len())
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	t.Run("built-ins", func(t *testing.T) {
		assert.ElementsMatch(t, []string{TagBreadthFirst, TagBestFirst}, r.Names())

		bfs, err := r.New(TagBreadthFirst)
		require.NoError(t, err)
		assert.IsType(t, (*BreadthFirst)(nil), bfs)

		best, err := r.New(TagBestFirst)
		require.NoError(t, err)
		assert.IsType(t, (*BestFirst)(nil), best)
	})

	t.Run("unknown tag", func(t *testing.T) {
		_, err := r.New("depth-first")
		assert.Error(t, err)
	})

	t.Run("custom", func(t *testing.T) {
		err := r.Register("custom", func() Strategy { return NewBreadthFirst() })
		require.NoError(t, err)

		_, err = r.New("custom")
		assert.NoError(t, err)
	})

	t.Run("duplicate", func(t *testing.T) {
		err := r.Register(TagBreadthFirst, func() Strategy { return NewBreadthFirst() })
		assert.Error(t, err)
	})

	t.Run("fresh instances", func(t *testing.T) {
		a, err := r.New(TagBreadthFirst)
		require.NoError(t, err)
		b, err := r.New(TagBreadthFirst)
		require.NoError(t, err)

		a.Enqueue(Item{Vertex: 0})
		assert.Equal(t, 1, a.Len())
		assert.Zero(t, b.Len())
	})
}
