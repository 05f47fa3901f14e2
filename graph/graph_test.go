package graph

import (
	"errors"
	"strings"
	"testing"

	"github.com/hupe1980/eqsearch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVertexStoreCreate(t *testing.T) {
	s := NewVertexStore[string, string](nil)

	left := s.Create("a+b", "a + b", []core.TokenID{0, 1, 2}, true, core.SideLeft)
	right := s.Create("b+a", "b + a", []core.TokenID{2, 1, 0}, true, core.SideRight)

	assert.Equal(t, core.LeftRootID, left.ID)
	assert.Equal(t, core.RightRootID, right.ID)
	assert.Equal(t, 2, s.Len())

	// round-trip: stored vertex equals the one returned by Create
	got := s.Get(left.ID)
	assert.Equal(t, left, got)
	assert.False(t, got.Visited)
	assert.Equal(t, core.InvalidEdgeID, got.Parent)
	assert.Zero(t, got.Cursor)
	assert.Empty(t, got.Pending)
	assert.Empty(t, got.Adjacency)
}

func TestVertexStoreSet(t *testing.T) {
	s := NewVertexStore[string, string](nil)

	v := s.Create("a", "a", nil, true, core.SideLeft)
	v.Visited = true
	v.Cursor = 3
	v.Adjacency = append(v.Adjacency, core.EdgeID(0))
	s.Set(v)

	got := s.Get(v.ID)
	assert.True(t, got.Visited)
	assert.Equal(t, 3, got.Cursor)
	assert.Equal(t, []core.EdgeID{0}, got.Adjacency)
}

func TestVertexStoreGetOrCreate(t *testing.T) {
	s := NewVertexStore[string, string](nil)

	v, created := s.GetOrCreate("a+b", "a + b", nil, core.SideLeft)
	require.True(t, created)

	dup, created := s.GetOrCreate("a+b", "a + b", nil, core.SideRight)
	assert.False(t, created)
	assert.Equal(t, v.ID, dup.ID)
	assert.Equal(t, core.SideLeft, dup.Side)
	assert.Equal(t, 1, s.Len())
}

func TestVertexStoreLookup(t *testing.T) {
	s := NewVertexStore[string, string](nil)
	v := s.Create("a", "a", nil, true, core.SideLeft)

	id, ok := s.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, v.ID, id)

	_, ok = s.Lookup("b")
	assert.False(t, ok)
}

func TestVertexStoreKeyFunc(t *testing.T) {
	// match ignoring spaces
	s := NewVertexStore[string, string](func(pretty string) string {
		return strings.ReplaceAll(pretty, " ", "")
	})

	s.Create("a+b", "a + b", nil, true, core.SideLeft)

	id, ok := s.Lookup("a+b")
	require.True(t, ok)
	assert.Equal(t, core.LeftRootID, id)

	_, created := s.GetOrCreate("a+b", "a +b", nil, core.SideLeft)
	assert.False(t, created)
}

func TestVertexStoreGetPanicsOutOfRange(t *testing.T) {
	s := NewVertexStore[string, string](nil)
	s.Create("a", "a", nil, true, core.SideLeft)

	assert.Panics(t, func() {
		s.Get(core.VertexID(5))
	})
	assert.Panics(t, func() {
		s.Get(core.InvalidVertexID)
	})
}

func TestEdgeStoreCreate(t *testing.T) {
	s := NewEdgeStore[string]()

	e := s.Create(0, 2, core.Rule{Name: "comm_add"}, func() (string, error) {
		return "proof", nil
	})

	assert.EqualValues(t, 0, e.ID)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, e.Rule, s.Get(e.ID).Rule)
}

func TestEdgeProofForcedOnce(t *testing.T) {
	s := NewEdgeStore[string]()

	var calls int
	e := s.Create(0, 1, core.Rule{Name: "r"}, func() (string, error) {
		calls++
		return "proof", nil
	})

	p1, err := e.Proof()
	require.NoError(t, err)

	// forcing through a fresh copy from the store hits the same memo
	p2, err := s.Get(e.ID).Proof()
	require.NoError(t, err)

	assert.Equal(t, "proof", p1)
	assert.Equal(t, p1, p2)
	assert.Equal(t, 1, calls)
}

func TestEdgeProofError(t *testing.T) {
	s := NewEdgeStore[string]()

	wantErr := errors.New("elaboration failed")
	e := s.Create(0, 1, core.Rule{Name: "r"}, func() (string, error) {
		return "", wantErr
	})

	_, err := e.Proof()
	assert.ErrorIs(t, err, wantErr)
}

func TestEdgeStoreNilThunkPanics(t *testing.T) {
	s := NewEdgeStore[string]()

	assert.Panics(t, func() {
		s.Create(0, 1, core.Rule{Name: "r"}, nil)
	})
}

func TestOtherEndpoint(t *testing.T) {
	s := NewEdgeStore[string]()
	e := s.Create(3, 7, core.Rule{Name: "r"}, func() (string, error) { return "", nil })

	tests := []struct {
		name   string
		known  core.VertexID
		want   core.VertexID
		wantOK bool
	}{
		{name: "from", known: 3, want: 7, wantOK: true},
		{name: "to", known: 7, want: 3, wantOK: true},
		{name: "neither", known: 9, want: core.InvalidVertexID, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := OtherEndpoint(e, tt.known)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEdgeStoreGetPanicsOutOfRange(t *testing.T) {
	s := NewEdgeStore[string]()

	assert.Panics(t, func() {
		s.Get(core.EdgeID(0))
	})
}
