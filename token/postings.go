package token

import (
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/eqsearch/core"
)

// Postings maps token ids to the set of vertices whose pretty form contains
// the token. Rows are 32-bit roaring bitmaps keyed by vertex id.
type Postings struct {
	mu   sync.RWMutex
	rows map[core.TokenID]*roaring.Bitmap
}

// NewPostings creates an empty posting index.
func NewPostings() *Postings {
	return &Postings{
		rows: make(map[core.TokenID]*roaring.Bitmap),
	}
}

// Add records that vertex v contains token tok.
func (p *Postings) Add(tok core.TokenID, v core.VertexID) {
	p.mu.Lock()
	defer p.mu.Unlock()

	row, ok := p.rows[tok]
	if !ok {
		row = roaring.New()
		p.rows[tok] = row
	}
	row.Add(uint32(v))
}

// AddAll records vertex v under every token in tokens.
func (p *Postings) AddAll(tokens []core.TokenID, v core.VertexID) {
	for _, tok := range tokens {
		p.Add(tok, v)
	}
}

// Cardinality returns the number of vertices posted under token tok.
func (p *Postings) Cardinality(tok core.TokenID) uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	row, ok := p.rows[tok]
	if !ok {
		return 0
	}
	return row.GetCardinality()
}
