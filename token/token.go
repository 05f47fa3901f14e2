package token

import (
	"fmt"
	"sync"

	"github.com/hupe1980/eqsearch/core"
)

// Token is an interned fragment of a pretty-printed expression together
// with its per-side occurrence counts.
type Token struct {
	ID   core.TokenID
	Text string

	// Freq counts occurrences per side, indexed by core.Side.
	Freq [2]uint32
}

// Table interns token texts into dense ids. Ids are issued sequentially and
// tokens are never deleted.
type Table struct {
	mu     sync.RWMutex
	tokens []Token
	byText map[string]core.TokenID
}

// NewTable creates an empty token table.
func NewTable() *Table {
	return &Table{
		byText: make(map[string]core.TokenID),
	}
}

// FindOrCreate returns the token for text, incrementing its frequency for
// side. A first occurrence allocates the next sequential id with frequency 1
// on side. The stored token is replaced by the updated copy.
func (t *Table) FindOrCreate(text string, side core.Side) Token {
	t.mu.Lock()
	defer t.mu.Unlock()

	if id, ok := t.byText[text]; ok {
		tok := t.tokens[id]
		tok.Freq[side]++
		t.tokens[id] = tok
		return tok
	}

	tok := Token{
		ID:   core.TokenID(len(t.tokens)), //nolint:gosec
		Text: text,
	}
	tok.Freq[side] = 1

	t.tokens = append(t.tokens, tok)
	t.byText[text] = tok.ID

	return tok
}

// Get returns the token for id. Passing an id the table never issued is a
// bug in the caller and panics.
func (t *Table) Get(id core.TokenID) Token {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if int(id) >= len(t.tokens) {
		panic(fmt.Sprintf("token: id %d out of range (table size %d)", id, len(t.tokens)))
	}

	return t.tokens[id]
}

// Len returns the number of distinct tokens.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.tokens)
}

// Intern tokenizes pretty and interns every fragment for side, returning the
// ordered token ids. Repeated fragments count once per occurrence.
func (t *Table) Intern(pretty string, side core.Side) []core.TokenID {
	texts := Tokenize(pretty)

	ids := make([]core.TokenID, len(texts))
	for i, text := range texts {
		ids[i] = t.FindOrCreate(text, side).ID
	}

	return ids
}
