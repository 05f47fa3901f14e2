package token

import (
	"math"

	"github.com/hupe1980/eqsearch/core"
)

// Scorer ranks candidate expressions by weighted token overlap with a fixed
// target expression, usually the goal root on the opposite side. Rare shared
// tokens weigh more than ubiquitous ones.
type Scorer struct {
	postings *Postings
	target   map[core.TokenID]struct{}
}

// NewScorer creates a scorer targeting the given token set.
func NewScorer(postings *Postings, target []core.TokenID) *Scorer {
	set := make(map[core.TokenID]struct{}, len(target))
	for _, tok := range target {
		set[tok] = struct{}{}
	}

	return &Scorer{
		postings: postings,
		target:   set,
	}
}

// Score sums the inverse document frequency of every distinct token shared
// between tokens and the target, with vertexCount as the corpus size. Higher
// means closer to the target.
func (s *Scorer) Score(tokens []core.TokenID, vertexCount int) float64 {
	var (
		score float64
		seen  = make(map[core.TokenID]struct{}, len(tokens))
	)

	for _, tok := range tokens {
		if _, ok := s.target[tok]; !ok {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}

		score += idf(vertexCount, s.postings.Cardinality(tok))
	}

	return score
}

// idf = log(1 + (N - n + 0.5) / (n + 0.5))
func idf(total int, posted uint64) float64 {
	N := float64(total)
	n := float64(posted)
	return math.Log(1 + (N-n+0.5)/(n+0.5))
}
