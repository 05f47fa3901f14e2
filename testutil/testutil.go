package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/eqsearch/core"
	"github.com/hupe1980/eqsearch/rewrite"
)

// Application is one scripted rule application: applying Rule to the
// keyed expression yields Result.
type Application struct {
	Rule   string
	Result string
}

// StubRewriter is a scripted rewrite capability over string expressions
// and string proofs. Rules are served one per call, so cursor resumption
// and the driver's Repeat path are exercised the same way a real lazy
// rule iterator would. It is safe for concurrent use.
type StubRewriter struct {
	mu     sync.Mutex
	rules  map[string][]Application
	batch  int
	calls  atomic.Int64
	forced atomic.Int64
	err    error
}

// NewStubRewriter creates an empty stub. With no rules scripted it reports
// no applicable rules for every expression.
func NewStubRewriter() *StubRewriter {
	return &StubRewriter{
		rules: make(map[string][]Application),
		batch: 1,
	}
}

// Add scripts a rule application and returns the stub for chaining.
func (s *StubRewriter) Add(expr, rule, result string) *StubRewriter {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rules[expr] = append(s.rules[expr], Application{Rule: rule, Result: result})
	return s
}

// AddChain scripts a linear chain: each expression rewrites to the next
// one under the given rule name suffixed with its position.
func (s *StubRewriter) AddChain(rule string, exprs ...string) *StubRewriter {
	for i := 0; i+1 < len(exprs); i++ {
		s.Add(exprs[i], fmt.Sprintf("%s_%d", rule, i), exprs[i+1])
	}
	return s
}

// WithBatch sets how many applications a single NextRules call returns.
func (s *StubRewriter) WithBatch(n int) *StubRewriter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n < 1 {
		n = 1
	}
	s.batch = n
	return s
}

// WithError makes every NextRules call fail with err.
func (s *StubRewriter) WithError(err error) *StubRewriter {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.err = err
	return s
}

// Calls returns the number of NextRules invocations.
func (s *StubRewriter) Calls() int64 {
	return s.calls.Load()
}

// Forced returns how many proof thunks have been forced.
func (s *StubRewriter) Forced() int64 {
	return s.forced.Load()
}

// NextRules serves the scripted applications for expr starting at cursor.
func (s *StubRewriter) NextRules(ctx context.Context, expr string, cursor int) (rewrite.Outcome[string, string], error) {
	s.calls.Add(1)

	if err := ctx.Err(); err != nil {
		return rewrite.Outcome[string, string]{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return rewrite.Outcome[string, string]{}, s.err
	}

	apps := s.rules[expr]
	if cursor >= len(apps) {
		return rewrite.Outcome[string, string]{Cursor: cursor}, nil
	}

	end := cursor + s.batch
	if end > len(apps) {
		end = len(apps)
	}

	out := rewrite.Outcome[string, string]{Cursor: end}
	for _, app := range apps[cursor:end] {
		app := app
		out.Rewrites = append(out.Rewrites, rewrite.Rewrite[string, string]{
			Expr:   app.Result,
			Pretty: app.Result,
			Rule:   core.Rule{Name: app.Rule},
			Proof: func() (string, error) {
				s.forced.Add(1)
				return fmt.Sprintf("%s(%s=%s)", app.Rule, expr, app.Result), nil
			},
		})
	}

	return out, nil
}

var _ rewrite.Rewriter[string, string] = (*StubRewriter)(nil)

// Composer folds string proofs into a readable transcript: reflexivity
// for an empty chain, otherwise the step proofs joined with " ; ", with
// reversed steps prefixed by "~".
type Composer struct{}

// Compose implements rewrite.Composer for string proofs.
func (Composer) Compose(_ context.Context, from, to string, steps []rewrite.Step[string]) (string, error) {
	if len(steps) == 0 {
		return fmt.Sprintf("refl(%s)", from), nil
	}

	parts := make([]string, 0, len(steps))
	for _, step := range steps {
		if step.Reversed {
			parts = append(parts, "~"+step.Proof)
		} else {
			parts = append(parts, step.Proof)
		}
	}

	return fmt.Sprintf("%s = %s : %s", from, to, strings.Join(parts, " ; ")), nil
}

var _ rewrite.Composer[string] = Composer{}

// FailComposer fails every composition with Err, for abort-path tests.
type FailComposer struct {
	Err error
}

// Compose implements rewrite.Composer for string proofs.
func (c FailComposer) Compose(context.Context, string, string, []rewrite.Step[string]) (string, error) {
	return "", c.Err
}

var _ rewrite.Composer[string] = FailComposer{}
