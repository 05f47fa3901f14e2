package engine

import (
	"errors"
	"fmt"
)

// Engine-layer sentinels. The eqsearch package translates them into its
// public error contract.
var (
	// ErrExhausted reports that the frontier drained without the two
	// search trees meeting. This is the ordinary failure outcome, carried
	// inside a Result rather than returned as an error.
	ErrExhausted = errors.New("exhausted search space")

	// ErrBudget reports that the step budget or an external deadline was
	// hit. Terminal for the search instance, but not a bug.
	ErrBudget = errors.New("resource exhausted")
)

// AbortError is the terminal non-success outcome of a driver: the search
// was cut short before the space was exhausted. It wraps the cause, e.g.
// ErrBudget, a context error, or a rewrite capability failure.
type AbortError struct {
	Reason string
	Err    error
}

// Error returns the error message for the abort.
func (e *AbortError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("search aborted: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("search aborted: %s", e.Reason)
}

// Unwrap returns the underlying cause.
func (e *AbortError) Unwrap() error {
	return e.Err
}

func abortBudget(cause error) *AbortError {
	return &AbortError{Reason: ErrBudget.Error(), Err: cause}
}

func abortRewriter(err error) *AbortError {
	return &AbortError{Reason: "rewrite capability failed", Err: err}
}
