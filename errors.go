package eqsearch

import (
	"errors"
	"fmt"

	"github.com/hupe1980/eqsearch/engine"
)

var (
	// ErrExhausted reports that the search space drained without the two
	// goal sides meeting. Carried in Result.Message; also usable with
	// errors.Is against wrapped engine errors.
	ErrExhausted = errors.New("exhausted search space")

	// ErrBudgetExhausted reports that a step budget or deadline cut the
	// search short. Terminal for the search, not a bug.
	ErrBudgetExhausted = errors.New("resource exhausted")

	// ErrClosed is returned when operating on a closed engine.
	ErrClosed = errors.New("engine is closed")

	// ErrNotFound is returned when a requested archive or session does
	// not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidConfig is the root of all configuration errors.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ErrInvalidParameter indicates a constructor or option argument that
// cannot be used.
//
// Matches ErrInvalidConfig via errors.Is.
type ErrInvalidParameter struct {
	Param  string
	Reason string
}

func (e *ErrInvalidParameter) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Param, e.Reason)
}

func (e *ErrInvalidParameter) Unwrap() error { return ErrInvalidConfig }

// AbortError is returned by Search when the run was cut short before the
// space was exhausted: a budget tripped, the context was cancelled, or
// the rewrite capability failed.
//
// The cause can be accessed via errors.Unwrap; budget aborts match
// ErrBudgetExhausted via errors.Is.
type AbortError struct {
	Reason string
	Err    error
}

func (e *AbortError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("search aborted: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("search aborted: %s", e.Reason)
}

func (e *AbortError) Unwrap() error { return e.Err }

// translateError maps engine-layer errors onto the public contract.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var ab *engine.AbortError
	if errors.As(err, &ab) {
		cause := ab.Err
		if errors.Is(cause, engine.ErrBudget) {
			cause = fmt.Errorf("%w: %w", ErrBudgetExhausted, cause)
		}
		return &AbortError{Reason: ab.Reason, Err: cause}
	}

	if errors.Is(err, engine.ErrExhausted) {
		return fmt.Errorf("%w: %w", ErrExhausted, err)
	}

	return err
}
