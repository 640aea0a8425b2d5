// Package fallback runs an ordered list of alternative attempts and returns the
// first success. It replaces probing an unstable API by catching failures.
package fallback

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNoCandidates is returned when TryInOrder is given nothing to try.
var ErrNoCandidates = errors.New("no candidates")

// Candidate is one alternative: a label for diagnostics and the attempt itself.
type Candidate[R any] struct {
	Name string
	Try  func(ctx context.Context) (R, error)
}

// Attempt records a failed candidate.
type Attempt struct {
	Name string
	Err  error
}

// Error aggregates every failed attempt. It unwraps to each attempt's error,
// so errors.As finds an underlying API error.
type Error struct {
	Op       string
	Attempts []Attempt
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s: %v", a.Name, a.Err))
	}
	return fmt.Sprintf("%s: all %d candidates failed [%s]", e.Op, len(e.Attempts), strings.Join(parts, "; "))
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		errs = append(errs, a.Err)
	}
	return errs
}

// Last returns the error of the final attempt, or nil.
func (e *Error) Last() error {
	if len(e.Attempts) == 0 {
		return nil
	}
	return e.Attempts[len(e.Attempts)-1].Err
}

type permanentError struct{ err error }

func (p permanentError) Error() string { return p.err.Error() }
func (p permanentError) Unwrap() error { return p.err }

// Permanent marks err so TryInOrder stops instead of moving to the next candidate.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return permanentError{err: err}
}

// TryInOrder runs candidates sequentially and returns the first success along
// with the index of the candidate that succeeded. Cancellation of ctx or a
// Permanent error ends the chain early.
func TryInOrder[R any](ctx context.Context, op string, candidates []Candidate[R]) (R, int, error) {
	var zero R
	if len(candidates) == 0 {
		return zero, -1, fmt.Errorf("%s: %w", op, ErrNoCandidates)
	}

	agg := &Error{Op: op}
	for i, c := range candidates {
		if err := ctx.Err(); err != nil {
			agg.Attempts = append(agg.Attempts, Attempt{Name: c.Name, Err: err})
			return zero, -1, agg
		}

		res, err := c.Try(ctx)
		if err == nil {
			return res, i, nil
		}

		agg.Attempts = append(agg.Attempts, Attempt{Name: c.Name, Err: err})

		var perm permanentError
		if errors.As(err, &perm) {
			break
		}
	}

	return zero, -1, agg
}
