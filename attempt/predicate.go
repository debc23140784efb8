package attempt

import (
	"context"
	"errors"
)

// Predicate classifies a failure as recoverable (true: offer another round)
// or fatal (false: propagate now). Predicates never see a nil error and may
// be called once per failed round, so they should be side-effect free.
type Predicate func(err error) bool

// Never treats every failure as fatal. This is the default: callers opt in
// to retries explicitly.
func Never(error) bool {
	return false
}

// Always treats every failure as recoverable. The time budget is then the
// only thing bounding the number of rounds.
func Always(error) bool {
	return true
}

// Is builds a predicate that retries only failures matching (per errors.Is)
// one of the given targets.
func Is(targets ...error) Predicate {
	return func(err error) bool {
		for _, target := range targets {
			if errors.Is(err, target) {
				return true
			}
		}

		return false
	}
}

// Any combines predicates with OR semantics.
func Any(preds ...Predicate) Predicate {
	return func(err error) bool {
		for _, p := range preds {
			if p(err) {
				return true
			}
		}

		return false
	}
}

// Not inverts a predicate.
func Not(p Predicate) Predicate {
	return func(err error) bool {
		return !p(err)
	}
}

// UnlessCanceled wraps a predicate so that context cancellation and deadline
// expiry are never retried, whatever the inner predicate says. Pair it with
// ContextClock when running cancelable operations.
func UnlessCanceled(p Predicate) Predicate {
	return func(err error) bool {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return false
		}

		return p(err)
	}
}
