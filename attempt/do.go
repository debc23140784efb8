package attempt

// Runner executes operations with retry logic. A Runner is reusable and safe
// for concurrent use: every Do call builds its own single-pass scheduler from
// the Runner's options.
type Runner interface {
	Do(f func() error) error
}

// ValueRunner is a Runner for operations that return a value alongside the
// error. On final failure it returns the zero value of T and the failure.
type ValueRunner[T any] interface {
	Do(f func() (T, error)) (T, error)
}

// NewRunner creates a Runner with the given options.
//
// Example:
//
//	runner := attempt.NewRunner(
//	    attempt.WithTimeout(time.Minute),
//	    attempt.WithPredicate(attempt.Always),
//	)
//	err := runner.Do(pollUpstream)
func NewRunner(opts ...Option) Runner {
	return runnerImpl{opts: opts}
}

// NewValueRunner creates a ValueRunner with the given options.
func NewValueRunner[T any](opts ...Option) ValueRunner[T] {
	return valueRunnerImpl[T]{opts: opts}
}

type runnerImpl struct {
	opts []Option
}

func (r runnerImpl) Do(f func() error) error {
	return Do(f, r.opts...)
}

type valueRunnerImpl[T any] struct {
	opts []Option
}

func (v valueRunnerImpl[T]) Do(f func() (T, error)) (T, error) {
	return DoValue(f, v.opts...)
}

// Do runs f under a fresh scheduler and returns nil on success or the exact
// error from the final, non-retried round.
//
// Example:
//
//	err := attempt.Do(func() error {
//	    return makeAPICall()
//	}, attempt.WithPredicate(attempt.Is(ErrThrottled)))
func Do(f func() error, opts ...Option) error {
	s := NewScheduler(opts...)

	for guard := range s.Attempts() {
		guard.Do(f)
	}

	return s.Err()
}

// DoValue runs f under a fresh scheduler, returning the successful result or
// the zero value of T together with the final failure.
//
// Example:
//
//	payload, err := attempt.DoValue(func() ([]byte, error) {
//	    return fetchManifest()
//	}, attempt.WithPredicate(attempt.Always))
func DoValue[T any](f func() (T, error), opts ...Option) (T, error) {
	var out T

	err := Do(func() error {
		var err error

		out, err = f()

		return err
	}, opts...)
	if err != nil {
		var zero T

		return zero, err
	}

	return out, nil
}
