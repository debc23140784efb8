package attempt

import (
	"log/slog"
	"time"

	"github.com/amp-labs/amp-attempt/schedule"
)

// Option configures a Scheduler or Runner. Options follow the functional
// options pattern.
type Option func(*options)

// options holds the resolved configuration for one Scheduler.
type options struct {
	schedule  schedule.Schedule // Delays between rounds, last value reused
	timeout   time.Duration     // Overall wall-clock budget; <= 0 means one shot
	predicate Predicate         // Decides whether a failure is retryable
	clock     Clock             // Time and sleep source
	logger    *slog.Logger      // Destination for retry notices
	observers []Observer        // Optional instrumentation hooks
}

func newOptions(opts ...Option) *options {
	o := &options{
		schedule:  schedule.Default(),
		timeout:   DefaultTimeout,
		predicate: Never,
		clock:     systemClock{},
		logger:    slog.Default(),
	}

	for _, option := range opts {
		option(o)
	}

	return o
}

// WithSchedule sets the delay schedule consumed between rounds. The schedule
// must yield at least one value; the final value is reused once the schedule
// is exhausted.
//
// Example:
//
//	attempt.WithSchedule(schedule.Fixed{0, time.Second, 4 * time.Second})
func WithSchedule(s schedule.Schedule) Option {
	return func(o *options) {
		o.schedule = s
	}
}

// WithDelays is shorthand for WithSchedule(schedule.Fixed{...}).
func WithDelays(delays ...time.Duration) Option {
	return WithSchedule(schedule.Fixed(delays))
}

// WithTimeout sets the overall wall-clock budget. The deadline is computed
// once, when the Scheduler is created. A timeout of zero requests exactly one
// attempt with no retry handling at all.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithPredicate sets the recoverability classifier. The predicate is consulted
// for every failed round and must be safe to call repeatedly. The default,
// Never, disables retries entirely.
//
// Example:
//
//	attempt.WithPredicate(attempt.Is(io.ErrUnexpectedEOF, syscall.ECONNRESET))
func WithPredicate(p Predicate) Option {
	return func(o *options) {
		o.predicate = p
	}
}

// WithClock replaces the time and sleep source. Useful for tests and for
// layering cancellation over the inter-round wait (see ContextClock).
func WithClock(c Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithLogger sets the logger that receives the per-retry notice. Defaults to
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithObserver registers an instrumentation hook. May be given multiple
// times; observers are notified in registration order.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		o.observers = append(o.observers, obs)
	}
}
