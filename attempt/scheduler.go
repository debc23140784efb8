// Package attempt provides a retry-with-backoff control primitive: a lazy
// sequence of per-round attempt guards that decides, after each failed
// round, whether to wait and offer another round or to surface the failure
// to the caller unchanged.
//
// The guard sequence is the core protocol — one operation per guard:
//
//	s := attempt.NewScheduler(
//	    attempt.WithDelays(0, time.Second, 4*time.Second),
//	    attempt.WithTimeout(time.Minute),
//	    attempt.WithPredicate(attempt.Always),
//	)
//	for guard := range s.Attempts() {
//	    guard.Do(func() error {
//	        return callFlakyService()
//	    })
//	}
//	if err := s.Err(); err != nil {
//	    // err is exactly the error from the final, non-retried round
//	}
//
// Most callers want the one-line form instead:
//
//	err := attempt.Do(callFlakyService, attempt.WithPredicate(attempt.Always))
//
// Retries are opt-in: the default predicate never retries. The timeout is
// best-effort — it gates whether a new round may begin, and never interrupts
// an operation already in flight. A caller that needs cancellation can wrap
// its operation and the inter-round wait via WithClock(ContextClock(ctx)).
package attempt

import (
	"iter"
	"log/slog"
	"time"

	"go.uber.org/atomic"

	"github.com/amp-labs/amp-attempt/schedule"
)

// DefaultTimeout is the overall wall-clock budget used when WithTimeout is
// not supplied.
const DefaultTimeout = 300 * time.Second

// Scheduler produces the attempt-guard sequence for one logical retried
// operation. The overall deadline is fixed when the Scheduler is created.
//
// A Scheduler is single-use and single-pass: it must not be shared between
// goroutines, and its Attempts sequence may be ranged over at most once.
// Create a fresh Scheduler (or use a Runner) for each retried operation.
type Scheduler struct {
	opts     *options
	deadline time.Time
	started  *atomic.Bool
	cont     bool
	rounds   uint
	failure  error
}

// NewScheduler creates a Scheduler. Without options it performs a single
// attempt (the default predicate never retries) under the default schedule
// and a 300 second budget.
func NewScheduler(opts ...Option) *Scheduler {
	o := newOptions(opts...)

	return &Scheduler{
		opts:     o,
		deadline: o.clock.Now().Add(o.timeout),
		started:  atomic.NewBool(false),
	}
}

// Attempts returns the guard sequence. Each guard represents one round: the
// caller must run exactly one operation under it via Guard.Do. The sequence
// ends after the first round that succeeds or whose failure is not retried;
// the failure, if any, is then available from Err.
//
// The sequence is single-pass. Ranging over it a second time panics.
func (s *Scheduler) Attempts() iter.Seq[*Guard] {
	return func(yield func(*Guard) bool) {
		if !s.started.CompareAndSwap(false, true) {
			panic("attempt: Attempts is single-pass; create a new Scheduler")
		}

		// A zero (or negative) budget means exactly one unconditional
		// attempt: no predicate, no waiting.
		if s.opts.timeout <= 0 {
			guard := &Guard{s: s, oneShot: true}
			s.rounds++

			if yield(guard) {
				guard.mustHaveRun()
			}

			return
		}

		cursor := schedule.NewCursor(s.opts.schedule)
		defer cursor.Stop()

		s.cont = true
		for s.cont {
			guard := &Guard{s: s, delay: cursor.Next()}
			s.rounds++

			if !yield(guard) {
				// Caller broke out of the range; the sequence is abandoned.
				return
			}

			guard.mustHaveRun()
		}
	}
}

// Err returns the failure from the final round, exactly as the operation
// returned it, or nil if some round succeeded. Only meaningful once the
// Attempts sequence has ended.
func (s *Scheduler) Err() error {
	return s.failure
}

// Rounds returns the number of guards produced so far.
func (s *Scheduler) Rounds() uint {
	return s.rounds
}

// finish records the terminal outcome and notifies observers.
func (s *Scheduler) finish(err error) {
	s.failure = err

	for _, obs := range s.opts.observers {
		obs.ObserveOutcome(err, s.rounds)
	}
}

// Guard scopes a single attempt. It is handed out by Scheduler.Attempts and
// must run exactly one operation via Do.
type Guard struct {
	s       *Scheduler
	delay   time.Duration
	oneShot bool
	ran     bool
}

// Delay reports the wait this round will incur if its failure is retried.
func (g *Guard) Delay() time.Duration {
	return g.delay
}

// Do runs the operation under this guard's scope and settles the round:
//
//   - nil error: the sequence stops; Scheduler.Err will return nil.
//   - non-nil error, with enough budget left for this round's delay and a
//     predicate that approves: the failure is suppressed, a retry notice is
//     logged, and Do blocks for the delay before the next round is offered.
//   - otherwise: the error is recorded verbatim as the final failure and the
//     sequence stops.
//
// Calling Do twice on the same guard panics.
func (g *Guard) Do(f func() error) {
	if g.ran {
		panic("attempt: guard already ran its operation")
	}

	g.ran = true

	err := f()

	if g.oneShot {
		g.s.cont = false
		g.s.finish(err)

		return
	}

	if err == nil {
		g.s.cont = false
		g.s.finish(nil)

		return
	}

	o := g.s.opts

	// The delay is charged against the budget up front, so a wait that
	// would overshoot the deadline disqualifies the round instead of
	// sleeping past the budget only to give up afterwards.
	if o.clock.Now().Add(g.delay).Before(g.s.deadline) && o.predicate(err) {
		o.logger.Info("operation failed, retrying",
			slog.Any("error", err),
			slog.Float64("delay_seconds", g.delay.Seconds()),
		)

		for _, obs := range o.observers {
			obs.ObserveRetry(err, g.delay, g.s.rounds)
		}

		o.clock.Sleep(g.delay)

		return
	}

	g.s.cont = false
	g.s.finish(err)
}

// mustHaveRun enforces the one-operation-per-guard protocol.
func (g *Guard) mustHaveRun() {
	if !g.ran {
		panic("attempt: guard discarded without running an operation")
	}
}
