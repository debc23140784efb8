package schedule

import (
	"iter"
	"time"
)

// Cursor is a single-pass consumer of a Schedule. Each call to Next advances
// the sequence by one value; once the sequence is exhausted, Next keeps
// returning the last value it saw. A Cursor must not be shared between
// goroutines.
type Cursor struct {
	next func() (time.Duration, bool)
	stop func()
	last time.Duration
	done bool
}

// NewCursor starts consuming the given schedule. It pulls the first value
// eagerly: a schedule that yields nothing is caller misuse and panics here,
// as does a schedule whose first value is negative.
func NewCursor(s Schedule) *Cursor {
	next, stop := iter.Pull(s.Delays())

	first, ok := next()
	if !ok {
		stop()
		panic("schedule: schedule must yield at least one delay")
	}

	c := &Cursor{
		next: next,
		stop: stop,
		last: check(first),
	}

	return c
}

// Next returns the delay for the current round and advances the cursor.
// After the schedule is exhausted, it returns the final value forever.
func (c *Cursor) Next() time.Duration {
	d := c.last

	if !c.done {
		if n, ok := c.next(); ok {
			c.last = check(n)
		} else {
			// Exhausted: release the pull iterator, keep reusing the
			// last value.
			c.done = true
			c.stop()
		}
	}

	return d
}

// Stop releases the underlying iterator. It is safe to call multiple times
// and after exhaustion. Callers that abandon a cursor early should call Stop.
func (c *Cursor) Stop() {
	if !c.done {
		c.done = true
		c.stop()
	}
}

// check rejects negative delays, which have no meaning as wait times.
func check(d time.Duration) time.Duration {
	if d < 0 {
		panic("schedule: delays must be non-negative")
	}

	return d
}
