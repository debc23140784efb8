// Package schedule defines delay schedules for retried operations: ordered,
// possibly-infinite sequences of non-negative wait durations. A schedule is
// consumed one value per retry round through a Cursor, which keeps handing out
// the final value once the underlying sequence runs dry.
//
// The zero-delay-capable default schedule grows roughly geometrically and tops
// out at about a minute:
//
//	cur := schedule.NewCursor(schedule.Default())
//	cur.Next() // 0s
//	cur.Next() // 1s
//	cur.Next() // 1s, then 4s, 16s, 64s, 64s, 64s, ...
package schedule

import (
	"iter"
	"time"
)

// Schedule is an ordered sequence of non-negative delays. Implementations may
// be infinite; consumers take values through a Cursor, which never iterates
// past the values it needs.
type Schedule interface {
	// Delays returns the delay sequence. The sequence must yield at least one
	// value and every value must be non-negative.
	Delays() iter.Seq[time.Duration]
}

// Fixed is a literal, finite schedule.
type Fixed []time.Duration

// Delays yields the slice elements in order.
func (f Fixed) Delays() iter.Seq[time.Duration] {
	return func(yield func(time.Duration) bool) {
		for _, d := range f {
			if !yield(d) {
				return
			}
		}
	}
}

// Func adapts a generator function into a Schedule, for computed or infinite
// sequences.
//
// Example:
//
//	doubling := schedule.Func(func(yield func(time.Duration) bool) {
//	    for d := time.Second; ; d *= 2 {
//	        if !yield(d) {
//	            return
//	        }
//	    }
//	})
type Func func(yield func(time.Duration) bool)

// Delays returns the generator itself.
func (f Func) Delays() iter.Seq[time.Duration] {
	return iter.Seq[time.Duration](f)
}

// Default returns the stock schedule: an immediate first retry, two quick
// ones, then increasingly long waits capped at 64 seconds (the final value
// repeats via cursor reuse).
func Default() Schedule {
	return Fixed{
		0,
		1 * time.Second,
		1 * time.Second,
		4 * time.Second,
		16 * time.Second,
		64 * time.Second,
	}
}
