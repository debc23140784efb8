package attempt

import (
	"context"
	"time"
)

// Clock supplies the two time dependencies of the scheduler: reading the
// wall clock and blocking between rounds. The inter-round wait is a real
// blocking sleep; the scheduler itself never interrupts it.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// systemClock is the default Clock, backed by the time package.
type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

// ContextClock returns a Clock whose Sleep wakes early when ctx is canceled.
// This is the hook for layering cancellation over the inter-round wait: the
// scheduler still treats the wait as an ordinary sleep, but a canceled
// context stops it from running to full length. Combine with a predicate
// wrapped in UnlessCanceled so the next round's failure is not retried.
func ContextClock(ctx context.Context) Clock {
	return contextClock{ctx: ctx}
}

type contextClock struct {
	ctx context.Context
}

func (contextClock) Now() time.Time {
	return time.Now()
}

func (c contextClock) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-c.ctx.Done():
	}
}
