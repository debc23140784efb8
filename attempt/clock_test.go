package attempt

import (
	"context"
	"testing"
	"time"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemClock(t *testing.T) {
	t.Parallel()

	clock := systemClock{}

	before := clock.Now()
	clock.Sleep(5 * time.Millisecond)
	after := clock.Now()

	assert.GreaterOrEqual(t, after.Sub(before), 5*time.Millisecond)
}

func TestContextClock_SleepWakesOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	clock := ContextClock(ctx)

	start := time.Now()
	clock.Sleep(10 * time.Second)

	assert.Less(t, time.Since(start), time.Second, "canceled context must cut the wait short")
}

func TestContextClock_SleepRunsToCompletion(t *testing.T) {
	t.Parallel()

	clock := ContextClock(t.Context())

	start := time.Now()
	clock.Sleep(10 * time.Millisecond)

	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestContextClock_ZeroSleepReturnsImmediately(t *testing.T) {
	t.Parallel()

	clock := ContextClock(t.Context())
	clock.Sleep(0)
}

func TestContextClock_EndsRetryLoopEarly(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())

	attempts := 0
	err := Do(func() error {
		attempts++
		if attempts == 1 {
			cancel()

			return errTransient
		}

		return ctx.Err()
	},
		WithDelays(time.Millisecond),
		WithTimeout(time.Minute),
		WithClock(ContextClock(ctx)),
		WithPredicate(UnlessCanceled(Always)),
		WithLogger(slogt.New(t)),
	)

	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, attempts, "the round after cancellation must not be retried")
}
