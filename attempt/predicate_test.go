package attempt

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	errThrottled = errors.New("throttled")
	errCorrupt   = errors.New("corrupt payload")
)

func TestNeverAndAlways(t *testing.T) {
	t.Parallel()

	assert.False(t, Never(errThrottled))
	assert.True(t, Always(errThrottled))
}

func TestIs(t *testing.T) {
	t.Parallel()

	p := Is(errThrottled, errCorrupt)

	assert.True(t, p(errThrottled))
	assert.True(t, p(fmt.Errorf("request failed: %w", errThrottled)))
	assert.True(t, p(errCorrupt))
	assert.False(t, p(errors.New("unrelated")))
}

func TestAny(t *testing.T) {
	t.Parallel()

	p := Any(Is(errThrottled), Is(errCorrupt))

	assert.True(t, p(errThrottled))
	assert.True(t, p(errCorrupt))
	assert.False(t, p(errors.New("unrelated")))

	assert.False(t, Any()(errThrottled), "empty Any matches nothing")
}

func TestNot(t *testing.T) {
	t.Parallel()

	p := Not(Is(errCorrupt))

	assert.False(t, p(errCorrupt))
	assert.True(t, p(errThrottled))
}

func TestUnlessCanceled(t *testing.T) {
	t.Parallel()

	p := UnlessCanceled(Always)

	assert.True(t, p(errThrottled))
	assert.False(t, p(context.Canceled))
	assert.False(t, p(context.DeadlineExceeded))
	assert.False(t, p(fmt.Errorf("fetch: %w", context.Canceled)))
}
