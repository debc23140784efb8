package telemetry

import (
	"errors"
	"testing"
	"time"

	"github.com/neilotoole/slogt"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/amp-labs/amp-attempt/attempt"
)

var errUnstable = errors.New("unstable backend")

func TestMetricsObserver_CountsRetriesAndOutcomes(t *testing.T) {
	t.Parallel()

	obs := NewMetricsObserver("metrics-test-flaky")

	calls := 0
	err := attempt.Do(func() error {
		calls++
		if calls < 3 {
			return errUnstable
		}

		return nil
	},
		attempt.WithDelays(10*time.Millisecond),
		attempt.WithPredicate(attempt.Always),
		attempt.WithObserver(obs),
		attempt.WithLogger(slogt.New(t)),
	)
	require.NoError(t, err)

	assert.InDelta(t, 2.0,
		testutil.ToFloat64(retriesTotal.WithLabelValues("metrics-test-flaky")), 0)
	assert.InDelta(t, 1.0,
		testutil.ToFloat64(outcomesTotal.WithLabelValues("metrics-test-flaky", "success")), 0)
}

func TestMetricsObserver_FailureOutcome(t *testing.T) {
	t.Parallel()

	obs := NewMetricsObserver("metrics-test-fatal")

	err := attempt.Do(func() error {
		return errUnstable
	}, attempt.WithObserver(obs))
	require.Error(t, err)

	assert.InDelta(t, 1.0,
		testutil.ToFloat64(outcomesTotal.WithLabelValues("metrics-test-fatal", "failure")), 0)
	assert.InDelta(t, 0.0,
		testutil.ToFloat64(retriesTotal.WithLabelValues("metrics-test-fatal")), 0)
}

func TestTraceObserver_AnnotatesSpan(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	ctx, span := provider.Tracer("test").Start(t.Context(), "delete-store")

	calls := 0
	err := attempt.Do(func() error {
		calls++
		if calls < 2 {
			return errUnstable
		}

		return nil
	},
		attempt.WithDelays(0),
		attempt.WithPredicate(attempt.Always),
		attempt.WithObserver(NewTraceObserver(ctx)),
		attempt.WithLogger(slogt.New(t)),
	)
	require.NoError(t, err)

	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	events := spans[0].Events()
	require.Len(t, events, 1)
	assert.Equal(t, "retry", events[0].Name)
}

func TestTraceObserver_RecordsFinalFailure(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	ctx, span := provider.Tracer("test").Start(t.Context(), "delete-store")

	err := attempt.Do(func() error {
		return errUnstable
	}, attempt.WithObserver(NewTraceObserver(ctx)))
	require.Error(t, err)

	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	// The failure shows up as a recorded exception event on the span.
	events := spans[0].Events()
	require.Len(t, events, 1)
	assert.Equal(t, "exception", events[0].Name)
}

func TestTraceObserver_NoSpanIsNoop(t *testing.T) {
	t.Parallel()

	obs := NewTraceObserver(t.Context())

	// Must not panic without a recording span.
	obs.ObserveRetry(errUnstable, time.Second, 1)
	obs.ObserveOutcome(nil, 1)
}
