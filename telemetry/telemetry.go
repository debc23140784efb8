// Package telemetry provides ready-made instrumentation hooks for retry
// schedulers: Prometheus counters keyed by operation name, and OpenTelemetry
// span annotations for retries happening inside a traced request.
//
// Both types implement attempt.Observer and are registered per scheduler:
//
//	err := attempt.Do(op,
//	    attempt.WithPredicate(attempt.Always),
//	    attempt.WithObserver(telemetry.NewMetricsObserver("delete-store")),
//	    attempt.WithObserver(telemetry.NewTraceObserver(ctx)),
//	)
package telemetry

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	// retriesTotal counts suppressed failures, i.e. rounds that were retried.
	retriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "attempt_retries_total",
		Help: "The total number of retried attempt rounds",
	}, []string{"operation"})

	// outcomesTotal counts finished retry sequences by result.
	outcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "attempt_outcomes_total",
		Help: "The total number of finished attempt sequences",
	}, []string{"operation", "result"})

	// backoffSeconds measures the waits incurred between rounds.
	backoffSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{ //nolint:gochecknoglobals
		Name: "attempt_backoff_seconds",
		Help: "The time spent waiting between attempt rounds",
		Buckets: []float64{
			0.01, // 10ms
			0.1,  // 100ms
			1,    // 1s
			4,    // 4s
			16,   // 16s
			64,   // 64s
			300,  // 5m
		},
	}, []string{"operation"})
)

// MetricsObserver reports retry activity to Prometheus, labeled with a
// caller-chosen operation name.
type MetricsObserver struct {
	operation string
}

// NewMetricsObserver creates a MetricsObserver for the named operation.
func NewMetricsObserver(operation string) *MetricsObserver {
	return &MetricsObserver{operation: operation}
}

// ObserveRetry counts the retried round and the wait it incurs.
func (m *MetricsObserver) ObserveRetry(_ error, delay time.Duration, _ uint) {
	retriesTotal.WithLabelValues(m.operation).Inc()
	backoffSeconds.WithLabelValues(m.operation).Observe(delay.Seconds())
}

// ObserveOutcome counts the finished sequence under result="success" or
// result="failure".
func (m *MetricsObserver) ObserveOutcome(err error, _ uint) {
	result := "success"
	if err != nil {
		result = "failure"
	}

	outcomesTotal.WithLabelValues(m.operation, result).Inc()
}

// TraceObserver annotates the span found in a context with retry events and
// the final outcome. With no span in the context it is a no-op.
type TraceObserver struct {
	span trace.Span
}

// NewTraceObserver captures the current span from ctx.
func NewTraceObserver(ctx context.Context) *TraceObserver {
	return &TraceObserver{span: trace.SpanFromContext(ctx)}
}

// ObserveRetry adds a retry event to the span.
func (t *TraceObserver) ObserveRetry(err error, delay time.Duration, round uint) {
	t.span.AddEvent("retry", trace.WithAttributes(
		attribute.String("error", err.Error()),
		attribute.Float64("delay_seconds", delay.Seconds()),
		attribute.Int("round", int(round)), //nolint:gosec // round counts fit in int
	))
}

// ObserveOutcome records the final failure, if any, and the round count.
func (t *TraceObserver) ObserveOutcome(err error, rounds uint) {
	t.span.SetAttributes(attribute.Int("attempt.rounds", int(rounds))) //nolint:gosec // see above

	if err != nil {
		t.span.RecordError(err)
		t.span.SetStatus(codes.Error, "attempts exhausted")
	}
}
