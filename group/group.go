// Package group runs a batch of named operations concurrently, each under
// its own retry scheduler, and aggregates whatever failures remain after
// retrying. Typical use is tearing down the components of a shared resource,
// where every component gets its own backoff loop but the caller wants a
// single combined verdict.
//
//	g := group.New(4, group.WithAttemptOptions(
//	    attempt.WithPredicate(attempt.Always),
//	    attempt.WithTimeout(time.Minute),
//	))
//	g.Go("blob-dir", deleteBlobDir)
//	g.Go("index-table", deleteIndexTable)
//	err := g.Wait()
package group

import (
	"fmt"
	"log/slog"

	"github.com/alitto/pond/v2"
	"github.com/google/uuid"

	"github.com/amp-labs/amp-attempt/attempt"
	"github.com/amp-labs/amp-attempt/errors"
)

// Group owns a worker pool of retried operations. Submit with Go, then call
// Wait exactly once; a Group is not reusable after Wait.
type Group struct {
	pool    pond.Pool
	logger  *slog.Logger
	retries []attempt.Option
	tasks   []pond.Task
}

// Option configures a Group.
type Option func(*Group)

// WithLogger sets the logger used for per-operation progress lines and,
// unless overridden by the attempt options, for retry notices. Defaults to
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(g *Group) {
		g.logger = l
	}
}

// WithAttemptOptions sets the scheduler options applied to every operation.
// Each operation still gets its own scheduler instance.
func WithAttemptOptions(opts ...attempt.Option) Option {
	return func(g *Group) {
		g.retries = opts
	}
}

// New creates a Group running at most maxConcurrent operations at a time.
// A maxConcurrent below 1 means no limit.
func New(maxConcurrent int, opts ...Option) *Group {
	if maxConcurrent < 1 {
		maxConcurrent = 0 // pond treats 0 as unbounded
	}

	g := &Group{
		pool:   pond.NewPool(maxConcurrent),
		logger: slog.Default(),
	}

	for _, option := range opts {
		option(g)
	}

	return g
}

// Go submits a named operation. The operation runs under its own scheduler;
// its log lines carry the operation name and a correlation id.
func (g *Group) Go(name string, run func() error) {
	id := uuid.NewString()
	logger := g.logger.With(
		slog.String("operation", name),
		slog.String("id", id),
	)

	// The contextual logger goes first so explicit attempt.WithLogger in the
	// group's options still wins.
	opts := append([]attempt.Option{attempt.WithLogger(logger)}, g.retries...)

	g.tasks = append(g.tasks, g.pool.SubmitErr(func() error {
		logger.Debug("starting operation")

		if err := attempt.Do(run, opts...); err != nil {
			logger.Debug("operation failed", slog.Any("error", err))

			return fmt.Errorf("%s: %w", name, err)
		}

		logger.Debug("operation succeeded")

		return nil
	}))
}

// Wait blocks until every submitted operation has finished and returns their
// failures as a single error (nil when all succeeded). It stops the pool.
func (g *Group) Wait() error {
	var failures errors.Collection

	for _, task := range g.tasks {
		failures.Add(task.Wait())
	}

	g.pool.StopAndWait()

	return failures.Err()
}
