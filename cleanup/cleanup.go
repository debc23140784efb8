// Package cleanup provides the reporting conventions for best-effort,
// multi-component deletions: each component failure is logged and converted
// into a keep-trying-or-give-up decision, and the overall deletion ends with
// exactly one outcome message for the resource as a whole.
package cleanup

import (
	"log/slog"

	"github.com/amp-labs/amp-attempt/errors"
)

// DefaultMaxAttempts is the per-component deletion attempt cap used by
// Outcome.Failed.
const DefaultMaxAttempts = 5

// ReportComponentFailure logs a failure encountered while deleting one
// component of a resource and decides whether to give up on it. Past the
// attempt cap it logs at error level and returns true (give up); otherwise
// it logs the upcoming retry at debug level and returns false.
func ReportComponentFailure(log *slog.Logger, err error, name string, attemptNum, maxAttempts int) bool {
	log.Error("failure during deletion",
		slog.String("component", name),
		slog.Any("error", err),
	)

	if attemptNum >= maxAttempts {
		log.Error("too many deletion attempts, giving up",
			slog.String("component", name),
			slog.Int("attempts", attemptNum),
		)

		return true
	}

	log.Debug("retrying deletion", slog.String("component", name))

	return false
}

// ReportOutcome emits exactly one of three mutually exclusive messages for a
// finished deletion: nothing found at the locator, clean success, or
// completed with errors.
func ReportOutcome(log *slog.Logger, locator string, existed bool, failure error) {
	switch {
	case !existed:
		log.Info("nothing to delete at location", slog.String("locator", locator))
	case failure == nil:
		log.Info("successfully deleted resource at location", slog.String("locator", locator))
	default:
		log.Error("deletion at location completed with errors",
			slog.String("locator", locator),
			slog.Any("error", failure),
		)
	}
}

// Outcome tracks one resource deletion end to end: whether the resource was
// found at all, and every component failure along the way. Report it once
// when the deletion finishes.
type Outcome struct {
	locator  string
	existed  bool
	failures errors.Collection
}

// NewOutcome starts tracking a deletion at the given locator.
func NewOutcome(locator string) *Outcome {
	return &Outcome{locator: locator}
}

// Found records that the resource existed. An outcome that was never Found
// reports as not-found.
func (o *Outcome) Found() {
	o.existed = true
}

// Failed records a component failure and returns the give-up decision from
// ReportComponentFailure, with attempt counting against DefaultMaxAttempts.
func (o *Outcome) Failed(log *slog.Logger, err error, component string, attemptNum int) bool {
	o.failures.Add(err)

	return ReportComponentFailure(log, err, component, attemptNum, DefaultMaxAttempts)
}

// Err returns the accumulated component failures as one error, or nil.
func (o *Outcome) Err() error {
	return o.failures.Err()
}

// Report emits the final outcome message for this deletion.
func (o *Outcome) Report(log *slog.Logger) {
	ReportOutcome(log, o.locator, o.existed, o.failures.Err())
}
