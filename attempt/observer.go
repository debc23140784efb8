package attempt

import "time"

// Observer receives scheduler lifecycle events for instrumentation. Observers
// are strictly a side channel: they cannot influence retry decisions, and the
// scheduler behaves identically with none registered.
//
// Rounds are numbered from 1.
type Observer interface {
	// ObserveRetry fires after round's failure has been approved for retry,
	// before the inter-round wait.
	ObserveRetry(err error, delay time.Duration, round uint)

	// ObserveOutcome fires exactly once, when the sequence ends. err is nil
	// on success and the verbatim final failure otherwise; rounds is the
	// total number of guards produced.
	ObserveOutcome(err error, rounds uint)
}
