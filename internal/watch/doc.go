// Package watch contains the stateful terminal watchers. Each watcher owns
// one slice of derived session state (input-wait, mode/model, prompt
// visibility, activity events), recomputes it on its own schedule (a
// fixed-period poll or an externally delivered row-range change), and
// notifies its consumer only when the derived value actually changes.
//
// Watchers read the terminal grid as shared read-only state and never block
// the grid owner. Stop is idempotent, safe to call concurrently with an
// in-flight scan, and guarantees no delivery after it returns: deliveries
// carry a generation token that is re-checked, under the notify lock, at the
// moment the callback would fire.
package watch
