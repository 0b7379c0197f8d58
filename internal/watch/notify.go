package watch

import "sync"

// notifier serializes change delivery for one watcher and enforces the
// stop contract. Every delivery captures the generation at scan time and
// re-checks it under the lock immediately before the callback runs; Stop
// bumps the generation under the same lock, so once Stop returns no further
// callback can fire and any in-flight delivery has completed.
type notifier struct {
	mu      sync.Mutex
	gen     uint64
	stopped bool
}

// generation returns the current generation token, or false when stopped.
func (n *notifier) generation() (uint64, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.stopped {
		return 0, false
	}
	return n.gen, true
}

// deliver runs fn if gen is still current. The lock is held across fn so
// that stop blocks until an in-flight delivery finishes.
func (n *notifier) deliver(gen uint64, fn func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.stopped || gen != n.gen {
		return
	}
	fn()
}

// stop invalidates all outstanding generations. Idempotent.
func (n *notifier) stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stopped = true
	n.gen++
}
