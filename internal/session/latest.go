// Package session retains structured run outcomes. The parsers and watchers
// themselves never persist anything; this package holds the in-memory
// "latest run" slot, overwritten wholesale on each run, and an on-disk JSON
// store for run history.
package session

import (
	"sync"
	"time"

	"github.com/spyglassdev/spyglass/internal/parse/diag"
	"github.com/spyglassdev/spyglass/internal/parse/testresult"
)

// Snapshot is the structured outcome of the most recent run.
type Snapshot struct {
	RunID       string
	FinishedAt  time.Time
	ExitCode    int
	Diagnostics []diag.Diagnostic
	Tests       testresult.RunResult
}

// Latest retains the most recent Snapshot. Safe for concurrent use; readers
// get a consistent copy, never a view into in-progress updates.
type Latest struct {
	mu   sync.RWMutex
	snap *Snapshot
}

// Set replaces the retained snapshot wholesale.
func (l *Latest) Set(snap Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.snap = &snap
}

// Get returns a copy of the retained snapshot. ok is false before any run
// has completed.
func (l *Latest) Get() (Snapshot, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.snap == nil {
		return Snapshot{}, false
	}
	out := *l.snap
	out.Diagnostics = append([]diag.Diagnostic(nil), l.snap.Diagnostics...)
	out.Tests.FailedNames = append([]string(nil), l.snap.Tests.FailedNames...)
	out.Tests.Cases = append([]testresult.TestCase(nil), l.snap.Tests.Cases...)
	return out, true
}

// Clear discards the retained snapshot.
func (l *Latest) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.snap = nil
}
