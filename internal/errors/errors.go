// Package errors provides centralized error definitions for spyglass.
// It defines domain-specific error types, sentinel errors, and re-exports
// the standard library helpers so callers import one package.
//
// Note that "no diagnostics found" and "no test results recognized" are NOT
// errors anywhere in this codebase: absence of a recognizable format is the
// normal outcome of parsing arbitrary tool output, and it degrades to empty
// results. The types here cover the cases that genuinely are failures:
// launching processes, attaching to terminals, reading watched files.
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Sentinel errors.
var (
	// ErrGridDetached means the terminal grid is gone for good (session
	// closed), as opposed to a transiently empty capture.
	ErrGridDetached = errors.New("terminal grid detached")

	// ErrWatcherStopped means an operation was attempted on a watcher
	// after Stop.
	ErrWatcherStopped = errors.New("watcher stopped")

	// ErrNoSuchRun means the requested run ID is unknown.
	ErrNoSuchRun = errors.New("no such run")
)

// RunnerError wraps a failure to launch or supervise a tool process.
// A non-zero exit of a successfully launched process is not a RunnerError;
// that outcome is carried in the run result itself.
type RunnerError struct {
	Command string
	Err     error
}

func (e *RunnerError) Error() string {
	return fmt.Sprintf("runner: %s: %v", e.Command, e.Err)
}

func (e *RunnerError) Unwrap() error { return e.Err }

// NewRunnerError wraps err with the command that failed.
func NewRunnerError(command string, err error) *RunnerError {
	return &RunnerError{Command: command, Err: err}
}

// WatchError wraps a failure in a file or terminal watcher.
type WatchError struct {
	Target string
	Err    error
}

func (e *WatchError) Error() string {
	return fmt.Sprintf("watch %s: %v", e.Target, e.Err)
}

func (e *WatchError) Unwrap() error { return e.Err }

// NewWatchError wraps err with the watched target.
func NewWatchError(target string, err error) *WatchError {
	return &WatchError{Target: target, Err: err}
}

// ValidationError reports invalid input or configuration.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError creates a ValidationError.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsRetryable reports whether the error represents a transient condition
// worth retrying, such as a terminal capture that failed this tick.
func IsRetryable(err error) bool {
	var we *WatchError
	if As(err, &we) {
		return !Is(err, ErrGridDetached)
	}
	return false
}
