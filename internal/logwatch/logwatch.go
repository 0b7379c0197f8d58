// Package logwatch follows a build-log file on disk and re-runs the format
// detectors whenever the file grows. It exists for tools that write their
// output to a log file instead of (or in addition to) a terminal.
package logwatch

import (
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"

	spyerrors "github.com/spyglassdev/spyglass/internal/errors"
	"github.com/spyglassdev/spyglass/internal/logging"
	"github.com/spyglassdev/spyglass/internal/parse/diag"
	"github.com/spyglassdev/spyglass/internal/parse/testresult"
)

// ResultFunc receives fresh parse results after the watched file changed.
// It runs on the watcher's goroutine.
type ResultFunc func(diags []diag.Diagnostic, tests testresult.RunResult)

// Watcher follows one log file. Start/Stop are idempotent.
type Watcher struct {
	path     string
	onResult ResultFunc
	logger   *logging.Logger

	fsw *fsnotify.Watcher

	// mu guards the reparse baseline and the stop state, and is held across
	// result delivery so Stop blocks until an in-flight delivery completes.
	mu       sync.Mutex
	lastSize int64
	gen      uint64
	stopped  bool

	startOnce sync.Once
	stopOnce  sync.Once
	done      chan struct{}
}

// New creates a watcher for the given file path.
func New(path string, onResult ResultFunc) *Watcher {
	return &Watcher{
		path:     path,
		onResult: onResult,
		logger:   logging.NopLogger(),
		done:     make(chan struct{}),
	}
}

// SetLogger sets the logger for watch lifecycle logs.
func (w *Watcher) SetLogger(logger *logging.Logger) {
	if logger != nil {
		w.logger = logger.WithWatcher("logwatch")
	}
}

// Start begins following the file. The file must exist. An initial parse of
// the current contents is delivered before any change events. Starting a
// stopped watcher returns ErrWatcherStopped.
func (w *Watcher) Start() error {
	w.mu.Lock()
	stopped := w.stopped
	w.mu.Unlock()
	if stopped {
		return spyerrors.NewWatchError(w.path, spyerrors.ErrWatcherStopped)
	}

	var startErr error
	w.startOnce.Do(func() {
		fsw, err := fsnotify.NewWatcher()
		if err != nil {
			startErr = spyerrors.NewWatchError(w.path, err)
			return
		}
		if err := fsw.Add(w.path); err != nil {
			fsw.Close()
			startErr = spyerrors.NewWatchError(w.path, err)
			return
		}
		w.fsw = fsw

		// Baseline parse so consumers see the current state immediately.
		w.reload()

		go w.loop()
	})
	return startErr
}

// Stop ends the watch. Idempotent; no result is delivered after Stop returns.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		if w.fsw != nil {
			w.fsw.Close()
		}
	})
	// Taking the lock waits out any in-flight delivery; bumping the
	// generation invalidates reloads that already passed the entry check.
	w.mu.Lock()
	w.stopped = true
	w.gen++
	w.mu.Unlock()
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.reload()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "path", w.path, "error", err.Error())
		}
	}
}

// reload re-reads and re-parses the file when its content grew. Truncation
// resets the baseline so the next growth re-parses from scratch. A transient
// read failure is a skipped tick, not an error. The result is delivered
// under the watcher lock against a generation token captured at entry, so a
// Stop racing a reload either waits for the delivery or suppresses it.
func (w *Watcher) reload() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	gen := w.gen
	w.mu.Unlock()

	data, err := os.ReadFile(w.path)
	if err != nil {
		w.logger.Debug("read skipped", "path", w.path, "error", err.Error())
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped || gen != w.gen {
		return
	}

	size := int64(len(data))
	grew := size > w.lastSize
	truncated := size < w.lastSize
	w.lastSize = size

	if truncated {
		w.logger.Debug("file truncated", "path", w.path)
		return
	}
	if !grew {
		return
	}

	text := string(data)
	diags := diag.Parse(text)
	tests := testresult.Parse(text)

	w.logger.Debug("reparsed",
		"path", w.path,
		"bytes", size,
		"diagnostics", len(diags),
		"cases", len(tests.Cases))

	if w.onResult != nil {
		w.onResult(diags, tests)
	}
}
