package watch

import (
	"strings"
	"sync"
	"time"

	"github.com/spyglassdev/spyglass/internal/logging"
	"github.com/spyglassdev/spyglass/internal/term"
)

const (
	// promptVisWindow is how many bottom rows are scanned for the input
	// prompt marker.
	promptVisWindow = 10

	// DefaultPollInterval is the poll period shared by the fixed-period
	// watchers.
	DefaultPollInterval = 500 * time.Millisecond
)

// IsPromptVisibleLine reports whether a rendered line is the agent's input
// prompt: exactly ">" or "> " followed by typed text.
func IsPromptVisibleLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == ">" || strings.HasPrefix(trimmed, "> ")
}

// PromptVisibilityWatcher polls the bottom of the grid on a fixed period
// and reports, edge-triggered, whether the input prompt is visible.
type PromptVisibilityWatcher struct {
	grid     term.Grid
	onChange func(visible bool)
	interval time.Duration
	logger   *logging.Logger

	notify notifier

	mu      sync.Mutex
	visible bool

	startOnce sync.Once
	stopOnce  sync.Once
	done      chan struct{}
}

// NewPromptVisibilityWatcher creates a watcher over the given grid.
func NewPromptVisibilityWatcher(grid term.Grid, onChange func(visible bool)) *PromptVisibilityWatcher {
	return &PromptVisibilityWatcher{
		grid:     grid,
		onChange: onChange,
		interval: DefaultPollInterval,
		logger:   logging.NopLogger(),
		done:     make(chan struct{}),
	}
}

// SetInterval overrides the poll period. Must be called before Start.
func (w *PromptVisibilityWatcher) SetInterval(d time.Duration) {
	if d > 0 {
		w.interval = d
	}
}

// SetLogger sets the logger used for transition debug logs.
func (w *PromptVisibilityWatcher) SetLogger(logger *logging.Logger) {
	if logger != nil {
		w.logger = logger.WithWatcher("prompt_visibility")
	}
}

// Visible returns the most recently derived value.
func (w *PromptVisibilityWatcher) Visible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visible
}

// Start launches the poll loop. Safe to call more than once.
func (w *PromptVisibilityWatcher) Start() {
	w.startOnce.Do(func() {
		go w.loop()
	})
}

// Stop halts polling. Idempotent; no notification is delivered after Stop
// returns.
func (w *PromptVisibilityWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
	})
	w.notify.stop()
}

func (w *PromptVisibilityWatcher) loop() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			w.tick()
		}
	}
}

// tick is one poll: scan the bottom window and deliver on edge.
func (w *PromptVisibilityWatcher) tick() {
	gen, ok := w.notify.generation()
	if !ok {
		return
	}

	rows := w.grid.Rows()
	if rows == 0 {
		return
	}

	windowStart := rows - promptVisWindow
	if windowStart < 0 {
		windowStart = 0
	}

	visible := false
	for row := windowStart; row < rows; row++ {
		if IsPromptVisibleLine(w.grid.Line(row)) {
			visible = true
			break
		}
	}

	w.mu.Lock()
	if visible == w.visible {
		w.mu.Unlock()
		return
	}
	w.visible = visible
	w.mu.Unlock()

	w.logger.Debug("prompt visibility changed", "visible", visible)
	w.notify.deliver(gen, func() {
		if w.onChange != nil {
			w.onChange(visible)
		}
	})
}
