package watch

import (
	"strings"
	"sync"

	"github.com/spyglassdev/spyglass/internal/logging"
	"github.com/spyglassdev/spyglass/internal/term"
)

// inputWaitWindow is how many bottom rows are scanned for prompt and
// spinner indicators.
const inputWaitWindow = 5

// SpinnerGlyphs are the braille spinner characters CLI progress indicators
// cycle through to signal "still working".
var SpinnerGlyphs = []rune{'⠋', '⠙', '⠹', '⠸', '⠼', '⠴', '⠦', '⠧', '⠇', '⠏'}

// promptSuffixes mark a line as a blocking prompt when the line ends with
// one, or contains one preceded by a space. Matched case-insensitively.
var promptSuffixes = []string{
	"[y/n]",
	"(y/n)",
	"[yes/no]",
	"(yes/no)",
	"press enter",
	"press any key",
}

// IsPromptLine reports whether a rendered line looks like a blocking input
// prompt: either a "? "-prefixed question or a line carrying one of the
// known confirm suffixes.
func IsPromptLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	if strings.HasPrefix(trimmed, "? ") {
		return true
	}
	lower := strings.ToLower(trimmed)
	for _, suffix := range promptSuffixes {
		if strings.HasSuffix(lower, suffix) || strings.Contains(lower, " "+suffix) {
			return true
		}
	}
	return false
}

// ContainsSpinner reports whether a line contains any spinner glyph.
func ContainsSpinner(line string) bool {
	return strings.ContainsAny(line, string(SpinnerGlyphs))
}

// InputWaitWatcher derives a single boolean: whether the agent in the
// terminal is blocked waiting for user input. It reacts to row-range change
// signals, rescans the bottom rows of the grid, and reports
// "prompt visible AND no spinner" edge-triggered.
type InputWaitWatcher struct {
	grid     term.Grid
	onChange func(waiting bool)
	logger   *logging.Logger

	notify notifier

	mu      sync.Mutex
	waiting bool
}

// NewInputWaitWatcher creates a watcher over the given grid. onChange is
// invoked once per value change, on the goroutine that delivered the
// range-changed signal.
func NewInputWaitWatcher(grid term.Grid, onChange func(waiting bool)) *InputWaitWatcher {
	return &InputWaitWatcher{
		grid:     grid,
		onChange: onChange,
		logger:   logging.NopLogger(),
	}
}

// SetLogger sets the logger used for state-transition debug logs.
func (w *InputWaitWatcher) SetLogger(logger *logging.Logger) {
	if logger != nil {
		w.logger = logger.WithWatcher("input_wait")
	}
}

// Waiting returns the most recently derived value.
func (w *InputWaitWatcher) Waiting() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.waiting
}

// RangeChanged is the terminal collaborator's notification that rows
// startRow..endRow were re-rendered. Changes that never touch the bottom
// window are ignored; otherwise exactly the bottom window rows are re-read.
func (w *InputWaitWatcher) RangeChanged(startRow, endRow int) {
	gen, ok := w.notify.generation()
	if !ok {
		return
	}

	rows := w.grid.Rows()
	if rows == 0 {
		return // grid detached; skip this tick
	}

	windowStart := rows - inputWaitWindow
	if windowStart < 0 {
		windowStart = 0
	}
	if endRow < windowStart || startRow >= rows {
		return
	}

	promptFound := false
	spinnerFound := false
	for row := windowStart; row < rows; row++ {
		line := w.grid.Line(row)
		if IsPromptLine(line) {
			promptFound = true
		}
		if ContainsSpinner(line) {
			spinnerFound = true
		}
	}
	waiting := promptFound && !spinnerFound

	w.mu.Lock()
	if waiting == w.waiting {
		w.mu.Unlock()
		return
	}
	w.waiting = waiting
	w.mu.Unlock()

	w.logger.Debug("input wait changed", "waiting", waiting)
	w.notify.deliver(gen, func() {
		if w.onChange != nil {
			w.onChange(waiting)
		}
	})
}

// Stop detaches the watcher. Idempotent; no notification is delivered after
// Stop returns.
func (w *InputWaitWatcher) Stop() {
	w.notify.stop()
}
