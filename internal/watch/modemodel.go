package watch

import (
	"sync"

	"github.com/spyglassdev/spyglass/internal/logging"
	"github.com/spyglassdev/spyglass/internal/term"
)

// modeModelWindow is how many bottom rows are scanned for mode and model
// status lines.
const modeModelWindow = 8

// ModeModelWatcher tracks two independent signals from the agent's status
// area: its operating mode and the model it reports using. Each signal is
// delivered on its own callback, only when its value changes.
type ModeModelWatcher struct {
	grid    term.Grid
	onMode  func(mode AgentMode)
	onModel func(model string)
	logger  *logging.Logger

	notify notifier

	mu    sync.Mutex
	mode  AgentMode
	model string
}

// NewModeModelWatcher creates a watcher over the given grid. Either
// callback may be nil when the caller only cares about one signal.
func NewModeModelWatcher(grid term.Grid, onMode func(AgentMode), onModel func(string)) *ModeModelWatcher {
	return &ModeModelWatcher{
		grid:    grid,
		onMode:  onMode,
		onModel: onModel,
		logger:  logging.NopLogger(),
	}
}

// SetLogger sets the logger used for transition debug logs.
func (w *ModeModelWatcher) SetLogger(logger *logging.Logger) {
	if logger != nil {
		w.logger = logger.WithWatcher("mode_model")
	}
}

// Mode returns the most recently detected mode (ModeUnknown before any
// detection).
func (w *ModeModelWatcher) Mode() AgentMode {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.mode
}

// Model returns the most recently detected model name, or "".
func (w *ModeModelWatcher) Model() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.model
}

// RangeChanged rescans the bottom window when the changed range touches it.
// Lines that carry no recognizable mode or model leave the stored values
// unchanged.
func (w *ModeModelWatcher) RangeChanged(startRow, endRow int) {
	gen, ok := w.notify.generation()
	if !ok {
		return
	}

	rows := w.grid.Rows()
	if rows == 0 {
		return
	}

	windowStart := rows - modeModelWindow
	if windowStart < 0 {
		windowStart = 0
	}
	if endRow < windowStart || startRow >= rows {
		return
	}

	newMode := ModeUnknown
	modeSeen := false
	newModel := ""
	modelSeen := false
	for row := windowStart; row < rows; row++ {
		line := w.grid.Line(row)
		if !modeSeen {
			if mode, ok := DetectMode(line); ok {
				newMode, modeSeen = mode, true
			}
		}
		if !modelSeen {
			if model, ok := DetectModel(line); ok {
				newModel, modelSeen = model, true
			}
		}
	}

	var modeChanged, modelChanged bool
	w.mu.Lock()
	if modeSeen && newMode != w.mode {
		w.mode = newMode
		modeChanged = true
	}
	if modelSeen && newModel != w.model {
		w.model = newModel
		modelChanged = true
	}
	w.mu.Unlock()

	if modeChanged {
		w.logger.Debug("mode changed", "mode", newMode.String())
		w.notify.deliver(gen, func() {
			if w.onMode != nil {
				w.onMode(newMode)
			}
		})
	}
	if modelChanged {
		w.logger.Debug("model changed", "model", newModel)
		w.notify.deliver(gen, func() {
			if w.onModel != nil {
				w.onModel(newModel)
			}
		})
	}
}

// Stop detaches the watcher. Idempotent; no notification is delivered after
// Stop returns.
func (w *ModeModelWatcher) Stop() {
	w.notify.stop()
}
