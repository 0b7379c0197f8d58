package term

import (
	"strings"
	"sync"
	"time"

	spyerrors "github.com/spyglassdev/spyglass/internal/errors"
	"github.com/spyglassdev/spyglass/internal/tmux"
)

const (
	// defaultCaptureInterval is how often the visible pane is re-captured.
	defaultCaptureInterval = 100 * time.Millisecond

	// maxConsecutiveCaptureFailures is the threshold after which the grid
	// reports itself unavailable rather than serving a stale snapshot.
	maxConsecutiveCaptureFailures = 10
)

// RangeChangedFunc is notified after new output is rendered, with the
// inclusive row range that changed. It runs on the grid's capture goroutine.
type RangeChangedFunc func(startRow, endRow int)

// DetachedFunc is notified once when the grid gives up on its pane. The
// error wraps ErrGridDetached. It runs on the grid's capture goroutine.
type DetachedFunc func(err error)

// TmuxGrid exposes a tmux pane's visible content as a Grid. It polls
// `tmux capture-pane` on a background goroutine, holds the latest snapshot
// under a read lock, and fires a range-changed callback when rows differ
// from the previous capture.
//
// Rows returns 0 while the pane cannot be captured (session gone, tmux not
// running), which watchers treat as a skipped tick.
type TmuxGrid struct {
	target   string
	interval time.Duration

	mu       sync.RWMutex
	lines    []string
	detached bool

	scanner  *Scanner
	onChange RangeChangedFunc
	onDetach DetachedFunc

	// captureFn is swappable for tests; tmux.CapturePane in production.
	captureFn func(target string) (string, error)

	startOnce sync.Once
	stopOnce  sync.Once
	done      chan struct{}

	consecutiveFailures int
}

// NewTmuxGrid creates a grid backed by the given tmux target
// (session, session:window, or pane spec).
func NewTmuxGrid(target string) *TmuxGrid {
	return &TmuxGrid{
		target:    target,
		interval:  defaultCaptureInterval,
		scanner:   NewScanner(),
		captureFn: tmux.CapturePane,
		done:      make(chan struct{}),
	}
}

// SetCaptureInterval overrides the capture poll interval. Must be called
// before Start.
func (g *TmuxGrid) SetCaptureInterval(d time.Duration) {
	if d > 0 {
		g.interval = d
	}
}

// OnRangeChanged registers the change callback. Must be called before Start.
func (g *TmuxGrid) OnRangeChanged(fn RangeChangedFunc) {
	g.onChange = fn
}

// OnDetached registers the detach callback. Must be called before Start.
func (g *TmuxGrid) OnDetached(fn DetachedFunc) {
	g.onDetach = fn
}

// Rows implements Grid.
func (g *TmuxGrid) Rows() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.detached {
		return 0
	}
	return len(g.lines)
}

// Line implements Grid.
func (g *TmuxGrid) Line(row int) string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.detached || row < 0 || row >= len(g.lines) {
		return ""
	}
	return g.lines[row]
}

// Start begins the background capture loop. Safe to call more than once.
func (g *TmuxGrid) Start() {
	g.startOnce.Do(func() {
		go g.captureLoop()
	})
}

// Stop ends the capture loop and marks the grid detached. Idempotent and
// safe to call concurrently with an in-flight capture.
func (g *TmuxGrid) Stop() {
	g.stopOnce.Do(func() {
		close(g.done)
		g.mu.Lock()
		g.detached = true
		g.mu.Unlock()
	})
}

func (g *TmuxGrid) captureLoop() {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-g.done:
			return
		case <-ticker.C:
			g.capture()
		}
	}
}

func (g *TmuxGrid) capture() {
	out, err := g.captureFn(g.target)
	if err != nil {
		g.fail(err)
		return
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	g.mu.Lock()
	g.consecutiveFailures = 0
	g.detached = false
	g.lines = lines
	onChange := g.onChange
	g.mu.Unlock()

	// Diff against the previous snapshot on the capture goroutine; the
	// scanner is only ever touched here.
	changed := g.scanner.Scan(len(lines), func(row int) string { return lines[row] })
	if len(changed) == 0 || onChange == nil {
		return
	}

	select {
	case <-g.done:
		// Stopped while diffing; drop the notification.
	default:
		onChange(changed[0], changed[len(changed)-1])
	}
}

// fail records one capture failure. A non-retryable error (the pane is gone)
// detaches immediately; transient errors detach after the failure threshold.
// The detach callback fires once per detachment.
func (g *TmuxGrid) fail(err error) {
	fatal := !spyerrors.IsRetryable(err)

	g.mu.Lock()
	g.consecutiveFailures++
	detachedNow := false
	if !g.detached && (fatal || g.consecutiveFailures >= maxConsecutiveCaptureFailures) {
		g.detached = true
		detachedNow = true
	}
	onDetach := g.onDetach
	g.mu.Unlock()

	if !detachedNow || onDetach == nil {
		return
	}
	detachErr := err
	if !spyerrors.Is(err, spyerrors.ErrGridDetached) {
		detachErr = spyerrors.NewWatchError(g.target, spyerrors.ErrGridDetached)
	}
	select {
	case <-g.done:
	default:
		onDetach(detachErr)
	}
}
