package watch

import (
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/spyglassdev/spyglass/internal/logging"
	"github.com/spyglassdev/spyglass/internal/term"
)

// EventKind classifies a detected activity line.
type EventKind int

const (
	EventFileRead EventKind = iota
	EventCommandRun
	EventAgentStatus
)

// String returns a human-readable string for the event kind.
func (k EventKind) String() string {
	switch k {
	case EventFileRead:
		return "file_read"
	case EventCommandRun:
		return "command_run"
	case EventAgentStatus:
		return "agent_status"
	default:
		return "unknown"
	}
}

// Event is one discrete activity detected on a terminal line: a file read
// (Text holds the path), a shell command (Text holds the command), or a
// free-form agent status line. At most one event is produced per line.
type Event struct {
	Time time.Time
	Kind EventKind
	Text string
}

// maxStatusLineLen: longer changed lines are assumed to be content, not a
// one-line status indicator.
const maxStatusLineLen = 80

// statusKeywords flag a short line as an agent-status indicator.
var statusKeywords = []string{
	"thinking",
	"working",
	"planning",
	"analyzing",
	"searching",
	"generating",
	"processing",
}

var (
	fileReadPrefixRe = regexp.MustCompile(`(?i)(?:reading file|opening file):\s*(\S+)`)
	fileReadTailRe   = regexp.MustCompile(`(?i)read:\s+(\S+\.\w+)\s*$`)
	commandPrefixRe  = regexp.MustCompile(`(?i)(?:running|executing):\s*(.+)$`)
	statusMarkRe     = regexp.MustCompile(`^[✓✔✗✘×⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏]\s*`)
)

// ClassifyActivityLine matches one rendered (ANSI-stripped) line against the
// activity patterns, first hit wins: file reads, then command runs, then
// agent status. Returns false for lines that are no recognizable activity.
func ClassifyActivityLine(line string) (EventKind, string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return 0, "", false
	}

	if m := fileReadPrefixRe.FindStringSubmatch(trimmed); m != nil {
		return EventFileRead, m[1], true
	}
	if m := fileReadTailRe.FindStringSubmatch(trimmed); m != nil {
		return EventFileRead, m[1], true
	}

	if m := commandPrefixRe.FindStringSubmatch(trimmed); m != nil {
		return EventCommandRun, strings.TrimSpace(m[1]), true
	}
	if rest, ok := strings.CutPrefix(trimmed, "> "); ok {
		return EventCommandRun, strings.TrimSpace(rest), true
	}
	if rest, ok := strings.CutPrefix(trimmed, "$ "); ok {
		return EventCommandRun, strings.TrimSpace(rest), true
	}

	if statusMarkRe.MatchString(trimmed) {
		return EventAgentStatus, trimmed, true
	}
	if len(trimmed) < maxStatusLineLen {
		lower := strings.ToLower(trimmed)
		for _, kw := range statusKeywords {
			if strings.Contains(lower, kw) {
				return EventAgentStatus, trimmed, true
			}
		}
	}

	return 0, "", false
}

// ActivityEventWatcher polls the whole grid on a fixed period, diffs rows
// through its own Scanner, and emits one Event per changed row that matches
// an activity pattern. Events are timestamped at detection time and
// delivered in row order.
type ActivityEventWatcher struct {
	grid     term.Grid
	onEvent  func(Event)
	interval time.Duration
	logger   *logging.Logger

	notify  notifier
	scanner *term.Scanner

	startOnce sync.Once
	stopOnce  sync.Once
	done      chan struct{}
}

// NewActivityEventWatcher creates a watcher over the given grid.
func NewActivityEventWatcher(grid term.Grid, onEvent func(Event)) *ActivityEventWatcher {
	return &ActivityEventWatcher{
		grid:     grid,
		onEvent:  onEvent,
		interval: DefaultPollInterval,
		logger:   logging.NopLogger(),
		scanner:  term.NewScanner(),
		done:     make(chan struct{}),
	}
}

// SetInterval overrides the poll period. Must be called before Start.
func (w *ActivityEventWatcher) SetInterval(d time.Duration) {
	if d > 0 {
		w.interval = d
	}
}

// SetLogger sets the logger used for event debug logs.
func (w *ActivityEventWatcher) SetLogger(logger *logging.Logger) {
	if logger != nil {
		w.logger = logger.WithWatcher("activity")
	}
}

// Start launches the poll loop. Safe to call more than once.
func (w *ActivityEventWatcher) Start() {
	w.startOnce.Do(func() {
		go w.loop()
	})
}

// Stop halts polling. Idempotent; no event is delivered after Stop returns.
func (w *ActivityEventWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
	})
	w.notify.stop()
}

func (w *ActivityEventWatcher) loop() {
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

// tick is one poll: diff all rows, classify the changed ones, deliver.
func (w *ActivityEventWatcher) tick() {
	gen, ok := w.notify.generation()
	if !ok {
		return
	}

	rows := w.grid.Rows()
	if rows == 0 {
		return
	}

	// Read each row exactly once per poll; the grid may mutate between
	// reads, and re-reading a row could tear a glyph mid-update.
	changed := w.scanner.Scan(rows, w.grid.Line)

	for _, row := range changed {
		line := term.StripAnsi(w.scanner.Cached(row))
		kind, text, matched := ClassifyActivityLine(line)
		if !matched {
			continue
		}
		event := Event{Time: time.Now(), Kind: kind, Text: text}
		w.logger.Debug("activity detected", "kind", kind.String(), "text", text)
		w.notify.deliver(gen, func() {
			if w.onEvent != nil {
				w.onEvent(event)
			}
		})
	}
}
