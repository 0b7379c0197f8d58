package watch

import (
	"regexp"
	"strings"
)

// AgentMode is the operating mode an interactive agent reports in its
// status line.
type AgentMode int

const (
	// ModeUnknown means no mode has been detected yet.
	ModeUnknown AgentMode = iota
	ModeInteractive
	ModePlan
	ModeAutopilot
)

// String returns a human-readable string for the mode.
func (m AgentMode) String() string {
	switch m {
	case ModeInteractive:
		return "interactive"
	case ModePlan:
		return "plan"
	case ModeAutopilot:
		return "autopilot"
	default:
		return "unknown"
	}
}

// Next returns the successor in the cycling order
// interactive -> plan -> autopilot -> interactive.
func (m AgentMode) Next() AgentMode {
	switch m {
	case ModeInteractive:
		return ModePlan
	case ModePlan:
		return ModeAutopilot
	case ModeAutopilot:
		return ModeInteractive
	default:
		return ModeInteractive
	}
}

// Mode detection patterns, tried in order against a single line. Each
// yields a mode word that modeFromWord maps onto the enum.
var modePatterns = []*regexp.Regexp{
	// Parenthesized or bracketed tags: "(plan)", "[autopilot]"
	regexp.MustCompile(`(?i)[(\[](interactive|plan|autopilot|ask|agent)[)\]]`),
	// Status lines: "mode: plan", "mode:plan"
	regexp.MustCompile(`(?i)\bmode:\s*([A-Za-z]+)`),
	// Transition lines: "switched to autopilot"
	regexp.MustCompile(`(?i)\bswitched to ([A-Za-z]+)`),
}

// DetectMode scans one line for a mode indicator. The second return value
// is false when the line carries no recognizable mode, in which case the
// caller's stored mode must be left unchanged.
func DetectMode(line string) (AgentMode, bool) {
	for _, re := range modePatterns {
		m := re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if mode, ok := modeFromWord(m[1]); ok {
			return mode, true
		}
	}
	return ModeUnknown, false
}

// modeFromWord maps a matched mode word onto the enum. "ask" and "agent"
// are aliases used by some agent CLIs for interactive and autopilot.
func modeFromWord(word string) (AgentMode, bool) {
	switch strings.ToLower(word) {
	case "interactive", "ask":
		return ModeInteractive, true
	case "plan":
		return ModePlan, true
	case "autopilot", "agent":
		return ModeAutopilot, true
	default:
		return ModeUnknown, false
	}
}

// modelPatterns are tried in order so that "using model:" wins over the bare
// "model:" it contains. Matching stays inside one string; no index math
// across case-folded copies, which would break on runes whose lowercase form
// has a different byte length.
var modelPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\busing model:\s*(\S+)`),
	regexp.MustCompile(`(?i)\bmodel:\s*(\S+)`),
}

// modelTrailingPunct is trimmed from the end of a detected model token.
const modelTrailingPunct = ".,;)>"

// DetectModel scans one line for a model declaration and returns the
// whitespace-delimited token following the first matching prefix, with
// trailing punctuation trimmed. Returns false when no prefix matches or the
// token is empty.
func DetectModel(line string) (string, bool) {
	for _, re := range modelPatterns {
		m := re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		token := strings.TrimRight(m[1], modelTrailingPunct)
		if token == "" {
			continue
		}
		return token, true
	}
	return "", false
}
