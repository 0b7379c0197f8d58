// Package diag extracts structured compiler diagnostics from raw build output.
// It recognizes the common "path:line:col: severity: message" family shared by
// clang, gcc, swiftc and friends, the TypeScript "path(line,col)" form, and
// rustc's two-line header/arrow form. Unrecognized lines are skipped; parsing
// never fails.
package diag

import (
	"regexp"
	"strconv"
	"strings"
)

// Severity classifies a diagnostic.
type Severity int

const (
	// SeverityError is the default for unrecognized severity tokens.
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

// String returns a human-readable string for the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityNote:
		return "note"
	default:
		return "error"
	}
}

// ParseSeverity maps a severity token to a Severity.
// Tokens outside the known set map to SeverityError.
func ParseSeverity(token string) Severity {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "warning":
		return SeverityWarning
	case "note", "info", "remark":
		return SeverityNote
	default:
		return SeverityError
	}
}

// Diagnostic is one structured error/warning/note with a resolved location.
type Diagnostic struct {
	// FilePath is the path exactly as the tool printed it.
	FilePath string

	// Line is the 1-based line number. Always >= 1.
	Line int

	// Column is the 1-based column number, or 0 when the format carries none.
	Column int

	Severity Severity

	Message string
}

// linePattern pairs a compiled regex with an extractor that builds a
// Diagnostic from its submatches. Patterns are tried in order per line;
// the first match wins. New tool formats are added here, not in Parse.
type linePattern struct {
	re      *regexp.Regexp
	extract func(m []string) (Diagnostic, bool)
}

var linePatterns = []linePattern{
	// clang/gcc/swiftc: path:line:col: severity: message
	{
		re: regexp.MustCompile(`^(.+?):(\d+):(\d+):\s*([A-Za-z]+):\s*(.+)$`),
		extract: func(m []string) (Diagnostic, bool) {
			line, col, ok := parseLineCol(m[2], m[3])
			if !ok {
				return Diagnostic{}, false
			}
			return Diagnostic{
				FilePath: m[1],
				Line:     line,
				Column:   col,
				Severity: ParseSeverity(m[4]),
				Message:  strings.TrimSpace(m[5]),
			}, true
		},
	},
	// Column-less variant: path:line: severity: message
	{
		re: regexp.MustCompile(`^(.+?):(\d+):\s*([A-Za-z]+):\s*(.+)$`),
		extract: func(m []string) (Diagnostic, bool) {
			line, ok := parsePositive(m[2])
			if !ok {
				return Diagnostic{}, false
			}
			return Diagnostic{
				FilePath: m[1],
				Line:     line,
				Severity: ParseSeverity(m[3]),
				Message:  strings.TrimSpace(m[4]),
			}, true
		},
	},
	// TypeScript: path(line,col): severity TS1234: message
	{
		re: regexp.MustCompile(`^(.+?)\((\d+),(\d+)\):\s*([A-Za-z]+)\s+TS\d+:\s*(.+)$`),
		extract: func(m []string) (Diagnostic, bool) {
			line, col, ok := parseLineCol(m[2], m[3])
			if !ok {
				return Diagnostic{}, false
			}
			return Diagnostic{
				FilePath: m[1],
				Line:     line,
				Column:   col,
				Severity: ParseSeverity(m[4]),
				Message:  strings.TrimSpace(m[5]),
			}, true
		},
	},
}

// rustHeaderPattern matches rustc's header line: "error[E0308]: message",
// "warning: message", etc. The location arrives on a following arrow line.
var rustHeaderPattern = regexp.MustCompile(`^(error|warning|note)(\[[A-Za-z0-9]+\])?:\s*(.+)$`)

// rustArrowPattern matches the location line: " --> src/main.rs:10:5"
var rustArrowPattern = regexp.MustCompile(`^\s*-->\s*(.+?):(\d+):(\d+)\s*$`)

// pendingHeader holds a rust header awaiting its arrow line.
type pendingHeader struct {
	severity Severity
	message  string
}

// Parse extracts all recognizable diagnostics from the captured output of a
// build tool. It is a pure single pass over lines: unmatched lines are
// skipped, malformed numbers invalidate only their own line, and an empty
// result is the normal outcome for output with no diagnostics.
func Parse(output string) []Diagnostic {
	var diags []Diagnostic
	var pending *pendingHeader

	for _, raw := range strings.Split(output, "\n") {
		line := strings.TrimRight(raw, "\r")

		if pending != nil {
			if m := rustArrowPattern.FindStringSubmatch(line); m != nil {
				if lineNo, col, ok := parseLineCol(m[2], m[3]); ok {
					diags = append(diags, Diagnostic{
						FilePath: m[1],
						Line:     lineNo,
						Column:   col,
						Severity: pending.severity,
						Message:  pending.message,
					})
				}
				pending = nil
				continue
			}
			// Blank lines and "= note:"-style continuations keep the header
			// alive; anything else discards it without emitting.
			trimmed := strings.TrimSpace(line)
			if trimmed != "" && !strings.HasPrefix(trimmed, "= ") {
				pending = nil
			}
		}

		matched := false
		for _, p := range linePatterns {
			m := p.re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			if d, ok := p.extract(m); ok {
				diags = append(diags, d)
			}
			matched = true
			break
		}
		if matched {
			continue
		}

		if m := rustHeaderPattern.FindStringSubmatch(line); m != nil {
			pending = &pendingHeader{
				severity: ParseSeverity(m[1]),
				message:  strings.TrimSpace(m[3]),
			}
		}
	}

	return diags
}

// parsePositive parses a 1-based line number. Zero or garbage rejects the line.
func parsePositive(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// parseLineCol parses a line/column pair. The line must be >= 1; a column
// that fails to parse degrades to 0 (absent) rather than rejecting the line.
func parseLineCol(lineStr, colStr string) (line, col int, ok bool) {
	line, ok = parsePositive(lineStr)
	if !ok {
		return 0, 0, false
	}
	if c, err := strconv.Atoi(colStr); err == nil && c >= 1 {
		col = c
	}
	return line, col, true
}
