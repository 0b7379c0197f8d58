// Package term provides read-only access to a terminal character grid and a
// row-diff scanner used by the watchers. The grid itself is owned by the
// hosting terminal (or tmux); this package only reads rendered row text.
package term

import "regexp"

// Grid is a rectangular array of text rows exposed by a terminal emulator.
// Rows are indexed top to bottom, 0-based. Exactly one writer (the terminal
// owner) mutates the underlying content; any number of readers may call
// Rows and Line concurrently.
//
// A detached or momentarily unavailable grid reports Rows() == 0; readers
// treat that as "skip this tick", never as an error.
type Grid interface {
	// Rows returns the current number of rows, or 0 when the grid is
	// unavailable.
	Rows() int

	// Line returns the rendered, printable text of one row. Out-of-range
	// rows return "". Row text is not guaranteed stable across two calls;
	// callers must read each row exactly once per scan.
	Line(row int) string
}

// ansiPattern matches CSI sequences (ESC [ ... letter), OSC sequences
// (ESC ] ... BEL) and lone two-byte escapes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[a-zA-Z]|\x1b\][^\x07]*\x07|\x1b[@-Z\\-_]`)

// StripAnsi removes ANSI/VT escape sequences from text.
func StripAnsi(text string) string {
	return ansiPattern.ReplaceAllString(text, "")
}
