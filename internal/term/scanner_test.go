package term

import (
	"reflect"
	"testing"
)

func linesAt(lines []string) func(int) string {
	return func(row int) string {
		return lines[row]
	}
}

func TestScanner_FirstScanReportsAllRows(t *testing.T) {
	s := NewScanner()

	got := s.Scan(3, linesAt([]string{"a", "b", "c"}))

	if !reflect.DeepEqual(got, []int{0, 1, 2}) {
		t.Errorf("first scan = %v, want [0 1 2]", got)
	}
}

func TestScanner_ReportsOnlyChangedRows(t *testing.T) {
	s := NewScanner()
	s.Scan(3, linesAt([]string{"a", "b", "c"}))

	got := s.Scan(3, linesAt([]string{"a", "B", "c"}))

	if !reflect.DeepEqual(got, []int{1}) {
		t.Errorf("changed rows = %v, want [1]", got)
	}
}

func TestScanner_NoChangesReportsNothing(t *testing.T) {
	s := NewScanner()
	lines := []string{"a", "b"}
	s.Scan(2, linesAt(lines))

	if got := s.Scan(2, linesAt(lines)); len(got) != 0 {
		t.Errorf("unchanged scan = %v, want empty", got)
	}
}

func TestScanner_PrunesShrunkenViewport(t *testing.T) {
	s := NewScanner()
	s.Scan(4, linesAt([]string{"a", "b", "c", "d"}))

	// Shrink to 2 rows; rows 2 and 3 must be forgotten entirely so a
	// regrowth reports them as changed again.
	s.Scan(2, linesAt([]string{"a", "b"}))
	got := s.Scan(4, linesAt([]string{"a", "b", "c", "d"}))

	if !reflect.DeepEqual(got, []int{2, 3}) {
		t.Errorf("regrown rows = %v, want [2 3]", got)
	}
}

func TestScanner_CachedReturnsScannedText(t *testing.T) {
	s := NewScanner()
	s.Scan(2, linesAt([]string{"hello", "world"}))

	if got := s.Cached(1); got != "world" {
		t.Errorf("Cached(1) = %q, want %q", got, "world")
	}
}

func TestScanner_Reset(t *testing.T) {
	s := NewScanner()
	s.Scan(2, linesAt([]string{"a", "b"}))
	s.Reset()

	got := s.Scan(2, linesAt([]string{"a", "b"}))
	if !reflect.DeepEqual(got, []int{0, 1}) {
		t.Errorf("post-reset scan = %v, want [0 1]", got)
	}
}

func TestStripAnsi(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "hello", "hello"},
		{"color", "\x1b[31mred\x1b[0m", "red"},
		{"cursor", "\x1b[2Jcleared", "cleared"},
		{"osc title", "\x1b]0;title\x07text", "text"},
		{"mixed", "\x1b[1m\x1b[32m✓\x1b[0m done", "✓ done"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := StripAnsi(tc.input); got != tc.want {
				t.Errorf("StripAnsi(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
