package term

import "sort"

// Scanner tracks per-row "last seen" text and reports which rows changed
// between calls. It exists so watchers can amortize their work to the number
// of changed rows instead of re-reading the whole grid every tick.
//
// The cache is explicitly invalidated: rows beyond the current row count are
// pruned on every scan, which handles shrinking viewports. Scanner is not
// safe for concurrent use; each watcher owns its own.
type Scanner struct {
	previous map[int]string
}

// NewScanner creates a Scanner with an empty cache. The first Scan reports
// every row as changed.
func NewScanner() *Scanner {
	return &Scanner{previous: make(map[int]string)}
}

// Scan reads every row once via lineAt, returns the sorted indexes of rows
// whose text differs from the previous call, and updates the cache.
func (s *Scanner) Scan(rows int, lineAt func(row int) string) []int {
	var changed []int

	for row := 0; row < rows; row++ {
		text := lineAt(row)
		if prev, seen := s.previous[row]; !seen || prev != text {
			changed = append(changed, row)
			s.previous[row] = text
		}
	}

	// Prune cache entries for rows that no longer exist.
	for row := range s.previous {
		if row >= rows {
			delete(s.previous, row)
		}
	}

	sort.Ints(changed)
	return changed
}

// ScanGrid is Scan against a Grid. An unavailable grid (zero rows) clears
// nothing and reports no changes.
func (s *Scanner) ScanGrid(g Grid) []int {
	rows := g.Rows()
	if rows == 0 {
		return nil
	}
	return s.Scan(rows, g.Line)
}

// Cached returns the text recorded for a row by the last Scan. It lets a
// caller act on a changed row without re-reading the live grid, which could
// return different text than the scan observed.
func (s *Scanner) Cached(row int) string {
	return s.previous[row]
}

// Reset discards the cache so the next Scan reports all rows as changed.
func (s *Scanner) Reset() {
	s.previous = make(map[int]string)
}
