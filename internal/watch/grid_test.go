package watch

import "sync"

// fakeGrid is an in-memory Grid for watcher tests.
type fakeGrid struct {
	mu    sync.Mutex
	lines []string
}

func newFakeGrid(lines ...string) *fakeGrid {
	return &fakeGrid{lines: lines}
}

func (g *fakeGrid) Rows() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.lines)
}

func (g *fakeGrid) Line(row int) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if row < 0 || row >= len(g.lines) {
		return ""
	}
	return g.lines[row]
}

func (g *fakeGrid) set(lines ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lines = lines
}

// setRow replaces one row's text.
func (g *fakeGrid) setRow(row int, text string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lines[row] = text
}
