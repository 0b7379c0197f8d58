// Package tui implements the live session monitor: a small bubbletea
// program showing the watcher-derived state of a terminal session (input
// wait, mode, model, prompt visibility) and a scrolling activity feed.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/spyglassdev/spyglass/internal/util"
	"github.com/spyglassdev/spyglass/internal/watch"
)

// maxFeedEvents bounds the retained activity feed.
const maxFeedEvents = 200

// Messages sent into the program by the watcher callbacks.
type (
	// WaitingMsg carries a new input-wait value.
	WaitingMsg bool
	// ModeMsg carries a new agent mode.
	ModeMsg watch.AgentMode
	// ModelMsg carries a new model name.
	ModelMsg string
	// PromptMsg carries a new prompt-visibility value.
	PromptMsg bool
	// ActivityMsg carries one detected activity event.
	ActivityMsg watch.Event
	// DetachedMsg signals the monitored session is gone.
	DetachedMsg struct{}
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	valueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	waitingStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	eventStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("248"))
	kindStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("111"))
	detachedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

// Model is the bubbletea model for the monitor view.
type Model struct {
	target string

	waiting       bool
	mode          watch.AgentMode
	model         string
	promptVisible bool
	detached      bool

	events []watch.Event

	width  int
	height int
}

// NewModel creates the monitor model for the given session target.
func NewModel(target string) Model {
	return Model{target: target}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case WaitingMsg:
		m.waiting = bool(msg)

	case ModeMsg:
		m.mode = watch.AgentMode(msg)

	case ModelMsg:
		m.model = string(msg)

	case PromptMsg:
		m.promptVisible = bool(msg)

	case ActivityMsg:
		m.events = append(m.events, watch.Event(msg))
		if len(m.events) > maxFeedEvents {
			m.events = m.events[len(m.events)-maxFeedEvents:]
		}

	case DetachedMsg:
		m.detached = true
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("spyglass monitor"))
	b.WriteString(labelStyle.Render("  watching "))
	b.WriteString(valueStyle.Render(m.target))
	b.WriteString("\n\n")

	if m.detached {
		b.WriteString(detachedStyle.Render("session detached"))
		b.WriteString("\n\n")
	}

	b.WriteString(m.statusLine())
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("activity"))
	b.WriteString("\n")
	for _, ev := range m.visibleEvents() {
		line := fmt.Sprintf("%s %s %s",
			eventStyle.Render(ev.Time.Format("15:04:05")),
			kindStyle.Render(fmt.Sprintf("%-12s", ev.Kind.String())),
			eventStyle.Render(ev.Text))
		if m.width > 0 {
			line = util.TruncateANSI(line, m.width)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(labelStyle.Render("q to quit"))
	return b.String()
}

func (m Model) statusLine() string {
	var parts []string

	if m.waiting {
		parts = append(parts, waitingStyle.Render("⏸ waiting for input"))
	} else {
		parts = append(parts, okStyle.Render("● running"))
	}

	if m.mode != watch.ModeUnknown {
		parts = append(parts, labelStyle.Render("mode ")+valueStyle.Render(m.mode.String()))
	}
	if m.model != "" {
		parts = append(parts, labelStyle.Render("model ")+valueStyle.Render(m.model))
	}
	if m.promptVisible {
		parts = append(parts, labelStyle.Render("prompt ")+okStyle.Render("visible"))
	}

	return strings.Join(parts, labelStyle.Render("  │  "))
}

// visibleEvents returns the tail of the feed that fits the viewport.
func (m Model) visibleEvents() []watch.Event {
	visible := len(m.events)
	if m.height > 0 {
		// Header, status and footer chrome take 8 rows.
		limit := m.height - 8
		if limit < 1 {
			limit = 1
		}
		if visible > limit {
			visible = limit
		}
	}
	return m.events[len(m.events)-visible:]
}
