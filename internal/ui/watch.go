package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"tripwire/internal/debugger"
)

// DefaultHistory is the number of transitions kept on screen.
const DefaultHistory = 10

type watchModel struct {
	title    string
	events   <-chan debugger.Transition
	spinner  spinner.Model
	history  []debugger.Transition
	limit    int
	polls    uint64
	known    bool
	attached bool
	width    int
	done     bool
}

type transitionMsg debugger.Transition
type closedMsg struct{}

// NewWatchModel returns a Bubble Tea model that renders debugger attach
// transitions read from events. The program quits when events is closed or
// the user presses q.
func NewWatchModel(title string, events <-chan debugger.Transition) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	return &watchModel{
		title:   title,
		events:  events,
		spinner: sp,
		limit:   DefaultHistory,
		width:   80,
	}
}

func (m *watchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listen())
}

func (m *watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case transitionMsg:
		m.apply(debugger.Transition(msg))
		return m, m.listen()
	case closedMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.done = true
			return m, tea.Quit
		}
		return m, nil
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
		}
		return m, nil
	}
	return m, nil
}

func (m *watchModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	if m.done {
		header = fmt.Sprintf("stopped: %s", header)
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(truncate(header, m.width)))
	b.WriteString("\n\n")

	state := "unknown"
	if m.known {
		state = stateLabel(m.attached)
	}
	fmt.Fprintf(&b, "  debugger %s  (polls: %d)\n\n", styleState(state).Render(state), m.polls)

	for _, tr := range m.history {
		label := stateLabel(tr.Attached)
		line := fmt.Sprintf("  %s  %s", tr.At.Format(time.TimeOnly), styleState(label).Render(fmt.Sprintf("%-8s", label)))
		b.WriteString(line)
		b.WriteString("\n")
	}
	if !m.done {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Faint(true).Render("press q to quit"))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *watchModel) listen() tea.Cmd {
	return func() tea.Msg {
		tr, ok := <-m.events
		if !ok {
			return closedMsg{}
		}
		return transitionMsg(tr)
	}
}

func (m *watchModel) apply(tr debugger.Transition) {
	m.known = true
	m.attached = tr.Attached
	m.polls = tr.Polls
	m.history = append(m.history, tr)
	if len(m.history) > m.limit {
		m.history = m.history[len(m.history)-m.limit:]
	}
}

func stateLabel(attached bool) string {
	if attached {
		return "attached"
	}
	return "detached"
}

func styleState(state string) lipgloss.Style {
	switch state {
	case "attached":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	case "detached":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
