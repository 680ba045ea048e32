// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-15

// Package tui renders live sweep progress in the terminal.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/similigh/triagebot/internal/core/sweep"
)

// Brand color
var (
	primaryColor = lipgloss.Color("#ff7300")
	subtleColor  = lipgloss.Color("#626262")
	successColor = lipgloss.Color("#04B575")
	errorColor   = lipgloss.Color("#FF0000")

	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true).
			MarginBottom(1)

	activeStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(successColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	skipStyle = lipgloss.NewStyle().
			Foreground(subtleColor)
)

// visibleItems is how many finished items stay on screen.
const visibleItems = 8

// ItemStartedMsg reports that the sweep moved on to an item.
type ItemStartedMsg struct {
	Number int
	Index  int
	Total  int
}

// ItemDoneMsg reports the outcome of one item.
type ItemDoneMsg struct {
	Result sweep.ItemResult
}

// DoneMsg ends the program once the sweep returned.
type DoneMsg struct {
	Summary *sweep.Summary
	Err     error
}

// Observer forwards sweep progress to a running program.
type Observer struct {
	program *tea.Program
}

var _ sweep.Observer = (*Observer)(nil)

// NewObserver creates an observer that sends to p.
func NewObserver(p *tea.Program) *Observer {
	return &Observer{program: p}
}

// ItemStarted implements sweep.Observer.
func (o *Observer) ItemStarted(number, index, total int) {
	o.program.Send(ItemStartedMsg{Number: number, Index: index, Total: total})
}

// ItemDone implements sweep.Observer.
func (o *Observer) ItemDone(result sweep.ItemResult) {
	o.program.Send(ItemDoneMsg{Result: result})
}

// Model for the TUI.
type Model struct {
	spinner  spinner.Model
	title    string
	current  int
	index    int
	total    int
	done     []sweep.ItemResult
	counts   map[sweep.Outcome]int
	finished bool
	quitting bool
	err      error

	// Interrupted is set when the user quit before the sweep finished.
	Interrupted bool
}

// NewModel creates a new TUI model for a sweep titled title.
func NewModel(title string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(primaryColor)

	return Model{
		spinner: s,
		title:   title,
		counts:  make(map[sweep.Outcome]int),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			m.quitting = true
			m.Interrupted = !m.finished
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ItemStartedMsg:
		m.current = msg.Number
		m.index = msg.Index
		m.total = msg.Total
		return m, nil

	case ItemDoneMsg:
		m.counts[msg.Result.Outcome]++
		m.done = append(m.done, msg.Result)
		if len(m.done) > visibleItems {
			m.done = m.done[len(m.done)-visibleItems:]
		}
		m.current = 0
		return m, nil

	case DoneMsg:
		m.finished = true
		m.err = msg.Err
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render(m.title))
	s.WriteString("\n")

	for _, r := range m.done {
		s.WriteString(renderItem(r))
		s.WriteString("\n")
	}

	if m.current != 0 {
		s.WriteString(activeStyle.Render(fmt.Sprintf("%s #%d (%d/%d)", m.spinner.View(), m.current, m.index+1, m.total)))
		s.WriteString("\n")
	}

	s.WriteString(skipStyle.Render(fmt.Sprintf("\n%d succeeded, %d skipped, %d failed",
		m.counts[sweep.Success], m.counts[sweep.Skip], m.counts[sweep.Error])))
	s.WriteString("\n")

	if m.err != nil {
		s.WriteString("\n" + errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n")
	}

	s.WriteString(skipStyle.Render("\nPress q to quit\n"))
	return s.String()
}

func renderItem(r sweep.ItemResult) string {
	switch r.Outcome {
	case sweep.Success:
		return successStyle.Render(fmt.Sprintf("✓ #%d", r.Number))
	case sweep.Error:
		return errorStyle.Render(fmt.Sprintf("✗ #%d: %s", r.Number, r.Reason))
	default:
		return skipStyle.Render(fmt.Sprintf("○ #%d: %s", r.Number, r.Reason))
	}
}
