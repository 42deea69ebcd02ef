// Package tui implements the interactive question-and-answer terminal UI.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/arcanum-labs/bookrag/internal/core/domain"
)

// AnswerPort is the TUI-facing subset of the answer service.
type AnswerPort interface {
	Answer(ctx context.Context, question, title string) (string, []domain.Match, error)
}

// answerMsg carries the result of one question back into the update loop.
type answerMsg struct {
	question string
	answer   string
	matches  []domain.Match
	err      error
}

// Model is the Bubble Tea model for the ask session.
type Model struct {
	service  AnswerPort
	title    string
	input    textinput.Model
	viewport viewport.Model
	status   string
	waiting  bool
	ready    bool

	answer  string
	matches []domain.Match
	showSrc bool
}

// New creates a TUI model for asking questions about one book.
func New(service AnswerPort, title string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		service:  service,
		title:    title,
		input:    ti,
		viewport: vp,
		status:   "Ready. Tab toggles source passages, Ctrl+C quits.",
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := answerBoxStyle.GetFrameSize()
		_, qh := questionBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1 // header, summary, input frame, status
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderAnswer())
		return m, nil

	case answerMsg:
		m.waiting = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			return m, nil
		}
		m.answer = msg.answer
		m.matches = msg.matches
		m.status = fmt.Sprintf("Answered from %d passages", len(msg.matches))
		m.viewport.SetContent(m.renderAnswer())
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" && !m.waiting {
				m.waiting = true
				m.status = "Thinking..."
				m.input.SetValue("")
				return m, m.ask(q)
			}
		case "tab":
			m.showSrc = !m.showSrc
			m.viewport.SetContent(m.renderAnswer())
			return m, nil
		case "up":
			m.viewport.ScrollUp(1)
			return m, nil
		case "down":
			m.viewport.ScrollDown(1)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// ask runs the answer service off the update loop.
func (m Model) ask(question string) tea.Cmd {
	return func() tea.Msg {
		answer, matches, err := m.service.Answer(context.Background(), question, m.title)
		return answerMsg{question: question, answer: answer, matches: matches, err: err}
	}
}

// View renders the session layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("bookrag ask")
	summary := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("Book: " + m.title)
	answer := answerBoxStyle.Render(m.viewport.View())
	input := questionBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	return header + "\n" + summary + "\n" + answer + "\n" + input + "\n" + status
}

func (m Model) renderAnswer() string {
	if m.answer == "" {
		return "No answer yet."
	}
	if !m.showSrc {
		return m.answer
	}

	var b strings.Builder
	b.WriteString(m.answer)
	b.WriteString("\n\n")
	b.WriteString(sourceHeaderStyle.Render("Source passages"))
	for _, match := range m.matches {
		b.WriteString(fmt.Sprintf("\n\n[passage %d, score %.3f]\n", match.SequenceIndex, match.Score))
		b.WriteString(match.Content)
	}
	return b.String()
}

var (
	answerBoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	questionBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	sourceHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
