// Package list provides list display components for the TUI.
package list

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/studymate/internal/core/domain"
)

// Transcript displays a conversation, newest messages at the bottom.
// Scrolling is measured in lines up from the bottom.
type Transcript struct {
	messages []domain.ChatMessage
	styles   *styles.Styles
	scroll   int
	width    int
	height   int
}

// NewTranscript creates an empty transcript.
func NewTranscript(s *styles.Styles) *Transcript {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &Transcript{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the transcript.
func (t *Transcript) Init() tea.Cmd {
	return nil
}

// Update handles scroll keys.
func (t *Transcript) Update(msg tea.Msg) (*Transcript, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "pgup", "ctrl+u":
			t.ScrollUp(t.height / 2)
		case "pgdown", "ctrl+d":
			t.ScrollDown(t.height / 2)
		}
	}
	return t, nil
}

// View renders the visible part of the conversation.
func (t *Transcript) View() string {
	if len(t.messages) == 0 {
		return t.styles.Muted.Render("Ask a question about your documents to get started.")
	}

	lines := t.lines()
	end := len(lines) - t.scroll
	start := end - t.height
	if start < 0 {
		start = 0
	}
	return strings.Join(lines[start:end], "\n")
}

// lines renders every message into display lines.
func (t *Transcript) lines() []string {
	wrap := lipgloss.NewStyle().Width(t.contentWidth())

	var lines []string
	for i, m := range t.messages {
		if i > 0 {
			lines = append(lines, "")
		}

		label := t.styles.UserMessage.Render("You")
		if m.Role == domain.RoleAI {
			label = t.styles.AIMessage.Render("StudyMate")
		}
		lines = append(lines, label)
		lines = append(lines, strings.Split(wrap.Render(m.Content), "\n")...)

		if len(m.Sources) > 0 {
			cite := "Sources: " + strings.Join(m.Sources, ", ")
			lines = append(lines, t.styles.Citation.Render(cite))
		}
	}
	return lines
}

func (t *Transcript) contentWidth() int {
	if t.width < 20 {
		return 20
	}
	return t.width - 2
}

// Append adds a message to the end of the conversation and scrolls to it.
func (t *Transcript) Append(msg domain.ChatMessage) {
	t.messages = append(t.messages, msg)
	t.scroll = 0
}

// Messages returns the conversation.
func (t *Transcript) Messages() []domain.ChatMessage {
	return t.messages
}

// Clear empties the conversation.
func (t *Transcript) Clear() {
	t.messages = nil
	t.scroll = 0
}

// ScrollUp moves the view towards older messages.
func (t *Transcript) ScrollUp(n int) {
	maxScroll := len(t.lines()) - t.height
	if maxScroll < 0 {
		maxScroll = 0
	}
	t.scroll += max(n, 1)
	if t.scroll > maxScroll {
		t.scroll = maxScroll
	}
}

// ScrollDown moves the view towards newer messages.
func (t *Transcript) ScrollDown(n int) {
	t.scroll -= max(n, 1)
	if t.scroll < 0 {
		t.scroll = 0
	}
}

// Scroll returns the number of lines scrolled up from the bottom.
func (t *Transcript) Scroll() int {
	return t.scroll
}

// SetDimensions sets the component dimensions.
func (t *Transcript) SetDimensions(width, height int) {
	t.width = width
	t.height = max(height, 1)
}

// Count returns the number of messages.
func (t *Transcript) Count() int {
	return len(t.messages)
}

// IsEmpty returns whether the conversation is empty.
func (t *Transcript) IsEmpty() bool {
	return len(t.messages) == 0
}
