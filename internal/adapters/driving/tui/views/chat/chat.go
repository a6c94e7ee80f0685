// Package chat provides the question and answer view for the TUI.
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driving"
)

// View is a conversation over the loaded documents.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	input      *input.Prompt
	transcript *list.Transcript
	statusbar  *status.Bar

	askService     driving.AskService
	historyService driving.HistoryService
	ctx            context.Context

	// language is empty for the configured default.
	language  string
	exportDir string

	width   int
	height  int
	ready   bool
	pending bool
	err     error
}

// NewView creates a new chat view. historyService may be nil, which
// disables export.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	askService driving.AskService,
	historyService driving.HistoryService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	bar := status.NewBar(s, km)
	bar.SetState(status.StateChat)

	return &View{
		styles:         s,
		keymap:         km,
		input:          input.NewPrompt(s, "Ask", "Type a question about your documents..."),
		transcript:     list.NewTranscript(s),
		statusbar:      bar,
		askService:     askService,
		historyService: historyService,
		ctx:            context.Background(),
		exportDir:      ".",
		width:          80,
		height:         24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AnswerReceived:
		v.handleAnswer(msg)
		return v, nil

	case messages.ChatExported:
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		v.statusbar.SetState(status.StateInfo)
		v.statusbar.SetMessage("Conversation exported to " + msg.Path)
		return v, nil

	case messages.ErrorOccurred:
		v.pending = false
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}

	case keymap.Matches(msg.String(), v.keymap.Export):
		return v, v.exportChat()

	case keymap.Matches(msg.String(), v.keymap.Clear):
		v.transcript.Clear()
		v.clearStatus()
		return v, nil

	case msg.String() == "ctrl+t":
		v.cycleLanguage()
		return v, nil

	case msg.Type == tea.KeyPgUp, msg.Type == tea.KeyPgDown:
		v.transcript, _ = v.transcript.Update(msg)
		return v, nil

	case msg.Type == tea.KeyEnter:
		return v, v.submit()
	}

	if v.pending {
		return v, nil
	}
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// submit sends the typed question; blank input and overlapping questions
// are ignored.
func (v *View) submit() tea.Cmd {
	question := strings.TrimSpace(v.input.Value())
	if question == "" || v.pending {
		return nil
	}

	v.input.Reset()
	v.pending = true
	v.err = nil
	v.transcript.Append(domain.ChatMessage{
		Role:      domain.RoleUser,
		Content:   question,
		Timestamp: time.Now(),
	})
	v.statusbar.SetState(status.StateThinking)
	v.statusbar.SetMessage("")

	return v.ask(question)
}

func (v *View) ask(question string) tea.Cmd {
	ctx, language := v.ctx, v.language
	return func() tea.Msg {
		if v.askService == nil {
			return messages.ErrorOccurred{Err: ErrNoAskService}
		}
		answer, err := v.askService.Ask(ctx, question, language)
		return messages.AnswerReceived{Question: question, Answer: answer, Err: err}
	}
}

func (v *View) handleAnswer(msg messages.AnswerReceived) {
	v.pending = false
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}
	v.err = nil
	v.transcript.Append(msg.Answer.Message())
	v.clearStatus()
}

func (v *View) exportChat() tea.Cmd {
	if v.historyService == nil {
		v.setError(ErrNoHistoryService)
		return nil
	}
	if v.transcript.IsEmpty() {
		v.setError(ErrEmptyConversation)
		return nil
	}

	msgs := append([]domain.ChatMessage(nil), v.transcript.Messages()...)
	ctx, dir := v.ctx, v.exportDir
	return func() tea.Msg {
		export, err := v.historyService.ExportChat(ctx, msgs)
		if err != nil {
			return messages.ChatExported{Err: err}
		}
		path := filepath.Join(dir, fmt.Sprintf("studymate-chat-%s.json", export.ID))
		if err := writeJSON(path, export); err != nil {
			return messages.ChatExported{Err: err}
		}
		return messages.ChatExported{Path: path}
	}
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

// cycleLanguage steps through the supported languages, then back to the default.
func (v *View) cycleLanguage() {
	languages := domain.SupportedLanguages()
	if v.language == "" {
		v.language = languages[0].Name
		return
	}
	for i, l := range languages {
		if l.Name == v.language {
			if i+1 < len(languages) {
				v.language = languages[i+1].Name
			} else {
				v.language = ""
			}
			return
		}
	}
	v.language = ""
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

func (v *View) clearStatus() {
	v.statusbar.SetState(status.StateChat)
	v.statusbar.SetMessage("")
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	language := v.language
	if language == "" {
		language = "default"
	}
	header := v.styles.Title.Render("Chat") + "  " +
		v.styles.Muted.Render(fmt.Sprintf("Language: %s (ctrl+t to change)", language))

	sections := []string{header, "", v.transcript.View(), ""}
	if v.pending {
		sections = append(sections, v.styles.Muted.Render("StudyMate is thinking..."))
	}
	sections = append(sections, v.input.View(), "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.transcript.SetDimensions(width, height-9)
	v.statusbar.SetWidth(width)
}

// SetDocumentCount updates the loaded document count shown in the status bar.
func (v *View) SetDocumentCount(n int) {
	v.statusbar.SetDocumentCount(n)
}

// SetLanguage sets the answer language; empty selects the configured default.
func (v *View) SetLanguage(language string) {
	v.language = language
}

// Language returns the selected answer language.
func (v *View) Language() string {
	return v.language
}

// SetExportDir sets where exported conversations are written.
func (v *View) SetExportDir(dir string) {
	v.exportDir = dir
}

// Messages returns the conversation so far.
func (v *View) Messages() []domain.ChatMessage {
	return v.transcript.Messages()
}

// Pending reports whether a question is awaiting its answer.
func (v *View) Pending() bool {
	return v.pending
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// Focus focuses the question input.
func (v *View) Focus() tea.Cmd {
	return v.input.Focus()
}
