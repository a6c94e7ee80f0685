package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/views/doccontent"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/views/documents"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/views/quiz"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/studymate/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap
	help   help.Model

	menuView       *menu.View
	chatView       *chat.View
	quizView       *quiz.View
	documentsView  *documents.View
	docContentView *doccontent.View
	settingsView   *settings.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// documentCount is the number of loaded documents, shared by the
	// chat and quiz status bars.
	documentCount int

	// err holds the last error that occurred.
	err error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if ports == nil {
		return nil, ErrInvalidPorts
	}
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPorts, err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:          ports,
		ctx:            context.Background(),
		styles:         s,
		keymap:         km,
		help:           help.New(),
		menuView:       menu.NewView(s),
		chatView:       chat.NewView(s, km, ports.Ask, ports.History),
		quizView:       quiz.NewView(s, km, ports.Quiz, ports.History),
		documentsView:  documents.NewView(s, ports.Document, ports.Import),
		docContentView: doccontent.NewView(s, ports.Document),
		settingsView:   settings.NewView(s, ports.Settings),
		currentView:    messages.ViewMenu,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.chatView.WithContext(ctx)
	a.quizView.WithContext(ctx)
	a.documentsView.WithContext(ctx)
	a.docContentView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tea.SetWindowTitle("studymate"),
		a.documentsView.Load(),
	}
	if a.ports.Settings != nil {
		cmds = append(cmds, a.settingsView.Init())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
//
//nolint:gocognit,gocyclo,funlen // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a, a.updateCurrent(msg)

	case messages.ViewChanged:
		return a, a.switchView(msg.View)

	case messages.Quit:
		return a, tea.Quit

	case messages.AnswerReceived, messages.ChatExported:
		a.chatView, cmd = a.chatView.Update(msg)
		a.err = a.chatView.Err()
		return a, cmd

	case messages.QuizGenerated, messages.QuizScored, messages.QuizExported:
		a.quizView, cmd = a.quizView.Update(msg)
		a.err = a.quizView.Err()
		return a, cmd

	case messages.DocumentsLoaded:
		if msg.Err == nil {
			a.setDocumentCount(len(msg.Documents))
		}
		a.documentsView, cmd = a.documentsView.Update(msg)
		return a, cmd

	case messages.DocumentUploaded, messages.DocumentDeleted, messages.SessionCleared:
		a.documentsView, cmd = a.documentsView.Update(msg)
		return a, cmd

	case messages.DocumentSelected:
		a.currentView = messages.ViewDocContent
		return a, a.docContentView.SetFilename(msg.Filename)

	case messages.DocumentContentLoaded:
		a.docContentView, cmd = a.docContentView.Update(msg)
		return a, cmd

	case messages.SettingsLoaded:
		if msg.Err == nil && msg.Settings != nil {
			a.applySettings(msg.Settings)
		}
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.SettingsSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, a.updateCurrent(msg)
	}

	return a, a.updateCurrent(msg)
}

// updateCurrent forwards a message to the active view.
func (a *App) updateCurrent(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
	case messages.ViewQuiz:
		a.quizView, cmd = a.quizView.Update(msg)
	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
	case messages.ViewDocContent:
		a.docContentView, cmd = a.docContentView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
		if key, ok := msg.(tea.KeyMsg); ok && (key.Type == tea.KeyEsc || key.String() == "q") {
			a.currentView = messages.ViewMenu
		}
	}

	return cmd
}

func (a *App) switchView(view messages.ViewType) tea.Cmd {
	a.currentView = view
	a.err = nil

	switch view {
	case messages.ViewChat:
		return tea.Batch(a.chatView.Focus(), a.documentsView.Load())
	case messages.ViewQuiz:
		return a.documentsView.Load()
	case messages.ViewDocuments:
		return a.documentsView.Load()
	case messages.ViewSettings:
		a.settingsView.Reset()
		return a.settingsView.Init()
	case messages.ViewMenu, messages.ViewDocContent, messages.ViewHelp:
	}
	return nil
}

func (a *App) setDocumentCount(n int) {
	a.documentCount = n
	a.chatView.SetDocumentCount(n)
	a.quizView.SetDocumentCount(n)
}

func (a *App) applySettings(s *domain.AppSettings) {
	if s.Quiz.MaxQuestions > 0 {
		a.quizView.SetMaxQuestions(s.Quiz.MaxQuestions)
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewChat:
		return a.chatView.View()
	case messages.ViewQuiz:
		return a.quizView.View()
	case messages.ViewDocuments:
		return a.documentsView.View()
	case messages.ViewDocContent:
		return a.docContentView.View()
	case messages.ViewSettings:
		return a.settingsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

func (a *App) viewHelp() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	b.WriteString(a.help.FullHelpView(a.keymap.FullHelp()))
	b.WriteString("\n\n")
	b.WriteString(a.styles.Normal.Render(strings.Join([]string{
		"Menu:      c chat  z quiz  d documents  s settings",
		"Chat:      ctrl+t language  pgup/pgdown scroll",
		"Quiz:      a-d answer  enter submit  r restart",
		"Documents: u upload  i import  X clear session",
	}, "\n")))
	b.WriteString("\n\n")
	b.WriteString(a.styles.Help.Render("[esc] back to menu"))

	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// DocumentCount returns the number of loaded documents last reported.
func (a *App) DocumentCount() int {
	return a.documentCount
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on the app and every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.help.Width = width

	a.menuView.SetDimensions(width, height)
	a.chatView.SetDimensions(width, height)
	a.quizView.SetDimensions(width, height)
	a.documentsView.SetDimensions(width, height)
	a.docContentView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
}
