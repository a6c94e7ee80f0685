// Package documents provides the documents list view component for the TUI.
package documents

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driving"
)

// ActionOption represents a document action.
type ActionOption int

const (
	ActionShowPages ActionOption = iota
	ActionDelete
	ActionCancel
)

// promptMode says what the path prompt is collecting.
type promptMode int

const (
	promptNone promptMode = iota
	promptUpload
	promptImport
)

// View is the documents list view.
type View struct {
	styles          *styles.Styles
	documentService driving.DocumentService
	importService   driving.ImportService
	ctx             context.Context

	documents    []domain.DocumentSummary
	selected     int
	width        int
	height       int
	ready        bool
	err          error
	notice       string
	loading      bool
	showingMenu  bool
	menuSelected ActionOption
	scrollOffset int

	prompt     *input.Prompt
	promptMode promptMode
}

// NewView creates a new documents view. importService may be nil.
func NewView(
	s *styles.Styles,
	documentService driving.DocumentService,
	importService driving.ImportService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:          s,
		documentService: documentService,
		importService:   importService,
		ctx:             context.Background(),
		documents:       []domain.DocumentSummary{},
		prompt:          input.NewPrompt(s, "PDF path", "/path/to/notes.pdf"),
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Load resets the selection and reloads the document list.
func (v *View) Load() tea.Cmd {
	v.selected = 0
	v.scrollOffset = 0
	v.showingMenu = false
	v.loading = true
	return v.loadDocuments()
}

func (v *View) loadDocuments() tea.Cmd {
	ctx := v.ctx
	return func() tea.Msg {
		if v.documentService == nil {
			return messages.DocumentsLoaded{Err: ErrNoDocumentService}
		}
		docs, err := v.documentService.List(ctx)
		return messages.DocumentsLoaded{Documents: docs, Err: err}
	}
}

// Update handles messages for the documents view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		switch {
		case v.promptMode != promptNone:
			return v.handlePromptKeyMsg(msg)
		case v.showingMenu:
			return v.handleMenuKeyMsg(msg)
		default:
			return v.handleKeyMsg(msg)
		}

	case messages.DocumentsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.documents = msg.Documents
		if v.selected >= len(v.documents) {
			v.selected = max(len(v.documents)-1, 0)
		}
		v.err = nil
		return v, nil

	case messages.DocumentUploaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.notice = fmt.Sprintf("Loaded %s: %d page(s), %d chunk(s)",
			msg.Summary.Filename, msg.Summary.Pages, msg.Summary.ChunkCount)
		return v, v.loadDocuments()

	case messages.DocumentDeleted:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.notice = "Removed " + msg.Filename
		return v, v.loadDocuments()

	case messages.SessionCleared:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.notice = "Session cleared"
		return v, v.loadDocuments()

	case messages.ErrorOccurred:
		v.loading = false
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case "down", "j":
		if v.selected < len(v.documents)-1 {
			v.selected++
			v.adjustScroll()
		}
	case "enter":
		if len(v.documents) > 0 {
			v.showingMenu = true
			v.menuSelected = ActionShowPages
		}
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case "u":
		return v, v.openPrompt(promptUpload)
	case "i":
		if v.importService == nil {
			v.err = ErrNoImportService
			return v, nil
		}
		return v, v.openPrompt(promptImport)
	case "X":
		return v, v.clearSession()
	case "r":
		v.loading = true
		return v, v.loadDocuments()
	}

	return v, nil
}

func (v *View) openPrompt(mode promptMode) tea.Cmd {
	v.promptMode = mode
	v.err = nil
	v.notice = ""
	v.prompt.Reset()
	if mode == promptImport {
		v.prompt.SetLabel("URL")
		v.prompt.SetPlaceholder("https://drive.google.com/file/d/... or https://github.com/...")
	} else {
		v.prompt.SetLabel("PDF path")
		v.prompt.SetPlaceholder("/path/to/notes.pdf")
	}
	return v.prompt.Focus()
}

func (v *View) handlePromptKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // only submit and cancel are special
	switch msg.Type {
	case tea.KeyEsc:
		v.promptMode = promptNone
		v.prompt.Blur()
		return v, nil
	case tea.KeyEnter:
		value := strings.TrimSpace(v.prompt.Value())
		if value == "" {
			return v, nil
		}
		mode := v.promptMode
		v.promptMode = promptNone
		v.prompt.Blur()
		v.loading = true
		if mode == promptImport {
			return v, v.importMaterial(value)
		}
		return v, v.uploadFile(value)
	}

	var cmd tea.Cmd
	v.prompt, cmd = v.prompt.Update(msg)
	return v, cmd
}

func (v *View) uploadFile(path string) tea.Cmd {
	ctx := v.ctx
	return func() tea.Msg {
		if v.documentService == nil {
			return messages.DocumentUploaded{Err: ErrNoDocumentService}
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return messages.DocumentUploaded{Err: fmt.Errorf("read %s: %w", path, err)}
		}
		summary, err := v.documentService.Upload(ctx, driving.UploadRequest{
			Filename: filepath.Base(path),
			Data:     data,
			Source:   domain.SourceUpload,
		}, nil)
		return messages.DocumentUploaded{Summary: summary, Err: err}
	}
}

func (v *View) importMaterial(ref string) tea.Cmd {
	ctx := v.ctx
	return func() tea.Msg {
		summary, err := v.importService.Import(ctx, ref, nil)
		return messages.DocumentUploaded{Summary: summary, Err: err}
	}
}

func (v *View) handleMenuKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.menuSelected > ActionShowPages {
			v.menuSelected--
		}
	case "down", "j":
		if v.menuSelected < ActionCancel {
			v.menuSelected++
		}
	case "enter":
		return v.handleMenuSelect()
	case "esc":
		v.showingMenu = false
	}

	return v, nil
}

func (v *View) handleMenuSelect() (*View, tea.Cmd) {
	v.showingMenu = false
	if v.selected >= len(v.documents) {
		return v, nil
	}

	filename := v.documents[v.selected].Filename

	switch v.menuSelected {
	case ActionShowPages:
		return v, func() tea.Msg {
			return messages.DocumentSelected{Filename: filename}
		}
	case ActionDelete:
		return v, v.deleteDocument(filename)
	case ActionCancel:
	}

	return v, nil
}

func (v *View) deleteDocument(filename string) tea.Cmd {
	ctx := v.ctx
	return func() tea.Msg {
		if v.documentService == nil {
			return messages.DocumentDeleted{Filename: filename, Err: ErrNoDocumentService}
		}
		err := v.documentService.Delete(ctx, filename)
		return messages.DocumentDeleted{Filename: filename, Err: err}
	}
}

func (v *View) clearSession() tea.Cmd {
	ctx := v.ctx
	return func() tea.Msg {
		if v.documentService == nil {
			return messages.SessionCleared{Err: ErrNoDocumentService}
		}
		return messages.SessionCleared{Err: v.documentService.Clear(ctx)}
	}
}

// adjustScroll adjusts the scroll offset to keep the selected item visible.
func (v *View) adjustScroll() {
	visibleItems := v.visibleItemCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visibleItems {
		v.scrollOffset = v.selected - visibleItems + 1
	}
}

func (v *View) visibleItemCount() int {
	// title, separator, notice, help and padding
	available := v.height - 8
	if available < 1 {
		available = 1
	}
	return available
}

// View renders the documents view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Documents (%d)", len(v.documents))))
	b.WriteString("\n\n")

	if v.promptMode != promptNone {
		b.WriteString(v.prompt.View())
		b.WriteString("\n\n")
		b.WriteString(v.styles.Help.Render("[enter] load  [esc] cancel"))
		return b.String()
	}

	if v.showingMenu {
		b.WriteString(v.renderActionMenu())
		return b.String()
	}

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading documents..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case len(v.documents) == 0:
		b.WriteString(v.styles.Muted.Render("No documents loaded. Press [u] to upload a PDF."))
	default:
		b.WriteString(v.renderList())
	}

	if v.notice != "" && v.err == nil {
		b.WriteString("\n\n")
		b.WriteString(v.styles.Success.Render(v.notice))
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *View) renderList() string {
	var b strings.Builder

	visibleItems := v.visibleItemCount()
	end := min(v.scrollOffset+visibleItems, len(v.documents))
	for i := v.scrollOffset; i < end; i++ {
		b.WriteString(v.renderDocument(i, &v.documents[i]))
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	if len(v.documents) > visibleItems {
		b.WriteString("\n\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]",
			v.scrollOffset+1, end, len(v.documents))))
	}
	return b.String()
}

func (v *View) renderDocument(index int, doc *domain.DocumentSummary) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	name := doc.Filename
	maxNameLen := max(v.width/2-4, 10)
	if len(name) > maxNameLen {
		name = name[:maxNameLen-3] + "..."
	}

	meta := fmt.Sprintf("%d page(s), %d chunk(s), %s", doc.Pages, doc.ChunkCount, doc.Source)

	if index == v.selected {
		return v.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxNameLen, name, meta))
	}
	return v.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, maxNameLen, name)) +
		v.styles.Muted.Render(meta)
}

func (v *View) renderActionMenu() string {
	var b strings.Builder

	if v.selected < len(v.documents) {
		b.WriteString(v.styles.Subtitle.Render("Actions for: " + v.documents[v.selected].Filename))
		b.WriteString("\n\n")
	}

	options := []struct {
		action ActionOption
		label  string
	}{
		{ActionShowPages, "Show Pages"},
		{ActionDelete, "Remove"},
		{ActionCancel, "Cancel"},
	}

	for _, opt := range options {
		if v.menuSelected == opt.action {
			b.WriteString(v.styles.Selected.Render("> " + opt.label))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + opt.label))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[↑/↓] navigate  [enter] select  [esc] cancel"))
	return b.String()
}

func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓] navigate  [enter] actions  [u] upload  [i] import  [X] clear all  [r] reload  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.prompt.SetWidth(width)
}

// Documents returns the current list of documents.
func (v *View) Documents() []domain.DocumentSummary {
	return v.documents
}

// SelectedIndex returns the currently selected document index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// SelectedDocument returns the currently selected document.
func (v *View) SelectedDocument() *domain.DocumentSummary {
	if v.selected < len(v.documents) {
		return &v.documents[v.selected]
	}
	return nil
}

// IsShowingMenu returns true if the action menu is visible.
func (v *View) IsShowingMenu() bool {
	return v.showingMenu
}

// IsPrompting returns true while a path or URL is being typed.
func (v *View) IsPrompting() bool {
	return v.promptMode != promptNone
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
