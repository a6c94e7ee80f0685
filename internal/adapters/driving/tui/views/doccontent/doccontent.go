// Package doccontent provides the page reader view for a loaded document.
package doccontent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driving"
)

// ErrNoDocumentService is returned when the document service is not configured.
var ErrNoDocumentService = errors.New("document service not available")

// View shows the extracted text of a document, page by page.
type View struct {
	styles          *styles.Styles
	documentService driving.DocumentService
	ctx             context.Context

	filename     string
	document     *domain.Document
	lines        []string
	pageStarts   []int // line index of each page header
	scrollOffset int
	width        int
	height       int
	ready        bool
	err          error
	loading      bool
}

// NewView creates a new document content view.
func NewView(s *styles.Styles, documentService driving.DocumentService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:          s,
		documentService: documentService,
		ctx:             context.Background(),
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetFilename selects the document to show and loads it.
func (v *View) SetFilename(filename string) tea.Cmd {
	v.filename = filename
	v.document = nil
	v.lines = nil
	v.pageStarts = nil
	v.scrollOffset = 0
	v.err = nil
	v.loading = true
	return v.loadDocument()
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

func (v *View) loadDocument() tea.Cmd {
	ctx, filename := v.ctx, v.filename
	return func() tea.Msg {
		if v.documentService == nil {
			return messages.DocumentContentLoaded{Err: ErrNoDocumentService}
		}
		doc, err := v.documentService.Get(ctx, filename)
		return messages.DocumentContentLoaded{Document: doc, Err: err}
	}
}

// Update handles messages for the document content view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.DocumentContentLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.document = msg.Document
		v.err = nil
		v.wrapContent()
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		v.scrollTo(v.scrollOffset - 1)
	case "down", "j":
		v.scrollTo(v.scrollOffset + 1)
	case "pgup", "ctrl+u":
		v.scrollTo(v.scrollOffset - v.visibleLines())
	case "pgdown", "ctrl+d":
		v.scrollTo(v.scrollOffset + v.visibleLines())
	case "home", "g":
		v.scrollTo(0)
	case "end", "G":
		v.scrollTo(v.maxScrollOffset())
	case "n":
		v.jumpPage(1)
	case "p":
		v.jumpPage(-1)
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewDocuments}
		}
	}

	return v, nil
}

func (v *View) scrollTo(offset int) {
	v.scrollOffset = min(max(offset, 0), v.maxScrollOffset())
}

// jumpPage scrolls to the next or previous page header.
func (v *View) jumpPage(dir int) {
	current := v.CurrentPage()
	target := current + dir
	if target < 1 || target > len(v.pageStarts) {
		return
	}
	v.scrollTo(v.pageStarts[target-1])
}

// CurrentPage returns the 1-based page at the top of the view, or 0 when
// nothing is loaded.
func (v *View) CurrentPage() int {
	page := 0
	for i, start := range v.pageStarts {
		if start <= v.scrollOffset {
			page = i + 1
		}
	}
	return page
}

// wrapContent lays out every page under a header, wrapping long lines.
func (v *View) wrapContent() {
	v.lines = nil
	v.pageStarts = nil
	if v.document == nil {
		return
	}

	contentWidth := max(v.width-4, 20)
	for i, page := range v.document.Pages {
		if i > 0 {
			v.lines = append(v.lines, "")
		}
		v.pageStarts = append(v.pageStarts, len(v.lines))
		v.lines = append(v.lines, fmt.Sprintf("--- Page %d ---", i+1))
		for _, line := range strings.Split(page, "\n") {
			v.lines = append(v.lines, wrapLine(line, contentWidth)...)
		}
	}
	v.scrollTo(v.scrollOffset)
}

// wrapLine splits a line into pieces of at most width runes.
func wrapLine(line string, width int) []string {
	runes := []rune(line)
	if len(runes) <= width {
		return []string{line}
	}
	var out []string
	for len(runes) > width {
		out = append(out, string(runes[:width]))
		runes = runes[width:]
	}
	if len(runes) > 0 {
		out = append(out, string(runes))
	}
	return out
}

func (v *View) visibleLines() int {
	// title, separator, help and padding
	return max(v.height-6, 1)
}

func (v *View) maxScrollOffset() int {
	return max(len(v.lines)-v.visibleLines(), 0)
}

// View renders the document content view.
func (v *View) View() string {
	var b strings.Builder

	title := v.filename
	if title == "" {
		title = "Document"
	}
	b.WriteString(v.styles.Title.Render(title))
	if v.document != nil {
		b.WriteString("  " + v.styles.Muted.Render(
			fmt.Sprintf("%d page(s), %s", len(v.document.Pages), v.document.Source)))
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", max(min(v.width-4, 60), 0)))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading document..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case len(v.lines) == 0:
		b.WriteString(v.styles.Muted.Render("(No text extracted)"))
	default:
		b.WriteString(v.renderLines())
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *View) renderLines() string {
	var b strings.Builder

	visible := v.visibleLines()
	end := min(v.scrollOffset+visible, len(v.lines))
	for i := v.scrollOffset; i < end; i++ {
		line := v.lines[i]
		if strings.HasPrefix(line, "--- Page ") {
			b.WriteString(v.styles.Subtitle.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}

	if len(v.lines) > visible {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  Page %d of %d  Line %d-%d of %d",
			v.CurrentPage(), len(v.pageStarts), v.scrollOffset+1, end, len(v.lines))))
	}
	return b.String()
}

func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓/PgUp/PgDn] scroll  [n/p] next/prev page  [g/G] top/bottom  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.wrapContent()
}

// Document returns the loaded document.
func (v *View) Document() *domain.Document {
	return v.document
}

// Filename returns the selected filename.
func (v *View) Filename() string {
	return v.filename
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
