// Package menu is the landing screen of the TUI.
package menu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/styles"
)

// Item is one menu entry. Key is a single-letter shortcut; Quit entries
// exit instead of navigating.
type Item struct {
	Label string
	Hint  string
	Key   string
	View  messages.ViewType
	Quit  bool
}

func defaultItems() []Item {
	return []Item{
		{Label: "Chat", Hint: "ask questions about your documents", Key: "c", View: messages.ViewChat},
		{Label: "Quiz", Hint: "generate a multiple-choice quiz", Key: "z", View: messages.ViewQuiz},
		{Label: "Documents", Hint: "upload, import and read PDFs", Key: "d", View: messages.ViewDocuments},
		{Label: "Settings", Hint: "providers, retrieval and language", Key: "s", View: messages.ViewSettings},
		{Label: "Help", Hint: "keys for every screen", Key: "h", View: messages.ViewHelp},
		{Label: "Quit", Quit: true},
	}
}

// View is the menu model.
type View struct {
	styles   *styles.Styles
	items    []Item
	selected int
	width    int
	height   int
	ready    bool
}

// NewView creates the menu with the cursor on the first entry.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles: s,
		items:  defaultItems(),
		width:  80,
		height: 24,
	}
}

// Init has nothing to load.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update moves the cursor and emits ViewChanged on selection.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch k := msg.String(); k {
		case "up", "k":
			v.selected = max(v.selected-1, 0)
		case "down", "j":
			v.selected = min(v.selected+1, len(v.items)-1)
		case "enter":
			return v, v.activate(v.items[v.selected])
		case "q":
			return v, tea.Quit
		default:
			for _, item := range v.items {
				if item.Key != "" && item.Key == k {
					return v, v.activate(item)
				}
			}
		}
	}
	return v, nil
}

func (v *View) activate(item Item) tea.Cmd {
	if item.Quit {
		return tea.Quit
	}
	return func() tea.Msg {
		return messages.ViewChanged{View: item.View}
	}
}

// View renders the menu.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("StudyMate"))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render("Ask questions and take quizzes on your PDFs"))
	b.WriteString("\n\n")

	for i, item := range v.items {
		label := item.Label
		if item.Key != "" {
			label = fmt.Sprintf("%-10s [%s]", item.Label, item.Key)
		}
		if i == v.selected {
			b.WriteString("> " + v.styles.Selected.Render(label))
		} else {
			b.WriteString("  " + v.styles.Normal.Render(label))
		}
		if item.Hint != "" && v.width >= 60 {
			b.WriteString("  " + v.styles.Muted.Render(item.Hint))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] move  [enter] open  [q] quit"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected returns the cursor position.
func (v *View) Selected() int {
	return v.selected
}
