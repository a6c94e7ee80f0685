// Package styles holds the lipgloss palette and styles shared by the views.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is the colour palette. Colours are hex strings so they degrade
// through lipgloss on terminals with fewer colours.
type Theme struct {
	Accent     lipgloss.Color // headings, assistant turns
	Highlight  lipgloss.Color // student turns, subheadings
	Text       lipgloss.Color
	Dim        lipgloss.Color
	Panel      lipgloss.Color // status bar background
	Frame      lipgloss.Color // borders
	Correct    lipgloss.Color
	Caution    lipgloss.Color
	Wrong      lipgloss.Color
	Background lipgloss.Color
}

// DefaultTheme is a dark palette.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:     "#7C9CF5",
		Highlight:  "#F5B971",
		Text:       "#E2E4EE",
		Dim:        "#7A7F99",
		Panel:      "#1B1D2A",
		Frame:      "#3F4460",
		Correct:    "#8BD5A0",
		Caution:    "#F2D479",
		Wrong:      "#F28B8B",
		Background: "#232536",
	}
}

// Styles are the rendered styles every view draws with.
type Styles struct {
	theme *Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Help     lipgloss.Style
	Selected lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	InputField lipgloss.Style
	StatusBar  lipgloss.Style
	Border     lipgloss.Style

	// Conversation and quiz styles.
	UserMessage lipgloss.Style
	AIMessage   lipgloss.Style
	Citation    lipgloss.Style
	Option      lipgloss.Style
}

// NewStyles builds styles from theme; nil means DefaultTheme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	text := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}
	frame := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Frame)

	return &Styles{
		theme: theme,

		Title:    text(theme.Accent).Bold(true),
		Subtitle: text(theme.Highlight).Bold(true),
		Normal:   text(theme.Text),
		Muted:    text(theme.Dim),
		Help:     text(theme.Dim),
		Selected: text(theme.Panel).Background(theme.Accent).Bold(true),

		Success: text(theme.Correct),
		Warning: text(theme.Caution),
		Error:   text(theme.Wrong).Bold(true),

		InputField: frame.Padding(0, 1),
		StatusBar:  text(theme.Dim).Background(theme.Panel).Padding(0, 1),
		Border:     frame,

		UserMessage: text(theme.Highlight).Bold(true),
		AIMessage:   text(theme.Accent).Bold(true),
		Citation:    text(theme.Dim).Italic(true),
		Option:      text(theme.Text).PaddingLeft(2),
	}
}

// DefaultStyles returns NewStyles(DefaultTheme()).
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the palette the styles were built from.
func (s *Styles) Theme() *Theme {
	return s.theme
}
