package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/styles"
)

func TestNewPrompt(t *testing.T) {
	p := NewPrompt(styles.DefaultStyles(), "Ask", "Type a question...")

	require.NotNil(t, p)
	assert.Equal(t, "", p.Value())
	assert.Equal(t, "Ask", p.Label())
	assert.True(t, p.Focused())
}

func TestNewPrompt_NilStyles(t *testing.T) {
	p := NewPrompt(nil, "Ask", "")

	require.NotNil(t, p)
	assert.NotNil(t, p.styles)
}

func TestPrompt_Init(t *testing.T) {
	p := NewPrompt(nil, "Ask", "")

	assert.NotNil(t, p.Init())
}

func TestPrompt_Update_TypesRunes(t *testing.T) {
	p := NewPrompt(nil, "Ask", "")

	for _, r := range "why" {
		p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	assert.Equal(t, "why", p.Value())
}

func TestPrompt_View(t *testing.T) {
	p := NewPrompt(nil, "Path", "/path/to/notes.pdf")

	view := p.View()

	assert.Contains(t, view, "Path")
}

func TestPrompt_SetLabelAndPlaceholder(t *testing.T) {
	p := NewPrompt(nil, "Ask", "")

	p.SetLabel("Import")
	p.SetPlaceholder("https://...")

	assert.Equal(t, "Import", p.Label())
	assert.Equal(t, "https://...", p.textinput.Placeholder)
}

func TestPrompt_SetValueAndReset(t *testing.T) {
	p := NewPrompt(nil, "Ask", "")

	p.SetValue("photosynthesis")
	assert.Equal(t, "photosynthesis", p.Value())

	p.Reset()
	assert.Empty(t, p.Value())
}

func TestPrompt_FocusBlur(t *testing.T) {
	p := NewPrompt(nil, "Ask", "")

	p.Blur()
	assert.False(t, p.Focused())

	p.Focus()
	assert.True(t, p.Focused())
}

func TestPrompt_SetWidth(t *testing.T) {
	tests := []struct {
		name      string
		width     int
		wantInput int
	}{
		{"wide", 100, 100 - len("Ask") - 8},
		{"narrow clamps", 10, minInputWidth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPrompt(nil, "Ask", "")

			p.SetWidth(tt.width)

			assert.Equal(t, tt.width, p.Width())
			assert.Equal(t, tt.wantInput, p.textinput.Width)
		})
	}
}
