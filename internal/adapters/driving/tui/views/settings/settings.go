// Package settings provides the settings configuration view for the TUI.
package settings

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driving"
)

// ErrNoSettingsService is returned when the settings service is not configured.
var ErrNoSettingsService = errors.New("settings service not available")

// Section tracks which settings section is active.
type Section int

const (
	SectionOverview Section = iota
	SectionLLM
	SectionRetrieval
	SectionEmbedding
	SectionLanguage
)

// Overview rows, in display order.
const (
	rowLLM = iota
	rowRetrieval
	rowEmbedding
	rowLanguage
	rowHistory
	numRows
)

// Key constants for key handling.
const (
	keyUp    = "up"
	keyDown  = "down"
	keyEnter = "enter"
	keyTab   = "tab"
)

// providerPicker is a provider list with an API key field.
type providerPicker struct {
	title     string
	providers []domain.AIProvider
	models    map[domain.AIProvider]string
	apiKey    textinput.Model
	keyFocus  bool
}

func newProviderPicker(title string, providers []domain.AIProvider, models map[domain.AIProvider]string) *providerPicker {
	apiKey := textinput.New()
	apiKey.Placeholder = "Enter API key"
	apiKey.EchoMode = textinput.EchoPassword
	apiKey.CharLimit = 256
	return &providerPicker{
		title:     title,
		providers: providers,
		models:    models,
		apiKey:    apiKey,
	}
}

func (p *providerPicker) reset() {
	p.keyFocus = false
	p.apiKey.SetValue("")
	p.apiKey.Blur()
}

func (p *providerPicker) indexOf(provider domain.AIProvider) int {
	for i, candidate := range p.providers {
		if candidate == provider {
			return i
		}
	}
	return 0
}

// saveFunc persists a provider choice.
type saveFunc func(provider domain.AIProvider, model, apiKey string) error

// View is the settings configuration view.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	settings *domain.AppSettings
	err      error
	notice   string

	section  Section
	selected int

	llm       *providerPicker
	embedding *providerPicker

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles:          s,
		settingsService: settingsService,
		section:         SectionOverview,
		llm: newProviderPicker("Select LLM Provider",
			domain.AllLLMProviders(), domain.DefaultLLMModels()),
		embedding: newProviderPicker("Select Embedding Provider",
			domain.AllEmbeddingProviders(), domain.DefaultEmbeddingModels()),
	}
}

// Init initialises the view and loads settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

func (v *View) loadSettings() tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsLoaded{Err: ErrNoSettingsService}
		}
		settings, err := v.settingsService.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.settings = msg.Settings
			v.err = nil
		}
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.notice = "Saved"
		v.backToOverview()
		return v, v.loadSettings()

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.String() == "esc" {
		if v.section == SectionOverview {
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		}
		v.backToOverview()
		return v, nil
	}

	switch v.section {
	case SectionOverview:
		return v, v.handleOverviewKeys(msg)
	case SectionLLM:
		return v, v.handleProviderKeys(msg, v.llm, v.saveLLM)
	case SectionRetrieval:
		return v, v.handleListKeys(msg, len(domain.AllRetrievalModes()), func(i int) tea.Cmd {
			return v.set("retrieval.mode", domain.AllRetrievalModes()[i].String())
		})
	case SectionEmbedding:
		return v, v.handleProviderKeys(msg, v.embedding, v.saveEmbedding)
	case SectionLanguage:
		languages := domain.SupportedLanguages()
		return v, v.handleListKeys(msg, len(languages), func(i int) tea.Cmd {
			return v.set("language.default", languages[i].Name)
		})
	}

	return v, nil
}

func (v *View) handleOverviewKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case keyUp, "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < numRows-1 {
			v.selected++
		}
	case keyEnter:
		v.notice = ""
		return v.openRow(v.selected)
	}
	return nil
}

func (v *View) openRow(row int) tea.Cmd {
	if v.settings == nil {
		return nil
	}
	switch row {
	case rowLLM:
		v.section = SectionLLM
		v.selected = v.llm.indexOf(v.settings.LLM.Provider)
	case rowRetrieval:
		v.section = SectionRetrieval
		v.selected = 0
		for i, m := range domain.AllRetrievalModes() {
			if m == v.settings.Retrieval.Mode {
				v.selected = i
			}
		}
	case rowEmbedding:
		v.section = SectionEmbedding
		v.selected = v.embedding.indexOf(v.settings.Embedding.Provider)
	case rowLanguage:
		v.section = SectionLanguage
		v.selected = 0
		if lang, ok := domain.LookupLanguage(v.settings.DefaultLanguage); ok {
			for i, l := range domain.SupportedLanguages() {
				if l == lang {
					v.selected = i
				}
			}
		}
	case rowHistory:
		return v.set("history.enabled", strconv.FormatBool(!v.settings.HistoryEnabled))
	}
	return nil
}

// handleListKeys moves through a plain option list and saves on enter.
func (v *View) handleListKeys(msg tea.KeyMsg, n int, save func(int) tea.Cmd) tea.Cmd {
	switch msg.String() {
	case keyUp, "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < n-1 {
			v.selected++
		}
	case keyEnter:
		return save(v.selected)
	}
	return nil
}

func (v *View) handleProviderKeys(msg tea.KeyMsg, p *providerPicker, save saveFunc) tea.Cmd {
	provider := p.providers[v.selected]

	if p.keyFocus {
		switch msg.String() {
		case keyTab, "shift+tab":
			p.keyFocus = false
			p.apiKey.Blur()
			return nil
		case keyEnter:
			return v.saveProvider(save, provider, p.models[provider], p.apiKey.Value())
		}
		var cmd tea.Cmd
		p.apiKey, cmd = p.apiKey.Update(msg)
		return cmd
	}

	switch msg.String() {
	case keyUp, "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < len(p.providers)-1 {
			v.selected++
		}
	case keyTab:
		if provider.RequiresAPIKey() {
			p.keyFocus = true
			return p.apiKey.Focus()
		}
	case keyEnter:
		if provider.RequiresAPIKey() {
			p.keyFocus = true
			return p.apiKey.Focus()
		}
		return v.saveProvider(save, provider, p.models[provider], "")
	}
	return nil
}

func (v *View) saveLLM(provider domain.AIProvider, model, apiKey string) error {
	return v.settingsService.SetLLMProvider(provider, model, apiKey)
}

func (v *View) saveEmbedding(provider domain.AIProvider, model, apiKey string) error {
	return v.settingsService.SetEmbeddingProvider(provider, model, apiKey)
}

func (v *View) saveProvider(save saveFunc, provider domain.AIProvider, model, apiKey string) tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsSaved{Err: ErrNoSettingsService}
		}
		return messages.SettingsSaved{Err: save(provider, model, apiKey)}
	}
}

func (v *View) set(key, value string) tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsSaved{Err: ErrNoSettingsService}
		}
		return messages.SettingsSaved{Err: v.settingsService.Set(key, value)}
	}
}

func (v *View) backToOverview() {
	v.section = SectionOverview
	v.selected = 0
	v.llm.reset()
	v.embedding.reset()
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}

	if v.settings == nil {
		b.WriteString(v.styles.Muted.Render("Loading settings..."))
		return b.String()
	}

	switch v.section {
	case SectionOverview:
		b.WriteString(v.renderOverview())
	case SectionLLM:
		b.WriteString(v.renderProviderSelect(v.llm, v.settings.LLM.Provider))
	case SectionRetrieval:
		b.WriteString(v.renderRetrievalSelect())
	case SectionEmbedding:
		b.WriteString(v.renderProviderSelect(v.embedding, v.settings.Embedding.Provider))
	case SectionLanguage:
		b.WriteString(v.renderLanguageSelect())
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

func (v *View) renderOverview() string {
	var b strings.Builder

	llmValue := "Not Set"
	if v.settings.LLM.Provider != "" {
		llmValue = fmt.Sprintf("%s (%s)", v.settings.LLM.Provider.Description(), v.settings.LLM.Model)
	}

	embeddingValue := "Not Set"
	if v.settings.Embedding.Provider != "" {
		embeddingValue = fmt.Sprintf("%s (%s)", v.settings.Embedding.Provider.Description(), v.settings.Embedding.Model)
	}

	history := "Disabled"
	if v.settings.HistoryEnabled {
		history = "Enabled"
	}

	items := []struct {
		label  string
		value  string
		status string
	}{
		{label: "LLM Provider", value: llmValue, status: v.configuredStatus(v.settings.LLM.IsConfigured())},
		{label: "Retrieval Mode", value: v.settings.Retrieval.Mode.Description()},
		{label: "Embedding Provider", value: embeddingValue, status: v.embeddingStatus()},
		{label: "Default Language", value: v.settings.DefaultLanguage},
		{label: "Quiz History", value: history},
	}

	for i, item := range items {
		indicator := "  "
		if i == v.selected {
			indicator = "> "
		}

		line := fmt.Sprintf("%s%s: %s", indicator, item.label, item.value)
		if item.status != "" {
			line += " " + item.status
		}

		if i == v.selected {
			b.WriteString(v.styles.Selected.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if v.notice != "" {
		b.WriteString(v.styles.Success.Render(v.notice))
		b.WriteString("\n")
	}
	if v.settingsService != nil {
		if err := v.settingsService.Validate(); err != nil {
			b.WriteString(v.styles.Warning.Render(fmt.Sprintf("Warning: %s", err.Error())))
		} else {
			b.WriteString(v.styles.Success.Render("Configuration is valid"))
		}
	}

	return b.String()
}

func (v *View) configuredStatus(ok bool) string {
	if ok {
		return v.styles.Success.Render("[configured]")
	}
	return v.styles.Warning.Render("[needs API key]")
}

// embeddingStatus notes when lexical retrieval leaves the provider unused.
func (v *View) embeddingStatus() string {
	if !v.settings.Retrieval.Mode.RequiresEmbedding() {
		return v.styles.Muted.Render("[unused in lexical mode]")
	}
	return v.configuredStatus(v.settings.Embedding.IsConfigured())
}

// option renders one selectable line, marking the current value.
func (v *View) option(b *strings.Builder, i int, label string, current, focused bool) {
	indicator := "  "
	if i == v.selected && focused {
		indicator = "> "
	}
	mark := ""
	if current {
		mark = v.styles.Success.Render(" (current)")
	}
	line := indicator + label + mark
	if i == v.selected && focused {
		b.WriteString(v.styles.Selected.Render(line))
	} else {
		b.WriteString(v.styles.Normal.Render(line))
	}
	b.WriteString("\n")
}

func (v *View) renderRetrievalSelect() string {
	var b strings.Builder

	b.WriteString(v.styles.Subtitle.Render("Select Retrieval Mode"))
	b.WriteString("\n\n")

	for i, mode := range domain.AllRetrievalModes() {
		v.option(&b, i, mode.Description(), mode == v.settings.Retrieval.Mode, true)
		if mode.RequiresEmbedding() {
			b.WriteString(v.styles.Muted.Render("    Requires: embedding"))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (v *View) renderLanguageSelect() string {
	var b strings.Builder

	b.WriteString(v.styles.Subtitle.Render("Select Default Language"))
	b.WriteString("\n\n")

	current, _ := domain.LookupLanguage(v.settings.DefaultLanguage)
	for i, lang := range domain.SupportedLanguages() {
		v.option(&b, i, fmt.Sprintf("%s (%s)", lang.Name, lang.Code), lang == current, true)
	}

	return b.String()
}

func (v *View) renderProviderSelect(p *providerPicker, current domain.AIProvider) string {
	var b strings.Builder

	b.WriteString(v.styles.Subtitle.Render(p.title))
	b.WriteString("\n\n")

	for i, provider := range p.providers {
		v.option(&b, i, provider.Description(), provider == current, !p.keyFocus)
		if model, ok := p.models[provider]; ok {
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf("    Model: %s", model)))
			b.WriteString("\n")
		}
	}

	if p.providers[v.selected].RequiresAPIKey() {
		b.WriteString("\n")
		b.WriteString(v.styles.Normal.Render("API Key:"))
		b.WriteString("\n")
		b.WriteString(p.apiKey.View())
		b.WriteString("\n")
	}

	return b.String()
}

func (v *View) renderHelp() string {
	switch v.section {
	case SectionOverview:
		return v.styles.Help.Render("[j/k] navigate  [enter] edit  [esc] back")
	case SectionRetrieval, SectionLanguage:
		return v.styles.Help.Render("[j/k] navigate  [enter] select  [esc] back")
	case SectionLLM, SectionEmbedding:
		if v.llm.keyFocus || v.embedding.keyFocus {
			return v.styles.Help.Render("[tab] back to list  [enter] save  [esc] back")
		}
		return v.styles.Help.Render("[j/k] navigate  [tab] API key  [enter] select  [esc] back")
	default:
		return ""
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Section returns the active section.
func (v *View) Section() Section {
	return v.section
}

// Settings returns the loaded settings.
func (v *View) Settings() *domain.AppSettings {
	return v.settings
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// Reset resets the view to initial state.
func (v *View) Reset() {
	v.backToOverview()
	v.err = nil
	v.notice = ""
}
