// Package quiz provides the quiz view for the TUI: choose settings,
// answer the generated questions, then review and export the score.
package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driving"
)

// Phase is the stage of a quiz session.
type Phase int

const (
	PhaseSetup Phase = iota
	PhaseGenerating
	PhaseAnswering
	PhaseScoring
	PhaseResults
)

// Setup form fields.
const (
	fieldQuestions = iota
	fieldDifficulty
	fieldLanguage
	numFields
)

const defaultCount = 5

// View walks through generating, answering and scoring a quiz.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	statusbar *status.Bar

	quizService    driving.QuizService
	historyService driving.HistoryService
	ctx            context.Context

	phase Phase

	// setup form
	field        int
	count        int
	maxQuestions int
	difficulty   int
	language     int // index into languages; 0 is the configured default
	languages    []string

	quiz    *domain.Quiz
	warning *domain.PartialQuizWarning
	current int
	answers map[int]string
	result  *domain.QuizResult

	exportDir string
	width     int
	height    int
	ready     bool
	err       error
}

// NewView creates a new quiz view. historyService may be nil, which
// disables export.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	quizService driving.QuizService,
	historyService driving.HistoryService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	languages := []string{""}
	for _, l := range domain.SupportedLanguages() {
		languages = append(languages, l.Name)
	}

	return &View{
		styles:         s,
		keymap:         km,
		statusbar:      status.NewBar(s, km),
		quizService:    quizService,
		historyService: historyService,
		ctx:            context.Background(),
		count:          defaultCount,
		maxQuestions:   domain.DefaultAppSettings().Quiz.MaxQuestions,
		difficulty:     1,
		languages:      languages,
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
	return nil
}

// Update handles messages for the quiz view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.QuizGenerated:
		v.handleGenerated(msg)
		return v, nil

	case messages.QuizScored:
		v.handleScored(msg)
		return v, nil

	case messages.QuizExported:
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		v.statusbar.SetState(status.StateInfo)
		v.statusbar.SetMessage("Results exported to " + msg.Path)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		if v.phase == PhaseGenerating {
			v.phase = PhaseSetup
		}
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		if v.phase == PhaseAnswering || v.phase == PhaseResults {
			v.Reset()
			return v, nil
		}
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	switch v.phase {
	case PhaseSetup:
		return v, v.handleSetupKey(msg)
	case PhaseAnswering:
		return v, v.handleAnswerKey(msg)
	case PhaseResults:
		return v, v.handleResultsKey(msg)
	case PhaseGenerating, PhaseScoring:
	}
	return v, nil
}

func (v *View) handleSetupKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	switch {
	case keymap.Matches(key, v.keymap.Up):
		if v.field > 0 {
			v.field--
		}
	case keymap.Matches(key, v.keymap.Down):
		if v.field < numFields-1 {
			v.field++
		}
	case key == "left" || key == "h":
		v.adjust(-1)
	case key == "right" || key == "l":
		v.adjust(1)
	case msg.Type == tea.KeyEnter:
		return v.generate()
	}
	return nil
}

// adjust steps the focused setup field, clamping count and wrapping lists.
func (v *View) adjust(delta int) {
	switch v.field {
	case fieldQuestions:
		v.count = min(max(v.count+delta, 1), v.maxQuestions)
	case fieldDifficulty:
		n := len(domain.AllDifficulties())
		v.difficulty = (v.difficulty + delta + n) % n
	case fieldLanguage:
		n := len(v.languages)
		v.language = (v.language + delta + n) % n
	}
}

func (v *View) request() driving.QuizRequest {
	return driving.QuizRequest{
		Count:      v.count,
		Difficulty: domain.AllDifficulties()[v.difficulty],
		Language:   v.languages[v.language],
	}
}

func (v *View) generate() tea.Cmd {
	v.phase = PhaseGenerating
	v.err = nil
	v.statusbar.SetState(status.StateThinking)
	v.statusbar.SetMessage("Generating quiz...")

	ctx, req := v.ctx, v.request()
	return func() tea.Msg {
		if v.quizService == nil {
			return messages.ErrorOccurred{Err: ErrNoQuizService}
		}
		quiz, err := v.quizService.Generate(ctx, req)
		var warning *domain.PartialQuizWarning
		if errors.As(err, &warning) {
			return messages.QuizGenerated{Quiz: quiz, Warning: warning}
		}
		return messages.QuizGenerated{Quiz: quiz, Err: err}
	}
}

func (v *View) handleGenerated(msg messages.QuizGenerated) {
	if msg.Err != nil {
		v.phase = PhaseSetup
		v.setError(msg.Err)
		return
	}

	v.quiz = msg.Quiz
	v.warning = msg.Warning
	v.current = 0
	v.answers = make(map[int]string, len(msg.Quiz.Questions))
	v.result = nil
	v.phase = PhaseAnswering
	v.err = nil
	v.statusbar.SetState(status.StateQuiz)
	v.statusbar.SetMessage("")
}

func (v *View) handleAnswerKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	switch {
	case keymap.Matches(key, v.keymap.Next):
		if v.current < len(v.quiz.Questions)-1 {
			v.current++
		}
	case keymap.Matches(key, v.keymap.Prev):
		if v.current > 0 {
			v.current--
		}
	case msg.Type == tea.KeyEnter:
		return v.submit()
	default:
		if label, ok := v.optionLabel(key); ok {
			v.answers[v.current] = label
			if v.current < len(v.quiz.Questions)-1 {
				v.current++
			}
		}
	}
	return nil
}

// optionLabel maps a/b/c/d or 1-4 to an option label of the current question.
func (v *View) optionLabel(key string) (string, bool) {
	if len(key) != 1 {
		return "", false
	}
	label := strings.ToUpper(key)
	if key[0] >= '1' && key[0] <= '9' {
		i := int(key[0] - '1')
		if i >= len(domain.OptionLabels) {
			return "", false
		}
		label = domain.OptionLabels[i]
	}
	if _, ok := v.quiz.Questions[v.current].Options[label]; !ok {
		return "", false
	}
	return label, true
}

func (v *View) submit() tea.Cmd {
	v.phase = PhaseScoring
	v.statusbar.SetState(status.StateThinking)
	v.statusbar.SetMessage("Scoring...")

	ctx, quiz := v.ctx, v.quiz
	answers := make(map[int]string, len(v.answers))
	for i, a := range v.answers {
		answers[i] = a
	}
	return func() tea.Msg {
		result, err := v.quizService.Score(ctx, quiz, answers)
		return messages.QuizScored{Result: result, Err: err}
	}
}

func (v *View) handleScored(msg messages.QuizScored) {
	if msg.Err != nil {
		v.phase = PhaseAnswering
		v.setError(msg.Err)
		return
	}
	v.result = msg.Result
	v.phase = PhaseResults
	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetMessage("")
}

func (v *View) handleResultsKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case keymap.Matches(msg.String(), v.keymap.Export):
		return v.export()
	case msg.String() == "r", msg.Type == tea.KeyEnter:
		v.Reset()
	}
	return nil
}

func (v *View) export() tea.Cmd {
	if v.historyService == nil {
		v.setError(ErrNoHistoryService)
		return nil
	}

	export := v.historyService.ExportQuiz(v.quiz, v.result)
	path := filepath.Join(v.exportDir, fmt.Sprintf("studymate-quiz-%s.json", v.result.ID))
	return func() tea.Msg {
		data, err := json.MarshalIndent(export, "", "  ")
		if err != nil {
			return messages.QuizExported{Err: fmt.Errorf("encode export: %w", err)}
		}
		if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
			return messages.QuizExported{Err: fmt.Errorf("write export: %w", err)}
		}
		return messages.QuizExported{Path: path}
	}
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// View renders the quiz view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var body string
	switch v.phase {
	case PhaseSetup:
		body = v.renderSetup()
	case PhaseGenerating:
		body = v.styles.Muted.Render("Generating questions from your documents...")
	case PhaseAnswering, PhaseScoring:
		body = v.renderQuestion()
	case PhaseResults:
		body = v.renderResults()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		v.styles.Title.Render("Quiz"), "", body, "", v.statusbar.View())
}

func (v *View) renderSetup() string {
	language := v.languages[v.language]
	if language == "" {
		language = "Default"
	}
	rows := []struct {
		label string
		value string
	}{
		{"Questions", fmt.Sprintf("%d", v.count)},
		{"Difficulty", domain.AllDifficulties()[v.difficulty].String()},
		{"Language", language},
	}

	var b strings.Builder
	for i, row := range rows {
		line := fmt.Sprintf("%-12s < %s >", row.label, row.value)
		if i == v.field {
			b.WriteString(v.styles.Selected.Render("> " + line))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + line))
		}
		b.WriteString("\n")
	}
	if v.err != nil {
		b.WriteString("\n" + v.styles.Error.Render("Error: "+v.err.Error()) + "\n")
	}
	b.WriteString("\n" + v.styles.Help.Render("[j/k] Field  [h/l] Change  [Enter] Generate  [Esc] Back"))
	return b.String()
}

func (v *View) renderQuestion() string {
	q := v.quiz.Questions[v.current]

	var b strings.Builder
	if v.warning != nil {
		b.WriteString(v.styles.Warning.Render(v.warning.Error()) + "\n\n")
	}
	b.WriteString(v.styles.Subtitle.Render(
		fmt.Sprintf("Question %d of %d", v.current+1, len(v.quiz.Questions))))
	b.WriteString("  " + v.styles.Muted.Render(
		fmt.Sprintf("(%d answered)", len(v.answers))) + "\n\n")
	b.WriteString(lipgloss.NewStyle().Width(max(v.width-2, 20)).Render(q.Question))
	b.WriteString("\n\n")

	for _, label := range q.SortedLabels() {
		line := fmt.Sprintf("%s) %s", label, q.Options[label])
		if v.answers[v.current] == label {
			b.WriteString(v.styles.Selected.Render("> " + line))
		} else {
			b.WriteString(v.styles.Option.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n" + v.styles.Help.Render("[a-d] Answer  [h/l] Prev/Next  [Enter] Submit  [Esc] Abandon"))
	return b.String()
}

func (v *View) renderResults() string {
	var b strings.Builder
	b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("Score: %d/%d (%.1f%%)",
		v.result.Score, v.result.Total, v.result.Percentage)))
	b.WriteString("\n\n")

	for i, q := range v.quiz.Questions {
		given := v.answers[i]
		if given == "" {
			given = "-"
		}
		line := fmt.Sprintf("%d. %s  your answer: %s  correct: %s", i+1, q.Question, given, q.Correct)
		if strings.EqualFold(given, q.Correct) {
			b.WriteString(v.styles.Success.Render(line))
		} else {
			b.WriteString(v.styles.Error.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n" + v.styles.Help.Render("[ctrl+e] Export  [r] New quiz  [Esc] Back"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.statusbar.SetWidth(width)
}

// SetMaxQuestions caps the question count selectable in the setup form.
func (v *View) SetMaxQuestions(n int) {
	if n < 1 {
		return
	}
	v.maxQuestions = n
	v.count = min(v.count, n)
}

// SetDocumentCount updates the loaded document count shown in the status bar.
func (v *View) SetDocumentCount(n int) {
	v.statusbar.SetDocumentCount(n)
}

// SetExportDir sets where exported results are written.
func (v *View) SetExportDir(dir string) {
	v.exportDir = dir
}

// Reset returns to the setup form, keeping the chosen settings.
func (v *View) Reset() {
	v.phase = PhaseSetup
	v.quiz = nil
	v.warning = nil
	v.answers = nil
	v.result = nil
	v.current = 0
	v.err = nil
	v.statusbar.Clear()
}

// Phase returns the current stage.
func (v *View) Phase() Phase {
	return v.phase
}

// Quiz returns the quiz being taken, if any.
func (v *View) Quiz() *domain.Quiz {
	return v.quiz
}

// Answers returns the answers given so far keyed by question index.
func (v *View) Answers() map[int]string {
	return v.answers
}

// Result returns the scored result once submitted.
func (v *View) Result() *domain.QuizResult {
	return v.result
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}
