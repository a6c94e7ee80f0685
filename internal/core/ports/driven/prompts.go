package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a sensible default
	// or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names used throughout the application.
// Templates use Go text/template syntax with the fields listed.
const (
	// PromptAnswer grounds an answer in retrieved context.
	// Fields: .Context, .Question, .LanguageDirective.
	PromptAnswer = "answer"

	// PromptQuiz asks for a JSON array of questions.
	// Fields: .Count, .Difficulty, .DifficultyInstruction, .Context, .LanguageDirective.
	PromptQuiz = "quiz"

	// PromptQuizRepair regenerates a single question.
	// Fields: .Difficulty, .DifficultyInstruction, .Context, .LanguageDirective, .Reason, .Avoid.
	PromptQuizRepair = "quiz_repair"

	// PromptLanguageDirective is appended for non-English responses.
	// Fields: .Language.
	PromptLanguageDirective = "language_directive"
)
