package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/studymate/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from user-editable files on disk.
// Prompts are loaded from a configurable directory with fallback to embedded defaults.
//
// The store uses lazy initialisation - files are only created when first accessed,
// not in the constructor. This makes testing easier and avoids unexpected I/O.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts contains embedded default prompts.
// These are used when user files don't exist and as the initial content for new files.
// Templates use Go text/template syntax.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptAnswer: `Based on the following context from uploaded documents, answer the question accurately and concisely.

Context:
{{.Context}}

Question: {{.Question}}

Provide a clear, informative answer based only on the context provided. If the context does not contain the answer, say so.
{{.LanguageDirective}}`,

	driven.PromptQuiz: `Based on the following educational content, generate {{.Count}} multiple-choice questions.

Content:
{{.Context}}

Requirements:
- {{.DifficultyInstruction}}
- Each question must have 4 options (A, B, C, D)
- Only ONE option should be correct
- Questions should test understanding of the content
- Difficulty level: {{.Difficulty}}

Return ONLY a valid JSON array in this exact format, with no additional text:
[
  {
    "question": "Question text here?",
    "options": {"A": "First option", "B": "Second option", "C": "Third option", "D": "Fourth option"},
    "correct": "A"
  }
]
{{.LanguageDirective}}
Generate {{.Count}} questions now:`,

	driven.PromptQuizRepair: `A previously generated quiz question was rejected: {{.Reason}}.

Based on the following educational content, write ONE new multiple-choice question.

Content:
{{.Context}}

Requirements:
- {{.DifficultyInstruction}}
- Exactly 4 options labelled A, B, C, D with non-empty text
- "correct" must be one of the option labels
- Difficulty level: {{.Difficulty}}
{{- if .Avoid}}
- Do not repeat any of these questions:
{{- range .Avoid}}
  * {{.}}
{{- end}}
{{- end}}

Return ONLY a single JSON object in this exact format, with no additional text:
{"question": "Question text here?", "options": {"A": "...", "B": "...", "C": "...", "D": "..."}, "correct": "A"}
{{.LanguageDirective}}`,

	driven.PromptLanguageDirective: `IMPORTANT: Respond in {{.Language}} language.`,
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.studymate/prompts/.
//
// The constructor does not perform any I/O - directory creation and
// file writes happen lazily on first Load() call.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(dir, "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
// On first call, initialises the prompt directory and creates default files.
// Returns cached value if available, otherwise loads from file.
// Falls back to embedded default if file doesn't exist.
func (s *PromptStore) Load(name string) (string, error) {
	// Ensure directory and defaults exist (lazy init)
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		// Fall back to embedded defaults if init failed
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	// Check cache first (read lock)
	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	// Load from file (no lock held during I/O)
	prompt, err := s.loadFromFile(name)
	if err != nil {
		// Fall back to embedded default
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	// Cache the result (write lock)
	// Use double-check pattern to avoid overwriting concurrent loads
	s.mu.Lock()
	if _, ok := s.cache[name]; !ok {
		s.cache[name] = prompt
	} else {
		// Another goroutine loaded it first, use their value
		prompt = s.cache[name]
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory and default files.
// Called once via sync.Once on first Load().
func (s *PromptStore) initialise() {
	// Create directory
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	// Create default prompt files (only if they don't exist)
	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	// Create README
	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

// loadFromFile reads a prompt from disk.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	path := filepath.Join(s.promptDir, name+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// createReadme writes a README file explaining the prompts directory.
func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil // Already exists or stat error (ignore)
	}

	content := `# StudyMate Prompts

This directory contains the prompt templates StudyMate sends to the language model.

## Files

- ` + "`answer.txt`" + ` - Answers a question from retrieved document excerpts
- ` + "`quiz.txt`" + ` - Generates a multiple-choice quiz as a JSON array
- ` + "`quiz_repair.txt`" + ` - Regenerates one rejected quiz question
- ` + "`language_directive.txt`" + ` - Appended when answering in a language other than English

## Customisation

Edit any file to customise the wording. Changes take effect on the next
command or after restarting the TUI. Delete a file to restore its default.

## Template Fields

Templates use Go text/template syntax, for example ` + "`{{.Question}}`" + `.
Keep the fields a template uses; the quiz templates must still ask for JSON
in the documented shape or generated quizzes will be rejected.
`
	return os.WriteFile(path, []byte(content), 0600)
}
