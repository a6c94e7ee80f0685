// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/studymate/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewChat is the question and answer view.
	ViewChat
	// ViewQuiz generates, takes and scores quizzes.
	ViewQuiz
	// ViewDocuments lists the loaded documents.
	ViewDocuments
	// ViewDocContent shows the pages of a document.
	ViewDocContent
	// ViewSettings is the settings configuration view.
	ViewSettings
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewChat:
		return "chat"
	case ViewQuiz:
		return "quiz"
	case ViewDocuments:
		return "documents"
	case ViewDocContent:
		return "doc_content"
	case ViewSettings:
		return "settings"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// QuestionAsked is a command to answer a question.
type QuestionAsked struct {
	Question string
}

// AnswerReceived carries an answer back to the chat.
type AnswerReceived struct {
	Question string
	Answer   *domain.Answer
	Err      error
}

// ChatExported signals the conversation was exported.
type ChatExported struct {
	Path string
	Err  error
}

// QuizGenerated carries a generated quiz. Warning is set when fewer
// questions than requested could be produced.
type QuizGenerated struct {
	Quiz    *domain.Quiz
	Warning *domain.PartialQuizWarning
	Err     error
}

// QuizScored carries the result of a submitted quiz.
type QuizScored struct {
	Result *domain.QuizResult
	Err    error
}

// QuizExported signals a scored quiz was written to disk.
type QuizExported struct {
	Path string
	Err  error
}

// DocumentsLoaded carries the loaded documents.
type DocumentsLoaded struct {
	Documents []domain.DocumentSummary
	Err       error
}

// DocumentSelected signals a document was selected for reading.
type DocumentSelected struct {
	Filename string
}

// DocumentContentLoaded carries a loaded document.
type DocumentContentLoaded struct {
	Document *domain.Document
	Err      error
}

// DocumentUploaded signals an upload or import finished.
type DocumentUploaded struct {
	Summary *domain.DocumentSummary
	Err     error
}

// DocumentDeleted signals a document was removed.
type DocumentDeleted struct {
	Filename string
	Err      error
}

// SessionCleared signals every document was dropped.
type SessionCleared struct {
	Err error
}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved signals settings were saved.
type SettingsSaved struct {
	Err error
}
