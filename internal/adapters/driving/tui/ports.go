// Package tui provides an interactive terminal user interface for studymate.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/studymate/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Document manages the loaded documents.
	Document driving.DocumentService

	// Ask answers questions over the loaded documents.
	Ask driving.AskService

	// Quiz generates and scores quizzes.
	Quiz driving.QuizService

	// History exports conversations and quiz results. Optional.
	History driving.HistoryService

	// Settings manages application settings. Optional.
	Settings driving.SettingsService

	// Import fetches remote materials. Optional.
	Import driving.ImportService
}

// NewPorts creates a new Ports aggregate with the required services.
func NewPorts(
	document driving.DocumentService,
	ask driving.AskService,
	quiz driving.QuizService,
) *Ports {
	return &Ports{
		Document: document,
		Ask:      ask,
		Quiz:     quiz,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Document == nil {
		return ErrMissingDocumentService
	}
	if p.Ask == nil {
		return ErrMissingAskService
	}
	if p.Quiz == nil {
		return ErrMissingQuizService
	}
	return nil
}
