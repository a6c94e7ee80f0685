// Package mcp exposes StudyMate over the Model Context Protocol so AI
// assistants can load PDFs, ask grounded questions and run quizzes.
package mcp

import "errors"

var (
	// ErrMissingDocumentService is returned when the document service is not provided.
	ErrMissingDocumentService = errors.New("mcp: document service is required")

	// ErrMissingAskService is returned when the ask service is not provided.
	ErrMissingAskService = errors.New("mcp: ask service is required")

	// ErrMissingQuizService is returned when the quiz service is not provided.
	ErrMissingQuizService = errors.New("mcp: quiz service is required")

	// ErrUnknownQuiz is returned by score_quiz for a quiz this server did not generate.
	ErrUnknownQuiz = errors.New("unknown quiz id")

	// ErrImportUnavailable is returned by import_material when no importer is wired.
	ErrImportUnavailable = errors.New("material import is not configured")
)
