package mcp

import (
	"github.com/custodia-labs/studymate/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server calls into.
type Ports struct {
	Document driving.DocumentService
	Ask      driving.AskService
	Quiz     driving.QuizService

	// Import is optional; import_material fails without it.
	Import driving.ImportService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	switch {
	case p.Document == nil:
		return ErrMissingDocumentService
	case p.Ask == nil:
		return ErrMissingAskService
	case p.Quiz == nil:
		return ErrMissingQuizService
	}
	return nil
}
