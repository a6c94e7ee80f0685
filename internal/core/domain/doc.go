// Package domain defines the core business entities for StudyMate.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An uploaded PDF and its extracted text
//   - Chunk: A retrievable slice of a document
//   - QuizQuestion: A multiple-choice question with one correct option
//   - Answer: A grounded response with its source documents
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
