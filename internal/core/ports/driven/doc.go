// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - TextExtractor: Turns PDF bytes into per-page text
//   - Chunker: Splits text into overlapping chunks
//   - Similarity: Prepares chunk representations and scores queries
//   - Index: Holds chunks of all loaded documents and retrieves top-k
//   - DocumentStore: Session registry of loaded documents
//   - LLMService: Text generation for answers and quizzes
//   - ConfigStore / PromptStore: Configuration and prompt templates
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingService: Required only in dense retrieval mode.
//   - HistoryStore: Quiz results and chat transcripts. Disabled when nil.
//   - MaterialFetcher / ClassroomSource: Remote material import.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
