// Package sqlite persists quiz results and exported chat transcripts.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO. Loaded documents are never written here; the session stays in memory.
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory (NNN_name.up.sql / NNN_name.down.sql).
//
// # Data Location
//
// By default, the database is stored at ~/.studymate/data/history.db
package sqlite
