// Package migrations ships the history schema with the binary.
package migrations

import "embed"

// FS holds the numbered up/down migration scripts.
//
//go:embed *.sql
var FS embed.FS
