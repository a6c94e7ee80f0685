// Package similarity groups the retrieval strategies. Exactly one of
// lexical or dense is selected at configuration time and injected into
// the index; retrieval code never branches on the mode.
package similarity
