// Package lexical scores chunks by term overlap with the query.
package lexical

import (
	"context"
	"math"
	"strings"
	"unicode"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
)

// Name is the strategy name.
const Name = "lexical"

// Ensure Similarity implements the interface.
var _ driven.Similarity = (*Similarity)(nil)

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "by": {},
	"do": {}, "does": {}, "for": {}, "from": {}, "how": {}, "in": {}, "is": {}, "it": {},
	"of": {}, "on": {}, "or": {}, "that": {}, "the": {}, "this": {}, "to": {}, "was": {},
	"what": {}, "when": {}, "where": {}, "which": {}, "who": {}, "why": {}, "with": {},
}

// Similarity is the term-frequency strategy. It needs no external service.
type Similarity struct{}

// New creates a lexical similarity strategy.
func New() *Similarity {
	return &Similarity{}
}

// Name returns the strategy name.
func (s *Similarity) Name() string { return Name }

// Prepare fills the Terms map of every chunk.
func (s *Similarity) Prepare(_ context.Context, chunks []domain.Chunk) error {
	for i := range chunks {
		chunks[i].Terms = TermFrequencies(chunks[i].Text)
	}
	return nil
}

// Scorer returns a scoring function for query. The score of a chunk is
// sum over shared terms of min(tf_q, tf_c) * log(1 + tf_c), divided by the
// square root of the chunk's term count. Chunks sharing no term score 0.
func (s *Similarity) Scorer(_ context.Context, query string) (driven.ScoreFunc, error) {
	q := TermFrequencies(query)

	return func(ch domain.Chunk) float64 {
		terms := ch.Terms
		if terms == nil {
			terms = TermFrequencies(ch.Text)
		}
		if len(q) == 0 || len(terms) == 0 {
			return 0
		}

		var score float64
		length := 0
		for _, n := range terms {
			length += n
		}
		for term, tq := range q {
			tc, ok := terms[term]
			if !ok {
				continue
			}
			score += float64(min(tq, tc)) * math.Log1p(float64(tc))
		}
		if score == 0 {
			return 0
		}
		return score / math.Sqrt(float64(length))
	}, nil
}

// Tokenize lower-cases text and splits it into letter/digit runs, dropping
// stop words.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := fields[:0]
	for _, f := range fields {
		if _, stop := stopWords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// TermFrequencies counts the tokens of text.
func TermFrequencies(text string) map[string]int {
	tokens := Tokenize(text)
	tf := make(map[string]int, len(tokens))
	for _, t := range tokens {
		tf[t]++
	}
	return tf
}
