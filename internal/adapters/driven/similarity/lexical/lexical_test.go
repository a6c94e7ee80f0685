package lexical

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"lowercases and splits", "Photosynthesis, in PLANTS!", []string{"photosynthesis", "plants"}},
		{"drops stop words", "What is the cell wall?", []string{"cell", "wall"}},
		{"keeps digits", "World War 2 ended 1945", []string{"world", "war", "2", "ended", "1945"}},
		{"unicode letters", "Éléphant über", []string{"éléphant", "über"}},
		{"empty", "   ", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.text))
		})
	}
}

func TestTermFrequencies(t *testing.T) {
	tf := TermFrequencies("cell cell membrane")
	assert.Equal(t, map[string]int{"cell": 2, "membrane": 1}, tf)
}

func TestPrepare(t *testing.T) {
	chunks := []domain.Chunk{{Text: "Mitochondria make ATP"}, {Text: ""}}

	require.NoError(t, New().Prepare(context.Background(), chunks))

	assert.Equal(t, 1, chunks[0].Terms["atp"])
	assert.NotNil(t, chunks[1].Terms)
	assert.Empty(t, chunks[1].Terms)
}

func TestScorer(t *testing.T) {
	s := New()
	chunks := []domain.Chunk{
		{ID: 0, Text: "The mitochondria is the powerhouse of the cell."},
		{ID: 1, Text: "Rivers flow into the ocean."},
		{ID: 2, Text: "Mitochondria mitochondria produce energy for the cell cell."},
	}
	require.NoError(t, s.Prepare(context.Background(), chunks))

	score, err := s.Scorer(context.Background(), "What do mitochondria do in a cell?")
	require.NoError(t, err)

	assert.Greater(t, score(chunks[0]), 0.0)
	assert.Equal(t, 0.0, score(chunks[1]))
	assert.Greater(t, score(chunks[2]), score(chunks[0]))
}

func TestScorer_StopWordOnlyQuery(t *testing.T) {
	s := New()
	score, err := s.Scorer(context.Background(), "what is the")
	require.NoError(t, err)

	assert.Equal(t, 0.0, score(domain.Chunk{Text: "what is the answer"}))
}

func TestScorer_UnpreparedChunk(t *testing.T) {
	s := New()
	score, err := s.Scorer(context.Background(), "enzymes")
	require.NoError(t, err)

	assert.Greater(t, score(domain.Chunk{Text: "Enzymes speed up reactions"}), 0.0)
}

func TestName(t *testing.T) {
	assert.Equal(t, "lexical", New().Name())
}
