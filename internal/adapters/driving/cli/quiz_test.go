package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

func TestParseAnswers(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		questions int
		want      map[int]string
		wantErr   string
	}{
		{
			name:      "comma separated",
			input:     "1-A, 2-c",
			questions: 2,
			want:      map[int]string{0: "A", 1: "C"},
		},
		{
			name:      "semicolons and spaces",
			input:     "1-B;3-D 2-a",
			questions: 3,
			want:      map[int]string{0: "B", 1: "A", 2: "D"},
		},
		{
			name:      "empty",
			input:     "",
			questions: 3,
			want:      map[int]string{},
		},
		{
			name:      "missing dash",
			input:     "1A",
			questions: 2,
			wantErr:   "want NUMBER-LETTER",
		},
		{
			name:      "question out of range",
			input:     "3-A",
			questions: 2,
			wantErr:   "question number must be 1-2",
		},
		{
			name:      "non numeric question",
			input:     "x-A",
			questions: 2,
			wantErr:   "question number must be 1-2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAnswers(tt.input, tt.questions)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuizCmd_Flags(t *testing.T) {
	count := quizCmd.Flags().Lookup("count")
	require.NotNil(t, count)
	assert.Equal(t, "n", count.Shorthand)
	assert.Equal(t, "5", count.DefValue)

	difficulty := quizCmd.Flags().Lookup("difficulty")
	require.NotNil(t, difficulty)
	assert.Equal(t, "medium", difficulty.DefValue)

	for _, name := range []string{"language", "json", "answers", "interactive", "export"} {
		assert.NotNil(t, quizCmd.Flags().Lookup(name), name)
	}
}

func TestQuizCmd_PrintsQuizWithAnswers(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := runCommand(t, "quiz", "-n", "2", "-d", "HARD", "-l", "fr")

	require.NoError(t, err)
	assert.Equal(t, 2, ts.quiz.request.Count)
	assert.Equal(t, domain.DifficultyHard, ts.quiz.request.Difficulty)
	assert.Equal(t, "fr", ts.quiz.request.Language)
	assert.Contains(t, out, "1. What organelle produces ATP?")
	assert.Contains(t, out, "   B) Mitochondrion")
	assert.Contains(t, out, "   Answer: B")
	assert.Nil(t, ts.quiz.answers, "nothing is scored without answers")
}

func TestQuizCmd_ScoresAnswers(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := runCommand(t, "quiz", "--answers", "1-B, 2-B")

	require.NoError(t, err)
	assert.Equal(t, map[int]string{0: "B", 1: "B"}, ts.quiz.answers)
	assert.NotContains(t, out, "Answer: B")
	assert.Contains(t, out, "✓ 1. you: B  correct: B")
	assert.Contains(t, out, "✗ 2. you: B  correct: A")
	assert.Contains(t, out, "Score: 1/2 (50.00%)")
}

func TestQuizCmd_InvalidAnswers(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := runCommand(t, "quiz", "--answers", "9-A")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "question number must be 1-2")
}

func TestQuizCmd_Interactive(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := runCommandWithInput(t, "b\na\n", "quiz", "--interactive")

	require.NoError(t, err)
	assert.Contains(t, out, "Answer for 1 [A/B/C]: ")
	assert.Contains(t, out, "Answer for 2 [A/B]: ")
	assert.Contains(t, out, "Score: 2/2 (100.00%)")
}

func TestQuizCmd_InteractiveStopsAtEOF(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := runCommandWithInput(t, "B", "quiz", "-i")

	require.NoError(t, err)
	assert.Contains(t, out, "✗ 2. you: -  correct: A")
	assert.Contains(t, out, "Score: 1/2 (50.00%)")
}

func TestQuizCmd_PartialWarning(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.quiz.err = &domain.PartialQuizWarning{Requested: 5, Produced: 2}

	out, err := runCommand(t, "quiz")

	require.NoError(t, err)
	assert.Contains(t, out, "Warning:")
	assert.Contains(t, out, "produced 2 of 5 requested questions")
	assert.Contains(t, out, "What pigment absorbs light?")
}

func TestQuizCmd_GenerationError(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.quiz.quiz = nil
	ts.quiz.err = errors.New("llm unavailable")

	_, err := runCommand(t, "quiz")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "quiz generation failed: llm unavailable")
}

func TestQuizCmd_Export(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	path := filepath.Join(t.TempDir(), "result.json")

	out, err := runCommand(t, "quiz", "--answers", "1-B, 2-A", "--export", path)

	require.NoError(t, err)
	assert.Contains(t, out, "Exported to "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type": "quiz_results"`)
	assert.Contains(t, string(data), `"score": 2`)
}

func TestQuizCmd_JSON(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := runCommand(t, "quiz", "--json")

	require.NoError(t, err)
	assert.Contains(t, out, `"id": "quiz-1"`)
	assert.Contains(t, out, `"correct": "B"`)
}
