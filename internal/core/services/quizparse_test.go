package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

const validQuestionJSON = `{"question": "What absorbs light?", "options": {"A": "Chlorophyll", "B": "Water", "C": "Oxygen", "D": "Glucose"}, "correct": "A"}`

func TestParseQuiz_Valid(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"bare array", "[" + validQuestionJSON + "]"},
		{"code fence", "```json\n[" + validQuestionJSON + "]\n```"},
		{"surrounding prose", "Here is your quiz:\n[" + validQuestionJSON + "]\nGood luck!"},
		{"bracketed prose before", "[Note] the quiz follows\n[" + validQuestionJSON + "]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := ParseQuiz(tt.text, domain.DefaultMaxOptions)

			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.True(t, records[0].Valid())
			assert.Equal(t, "What absorbs light?", records[0].Question.Question)
			assert.Equal(t, "A", records[0].Question.Correct)
			assert.Len(t, records[0].Question.Options, 4)
		})
	}
}

func TestParseQuiz_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		reason string
	}{
		{"no array", "I cannot help with that.", "no JSON array"},
		{"single object", validQuestionJSON, "no JSON array"},
		{"two arrays", "[" + validQuestionJSON + "] and [" + validQuestionJSON + "]", "2 JSON arrays"},
		{"empty array", "[]", "empty question array"},
		{"truncated", "[" + validQuestionJSON + ", {\"question\": ", "no JSON array"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseQuiz(tt.text, domain.DefaultMaxOptions)

			var malformed *domain.MalformedQuizError
			require.ErrorAs(t, err, &malformed)
			assert.Contains(t, malformed.Reason, tt.reason)
			assert.ErrorIs(t, err, domain.ErrMalformedOutput)
		})
	}
}

func TestParseQuiz_PerRecordReasons(t *testing.T) {
	text := `[
		` + validQuestionJSON + `,
		{"question": "Extra field?", "options": {"A": "x", "B": "y"}, "correct": "A", "explanation": "nope"},
		{"question": "Bad answer?", "options": {"A": "x", "B": "y"}, "correct": "E"},
		{"question": "", "options": {"A": "x", "B": "y"}, "correct": "A"},
		{"question": "One option?", "options": {"A": "x"}, "correct": "A"},
		{"question": "Too many?", "options": {"A": "1", "B": "2", "C": "3", "D": "4", "E": "5"}, "correct": "A"},
		"just a string"
	]`

	records, err := ParseQuiz(text, domain.DefaultMaxOptions)
	require.NoError(t, err)
	require.Len(t, records, 7)

	assert.True(t, records[0].Valid())
	for i, want := range []string{
		"unknown field",
		"correct label E is not an option",
		"empty question text",
		"fewer than 2 options",
		"too many options",
		"invalid question object",
	} {
		r := records[i+1]
		assert.False(t, r.Valid(), "record %d", r.Index)
		assert.Equal(t, i+1, r.Index)
		assert.Contains(t, r.Reason, want)
	}
}

func TestParseQuiz_NormalisesLabels(t *testing.T) {
	text := `[{"question": " Which? ", "options": {"a": " one ", "b": "two"}, "correct": " b "}]`

	records, err := ParseQuiz(text, domain.DefaultMaxOptions)

	require.NoError(t, err)
	require.True(t, records[0].Valid(), records[0].Reason)
	q := records[0].Question
	assert.Equal(t, "Which?", q.Question)
	assert.Equal(t, map[string]string{"A": "one", "B": "two"}, q.Options)
	assert.Equal(t, "B", q.Correct)
}

func TestParseQuiz_RejectsLabelsEqualAfterNormalising(t *testing.T) {
	tests := []struct {
		name    string
		options string
	}{
		{"case", `{"a": "one", "A": "two", "B": "three"}`},
		{"whitespace", `{"A": "one", " A ": "two", "B": "three"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := `[{"question": "Q?", "options": ` + tt.options + `, "correct": "A"}]`

			records, err := ParseQuiz(text, domain.DefaultMaxOptions)

			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.False(t, records[0].Valid())
			assert.Equal(t, "duplicate option label A", records[0].Reason)
		})
	}
}

func TestParseQuiz_MaxOptions(t *testing.T) {
	records, err := ParseQuiz("["+validQuestionJSON+"]", 3)

	require.NoError(t, err)
	assert.Contains(t, records[0].Reason, "too many options")
}

func TestParseQuestion(t *testing.T) {
	t.Run("object", func(t *testing.T) {
		q, err := ParseQuestion("Sure!\n"+validQuestionJSON, domain.DefaultMaxOptions)
		require.NoError(t, err)
		assert.Equal(t, "What absorbs light?", q.Question)
	})

	t.Run("array of one", func(t *testing.T) {
		q, err := ParseQuestion("["+validQuestionJSON+"]", domain.DefaultMaxOptions)
		require.NoError(t, err)
		assert.Equal(t, "A", q.Correct)
	})

	t.Run("two objects", func(t *testing.T) {
		_, err := ParseQuestion(validQuestionJSON+"\n"+validQuestionJSON, domain.DefaultMaxOptions)
		assert.ErrorIs(t, err, domain.ErrMalformedOutput)
	})

	t.Run("invalid question", func(t *testing.T) {
		_, err := ParseQuestion(`{"question": "Q?", "options": {"A": "x", "B": "y"}, "correct": "C"}`, domain.DefaultMaxOptions)

		var malformed *domain.MalformedQuizError
		require.ErrorAs(t, err, &malformed)
		assert.Contains(t, malformed.Reason, "correct label C")
	})

	t.Run("no json", func(t *testing.T) {
		_, err := ParseQuestion("no idea", domain.DefaultMaxOptions)
		assert.ErrorIs(t, err, domain.ErrMalformedOutput)
	})
}
