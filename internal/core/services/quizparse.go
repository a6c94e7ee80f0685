package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

// QuizRecord is one decoded element of a quiz completion.
// Reason is empty for a well-formed question.
type QuizRecord struct {
	Index    int
	Question domain.QuizQuestion
	Reason   string
}

// Valid reports whether the record holds a well-formed question.
func (r QuizRecord) Valid() bool {
	return r.Reason == ""
}

type rawQuestion struct {
	Question string            `json:"question"`
	Options  map[string]string `json:"options"`
	Correct  string            `json:"correct"`
}

// ParseQuiz decodes a completion holding exactly one top-level JSON array of
// questions. Surrounding prose and code fences are ignored. Each element is
// decoded on its own, so one bad question does not reject the others.
func ParseQuiz(text string, maxOptions int) ([]QuizRecord, error) {
	arrays := topLevelValues(text, '[')
	switch len(arrays) {
	case 0:
		return nil, &domain.MalformedQuizError{Reason: "no JSON array in completion"}
	case 1:
	default:
		return nil, &domain.MalformedQuizError{Reason: fmt.Sprintf("%d JSON arrays in completion, expected one", len(arrays))}
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(arrays[0], &elements); err != nil {
		return nil, &domain.MalformedQuizError{Reason: "invalid JSON array: " + err.Error()}
	}
	if len(elements) == 0 {
		return nil, &domain.MalformedQuizError{Reason: "empty question array"}
	}

	records := make([]QuizRecord, len(elements))
	for i, raw := range elements {
		q, reason := decodeQuestion(raw, maxOptions)
		records[i] = QuizRecord{Index: i, Question: q, Reason: reason}
	}
	return records, nil
}

// ParseQuestion decodes a single question from a completion. A bare JSON
// object and an array holding one object are both accepted.
func ParseQuestion(text string, maxOptions int) (domain.QuizQuestion, error) {
	if arrays := topLevelValues(text, '['); len(arrays) == 1 {
		var elements []json.RawMessage
		if err := json.Unmarshal(arrays[0], &elements); err == nil && len(elements) == 1 {
			return questionOrError(elements[0], maxOptions)
		}
	}
	objects := topLevelValues(text, '{')
	if len(objects) != 1 {
		return domain.QuizQuestion{}, &domain.MalformedQuizError{
			Reason: fmt.Sprintf("expected one JSON object, found %d", len(objects)),
		}
	}
	return questionOrError(objects[0], maxOptions)
}

func questionOrError(raw json.RawMessage, maxOptions int) (domain.QuizQuestion, error) {
	q, reason := decodeQuestion(raw, maxOptions)
	if reason != "" {
		return domain.QuizQuestion{}, &domain.MalformedQuizError{Reason: reason}
	}
	return q, nil
}

// decodeQuestion decodes one question, rejecting unknown fields, and
// returns the reason it is malformed or "".
func decodeQuestion(raw json.RawMessage, maxOptions int) (domain.QuizQuestion, string) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var rq rawQuestion
	if err := dec.Decode(&rq); err != nil {
		return domain.QuizQuestion{}, "invalid question object: " + err.Error()
	}

	q := domain.QuizQuestion{
		Question: strings.TrimSpace(rq.Question),
		Options:  make(map[string]string, len(rq.Options)),
		Correct:  strings.ToUpper(strings.TrimSpace(rq.Correct)),
	}
	for label, text := range rq.Options {
		norm := strings.ToUpper(strings.TrimSpace(label))
		if _, dup := q.Options[norm]; dup {
			return q, "duplicate option label " + norm
		}
		q.Options[norm] = strings.TrimSpace(text)
	}
	if reason := q.Validate(maxOptions); reason != "" {
		return q, reason
	}
	return q, ""
}

// topLevelValues returns every JSON value starting with open that decodes
// cleanly, scanning left to right and skipping over values already found.
func topLevelValues(text string, open byte) []json.RawMessage {
	var values []json.RawMessage
	for i := 0; i < len(text); {
		j := strings.IndexByte(text[i:], open)
		if j < 0 {
			break
		}
		start := i + j
		dec := json.NewDecoder(strings.NewReader(text[start:]))
		var raw json.RawMessage
		if err := dec.Decode(&raw); err == nil {
			values = append(values, raw)
			i = start + int(dec.InputOffset())
			continue
		}
		i = start + 1
	}
	return values
}
