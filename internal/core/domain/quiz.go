package domain

import (
	"math"
	"sort"
	"strings"
	"time"
)

// DefaultMaxOptions is the largest number of options a question may carry.
const DefaultMaxOptions = 4

// OptionLabels are the labels questions may use, in display order.
var OptionLabels = []string{"A", "B", "C", "D"}

// Difficulty controls question complexity and distractor subtlety.
type Difficulty string

// Available difficulties.
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// IsValid returns true if the difficulty is recognised.
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (d Difficulty) String() string {
	return string(d)
}

// Instruction returns the prompt guidance for this difficulty.
func (d Difficulty) Instruction() string {
	switch d {
	case DifficultyEasy:
		return "Create straightforward questions with obvious answers."
	case DifficultyHard:
		return "Create complex questions requiring deep analysis and critical thinking."
	default:
		return "Create moderately challenging questions requiring understanding."
	}
}

// AllDifficulties returns every difficulty in ascending order.
func AllDifficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// QuizQuestion is a multiple-choice question with exactly one correct option.
type QuizQuestion struct {
	Question string            `json:"question"`
	Options  map[string]string `json:"options"`
	Correct  string            `json:"correct"`
}

// Validate checks the question invariants: a non-empty question, between two
// and maxOptions labelled options with text, and a correct label that is one
// of the options. It returns a human-readable reason or "" when valid.
func (q QuizQuestion) Validate(maxOptions int) string {
	if maxOptions < 2 || maxOptions > len(OptionLabels) {
		maxOptions = DefaultMaxOptions
	}
	if strings.TrimSpace(q.Question) == "" {
		return "empty question text"
	}
	if len(q.Options) < 2 {
		return "fewer than 2 options"
	}
	if len(q.Options) > maxOptions {
		return "too many options"
	}
	allowed := OptionLabels[:maxOptions]
	for label, text := range q.Options {
		if !containsLabel(allowed, label) {
			return "unknown option label " + label
		}
		if strings.TrimSpace(text) == "" {
			return "empty text for option " + label
		}
	}
	if _, ok := q.Options[q.Correct]; !ok {
		return "correct label " + q.Correct + " is not an option"
	}
	return ""
}

// SortedLabels returns the option labels in display order.
func (q QuizQuestion) SortedLabels() []string {
	labels := make([]string, 0, len(q.Options))
	for label := range q.Options {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

func containsLabel(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}

// Quiz is a generated set of questions.
type Quiz struct {
	ID         string              `json:"id"`
	Questions  []QuizQuestion      `json:"questions"`
	Requested  int                 `json:"requested"`
	Difficulty Difficulty          `json:"difficulty"`
	Language   string              `json:"language"`
	Warning    *PartialQuizWarning `json:"warning,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
}

// IsPartial returns true if fewer questions than requested were produced.
func (q *Quiz) IsPartial() bool {
	return q.Warning != nil
}

// QuizResult is a scored attempt at a quiz.
type QuizResult struct {
	ID         string         `json:"id"`
	QuizID     string         `json:"quiz_id"`
	Score      int            `json:"score"`
	Total      int            `json:"total"`
	Percentage float64        `json:"percentage"`
	Answers    map[int]string `json:"answers"`
	Difficulty Difficulty     `json:"difficulty"`
	Language   string         `json:"language"`
	CreatedAt  time.Time      `json:"created_at"`
}

// ScoreQuiz grades answers keyed by question index against the quiz.
func ScoreQuiz(quiz *Quiz, answers map[int]string) QuizResult {
	result := QuizResult{
		QuizID:     quiz.ID,
		Total:      len(quiz.Questions),
		Answers:    answers,
		Difficulty: quiz.Difficulty,
		Language:   quiz.Language,
		CreatedAt:  time.Now(),
	}
	for i, q := range quiz.Questions {
		if strings.EqualFold(strings.TrimSpace(answers[i]), q.Correct) {
			result.Score++
		}
	}
	result.Percentage = Percentage(result.Score, result.Total)
	return result
}

// Percentage returns score/total as a percentage rounded to two decimals.
func Percentage(score, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(score)/float64(total)*100*100) / 100
}
