package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driving"
)

var (
	quizCount       int
	quizDifficulty  string
	quizLanguage    string
	quizJSON        bool
	quizAnswers     string
	quizInteractive bool
	quizExport      string
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Generate a multiple-choice quiz from the loaded PDFs",
	Long: `Generates a quiz from passages sampled across the loaded PDFs.

Answer it interactively with --interactive, or score answers given as
"1-A, 2-B, 3-C" with --answers. Scored results are kept in the history
when history.enabled is true.`,
	Args: cobra.NoArgs,
	RunE: runQuiz,
}

func init() {
	addQuizFlags(quizCmd)
	quizCmd.Flags().BoolVar(&quizJSON, "json", false, "output the quiz as JSON")
	quizCmd.Flags().StringVarP(&quizAnswers, "answers", "a", "", `answers to score, e.g. "1-A, 2-C"`)
	quizCmd.Flags().BoolVarP(&quizInteractive, "interactive", "i", false, "answer the quiz on the terminal")
	quizCmd.Flags().StringVar(&quizExport, "export", "", "write the scored result as JSON to this file")
	rootCmd.AddCommand(quizCmd)
}

func addQuizFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&quizCount, "count", "n", 5, "number of questions")
	cmd.Flags().StringVarP(&quizDifficulty, "difficulty", "d", string(domain.DifficultyMedium), "easy, medium or hard")
	cmd.Flags().StringVarP(&quizLanguage, "language", "l", "", "quiz language (name or ISO code)")
}

func runQuiz(cmd *cobra.Command, _ []string) error {
	quiz, err := generateQuiz(cmd)
	if err != nil {
		return err
	}

	if quizJSON {
		if err := printJSON(cmd, quiz); err != nil {
			return err
		}
	} else {
		printQuiz(cmd, quiz, !quizInteractive && quizAnswers == "")
	}

	var answers map[int]string
	switch {
	case quizAnswers != "":
		answers, err = ParseAnswers(quizAnswers, len(quiz.Questions))
		if err != nil {
			return err
		}
	case quizInteractive:
		answers = promptAnswers(cmd, bufio.NewReader(cmd.InOrStdin()), quiz)
	default:
		return nil
	}

	result, err := quizService.Score(commandContext(cmd), quiz, answers)
	if err != nil {
		return fmt.Errorf("scoring failed: %w", err)
	}
	printResult(cmd, quiz, result)

	if quizExport != "" {
		return exportResult(cmd, quiz, result, quizExport)
	}
	return nil
}

// generateQuiz runs the generator with the quiz flags. A partial quiz is
// returned with a warning on stderr.
func generateQuiz(cmd *cobra.Command) (*domain.Quiz, error) {
	if quizService == nil {
		return nil, errors.New("quiz service not configured")
	}

	quiz, err := quizService.Generate(commandContext(cmd), driving.QuizRequest{
		Count:      quizCount,
		Difficulty: domain.Difficulty(strings.ToLower(quizDifficulty)),
		Language:   quizLanguage,
	})
	var partial *domain.PartialQuizWarning
	switch {
	case errors.As(err, &partial) && quiz != nil:
		cmd.PrintErrf("Warning: %v\n", partial)
	case err != nil:
		return nil, fmt.Errorf("quiz generation failed: %w", err)
	}
	return quiz, nil
}

func printQuiz(cmd *cobra.Command, quiz *domain.Quiz, withAnswers bool) {
	cmd.Printf("Quiz (%s, %s): %d question(s)\n\n", quiz.Difficulty, quiz.Language, len(quiz.Questions))
	for i, q := range quiz.Questions {
		cmd.Printf("%d. %s\n", i+1, q.Question)
		for _, label := range q.SortedLabels() {
			cmd.Printf("   %s) %s\n", label, q.Options[label])
		}
		if withAnswers {
			cmd.Printf("   Answer: %s\n", q.Correct)
		}
		cmd.Println()
	}
}

func promptAnswers(cmd *cobra.Command, reader *bufio.Reader, quiz *domain.Quiz) map[int]string {
	answers := make(map[int]string, len(quiz.Questions))
	for i, q := range quiz.Questions {
		cmd.Printf("Answer for %d [%s]: ", i+1, strings.Join(q.SortedLabels(), "/"))
		input, err := reader.ReadString('\n')
		if answer := strings.ToUpper(strings.TrimSpace(input)); answer != "" {
			answers[i] = answer
		}
		if err != nil {
			cmd.Println()
			break
		}
	}
	return answers
}

func printResult(cmd *cobra.Command, quiz *domain.Quiz, result *domain.QuizResult) {
	cmd.Println()
	for i, q := range quiz.Questions {
		given := result.Answers[i]
		mark := "✗"
		if strings.EqualFold(given, q.Correct) {
			mark = "✓"
		}
		if given == "" {
			given = "-"
		}
		cmd.Printf("  %s %d. you: %s  correct: %s\n", mark, i+1, given, q.Correct)
	}
	cmd.Printf("\nScore: %d/%d (%.2f%%)\n", result.Score, result.Total, result.Percentage)
}

func exportResult(cmd *cobra.Command, quiz *domain.Quiz, result *domain.QuizResult, path string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}
	return writeJSONFile(cmd, path, historyService.ExportQuiz(quiz, result))
}

// ParseAnswers reads answers in "1-A, 2-B" form into a map keyed by
// zero-based question index.
func ParseAnswers(s string, questions int) (map[int]string, error) {
	answers := make(map[int]string)
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == ';' }) {
		num, label, ok := strings.Cut(part, "-")
		if !ok {
			return nil, fmt.Errorf("invalid answer %q: want NUMBER-LETTER", part)
		}
		n, err := strconv.Atoi(num)
		if err != nil || n < 1 || n > questions {
			return nil, fmt.Errorf("invalid answer %q: question number must be 1-%d", part, questions)
		}
		answers[n-1] = strings.ToUpper(strings.TrimSpace(label))
	}
	return answers, nil
}

func writeJSONFile(cmd *cobra.Command, path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := encodeJSON(f, v); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	cmd.Printf("Exported to %s\n", path)
	return nil
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
