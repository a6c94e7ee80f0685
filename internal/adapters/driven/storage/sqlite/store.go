package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/studymate/internal/adapters/driven/config/file"
	"github.com/custodia-labs/studymate/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.HistoryStore = (*Store)(nil)

const dbFile = "history.db"

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store records quiz results and chat exports in a SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the history database in dataDir.
// If dataDir is empty, defaults to the data directory under the StudyMate
// home ($STUDYMATE_HOME or ~/.studymate).
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := file.DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate applies every NNN_*.up.sql newer than the recorded version.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var current int
	if err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}
	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil || version <= current {
			continue
		}
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("starting migration %s: %w", name, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", name, err)
		}
	}
	return nil
}

// SaveQuizResult stores a scored attempt together with its questions.
func (s *Store) SaveQuizResult(ctx context.Context, quiz *domain.Quiz, result *domain.QuizResult) error {
	if quiz == nil || result == nil || result.ID == "" {
		return fmt.Errorf("%w: quiz result needs an id", domain.ErrInvalidInput)
	}
	questions, err := json.Marshal(quiz.Questions)
	if err != nil {
		return fmt.Errorf("marshalling questions: %w", err)
	}
	answers, err := json.Marshal(result.Answers)
	if err != nil {
		return fmt.Errorf("marshalling answers: %w", err)
	}
	createdAt := result.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO quiz_results (id, quiz_id, score, total, percentage, difficulty, language, questions, answers, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			score = excluded.score,
			total = excluded.total,
			percentage = excluded.percentage,
			answers = excluded.answers
	`, result.ID, result.QuizID, result.Score, result.Total, result.Percentage,
		string(result.Difficulty), result.Language, string(questions), string(answers), formatTime(createdAt))
	if err != nil {
		return fmt.Errorf("saving quiz result: %w", err)
	}
	return nil
}

// ListQuizResults returns the most recent results first.
func (s *Store) ListQuizResults(ctx context.Context, limit int) ([]domain.QuizResult, error) {
	if limit < 1 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, quiz_id, score, total, percentage, difficulty, language, answers, created_at
		FROM quiz_results
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying quiz results: %w", err)
	}
	defer rows.Close()

	var results []domain.QuizResult
	for rows.Next() {
		r, _, err := scanResult(rows, false)
		if err != nil {
			return nil, err
		}
		results = append(results, *r)
	}
	return results, rows.Err()
}

// GetQuizExport loads a stored result in export form.
func (s *Store) GetQuizExport(ctx context.Context, resultID string) (*domain.QuizExport, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, quiz_id, score, total, percentage, difficulty, language, answers, created_at, questions
		FROM quiz_results WHERE id = ?
	`, resultID)
	r, questions, err := scanResult(row, true)
	if err != nil {
		return nil, err
	}
	return &domain.QuizExport{
		Type:       domain.ExportTypeQuiz,
		Quiz:       questions,
		Answers:    r.Answers,
		Score:      r.Score,
		Total:      r.Total,
		Percentage: r.Percentage,
		Difficulty: r.Difficulty,
		Language:   r.Language,
		ExportedAt: time.Now(),
	}, nil
}

// SaveChat stores an exported transcript.
func (s *Store) SaveChat(ctx context.Context, export *domain.ChatExport) error {
	if export == nil || export.ID == "" {
		return fmt.Errorf("%w: chat export needs an id", domain.ErrInvalidInput)
	}
	messages, err := json.Marshal(export.Messages)
	if err != nil {
		return fmt.Errorf("marshalling messages: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO chat_exports (id, messages, total_messages, exported_at)
		VALUES (?, ?, ?, ?)
	`, export.ID, string(messages), export.TotalMessages, formatTime(export.ExportedAt))
	if err != nil {
		return fmt.Errorf("saving chat export: %w", err)
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner, withQuestions bool) (*domain.QuizResult, []domain.QuizQuestion, error) {
	var (
		r          domain.QuizResult
		difficulty string
		answers    string
		createdAt  string
		questions  string
	)
	dest := []any{&r.ID, &r.QuizID, &r.Score, &r.Total, &r.Percentage, &difficulty, &r.Language, &answers, &createdAt}
	if withQuestions {
		dest = append(dest, &questions)
	}
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("scanning quiz result: %w", err)
	}

	r.Difficulty = domain.Difficulty(difficulty)
	if err := json.Unmarshal([]byte(answers), &r.Answers); err != nil {
		return nil, nil, fmt.Errorf("unmarshalling answers: %w", err)
	}
	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing created_at: %w", err)
	}
	r.CreatedAt = t

	var qs []domain.QuizQuestion
	if withQuestions {
		if err := json.Unmarshal([]byte(questions), &qs); err != nil {
			return nil, nil, fmt.Errorf("unmarshalling questions: %w", err)
		}
	}
	return &r, qs, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
