package cli

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

func TestHistoryListCmd_Empty(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := runCommand(t, "history", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No quiz results yet.")
}

func TestHistoryListCmd_PrintsResults(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.history.results = []domain.QuizResult{
		{ID: "r2", Score: 4, Total: 5, Percentage: 80, Difficulty: domain.DifficultyHard, Language: "English", CreatedAt: time.Now()},
		{ID: "r1", Score: 1, Total: 3, Percentage: 33.33, Difficulty: domain.DifficultyEasy, Language: "Spanish", CreatedAt: time.Now()},
	}

	out, err := runCommand(t, "history", "list", "-n", "1")

	require.NoError(t, err)
	assert.Contains(t, out, "r2")
	assert.Contains(t, out, "4/5 (80.00%)  hard, English")
	assert.NotContains(t, out, "r1")
}

func TestHistoryListCmd_Error(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.history.err = errors.New("database is locked")

	_, err := runCommand(t, "history", "list")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list results")
}

func TestHistoryExportCmd_Stdout(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.history.export = &domain.QuizExport{Type: domain.ExportTypeQuiz, Score: 3, Total: 4, Percentage: 75}

	out, err := runCommand(t, "history", "export", "r1")

	require.NoError(t, err)
	assert.Contains(t, out, `"type": "quiz_results"`)
	assert.Contains(t, out, `"percentage": 75`)
}

func TestHistoryExportCmd_NotFound(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.history.err = domain.ErrNotFound

	_, err := runCommand(t, "history", "export", "missing")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHistoryCmd_NoService(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	historyService = nil

	_, err := runCommand(t, "history", "list")

	assert.EqualError(t, err, "history service not configured")
}
