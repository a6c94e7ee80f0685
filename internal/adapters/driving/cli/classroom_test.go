package cli

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

func TestClassroomCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0)
	for _, c := range classroomCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{
		"login", "logout", "courses", "coursework", "materials",
		"announcements", "import", "post-quiz",
	}, names)
}

func TestClassroomCoursesCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.classroom.courses = []domain.Course{
		{ID: "c1", Name: "Biology", Section: "Period 2"},
		{ID: "c2", Name: "History"},
	}

	out, err := runCommand(t, "classroom", "courses")

	require.NoError(t, err)
	assert.Contains(t, out, "c1  Biology (Period 2)")
	assert.Contains(t, out, "c2  History")
}

func TestClassroomCoursesCmd_AuthRequired(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.classroom.err = fmt.Errorf("classroom: %w", domain.ErrAuthRequired)

	_, err := runCommand(t, "classroom", "courses")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
	assert.Contains(t, err.Error(), "studymate classroom login")
}

func TestClassroomCourseWorkCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	due := time.Date(2026, 5, 1, 17, 0, 0, 0, time.UTC)
	ts.classroom.items = []domain.CourseItem{{
		Title:   "Lab report",
		DueDate: &due,
		Materials: []domain.Material{
			{Kind: domain.MaterialDriveFile, Title: "lab.pdf", FileID: "f123"},
			{Kind: domain.MaterialLink, Title: "Rubric", URL: "https://example.com/rubric"},
		},
	}}

	out, err := runCommand(t, "classroom", "coursework", "c1")

	require.NoError(t, err)
	assert.Contains(t, out, "Lab report")
	assert.Contains(t, out, "Due: 2026-05-01 17:00")
	assert.Contains(t, out, "[drive] lab.pdf (id: f123)")
	assert.Contains(t, out, "[link] Rubric https://example.com/rubric")
}

func TestClassroomMaterialsCmd_Empty(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := runCommand(t, "classroom", "materials", "c1")

	require.NoError(t, err)
	assert.Contains(t, out, "Nothing posted yet.")
}

func TestClassroomImportCmd_BareFileID(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	_, err := runCommand(t, "classroom", "import", "f123")

	require.NoError(t, err)
	assert.Equal(t, "https://drive.google.com/file/d/f123/view", ts.importer.ref)
}

func TestClassroomPostQuizCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := runCommand(t, "classroom", "post-quiz", "c1", "-n", "2")

	require.NoError(t, err)
	assert.Equal(t, "c1", ts.classroom.postedTo)
	assert.Equal(t, 2, ts.quiz.request.Count)
	assert.Contains(t, out, "Posted 2 question(s) to course c1")
	assert.Contains(t, out, "https://classroom.google.com/c/c1")
}

func TestClassroomLoginCmd_NoAuth(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := runCommand(t, "classroom", "login")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "classroom.client_id")
}
