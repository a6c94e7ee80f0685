package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

// mockClassroomSource serves fixed course data and records posted quizzes.
type mockClassroomSource struct {
	courses []domain.Course
	items   map[string][]domain.CourseItem
	posted  map[string]*domain.Quiz
	err     error
}

func (m *mockClassroomSource) Courses(_ context.Context) ([]domain.Course, error) {
	return m.courses, m.err
}

func (m *mockClassroomSource) CourseWork(_ context.Context, courseID string) ([]domain.CourseItem, error) {
	return m.items["work:"+courseID], m.err
}

func (m *mockClassroomSource) Materials(_ context.Context, courseID string) ([]domain.CourseItem, error) {
	return m.items["materials:"+courseID], m.err
}

func (m *mockClassroomSource) Announcements(_ context.Context, courseID string) ([]domain.CourseItem, error) {
	return m.items["announcements:"+courseID], m.err
}

func (m *mockClassroomSource) PostQuiz(_ context.Context, courseID string, quiz *domain.Quiz) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.posted[courseID] = quiz
	return "https://classroom.google.com/c/" + courseID + "/a/1", nil
}

func newMockClassroomSource() *mockClassroomSource {
	return &mockClassroomSource{
		courses: []domain.Course{{ID: "c1", Name: "Biology 101", State: "ACTIVE"}},
		items: map[string][]domain.CourseItem{
			"work:c1":          {{ID: "w1", Title: "Lab report"}},
			"materials:c1":     {{ID: "m1", Title: "Week 1 slides"}},
			"announcements:c1": {{ID: "a1", Title: "Exam moved"}},
		},
		posted: make(map[string]*domain.Quiz),
	}
}

func TestClassroomService_Browse(t *testing.T) {
	service := NewClassroomService(newMockClassroomSource())
	ctx := context.Background()

	courses, err := service.Courses(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Biology 101", courses[0].Name)

	work, err := service.CourseWork(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Lab report", work[0].Title)

	materials, err := service.Materials(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Week 1 slides", materials[0].Title)

	announcements, err := service.Announcements(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Exam moved", announcements[0].Title)
}

func TestClassroomService_NotLoggedIn(t *testing.T) {
	service := NewClassroomService(nil)
	ctx := context.Background()

	_, err := service.Courses(ctx)
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
	_, err = service.CourseWork(ctx, "c1")
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
	_, err = service.PostQuiz(ctx, "c1", &domain.Quiz{})
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
}

func TestClassroomService_EmptyCourseID(t *testing.T) {
	service := NewClassroomService(newMockClassroomSource())

	_, err := service.Materials(context.Background(), "  ")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestClassroomService_PostQuiz(t *testing.T) {
	source := newMockClassroomSource()
	service := NewClassroomService(source)
	quiz := &domain.Quiz{ID: "q1", Questions: []domain.QuizQuestion{
		{Question: "Q1?", Options: map[string]string{"A": "x", "B": "y"}, Correct: "A"},
	}}

	link, err := service.PostQuiz(context.Background(), "c1", quiz)

	require.NoError(t, err)
	assert.Contains(t, link, "/c/c1/")
	assert.Same(t, quiz, source.posted["c1"])
}

func TestClassroomService_PostQuiz_Rejected(t *testing.T) {
	source := newMockClassroomSource()
	service := NewClassroomService(source)

	_, err := service.PostQuiz(context.Background(), "c1", &domain.Quiz{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	source.err = errors.New("permission denied")
	_, err = service.PostQuiz(context.Background(), "c1", &domain.Quiz{Questions: []domain.QuizQuestion{{Question: "Q?"}}})
	assert.EqualError(t, err, "permission denied")
	assert.Empty(t, source.posted)
}
