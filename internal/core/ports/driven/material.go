package driven

import (
	"context"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

// MaterialFetcher downloads a PDF by reference so it can be uploaded unchanged.
type MaterialFetcher interface {
	// Name identifies the fetcher (e.g. "drive", "github", "web").
	Name() string

	// Supports reports whether the fetcher handles the reference.
	Supports(ref string) bool

	// Fetch downloads the material.
	Fetch(ctx context.Context, ref string) (*domain.FetchedMaterial, error)
}

// ClassroomSource lists Google Classroom content and posts quizzes.
type ClassroomSource interface {
	// Courses returns active courses where the user is a student or teacher.
	Courses(ctx context.Context) ([]domain.Course, error)

	// CourseWork returns coursework ordered by due date, newest first.
	CourseWork(ctx context.Context, courseID string) ([]domain.CourseItem, error)

	// Materials returns course material posts.
	Materials(ctx context.Context, courseID string) ([]domain.CourseItem, error)

	// Announcements returns announcements ordered by update time, newest first.
	Announcements(ctx context.Context, courseID string) ([]domain.CourseItem, error)

	// PostQuiz publishes a quiz as an assignment and returns its link.
	PostQuiz(ctx context.Context, courseID string, quiz *domain.Quiz) (string, error)
}
