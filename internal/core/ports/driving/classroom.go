package driving

import (
	"context"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

// ClassroomService browses Google Classroom and imports its materials.
type ClassroomService interface {
	// Courses lists the user's active courses.
	Courses(ctx context.Context) ([]domain.Course, error)

	// CourseWork lists coursework of a course.
	CourseWork(ctx context.Context, courseID string) ([]domain.CourseItem, error)

	// Materials lists course material posts of a course.
	Materials(ctx context.Context, courseID string) ([]domain.CourseItem, error)

	// Announcements lists announcements of a course.
	Announcements(ctx context.Context, courseID string) ([]domain.CourseItem, error)

	// PostQuiz publishes a quiz as an assignment.
	PostQuiz(ctx context.Context, courseID string, quiz *domain.Quiz) (string, error)
}

// ImportService fetches remote materials and feeds them to Upload unchanged.
type ImportService interface {
	// Import downloads a material by URL (Drive, GitHub or plain HTTPS).
	Import(ctx context.Context, ref string, progress ProgressFunc) (*domain.DocumentSummary, error)
}
