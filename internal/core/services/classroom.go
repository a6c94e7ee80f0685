package services

import (
	"context"
	"strings"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
	"github.com/custodia-labs/studymate/internal/core/ports/driving"
	"github.com/custodia-labs/studymate/internal/logger"
)

// Ensure ClassroomService implements the interface.
var _ driving.ClassroomService = (*ClassroomService)(nil)

// ClassroomService browses Google Classroom. A nil source means no login
// has been completed and every call fails with ErrAuthRequired.
type ClassroomService struct {
	source driven.ClassroomSource
}

// NewClassroomService creates a new classroom service.
func NewClassroomService(source driven.ClassroomSource) *ClassroomService {
	return &ClassroomService{source: source}
}

// Courses lists the user's active courses.
func (s *ClassroomService) Courses(ctx context.Context) ([]domain.Course, error) {
	if s.source == nil {
		return nil, domain.ErrAuthRequired
	}
	return s.source.Courses(ctx)
}

// CourseWork lists coursework of a course.
func (s *ClassroomService) CourseWork(ctx context.Context, courseID string) ([]domain.CourseItem, error) {
	if err := s.check(courseID); err != nil {
		return nil, err
	}
	return s.source.CourseWork(ctx, courseID)
}

// Materials lists course material posts of a course.
func (s *ClassroomService) Materials(ctx context.Context, courseID string) ([]domain.CourseItem, error) {
	if err := s.check(courseID); err != nil {
		return nil, err
	}
	return s.source.Materials(ctx, courseID)
}

// Announcements lists announcements of a course.
func (s *ClassroomService) Announcements(ctx context.Context, courseID string) ([]domain.CourseItem, error) {
	if err := s.check(courseID); err != nil {
		return nil, err
	}
	return s.source.Announcements(ctx, courseID)
}

// PostQuiz publishes a quiz as an assignment and returns its link.
func (s *ClassroomService) PostQuiz(ctx context.Context, courseID string, quiz *domain.Quiz) (string, error) {
	if err := s.check(courseID); err != nil {
		return "", err
	}
	if quiz == nil || len(quiz.Questions) == 0 {
		return "", domain.NewValidationError("quiz", "has no questions")
	}
	link, err := s.source.PostQuiz(ctx, courseID, quiz)
	if err != nil {
		return "", err
	}
	logger.Info("Posted quiz %s with %d question(s) to course %s", quiz.ID, len(quiz.Questions), courseID)
	return link, nil
}

func (s *ClassroomService) check(courseID string) error {
	if s.source == nil {
		return domain.ErrAuthRequired
	}
	if strings.TrimSpace(courseID) == "" {
		return domain.NewValidationError("course_id", "must not be empty")
	}
	return nil
}
