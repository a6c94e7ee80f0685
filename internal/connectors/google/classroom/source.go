// Package classroom reads Google Classroom courses and posts generated
// quizzes as assignments.
package classroom

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/classroom/v1"

	"github.com/custodia-labs/studymate/internal/connectors/google"
	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
	"github.com/custodia-labs/studymate/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.ClassroomSource = (*Source)(nil)

const (
	activeState = "ACTIVE"
	pageSize    = 100
	// pointsPerQuestion sets the assignment's max points.
	pointsPerQuestion = 10
	titleRunes        = 100
)

// Source is a Classroom API backed material source.
type Source struct {
	svc     *classroom.Service
	limiter *google.RateLimiter
	now     func() time.Time
}

// NewSource creates a source over an authenticated Classroom service.
func NewSource(svc *classroom.Service) *Source {
	return &Source{
		svc:     svc,
		limiter: google.NewRateLimiter(google.ServiceClassroom),
		now:     time.Now,
	}
}

// Courses returns active courses where the user is enrolled as a student,
// followed by courses they teach that were not already listed. A failure
// listing taught courses is logged and ignored.
func (s *Source) Courses(ctx context.Context) ([]domain.Course, error) {
	seen := make(map[string]bool)
	var courses []domain.Course
	collect := func(resp *classroom.ListCoursesResponse) error {
		for _, c := range resp.Courses {
			if seen[c.Id] {
				continue
			}
			seen[c.Id] = true
			courses = append(courses, domain.Course{
				ID:      c.Id,
				Name:    c.Name,
				Section: c.Section,
				State:   c.CourseState,
				Link:    c.AlternateLink,
			})
		}
		return nil
	}

	if err := s.call(ctx, func() error {
		return s.svc.Courses.List().StudentId("me").CourseStates(activeState).PageSize(pageSize).Pages(ctx, collect)
	}); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}

	if err := s.call(ctx, func() error {
		return s.svc.Courses.List().TeacherId("me").CourseStates(activeState).PageSize(pageSize).Pages(ctx, collect)
	}); err != nil {
		logger.Debug("Skipping taught courses: %v", err)
	}

	logger.Debug("Found %d active course(s)", len(courses))
	return courses, nil
}

// CourseWork returns coursework ordered by due date, newest first.
func (s *Source) CourseWork(ctx context.Context, courseID string) ([]domain.CourseItem, error) {
	var items []domain.CourseItem
	err := s.call(ctx, func() error {
		return s.svc.Courses.CourseWork.List(courseID).OrderBy("dueDate desc").PageSize(pageSize).
			Pages(ctx, func(resp *classroom.ListCourseWorkResponse) error {
				for _, w := range resp.CourseWork {
					items = append(items, domain.CourseItem{
						ID:          w.Id,
						Title:       w.Title,
						Description: w.Description,
						Materials:   convertMaterials(w.Materials),
						DueDate:     dueDate(w.DueDate, w.DueTime),
						UpdatedAt:   parseTime(w.UpdateTime),
						Link:        w.AlternateLink,
					})
				}
				return nil
			})
	})
	if err != nil {
		return nil, fmt.Errorf("list coursework: %w", err)
	}
	return items, nil
}

// Materials returns course material posts.
func (s *Source) Materials(ctx context.Context, courseID string) ([]domain.CourseItem, error) {
	var items []domain.CourseItem
	err := s.call(ctx, func() error {
		return s.svc.Courses.CourseWorkMaterials.List(courseID).PageSize(pageSize).
			Pages(ctx, func(resp *classroom.ListCourseWorkMaterialResponse) error {
				for _, m := range resp.CourseWorkMaterial {
					items = append(items, domain.CourseItem{
						ID:          m.Id,
						Title:       m.Title,
						Description: m.Description,
						Materials:   convertMaterials(m.Materials),
						UpdatedAt:   parseTime(m.UpdateTime),
						Link:        m.AlternateLink,
					})
				}
				return nil
			})
	})
	if err != nil {
		return nil, fmt.Errorf("list course materials: %w", err)
	}
	return items, nil
}

// Announcements returns announcements ordered by update time, newest first.
// The title is the first line of the announcement text, or "Announcement"
// when it has none.
func (s *Source) Announcements(ctx context.Context, courseID string) ([]domain.CourseItem, error) {
	var items []domain.CourseItem
	err := s.call(ctx, func() error {
		return s.svc.Courses.Announcements.List(courseID).OrderBy("updateTime desc").PageSize(pageSize).
			Pages(ctx, func(resp *classroom.ListAnnouncementsResponse) error {
				for _, a := range resp.Announcements {
					items = append(items, domain.CourseItem{
						ID:          a.Id,
						Title:       firstLine(a.Text),
						Description: a.Text,
						Materials:   convertMaterials(a.Materials),
						UpdatedAt:   parseTime(a.UpdateTime),
						Link:        a.AlternateLink,
					})
				}
				return nil
			})
	})
	if err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	return items, nil
}

// PostQuiz publishes the quiz as an assignment and returns its link.
func (s *Source) PostQuiz(ctx context.Context, courseID string, quiz *domain.Quiz) (string, error) {
	work := &classroom.CourseWork{
		Title:       QuizTitle(s.now()),
		Description: FormatQuiz(quiz),
		WorkType:    "ASSIGNMENT",
		State:       "PUBLISHED",
		MaxPoints:   float64(pointsPerQuestion * len(quiz.Questions)),
	}

	var created *classroom.CourseWork
	err := s.call(ctx, func() error {
		var err error
		created, err = s.svc.Courses.CourseWork.Create(courseID, work).Context(ctx).Do()
		return err
	})
	if err != nil {
		return "", fmt.Errorf("create assignment: %w", err)
	}
	return created.AlternateLink, nil
}

// call waits for the rate limiter, runs fn and maps API errors. A 429
// pauses later calls.
func (s *Source) call(ctx context.Context, fn func() error) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	err := google.WrapError(fn())
	if google.IsRateLimited(err) {
		s.limiter.RecordRateLimitError(0)
	}
	return err
}

// QuizTitle names a posted quiz after the posting date.
func QuizTitle(t time.Time) string {
	return "StudyMate AI Quiz - " + t.Format("2006-01-02")
}

// FormatQuiz renders quiz questions as an assignment description students
// answer in "1-A, 2-B" form.
func FormatQuiz(quiz *domain.Quiz) string {
	var b strings.Builder
	b.WriteString("📚 StudyMate AI Generated Quiz\n\n")
	b.WriteString("Instructions: Answer the following questions and submit your responses.\n\n")
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	for i, q := range quiz.Questions {
		fmt.Fprintf(&b, "Question %d:\n%s\n\n", i+1, q.Question)
		for _, label := range q.SortedLabels() {
			fmt.Fprintf(&b, "%s) %s\n", label, q.Options[label])
		}
		b.WriteString("\n" + strings.Repeat("-", 50) + "\n\n")
	}

	b.WriteString("\n📝 Submit your answers in the format: 1-A, 2-B, 3-C, etc.\n")
	b.WriteString("\n✨ Generated by StudyMate AI Pro")
	return b.String()
}

func convertMaterials(in []*classroom.Material) []domain.Material {
	var out []domain.Material
	for _, m := range in {
		switch {
		case m.DriveFile != nil && m.DriveFile.DriveFile != nil:
			f := m.DriveFile.DriveFile
			out = append(out, domain.Material{Kind: domain.MaterialDriveFile, Title: f.Title, FileID: f.Id, URL: f.AlternateLink})
		case m.Link != nil:
			out = append(out, domain.Material{Kind: domain.MaterialLink, Title: m.Link.Title, URL: m.Link.Url})
		case m.YoutubeVideo != nil:
			out = append(out, domain.Material{Kind: domain.MaterialVideo, Title: m.YoutubeVideo.Title, URL: m.YoutubeVideo.AlternateLink})
		case m.Form != nil:
			out = append(out, domain.Material{Kind: domain.MaterialForm, Title: m.Form.Title, URL: m.Form.FormUrl})
		}
	}
	return out
}

// dueDate converts a Classroom date (and optional time of day) in UTC.
func dueDate(d *classroom.Date, t *classroom.TimeOfDay) *time.Time {
	if d == nil || d.Year == 0 {
		return nil
	}
	var hour, minute int
	if t != nil {
		hour, minute = int(t.Hours), int(t.Minutes)
	}
	due := time.Date(int(d.Year), time.Month(d.Month), int(d.Day), hour, minute, 0, 0, time.UTC)
	return &due
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func firstLine(text string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(text), "\n")
	line = strings.TrimSpace(line)
	if line == "" {
		return "Announcement"
	}
	if r := []rune(line); len(r) > titleRunes {
		return string(r[:titleRunes]) + "..."
	}
	return line
}
