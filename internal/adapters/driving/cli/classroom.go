package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/studymate/internal/adapters/driving/oauth"
	"github.com/custodia-labs/studymate/internal/core/domain"
)

// loginTimeout bounds the wait for the browser sign-in.
const loginTimeout = 5 * time.Minute

var (
	classroomJSON bool
	loginPort     int
	noBrowser     bool
)

var classroomCmd = &cobra.Command{
	Use:   "classroom",
	Short: "Browse Google Classroom and import its materials",
	Long: `Sign in with Google to list your courses, read coursework, materials and
announcements, import attached Drive PDFs and post generated quizzes.

The OAuth client is read from classroom.client_id and classroom.client_secret:
  studymate settings set classroom.client_id <id>
  studymate settings set classroom.client_secret <secret>`,
}

var classroomLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with Google",
	Args:  cobra.NoArgs,
	RunE:  runClassroomLogin,
}

var classroomLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored Google sign-in",
	Args:  cobra.NoArgs,
	RunE:  runClassroomLogout,
}

var classroomCoursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List your active courses",
	Args:  cobra.NoArgs,
	RunE:  runClassroomCourses,
}

var classroomCourseWorkCmd = &cobra.Command{
	Use:   "coursework [course-id]",
	Short: "List coursework, latest due date first",
	Args:  cobra.ExactArgs(1),
	RunE:  runCourseItems(func(ctx context.Context, id string) ([]domain.CourseItem, error) { return classroomService.CourseWork(ctx, id) }),
}

var classroomMaterialsCmd = &cobra.Command{
	Use:   "materials [course-id]",
	Short: "List course materials",
	Args:  cobra.ExactArgs(1),
	RunE:  runCourseItems(func(ctx context.Context, id string) ([]domain.CourseItem, error) { return classroomService.Materials(ctx, id) }),
}

var classroomAnnouncementsCmd = &cobra.Command{
	Use:   "announcements [course-id]",
	Short: "List announcements, most recently updated first",
	Args:  cobra.ExactArgs(1),
	RunE:  runCourseItems(func(ctx context.Context, id string) ([]domain.CourseItem, error) { return classroomService.Announcements(ctx, id) }),
}

var classroomImportCmd = &cobra.Command{
	Use:   "import [drive-file-id or url]",
	Short: "Import a Drive file attached to a course",
	Long: `Downloads a Drive file (Google Docs are exported as PDF) and loads it.
Accepts a Drive link or the bare file ID shown by coursework and materials.`,
	Args: cobra.ExactArgs(1),
	RunE: runClassroomImport,
}

var classroomPostQuizCmd = &cobra.Command{
	Use:   "post-quiz [course-id]",
	Short: "Generate a quiz and post it as an assignment",
	Args:  cobra.ExactArgs(1),
	RunE:  runClassroomPostQuiz,
}

func init() {
	classroomLoginCmd.Flags().IntVar(&loginPort, "port", 0, "callback port (0 picks a free port)")
	classroomLoginCmd.Flags().BoolVar(&noBrowser, "no-browser", false, "print the sign-in URL instead of opening a browser")
	classroomCmd.PersistentFlags().BoolVar(&classroomJSON, "json", false, "output as JSON")
	addQuizFlags(classroomPostQuizCmd)

	classroomCmd.AddCommand(classroomLoginCmd)
	classroomCmd.AddCommand(classroomLogoutCmd)
	classroomCmd.AddCommand(classroomCoursesCmd)
	classroomCmd.AddCommand(classroomCourseWorkCmd)
	classroomCmd.AddCommand(classroomMaterialsCmd)
	classroomCmd.AddCommand(classroomAnnouncementsCmd)
	classroomCmd.AddCommand(classroomImportCmd)
	classroomCmd.AddCommand(classroomPostQuizCmd)
	rootCmd.AddCommand(classroomCmd)
}

func runClassroomLogin(cmd *cobra.Command, _ []string) error {
	if classroomAuth == nil {
		return errors.New("classroom OAuth client not configured: set classroom.client_id and classroom.client_secret")
	}

	state, err := oauth.GenerateState()
	if err != nil {
		return err
	}
	verifier := oauth2.GenerateVerifier()

	server := oauth.NewCallbackServer(loginPort, state)
	if err := server.Start(); err != nil {
		return fmt.Errorf("starting callback server: %w", err)
	}
	defer server.Stop() //nolint:errcheck // Best-effort shutdown

	authURL := classroomAuth.AuthCodeURL(state, verifier, server.RedirectURI())
	cmd.Println("Sign in with Google to continue:")
	cmd.Printf("  %s\n\n", authURL)
	if !noBrowser {
		if err := oauth.OpenBrowser(authURL); err != nil {
			cmd.Println("Could not open a browser; open the link above manually.")
		}
	}
	cmd.Println("Waiting for sign-in...")

	ctx, cancel := context.WithTimeout(commandContext(cmd), loginTimeout)
	defer cancel()

	code, err := server.WaitForCode(ctx)
	if err != nil {
		return fmt.Errorf("sign-in failed: %w", err)
	}
	if err := classroomAuth.Exchange(ctx, code, verifier, server.RedirectURI()); err != nil {
		return fmt.Errorf("sign-in failed: %w", err)
	}

	cmd.Println("Signed in. Run 'studymate classroom courses' to list your courses.")
	return nil
}

func runClassroomLogout(cmd *cobra.Command, _ []string) error {
	if classroomAuth == nil {
		return errors.New("classroom OAuth client not configured")
	}
	if err := classroomAuth.Logout(); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}
	cmd.Println("Signed out.")
	return nil
}

func runClassroomCourses(cmd *cobra.Command, _ []string) error {
	if classroomService == nil {
		return errors.New("classroom service not configured")
	}

	courses, err := classroomService.Courses(commandContext(cmd))
	if err != nil {
		return classroomError(err)
	}

	if classroomJSON {
		return printJSON(cmd, courses)
	}
	if len(courses) == 0 {
		cmd.Println("No active courses.")
		return nil
	}
	for _, c := range courses {
		name := c.Name
		if c.Section != "" {
			name += " (" + c.Section + ")"
		}
		cmd.Printf("  %s  %s\n", c.ID, name)
	}
	return nil
}

func runCourseItems(list func(context.Context, string) ([]domain.CourseItem, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if classroomService == nil {
			return errors.New("classroom service not configured")
		}

		items, err := list(commandContext(cmd), args[0])
		if err != nil {
			return classroomError(err)
		}

		if classroomJSON {
			return printJSON(cmd, items)
		}
		if len(items) == 0 {
			cmd.Println("Nothing posted yet.")
			return nil
		}
		for _, item := range items {
			printCourseItem(cmd, item)
		}
		return nil
	}
}

func printCourseItem(cmd *cobra.Command, item domain.CourseItem) {
	cmd.Printf("  %s\n", item.Title)
	if item.DueDate != nil {
		cmd.Printf("    Due: %s\n", item.DueDate.Format("2006-01-02 15:04"))
	}
	for _, m := range item.Materials {
		switch m.Kind {
		case domain.MaterialDriveFile:
			cmd.Printf("    [drive] %s (id: %s)\n", m.Title, m.FileID)
		default:
			cmd.Printf("    [%s] %s %s\n", m.Kind, m.Title, m.URL)
		}
	}
}

func runClassroomImport(cmd *cobra.Command, args []string) error {
	if importService == nil {
		return errors.New("import service not configured")
	}

	ref := strings.TrimSpace(args[0])
	if !strings.Contains(ref, "/") {
		ref = "https://drive.google.com/file/d/" + ref + "/view"
	}
	return importAndReport(cmd, ref)
}

func runClassroomPostQuiz(cmd *cobra.Command, args []string) error {
	if classroomService == nil {
		return errors.New("classroom service not configured")
	}

	quiz, err := generateQuiz(cmd)
	if err != nil {
		return err
	}

	link, err := classroomService.PostQuiz(commandContext(cmd), args[0], quiz)
	if err != nil {
		return classroomError(err)
	}

	cmd.Printf("Posted %d question(s) to course %s\n", len(quiz.Questions), args[0])
	if link != "" {
		cmd.Printf("  %s\n", link)
	}
	return nil
}

// classroomError adds a hint to errors the user can fix by signing in.
func classroomError(err error) error {
	if errors.Is(err, domain.ErrAuthRequired) {
		return fmt.Errorf("%w (run 'studymate classroom login')", err)
	}
	return fmt.Errorf("classroom request failed: %w", err)
}
