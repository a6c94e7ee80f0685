// Package cli implements the studymate command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driving"
	"github.com/custodia-labs/studymate/internal/logger"
)

// version is set at build time with -ldflags.
var version = "dev"

// ClassroomAuth performs the Google sign-in for Classroom and Drive.
type ClassroomAuth interface {
	AuthCodeURL(state, verifier, redirectURI string) string
	Exchange(ctx context.Context, code, verifier, redirectURI string) error
	IsAuthenticated() bool
	Logout() error
}

// FolderWatcher uploads PDFs dropped into a directory while it runs.
type FolderWatcher interface {
	Run(ctx context.Context, dir string) error
}

// Services holds the driving ports the commands use.
type Services struct {
	Document  driving.DocumentService
	Ask       driving.AskService
	Quiz      driving.QuizService
	Classroom driving.ClassroomService
	Import    driving.ImportService
	History   driving.HistoryService
	Settings  driving.SettingsService
	Auth      ClassroomAuth
	Watcher   FolderWatcher
	// Warnings are reported once flags are parsed (e.g. a provider fallback).
	Warnings []string
}

var (
	documentService  driving.DocumentService
	askService       driving.AskService
	quizService      driving.QuizService
	classroomService driving.ClassroomService
	importService    driving.ImportService
	historyService   driving.HistoryService
	settingsService  driving.SettingsService
	classroomAuth    ClassroomAuth
	folderWatcher    FolderWatcher
	startupWarnings  []string
)

var (
	verbose  bool
	logFile  string
	pdfPaths []string
)

var rootCmd = &cobra.Command{
	Use:   "studymate",
	Short: "Ask questions about your PDFs and quiz yourself",
	Long: `StudyMate loads PDF study material, answers questions grounded in it and
generates multiple-choice quizzes.

Documents live only for the duration of a session. One-shot commands load
the files given with --pdf first; the tui and mcp commands keep a session
open.`,
	SilenceUsage:      true,
	PersistentPreRunE: preRun,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print pipeline debug logs to stderr")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write JSON logs to a rotating file")
	rootCmd.PersistentFlags().StringArrayVar(&pdfPaths, "pdf", nil, "PDF to load before running the command (repeatable)")
}

// SetServices injects the services used by the commands.
func SetServices(s *Services) {
	documentService = s.Document
	askService = s.Ask
	quizService = s.Quiz
	classroomService = s.Classroom
	importService = s.Import
	historyService = s.History
	settingsService = s.Settings
	classroomAuth = s.Auth
	folderWatcher = s.Watcher
	startupWarnings = s.Warnings
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	defer logger.Sync() //nolint:errcheck // Best-effort flush on exit
	return rootCmd.Execute()
}

func preRun(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	logger.SetOutput(cmd.ErrOrStderr())
	if logFile != "" {
		logger.SetLogFile(logFile)
	}
	for _, w := range startupWarnings {
		cmd.PrintErrf("Warning: %s\n", w)
		logger.Warn("%s", w)
	}
	return loadPDFs(cmd.Context(), cmd, pdfPaths)
}

// loadPDFs uploads each path into the session.
func loadPDFs(ctx context.Context, cmd *cobra.Command, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	if documentService == nil {
		return errors.New("document service not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("reading %s: %w", p, err)
		}
		summary, err := documentService.Upload(ctx, driving.UploadRequest{
			Filename: filepath.Base(p),
			Data:     data,
			Source:   domain.SourceUpload,
		}, nil)
		if err != nil {
			return fmt.Errorf("loading %s: %w", p, err)
		}
		logger.Info("Loaded %s (%d pages, %d chunks)", summary.Filename, summary.Pages, summary.ChunkCount)
	}
	return nil
}

// commandContext returns the command's context or a background one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
