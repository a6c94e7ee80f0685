package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/studymate/internal/adapters/driving/tui"
	"github.com/custodia-labs/studymate/internal/logger"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface.

The TUI keeps one session open: upload PDFs from the Documents screen, ask
questions in Chat and take quizzes in Quiz.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Ask / Select
  ctrl+e   - Export chat or quiz results
  Esc      - Back
  ctrl+c   - Quit`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().String("watch", "", "upload PDFs dropped into this directory")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	watchDir, err := cmd.Flags().GetString("watch")
	if err != nil {
		return fmt.Errorf("getting watch flag: %w", err)
	}

	ports := tui.NewPorts(documentService, askService, quizService)
	ports.History = historyService
	ports.Settings = settingsService
	ports.Import = importService

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	ctx := commandContext(cmd)
	stop, err := startWatcher(ctx, watchDir)
	if err != nil {
		return err
	}
	defer stop()

	// Log lines would corrupt the alternate screen.
	logger.SetOutput(io.Discard)

	if err := app.WithContext(ctx).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// startWatcher runs the folder watcher on dir until the returned stop
// function is called. An empty dir starts nothing.
func startWatcher(ctx context.Context, dir string) (func(), error) {
	if dir == "" {
		return func() {}, nil
	}
	if folderWatcher == nil {
		return nil, errNoWatcher
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := folderWatcher.Run(ctx, dir); err != nil && ctx.Err() == nil {
			logger.Warn("folder watcher stopped: %v", err)
		}
	}()

	return func() {
		cancel()
		<-done
	}, nil
}
