package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import [url]",
	Short: "Download a PDF by URL and load it",
	Long: `Downloads a PDF from Google Drive, a GitHub blob link or any https URL and
loads it like an upload.

Examples:
  studymate import https://drive.google.com/file/d/1AbC/view
  studymate import https://github.com/owner/repo/blob/main/notes.pdf
  studymate import https://example.com/paper.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if importService == nil {
			return errors.New("import service not configured")
		}
		return importAndReport(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func importAndReport(cmd *cobra.Command, ref string) error {
	summary, err := importService.Import(commandContext(cmd), ref, progressPrinter(cmd.ErrOrStderr()))
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	cmd.Printf("Imported %s from %s: %d page(s), %d chunk(s)\n",
		summary.Filename, summary.Source, summary.Pages, summary.ChunkCount)
	return nil
}
