package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driving"
)

var (
	uploadJSON    bool
	documentsJSON bool
)

var uploadCmd = &cobra.Command{
	Use:   "upload [file...]",
	Short: "Load PDFs and report what was extracted",
	Long: `Extracts, chunks and indexes each PDF, then prints a summary.

Uploads only last for the current process; use --pdf with ask or quiz, or
the tui, to work with the loaded documents.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "Manage loaded documents",
	Long:  `List or remove documents loaded into the session with --pdf.`,
}

var documentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List loaded documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentsList,
}

var documentsDeleteCmd = &cobra.Command{
	Use:   "delete [filename]",
	Short: "Remove a loaded document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentsDelete,
}

func init() {
	uploadCmd.Flags().BoolVar(&uploadJSON, "json", false, "output summaries as JSON")
	documentsListCmd.Flags().BoolVar(&documentsJSON, "json", false, "output documents as JSON")

	documentsCmd.AddCommand(documentsListCmd)
	documentsCmd.AddCommand(documentsDeleteCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(documentsCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	ctx := commandContext(cmd)
	progress := progressPrinter(cmd.ErrOrStderr())

	summaries := make([]domain.DocumentSummary, 0, len(args))
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		summary, err := documentService.Upload(ctx, driving.UploadRequest{
			Filename: filepath.Base(path),
			Data:     data,
			Source:   domain.SourceUpload,
		}, progress)
		if err != nil {
			return fmt.Errorf("upload failed: %w", err)
		}
		summaries = append(summaries, *summary)
	}

	if uploadJSON {
		return printJSON(cmd, summaries)
	}
	for _, s := range summaries {
		cmd.Printf("Loaded %s: %d page(s), %d chunk(s)\n", s.Filename, s.Pages, s.ChunkCount)
	}
	return nil
}

func runDocumentsList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docs, err := documentService.List(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if documentsJSON {
		return printJSON(cmd, docs)
	}
	if len(docs) == 0 {
		cmd.Println("No documents loaded. Use --pdf to load one.")
		return nil
	}

	cmd.Printf("Documents (%d):\n\n", len(docs))
	for _, d := range docs {
		cmd.Printf("  %s\n", d.Filename)
		cmd.Printf("    Pages: %d  Chunks: %d  Source: %s\n", d.Pages, d.ChunkCount, d.Source)
	}
	return nil
}

func runDocumentsDelete(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	if err := documentService.Delete(commandContext(cmd), args[0]); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	cmd.Printf("Removed %s\n", args[0])
	return nil
}

// progressPrinter reports upload stages on w when it is a terminal.
func progressPrinter(w io.Writer) driving.ProgressFunc {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return nil
	}
	return func(p domain.UploadProgress) {
		switch {
		case p.Stage == domain.UploadStageDone || p.Stage == domain.UploadStageFailed:
			fmt.Fprintf(w, "\r\033[K")
		case p.Total > 0:
			fmt.Fprintf(w, "\r\033[K%s: %s %d/%d", p.Filename, p.Stage, p.Current, p.Total)
		default:
			fmt.Fprintf(w, "\r\033[K%s: %s", p.Filename, p.Stage)
		}
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
