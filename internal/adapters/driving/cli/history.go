package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyJSON  bool
	historyOut   string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Review past quiz results",
	Long:  `Quiz results are stored in ~/.studymate/data/history.db when history.enabled is true.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent quiz results",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyExportCmd = &cobra.Command{
	Use:   "export [result-id]",
	Short: "Export a stored quiz result as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryExport,
}

func init() {
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of results")
	historyListCmd.Flags().BoolVar(&historyJSON, "json", false, "output results as JSON")
	historyExportCmd.Flags().StringVarP(&historyOut, "output", "o", "", "write to a file instead of stdout")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyExportCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	results, err := historyService.Results(commandContext(cmd), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list results: %w", err)
	}

	if historyJSON {
		return printJSON(cmd, results)
	}
	if len(results) == 0 {
		cmd.Println("No quiz results yet.")
		return nil
	}
	for _, r := range results {
		cmd.Printf("  %s  %s  %d/%d (%.2f%%)  %s, %s\n",
			r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Score, r.Total, r.Percentage, r.Difficulty, r.Language)
	}
	return nil
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	export, err := historyService.LoadQuizExport(commandContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("failed to load result: %w", err)
	}

	if historyOut != "" {
		return writeJSONFile(cmd, historyOut, export)
	}
	return printJSON(cmd, export)
}
