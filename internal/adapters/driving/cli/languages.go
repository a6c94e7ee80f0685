package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

var languagesJSON bool

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List supported answer languages",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		langs := domain.SupportedLanguages()
		if languagesJSON {
			return printJSON(cmd, langs)
		}
		for _, l := range langs {
			cmd.Printf("  %-3s %s\n", l.Code, l.Name)
		}
		return nil
	},
}

func init() {
	languagesCmd.Flags().BoolVar(&languagesJSON, "json", false, "output languages as JSON")
	rootCmd.AddCommand(languagesCmd)
}
