package cmd

import (
	"github.com/Felixhuangsiling/front-pfee/internal/version"
	"github.com/spf13/cobra"
)

var cmdVersion = &cobra.Command{
	Use:   "version",
	Short: "Print pfee version along with dependency information.",
	Run: func(_ *cobra.Command, _ []string) {
		render(version.Current())
	},
}

func init() {
	rootCmd.AddCommand(cmdVersion)
}
