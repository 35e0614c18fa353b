// internal/cli/show.go
package benchboard

import (
	"github.com/spf13/cobra"
)

// showCmd represents the 'show' command group for displaying resources.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Group commands for displaying resources",
	Long:  `The 'show' command groups subcommands that display the configuration or a leaderboard view in the terminal.`,
}

func init() {
	rootCmd.AddCommand(showCmd)
}
