// internal/cli/browse.go
package benchboard

import (
	"github.com/mwiater/benchboard/internal/report"
	"github.com/mwiater/benchboard/internal/tui"
	"github.com/spf13/cobra"
)

// startBrowser runs the interactive browser. Tests replace it.
var startBrowser = tui.Run

// browseCmd implements 'browse', which opens the leaderboard in an
// interactive terminal table.
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the leaderboard interactively",
	Long:  `The 'browse' command opens a terminal table of the leaderboard. Press m to cycle models, b to cycle benchmarks, a for the average and q to quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := requireConfig()
		if err != nil {
			return err
		}
		ds, err := loadDataset(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		site, err := report.BuildSite(*cfg, ds)
		if err != nil {
			return err
		}
		return startBrowser(cmd.Context(), site)
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
