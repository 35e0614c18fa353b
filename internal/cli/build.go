// internal/cli/build.go
package benchboard

import (
	"fmt"

	"github.com/mwiater/benchboard/internal/logging"
	"github.com/mwiater/benchboard/internal/report"
	"github.com/spf13/cobra"
)

// buildCmd implements 'build', which renders the static leaderboard site.
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render the static leaderboard site",
	Long:  `The 'build' command loads the scores document, precomputes the average, per-model and per-benchmark views, and writes index.html plus leaderboard.json to the output directory.`,
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
		written, err := report.WriteSite(cfg.OutputPath(), site, cfg.Gzip)
		if err != nil {
			return fmt.Errorf("write site: %w", err)
		}
		for _, path := range written {
			logging.LogStage("build", "file", path)
			fmt.Fprintf(cmd.OutOrStdout(), "  -> %s\n", path)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Built %d views for %d agents.\n", len(site.Views), len(site.Average().Rows))
		return nil
	},
}

func init() {
	buildCmd.Flags().Bool("gzip", false, "also write precompressed .gz files")
	bindBuildFlags()
	rootCmd.AddCommand(buildCmd)
}

func bindBuildFlags() {
	_ = vp.BindPFlag("gzip", buildCmd.Flags().Lookup("gzip"))
}
