// internal/cli/generate.go
package benchboard

import (
	"fmt"
	"strings"

	"github.com/mwiater/benchboard/internal/ingest"
	"github.com/mwiater/benchboard/internal/logging"
	"github.com/spf13/cobra"
)

// generateCmd represents the 'generate' command group.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Group commands for generating data files",
	Long:  `The 'generate' command groups subcommands that produce input files for the leaderboard.`,
}

// generateScoresCmd implements 'generate scores', which builds the scores
// document from evaluation CSV exports.
var generateScoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Build the scores document from CSV exports",
	Long:  `The 'scores' subcommand reads the weights file and every configured CSV export under the ingest data directory, then writes a schema-checked scores document.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := requireConfig()
		if err != nil {
			return err
		}
		in := *cfg
		if dir, _ := cmd.Flags().GetString("dataDir"); dir != "" {
			in.Ingest.DataDir = dir
		}
		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = in.Ingest.OutputPath()
		}

		res, err := ingest.Generate(in)
		if err != nil {
			return err
		}
		if err := ingest.Write(res.Document, out); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		logging.LogStage("generate", "output", out, "agents", len(res.Loaded), "skipped", len(res.Skipped), "fallbacks", res.Fallbacks)

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Wrote %s\n", out)
		fmt.Fprintf(w, "  Agents:     %s\n", strings.Join(ingest.Agents(res.Document), ", "))
		if len(res.Skipped) > 0 {
			fmt.Fprintf(w, "  Skipped:    %s\n", strings.Join(res.Skipped, ", "))
		}
		fmt.Fprintf(w, "  Aggregates: %d\n", len(res.Document.AggregatedScores))
		fmt.Fprintf(w, "  Times:      %d\n", len(res.Document.TimeData))
		fmt.Fprintf(w, "  Fallbacks:  %d\n", res.Fallbacks)
		return nil
	},
}

func init() {
	generateScoresCmd.Flags().String("dataDir", "", "directory holding the CSV exports (overrides ingest.dataDir)")
	generateScoresCmd.Flags().String("out", "", "output path (overrides ingest.output)")
	generateCmd.AddCommand(generateScoresCmd)
	rootCmd.AddCommand(generateCmd)
}
