// internal/cli/validate.go
package benchboard

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mwiater/benchboard/internal/dataset"
	"github.com/spf13/cobra"
)

var (
	okText   = color.New(color.FgGreen).SprintFunc()
	warnText = color.New(color.FgYellow).SprintFunc()
	failText = color.New(color.FgRed).SprintFunc()
)

// validateCmd implements 'validate', which checks the config and scores
// document without writing anything.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the config and scores document",
	Long:  `The 'validate' command validates the configuration, schema-checks the scores document, verifies every agent has a score for every model and benchmark, and reports fallback cells.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		cfg, err := requireConfig()
		if err != nil {
			fmt.Fprintf(w, "%s config: %v\n", failText("FAIL"), err)
			return err
		}
		fmt.Fprintf(w, "%s config: %d models, %d agents, %d benchmarks\n", okText("OK"), len(cfg.Models), len(cfg.Agents), len(cfg.Benchmarks))

		ds, err := loadDataset(cmd.Context(), cfg)
		if err != nil {
			fmt.Fprintf(w, "%s scores %s: %v\n", failText("FAIL"), cfg.ScoresSource(), err)
			return err
		}
		writeDatasetReport(w, cfg.ScoresSource(), ds)
		return nil
	},
}

func writeDatasetReport(w io.Writer, source string, ds *dataset.Dataset) {
	fmt.Fprintf(w, "%s scores %s: %d agents, %d models, %d benchmarks\n", okText("OK"), source, len(ds.Agents()), len(ds.Models()), len(ds.Benchmarks()))

	var sum float64
	for _, v := range ds.Weights() {
		sum += v
	}
	if sum < 0.999 || sum > 1.001 {
		fmt.Fprintf(w, "%s benchmark weights sum to %.4f\n", warnText("WARN"), sum)
	}
	if skipped := ds.Skipped(); len(skipped) > 0 {
		fmt.Fprintf(w, "%s no scores for: %s\n", warnText("WARN"), strings.Join(skipped, ", "))
	}
	if extra := ds.Extra(); len(extra) > 0 {
		fmt.Fprintf(w, "%s not in config: %s\n", warnText("WARN"), strings.Join(extra, ", "))
	}
	if cells := ds.FallbackCells(); len(cells) > 0 {
		fmt.Fprintf(w, "%s %d fallback cells:\n", warnText("WARN"), len(cells))
		for _, c := range cells {
			fmt.Fprintf(w, "    %s\n", c)
		}
	}
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
