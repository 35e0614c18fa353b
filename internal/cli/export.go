// internal/cli/export.go
package benchboard

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mwiater/benchboard/internal/logging"
	"github.com/mwiater/benchboard/internal/report"
	"github.com/spf13/cobra"
)

// exportCmd implements 'export', which writes one leaderboard view as JSON,
// YAML, Markdown or CSV.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a leaderboard view as json, yaml, markdown or csv",
	Long:  `The 'export' command writes one leaderboard view to a file, or to stdout when --out is empty or "-". Values are rounded to two decimals and baselines carry no rank.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rawFormat, _ := cmd.Flags().GetString("format")
		format, err := report.ParseFormat(rawFormat)
		if err != nil {
			return err
		}
		rawView, _ := cmd.Flags().GetString("view")
		cfg, table, err := buildTable(cmd.Context(), rawView)
		if err != nil {
			return err
		}
		titles := report.Titles(*cfg, table.Benchmarks)

		out, _ := cmd.Flags().GetString("out")
		if out == "" || out == "-" {
			return report.Export(cmd.OutOrStdout(), table, format, titles)
		}

		if dir := filepath.Dir(out); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		if err := report.Export(f, table, format, titles); err != nil {
			f.Close()
			return fmt.Errorf("export %s: %w", out, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		logging.LogStage("export", "view", table.View, "format", format, "file", out)
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s, %s)\n", out, table.View, format)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("format", string(report.FormatJSON), "output format: json, yaml, markdown or csv")
	exportCmd.Flags().String("view", "average", `view to export: "average", "model:<key>" or "benchmark:<key>"`)
	exportCmd.Flags().StringP("out", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(exportCmd)
}
