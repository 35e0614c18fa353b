// internal/cli/show_leaderboard.go
package benchboard

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/mwiater/benchboard/internal/appconfig"
	"github.com/mwiater/benchboard/internal/leaderboard"
	"github.com/mwiater/benchboard/internal/report"
	"github.com/spf13/cobra"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	baselineStyle = lipgloss.NewStyle().Faint(true).Italic(true).Padding(0, 1)
	borderStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// showLeaderboardCmd implements 'show leaderboard', which prints one view
// as a terminal table.
var showLeaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Print a leaderboard view as a table",
	Long:  `The 'leaderboard' subcommand prints one leaderboard view. --view accepts "average", "model:<key>" or "benchmark:<key>".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetString("view")
		cfg, table, err := buildTable(cmd.Context(), raw)
		if err != nil {
			return err
		}
		renderLeaderboard(cmd.OutOrStdout(), table, report.Titles(*cfg, table.Benchmarks))
		return nil
	},
}

// buildTable loads the dataset and builds the rounded table for a view.
func buildTable(ctx context.Context, rawView string) (*appconfig.Config, leaderboard.Table, error) {
	view, err := leaderboard.ParseView(rawView)
	if err != nil {
		return nil, leaderboard.Table{}, err
	}
	cfg, err := requireConfig()
	if err != nil {
		return nil, leaderboard.Table{}, err
	}
	ds, err := loadDataset(ctx, cfg)
	if err != nil {
		return nil, leaderboard.Table{}, err
	}
	lb, err := leaderboard.Build(ds, view)
	if err != nil {
		return nil, leaderboard.Table{}, err
	}
	return cfg, lb.Table(), nil
}

func renderLeaderboard(w io.Writer, t leaderboard.Table, titles map[string]string) {
	headers := []string{"Rank", "Agent", "Score"}
	for _, b := range t.Benchmarks {
		headers = append(headers, titles[b])
	}

	rows := make([][]string, 0, len(t.Rows))
	flagged := false
	for _, r := range t.Rows {
		name := r.Name
		if r.Scaffold != "" {
			name += " (" + r.Scaffold + ")"
		}
		score := leaderboard.FormatScore(r.Score)
		if r.Std != nil {
			score += " " + leaderboard.FormatStd(r.Std)
		}
		row := []string{leaderboard.FormatRank(r.Rank), name, score}
		for _, b := range t.Benchmarks {
			c := r.Cells[b]
			text := leaderboard.FormatScore(c.Score)
			if len(c.Fallback) > 0 {
				text += "*"
				flagged = true
			}
			row = append(row, text)
		}
		rows = append(rows, row)
	}

	tbl := lgtable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == lgtable.HeaderRow {
				return headerStyle
			}
			if row >= 0 && row < len(t.Rows) && t.Rows[row].Baseline {
				return baselineStyle
			}
			return cellStyle
		})

	fmt.Fprintf(w, "View: %s\n", t.View)
	fmt.Fprintln(w, tbl.Render())
	if flagged {
		fmt.Fprintln(w, "* fallback value (not stored or errored run)")
	}
}

func init() {
	showLeaderboardCmd.Flags().String("view", "average", `view to print: "average", "model:<key>" or "benchmark:<key>"`)
	showCmd.AddCommand(showLeaderboardCmd)
}
