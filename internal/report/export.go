package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mwiater/benchboard/internal/leaderboard"
	"gopkg.in/yaml.v3"
)

// Format is an export encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
)

// Formats lists the supported export formats.
var Formats = []Format{FormatJSON, FormatYAML, FormatMarkdown, FormatCSV}

// ParseFormat accepts a format name or a common alias ("yml", "md").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json", "":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "csv":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unsupported format %q (want json, yaml, markdown or csv)", s)
}

// Export writes t to w. Titles maps benchmark keys to column headers for
// the tabular formats; missing keys fall back to the key.
func Export(w io.Writer, t leaderboard.Table, format Format, titles map[string]string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(t)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(t); err != nil {
			return err
		}
		return enc.Close()
	case FormatMarkdown:
		return exportMarkdown(w, t, titles)
	case FormatCSV:
		return exportCSV(w, t)
	}
	return fmt.Errorf("unsupported format %q", format)
}

func title(titles map[string]string, key string) string {
	if t, ok := titles[key]; ok && t != "" {
		return t
	}
	return key
}

func cellText(c leaderboard.TableCell) string {
	s := leaderboard.FormatScore(c.Score)
	if len(c.Fallback) > 0 {
		s += "*"
	}
	return s
}

func exportMarkdown(w io.Writer, t leaderboard.Table, titles map[string]string) error {
	header := []string{"Rank", "Agent", "Score"}
	for _, b := range t.Benchmarks {
		header = append(header, title(titles, b))
	}
	var sb strings.Builder
	sb.WriteString("| " + strings.Join(header, " | ") + " |\n")
	sep := make([]string, len(header))
	for i := range sep {
		if i == 1 {
			sep[i] = ":---"
		} else {
			sep[i] = "---:"
		}
	}
	sb.WriteString("| " + strings.Join(sep, " | ") + " |\n")

	flagged := false
	for _, r := range t.Rows {
		name := strings.ReplaceAll(r.Name, "|", "\\|")
		if r.Scaffold != "" {
			name += " (" + r.Scaffold + ")"
		}
		score := leaderboard.FormatScore(r.Score)
		if r.Std != nil {
			score += " " + leaderboard.FormatStd(r.Std)
		}
		cols := []string{leaderboard.FormatRank(r.Rank), name, score}
		for _, b := range t.Benchmarks {
			c := r.Cells[b]
			if len(c.Fallback) > 0 {
				flagged = true
			}
			cols = append(cols, cellText(c))
		}
		sb.WriteString("| " + strings.Join(cols, " | ") + " |\n")
	}
	if flagged {
		sb.WriteString("\n\\* fallback value (not stored or errored run)\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func exportCSV(w io.Writer, t leaderboard.Table) error {
	cw := csv.NewWriter(w)
	header := []string{"rank", "key", "name", "scaffold", "baseline", "score", "std"}
	for _, b := range t.Benchmarks {
		header = append(header, b, b+"_std", b+"_fallback")
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range t.Rows {
		rank := ""
		if r.Rank != nil {
			rank = leaderboard.FormatRank(r.Rank)
		}
		std := ""
		if r.Std != nil {
			std = leaderboard.FormatScore(*r.Std)
		}
		record := []string{rank, r.Key, r.Name, r.Scaffold, fmt.Sprint(r.Baseline), leaderboard.FormatScore(r.Score), std}
		for _, b := range t.Benchmarks {
			c := r.Cells[b]
			cstd := ""
			if c.Std != nil {
				cstd = leaderboard.FormatScore(*c.Std)
			}
			record = append(record, leaderboard.FormatScore(c.Score), cstd, strings.Join(c.Fallback, ";"))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
