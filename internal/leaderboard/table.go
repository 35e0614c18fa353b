package leaderboard

import (
	"math"
	"strconv"
)

// Round2 rounds to two decimals, half away from zero.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func round2Ptr(x *float64) *float64 {
	if x == nil {
		return nil
	}
	r := Round2(*x)
	return &r
}

// FormatScore renders a value with exactly two decimals.
func FormatScore(x float64) string {
	return strconv.FormatFloat(Round2(x), 'f', 2, 64)
}

// FormatStd renders "±x.xx", or "" when there is no std.
func FormatStd(x *float64) string {
	if x == nil {
		return ""
	}
	return "±" + FormatScore(*x)
}

// Table is the rounded, serialisable shape of a Leaderboard.
type Table struct {
	View       string     `json:"view" yaml:"view"`
	Benchmarks []string   `json:"benchmarks" yaml:"benchmarks"`
	Models     []string   `json:"models" yaml:"models"`
	Rows       []TableRow `json:"rows" yaml:"rows"`
	// Chart lists the row keys drawn in the overall chart, in table order.
	Chart []string `json:"chart" yaml:"chart"`
}

// TableRow is one rounded leaderboard row.
type TableRow struct {
	Rank        *int                 `json:"rank" yaml:"rank"`
	Key         string               `json:"key" yaml:"key"`
	Name        string               `json:"name" yaml:"name"`
	Description string               `json:"description,omitempty" yaml:"description,omitempty"`
	Scaffold    string               `json:"scaffold,omitempty" yaml:"scaffold,omitempty"`
	Baseline    bool                 `json:"baseline" yaml:"baseline"`
	OpenCode    bool                 `json:"openCode" yaml:"openCode"`
	Score       float64              `json:"score" yaml:"score"`
	Std         *float64             `json:"std" yaml:"std"`
	Precomputed bool                 `json:"precomputed,omitempty" yaml:"precomputed,omitempty"`
	Cells       map[string]TableCell `json:"benchmarks" yaml:"benchmarks"`
}

// TableCell is one rounded benchmark cell.
type TableCell struct {
	Score    float64  `json:"score" yaml:"score"`
	Std      *float64 `json:"std" yaml:"std"`
	Fallback []string `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}

// Table rounds every value to two decimals.
func (l *Leaderboard) Table() Table {
	t := Table{
		View:       l.View.String(),
		Benchmarks: append([]string(nil), l.Benchmarks...),
		Models:     append([]string(nil), l.Models...),
		Rows:       make([]TableRow, 0, len(l.Rows)),
	}
	for _, r := range l.ChartRows() {
		t.Chart = append(t.Chart, r.Agent.Key)
	}
	for _, r := range l.Rows {
		row := TableRow{
			Key:         r.Agent.Key,
			Name:        r.Agent.Name,
			Description: r.Agent.Description,
			Scaffold:    r.Agent.Scaffold,
			Baseline:    r.Agent.Baseline,
			OpenCode:    r.Agent.OpenCode,
			Score:       Round2(r.Score),
			Std:         round2Ptr(r.Std),
			Precomputed: r.Precomputed,
			Cells:       make(map[string]TableCell, len(r.Cells)),
		}
		if r.Rank != nil {
			rank := *r.Rank
			row.Rank = &rank
		}
		for b, c := range r.Cells {
			cell := TableCell{Score: Round2(c.Score), Std: round2Ptr(c.Std)}
			for _, f := range c.Fallbacks {
				cell.Fallback = append(cell.Fallback, string(f))
			}
			row.Cells[b] = cell
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// FormatRank renders a rank, or "—" for unranked baselines.
func FormatRank(rank *int) string {
	if rank == nil {
		return "—"
	}
	return strconv.Itoa(*rank)
}
