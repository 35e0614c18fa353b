package leaderboard

import (
	"fmt"
	"math"
	"sort"

	"github.com/mwiater/benchboard/internal/dataset"
)

// Row is one agent's line in a leaderboard.
type Row struct {
	// Rank is nil for baselines.
	Rank  *int
	Agent dataset.Agent
	Score float64
	Std   *float64
	// Precomputed is set when Score and Std came from aggregatedScores.
	Precomputed bool
	Cells       map[string]Cell
}

// Leaderboard is the ranked result of one Build.
type Leaderboard struct {
	View View
	// Benchmarks are the columns to display. A benchmark view has exactly one.
	Benchmarks []string
	Models     []string
	Rows       []Row
}

// Build computes every agent's aggregate for view and ranks the result.
// ds is only read.
func Build(ds *dataset.Dataset, view View) (*Leaderboard, error) {
	if ds == nil {
		return nil, dataset.ErrNoData
	}

	models := ds.Models()
	columns := ds.Benchmarks()
	switch view.Kind {
	case KindModel:
		if !ds.HasModel(view.Model) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownModel, view.Model)
		}
		models = []string{view.Model}
	case KindBenchmark:
		if !ds.HasBenchmark(view.Benchmark) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownBenchmark, view.Benchmark)
		}
		columns = []string{view.Benchmark}
	case KindAverage:
	default:
		return nil, fmt.Errorf("unsupported view kind %d", view.Kind)
	}

	weights := ds.Weights()
	agents := ds.Agents()
	rows := make([]Row, 0, len(agents))
	for _, agent := range agents {
		scores, _ := ds.Scores(agent.Key)
		row := Row{Agent: agent, Cells: make(map[string]Cell, len(columns))}

		var err error
		if view.Kind == KindModel {
			row.Score, row.Std, err = modelAggregate(agent.Key, view.Model, weights, scores, ds.HasStd(agent.Key))
		} else {
			row.Score, row.Std, err = averageAggregate(agent.Key, weights, scores, models, ds.HasStd(agent.Key))
			if agg, ok := ds.Aggregate(agent.Key); ok && err == nil {
				row.Score = agg.Avg
				if agg.Std != nil {
					row.Std = agg.Std
				}
				row.Precomputed = true
			}
		}
		if err != nil {
			return nil, err
		}

		for _, b := range columns {
			cell, err := BenchmarkCell(agent.Key, b, scores, models)
			if err != nil {
				return nil, err
			}
			row.Cells[b] = cell
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Score > rows[j].Score })
	assignRanks(rows)

	return &Leaderboard{View: view, Benchmarks: columns, Models: models, Rows: rows}, nil
}

func averageAggregate(agent string, weights dataset.Weights, scores dataset.AgentScores, models []string, hasStd bool) (float64, *float64, error) {
	avg, err := WeightedAverage(agent, weights, scores, models)
	if err != nil {
		return 0, nil, err
	}
	if !hasStd {
		return avg, nil, nil
	}
	std, err := PropagatedStd(agent, weights, scores, models)
	return avg, std, err
}

func modelAggregate(agent, model string, weights dataset.Weights, scores dataset.AgentScores, hasStd bool) (float64, *float64, error) {
	sum, err := WeightedSum(agent, model, weights, scores)
	if err != nil {
		return 0, nil, err
	}
	if !hasStd {
		return sum, nil, nil
	}
	variance, ok, err := ModelVariance(agent, model, weights, scores)
	if err != nil || !ok {
		return sum, nil, err
	}
	std := math.Sqrt(variance)
	return sum, &std, nil
}

// assignRanks numbers non-baseline rows 1..n in their sorted order.
// Baselines keep their position and a nil rank.
func assignRanks(rows []Row) {
	next := 1
	for i := range rows {
		if rows[i].Agent.Baseline {
			rows[i].Rank = nil
			continue
		}
		rank := next
		rows[i].Rank = &rank
		next++
	}
}

// ChartRows returns the rows flagged for the overall chart, in table order.
func (l *Leaderboard) ChartRows() []Row {
	var out []Row
	for _, r := range l.Rows {
		if r.Agent.ShowInChart {
			out = append(out, r)
		}
	}
	return out
}

// Ranked counts the non-baseline rows.
func (l *Leaderboard) Ranked() int {
	n := 0
	for _, r := range l.Rows {
		if r.Rank != nil {
			n++
		}
	}
	return n
}
