// Package leaderboard aggregates normalised benchmark scores and ranks agents.
//
// All arithmetic runs at full float64 precision. Values are rounded to two
// decimals only when a Leaderboard is shaped into a Table.
package leaderboard

import (
	"fmt"
	"math"
	"sort"

	"github.com/mwiater/benchboard/internal/dataset"
)

// WeightedSum returns Σ_b score[model][b]·weight[b] for one agent and model.
func WeightedSum(agent, model string, weights dataset.Weights, scores dataset.AgentScores) (float64, error) {
	var sum float64
	for _, b := range sortedBenchmarks(weights) {
		s, ok := scores.Lookup(model, b)
		if !ok {
			return 0, &dataset.MissingScoreError{Agent: agent, Model: model, Benchmark: b, Field: "value"}
		}
		sum += s.Value * weights[b]
	}
	return sum, nil
}

// WeightedAverage averages the per-model weighted sums over len(models).
// Weights act as multipliers within a model's profile and are not
// renormalised to sum to one.
func WeightedAverage(agent string, weights dataset.Weights, scores dataset.AgentScores, models []string) (float64, error) {
	if len(models) == 0 {
		return 0, fmt.Errorf("agent %q: no models to average", agent)
	}
	var total float64
	for _, model := range models {
		sum, err := WeightedSum(agent, model, weights, scores)
		if err != nil {
			return 0, err
		}
		total += sum
	}
	return total / float64(len(models)), nil
}

// ModelVariance returns Σ_b weight[b]²·std[model][b]² for one model.
// ok is false when the agent has no standard deviation for some benchmark.
func ModelVariance(agent, model string, weights dataset.Weights, scores dataset.AgentScores) (variance float64, ok bool, err error) {
	for _, b := range sortedBenchmarks(weights) {
		s, found := scores.Lookup(model, b)
		if !found {
			return 0, false, &dataset.MissingScoreError{Agent: agent, Model: model, Benchmark: b, Field: "value"}
		}
		if s.Std == nil {
			return 0, false, nil
		}
		w := weights[b]
		variance += w * w * *s.Std * *s.Std
	}
	return variance, true, nil
}

// PropagatedStd combines per-benchmark standard deviations with the
// linear-combination error propagation formula: per-model variances
// Σ w²·σ² are averaged across models and the square root is taken.
//
// The formula assumes benchmarks are independent. They are not, so the
// result is an approximation of the aggregate's spread, not an exact value.
// A nil result means the agent has no std data and must render without an
// error bar.
func PropagatedStd(agent string, weights dataset.Weights, scores dataset.AgentScores, models []string) (*float64, error) {
	if len(models) == 0 {
		return nil, fmt.Errorf("agent %q: no models to average", agent)
	}
	var total float64
	for _, model := range models {
		v, ok, err := ModelVariance(agent, model, weights, scores)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		total += v
	}
	std := math.Sqrt(total / float64(len(models)))
	return &std, nil
}

// Cell is one agent's aggregated result for a single benchmark.
type Cell struct {
	Score float64
	// Std is sqrt(mean σ²) over the contributing models; nil without std data.
	Std *float64
	// Fallbacks holds the distinct fallback markers of contributing scores,
	// in model order.
	Fallbacks []dataset.FallbackType
}

// BenchmarkCell averages one benchmark's unweighted score over models.
func BenchmarkCell(agent, benchmark string, scores dataset.AgentScores, models []string) (Cell, error) {
	if len(models) == 0 {
		return Cell{}, fmt.Errorf("agent %q: no models to average", agent)
	}
	var (
		cell     Cell
		sum      float64
		varSum   float64
		stdCount int
		seen     = make(map[dataset.FallbackType]struct{})
	)
	for _, model := range models {
		s, ok := scores.Lookup(model, benchmark)
		if !ok {
			return Cell{}, &dataset.MissingScoreError{Agent: agent, Model: model, Benchmark: benchmark, Field: "value"}
		}
		sum += s.Value
		if s.Std != nil {
			varSum += *s.Std * *s.Std
			stdCount++
		}
		if s.IsFallback() {
			if _, dup := seen[s.Fallback]; !dup {
				seen[s.Fallback] = struct{}{}
				cell.Fallbacks = append(cell.Fallbacks, s.Fallback)
			}
		}
	}
	n := float64(len(models))
	cell.Score = sum / n
	if stdCount == len(models) {
		std := math.Sqrt(varSum / n)
		cell.Std = &std
	}
	return cell, nil
}

// sortedBenchmarks fixes the summation order so repeated runs produce
// bit-identical floats.
func sortedBenchmarks(weights dataset.Weights) []string {
	keys := make([]string, 0, len(weights))
	for b := range weights {
		keys = append(keys, b)
	}
	sort.Strings(keys)
	return keys
}
