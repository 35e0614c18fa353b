package leaderboard

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownModel is returned when a model view names a model the dataset lacks.
	ErrUnknownModel = errors.New("unknown model")
	// ErrUnknownBenchmark is returned when a benchmark view names an inactive benchmark.
	ErrUnknownBenchmark = errors.New("unknown benchmark")
)

// ViewKind enumerates the view states.
type ViewKind int

const (
	// KindAverage averages every model.
	KindAverage ViewKind = iota
	// KindModel recomputes from a single model's raw scores.
	KindModel
	// KindBenchmark is the average view narrowed to one benchmark column.
	KindBenchmark
)

// View is the current selection. The zero value is the average view.
type View struct {
	Kind      ViewKind
	Model     string
	Benchmark string
}

// AverageView returns the default cross-model view.
func AverageView() View { return View{Kind: KindAverage} }

// ModelView returns the view for a single model.
func ModelView(model string) View { return View{Kind: KindModel, Model: model} }

// BenchmarkView returns the narrow single-benchmark view.
func BenchmarkView(benchmark string) View { return View{Kind: KindBenchmark, Benchmark: benchmark} }

// String renders the view in the form ParseView accepts.
func (v View) String() string {
	switch v.Kind {
	case KindModel:
		return "model:" + v.Model
	case KindBenchmark:
		return "benchmark:" + v.Benchmark
	default:
		return "average"
	}
}

// ParseView parses "average", "model:<id>" or "benchmark:<id>". An empty
// string is the average view.
func ParseView(s string) (View, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "average") {
		return AverageView(), nil
	}
	kind, id, ok := strings.Cut(s, ":")
	id = strings.TrimSpace(id)
	if !ok || id == "" {
		return View{}, fmt.Errorf("invalid view %q (want average, model:<id> or benchmark:<id>)", s)
	}
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "model":
		return ModelView(id), nil
	case "benchmark":
		return BenchmarkView(id), nil
	default:
		return View{}, fmt.Errorf("invalid view kind %q", kind)
	}
}
