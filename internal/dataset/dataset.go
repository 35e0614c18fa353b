package dataset

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrNoData is returned when no catalogued agent has scores.
var ErrNoData = errors.New("no agent in the catalog has score data")

// MissingScoreError identifies a (agent, model, benchmark) triple that the
// active weight set requires but the document does not provide.
type MissingScoreError struct {
	Agent     string
	Model     string
	Benchmark string
	// Field is "value" for a missing score, "std" for a missing standard
	// deviation on an agent that carries std data elsewhere.
	Field string
}

func (e *MissingScoreError) Error() string {
	field := e.Field
	if field == "" {
		field = "value"
	}
	return fmt.Sprintf("missing %s for agent %q, model %q, benchmark %q", field, e.Agent, e.Model, e.Benchmark)
}

// Score is the normalised record for one (agent, model, benchmark) triple.
type Score struct {
	Value    float64
	Std      *float64
	Fallback FallbackType
}

// IsFallback reports whether the value was synthesised rather than measured.
func (s Score) IsFallback() bool { return s.Fallback != FallbackNone }

// Weights maps benchmark id to a non-negative multiplier.
type Weights map[string]float64

// AgentScores holds one agent's scores by model then benchmark.
type AgentScores map[string]map[string]Score

// Lookup returns the score for model and benchmark.
func (a AgentScores) Lookup(model, benchmark string) (Score, bool) {
	byBenchmark, ok := a[model]
	if !ok {
		return Score{}, false
	}
	s, ok := byBenchmark[benchmark]
	return s, ok
}

// Agent is the display metadata for a benchmarked system.
type Agent struct {
	Key             string
	Name            string
	Description     string
	Scaffold        string
	Baseline        bool
	OpenCode        bool
	ShowInChart     bool
	ShowInTimeChart bool
}

// Catalog is the static description of what the dataset should contain.
// Agent order is the insertion order used to break score ties.
type Catalog struct {
	Models         []string
	Agents         []Agent
	BenchmarkOrder []string
}

// Aggregate is a precomputed average-view score.
type Aggregate struct {
	Avg float64
	Std *float64
	N   int
}

// TimeRecord is an agent's average elapsed time.
type TimeRecord struct {
	Hours    float64
	Time     string
	StdHours *float64
	StdTime  string
	N        int
}

// Dataset is the validated, normalised scores document. It is never
// mutated after New returns; accessors hand out copies.
type Dataset struct {
	weights    Weights
	benchmarks []string
	models     []string
	agents     []Agent
	scores     map[string]AgentScores
	hasStd     map[string]bool
	aggregates map[string]Aggregate
	times      map[string]TimeRecord
	skipped    []string
	extra      []string
}

// New normalises doc against cat. Every catalogued agent with data must
// have a score for every model and every weighted benchmark.
func New(doc Document, cat Catalog) (*Dataset, error) {
	if len(doc.BenchmarkWeights) == 0 {
		return nil, errors.New("scores document has no benchmark weights")
	}
	weights := make(Weights, len(doc.BenchmarkWeights))
	for b, w := range doc.BenchmarkWeights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("benchmark %q has invalid weight %v", b, w)
		}
		weights[b] = w
	}

	ds := &Dataset{
		weights:    weights,
		benchmarks: orderBenchmarks(weights, cat.BenchmarkOrder),
		scores:     make(map[string]AgentScores),
		hasStd:     make(map[string]bool),
		aggregates: make(map[string]Aggregate),
		times:      make(map[string]TimeRecord),
	}
	if len(cat.Models) == 0 {
		ds.models = modelsFromData(doc)
	} else {
		ds.models = append([]string(nil), cat.Models...)
	}

	agents := cat.Agents
	if len(agents) == 0 {
		agents = agentsFromData(doc)
	}

	catalogued := make(map[string]struct{}, len(agents))
	for _, agent := range agents {
		catalogued[agent.Key] = struct{}{}
		raw, ok := doc.ModelBenchmarkData[agent.Key]
		if !ok {
			ds.skipped = append(ds.skipped, agent.Key)
			continue
		}
		scores, hasStd, err := normalizeAgent(agent.Key, raw, doc.StdData[agent.Key], ds.models, ds.benchmarks)
		if err != nil {
			return nil, err
		}
		ds.agents = append(ds.agents, agent)
		ds.scores[agent.Key] = scores
		ds.hasStd[agent.Key] = hasStd
	}
	for key := range doc.ModelBenchmarkData {
		if _, ok := catalogued[key]; !ok {
			ds.extra = append(ds.extra, key)
		}
	}
	sort.Strings(ds.extra)

	if len(ds.agents) == 0 {
		return nil, ErrNoData
	}

	for key, agg := range doc.AggregatedScores {
		ds.aggregates[key] = Aggregate{Avg: agg.Avg, Std: cloneFloat(agg.Std), N: agg.N}
	}
	for key, t := range doc.TimeData {
		rec := TimeRecord{Hours: t.Hours, Time: t.Time, StdHours: cloneFloat(t.StdHours), N: t.N}
		if t.StdTime != nil {
			rec.StdTime = *t.StdTime
		}
		ds.times[key] = rec
	}
	return ds, nil
}

func normalizeAgent(agent string, raw map[string]map[string]ScoreEntry, std map[string]map[string]float64, models, benchmarks []string) (AgentScores, bool, error) {
	scores := make(AgentScores, len(models))
	hasStd := false
	for _, model := range models {
		byBenchmark := make(map[string]Score, len(benchmarks))
		for _, b := range benchmarks {
			entry, ok := raw[model][b]
			if !ok {
				return nil, false, &MissingScoreError{Agent: agent, Model: model, Benchmark: b, Field: "value"}
			}
			s := Score{Value: entry.Value, Std: cloneFloat(entry.Std), Fallback: entry.Fallback}
			if s.Std == nil {
				if v, ok := std[model][b]; ok {
					s.Std = &v
				}
			}
			if s.Std != nil {
				hasStd = true
			}
			byBenchmark[b] = s
		}
		scores[model] = byBenchmark
	}

	if hasStd {
		for _, model := range models {
			for _, b := range benchmarks {
				if scores[model][b].Std == nil {
					return nil, false, &MissingScoreError{Agent: agent, Model: model, Benchmark: b, Field: "std"}
				}
			}
		}
	}
	return scores, hasStd, nil
}

func orderBenchmarks(weights Weights, preferred []string) []string {
	seen := make(map[string]struct{}, len(weights))
	ordered := make([]string, 0, len(weights))
	for _, b := range preferred {
		if _, ok := weights[b]; !ok {
			continue
		}
		if _, dup := seen[b]; dup {
			continue
		}
		seen[b] = struct{}{}
		ordered = append(ordered, b)
	}
	var rest []string
	for b := range weights {
		if _, ok := seen[b]; !ok {
			rest = append(rest, b)
		}
	}
	sort.Strings(rest)
	return append(ordered, rest...)
}

func modelsFromData(doc Document) []string {
	set := make(map[string]struct{})
	for _, byModel := range doc.ModelBenchmarkData {
		for model := range byModel {
			set[model] = struct{}{}
		}
	}
	models := make([]string, 0, len(set))
	for m := range set {
		models = append(models, m)
	}
	sort.Strings(models)
	return models
}

func agentsFromData(doc Document) []Agent {
	keys := make([]string, 0, len(doc.ModelBenchmarkData))
	for key := range doc.ModelBenchmarkData {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	agents := make([]Agent, 0, len(keys))
	for _, key := range keys {
		agents = append(agents, Agent{Key: key, Name: key, ShowInChart: true})
	}
	return agents
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Weights returns a copy of the benchmark weights.
func (d *Dataset) Weights() Weights {
	out := make(Weights, len(d.weights))
	for k, v := range d.weights {
		out[k] = v
	}
	return out
}

// Benchmarks returns the active benchmarks in display order.
func (d *Dataset) Benchmarks() []string { return append([]string(nil), d.benchmarks...) }

// Models returns the models every agent was evaluated on.
func (d *Dataset) Models() []string { return append([]string(nil), d.models...) }

// Agents returns the agents with data, in catalog order.
func (d *Dataset) Agents() []Agent { return append([]Agent(nil), d.agents...) }

// HasModel reports whether model is part of the dataset.
func (d *Dataset) HasModel(model string) bool {
	for _, m := range d.models {
		if m == model {
			return true
		}
	}
	return false
}

// HasBenchmark reports whether benchmark is in the active weight set.
func (d *Dataset) HasBenchmark(benchmark string) bool {
	_, ok := d.weights[benchmark]
	return ok
}

// Scores returns a copy of the agent's normalised scores.
func (d *Dataset) Scores(agent string) (AgentScores, bool) {
	src, ok := d.scores[agent]
	if !ok {
		return nil, false
	}
	out := make(AgentScores, len(src))
	for model, byBenchmark := range src {
		inner := make(map[string]Score, len(byBenchmark))
		for b, s := range byBenchmark {
			s.Std = cloneFloat(s.Std)
			inner[b] = s
		}
		out[model] = inner
	}
	return out, true
}

// HasStd reports whether the agent carries standard deviation data.
func (d *Dataset) HasStd(agent string) bool { return d.hasStd[agent] }

// Aggregate returns the precomputed override for agent, if any.
func (d *Dataset) Aggregate(agent string) (Aggregate, bool) {
	a, ok := d.aggregates[agent]
	if ok {
		a.Std = cloneFloat(a.Std)
	}
	return a, ok
}

// Time returns the elapsed-time record for agent, if any.
func (d *Dataset) Time(agent string) (TimeRecord, bool) {
	t, ok := d.times[agent]
	if ok {
		t.StdHours = cloneFloat(t.StdHours)
	}
	return t, ok
}

// Skipped lists catalogued agents that have no score data.
func (d *Dataset) Skipped() []string { return append([]string(nil), d.skipped...) }

// Extra lists agents present in the document but absent from the catalog.
func (d *Dataset) Extra() []string { return append([]string(nil), d.extra...) }

// FallbackCells lists every fallback-marked cell as "agent/model/benchmark=type",
// in agent, model and benchmark order.
func (d *Dataset) FallbackCells() []string {
	var cells []string
	for _, agent := range d.agents {
		for _, model := range d.models {
			for _, b := range d.benchmarks {
				s := d.scores[agent.Key][model][b]
				if s.IsFallback() {
					cells = append(cells, fmt.Sprintf("%s/%s/%s=%s", agent.Key, model, b, s.Fallback))
				}
			}
		}
	}
	return cells
}
