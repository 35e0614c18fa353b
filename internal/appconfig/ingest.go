package appconfig

import "strings"

// Ingest describes where `generate scores` finds evaluation exports.
// Relative file names resolve against DataDir. Name maps translate the
// labels used inside CSV files to agent keys and are matched
// case-insensitively.
type Ingest struct {
	DataDir    string         `json:"dataDir,omitempty"`
	Output     string         `json:"output,omitempty"`
	Factors    string         `json:"factors,omitempty"`
	Benchmarks []string       `json:"benchmarks,omitempty"`
	Sources    []ScoreSource  `json:"sources,omitempty" validate:"dive"`
	Aggregates NamedCSV       `json:"aggregates"`
	TimeTotals NamedCSV       `json:"timeTotals"`
	TimeRuns   NamedCSV       `json:"timeRuns"`
	Markers    MarkerSettings `json:"markers"`
}

// ScoreSource is one agent's per-model score export.
type ScoreSource struct {
	Agent string `json:"agent" validate:"required"`
	// File may be a glob; the first match in lexical order wins.
	File string `json:"file" validate:"required"`
	// Markers is the raw aggregated export whose cells flag fallback values.
	Markers string `json:"markers,omitempty"`
	Std     string `json:"std,omitempty"`
	// Instruct reads rows by each model's InstructKey and stores them under
	// the base model key.
	Instruct bool `json:"instruct"`
	Required bool `json:"required"`
}

// NamedCSV is a CSV keyed by a label column plus the label → agent map.
type NamedCSV struct {
	File  string            `json:"file,omitempty"`
	Names map[string]string `json:"names,omitempty"`
}

// Lookup returns the agent key for a CSV label.
func (n NamedCSV) Lookup(label string) (string, bool) {
	if key, ok := n.Names[label]; ok {
		return key, true
	}
	for name, key := range n.Names {
		if strings.EqualFold(name, label) {
			return key, true
		}
	}
	return "", false
}

// MarkerSettings maps raw cell text to fallback markers.
type MarkerSettings struct {
	NotStored string `json:"notStored,omitempty"`
	Error     string `json:"error,omitempty"`
}

// NotStoredText returns the cell text meaning "value not stored".
func (m MarkerSettings) NotStoredText() string {
	if m.NotStored == "" {
		return "not stored"
	}
	return m.NotStored
}

// ErrorText returns the cell text meaning "evaluation errored".
func (m MarkerSettings) ErrorText() string {
	if m.Error == "" {
		return "ERR"
	}
	return m.Error
}

// OutputPath returns where the generated scores document is written.
func (i Ingest) OutputPath() string {
	if s := strings.TrimSpace(i.Output); s != "" {
		return s
	}
	return defaultScoresPath
}

// FactorsFile returns the weights file name.
func (i Ingest) FactorsFile() string {
	if s := strings.TrimSpace(i.Factors); s != "" {
		return s
	}
	return "factors.json"
}

// BenchmarkColumns returns the CSV columns to read. When the ingest block
// does not list them, the configured task cards are used.
func (c Config) BenchmarkColumns() []string {
	if len(c.Ingest.Benchmarks) > 0 {
		return append([]string(nil), c.Ingest.Benchmarks...)
	}
	cols := make([]string, 0, len(c.Benchmarks))
	for _, b := range c.Benchmarks {
		cols = append(cols, b.Key)
	}
	return cols
}
