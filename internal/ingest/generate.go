// Package ingest builds a scores document from evaluation CSV exports.
package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/mwiater/benchboard/internal/appconfig"
	"github.com/mwiater/benchboard/internal/dataset"
	"github.com/mwiater/benchboard/internal/logging"
)

// ErrRequiredSource is wrapped when a required export is missing.
var ErrRequiredSource = errors.New("required source missing")

// Result summarises a Generate run.
type Result struct {
	Document dataset.Document
	Loaded   []string
	Skipped  []string
	// Fallbacks counts cells flagged not_stored or error.
	Fallbacks int
}

// Generate reads every configured export under cfg.Ingest.DataDir.
func Generate(cfg appconfig.Config) (*Result, error) {
	in := cfg.Ingest
	dir := in.DataDir
	benchmarks := cfg.BenchmarkColumns()
	if len(benchmarks) == 0 {
		return nil, errors.New("no benchmark columns configured")
	}
	if len(cfg.Models) == 0 {
		return nil, errors.New("no models configured")
	}

	weights, err := readWeights(filepath.Join(dir, in.FactorsFile()))
	if err != nil {
		return nil, err
	}

	res := &Result{Document: dataset.Document{
		BenchmarkWeights:   weights,
		ModelBenchmarkData: make(map[string]map[string]map[string]dataset.ScoreEntry),
		AggregatedScores:   make(map[string]dataset.AggregateEntry),
		StdData:            make(map[string]map[string]map[string]float64),
	}}

	for _, src := range in.Sources {
		scores, ok, err := readSource(dir, src, cfg.Models, benchmarks, in.Markers)
		if err != nil {
			return nil, fmt.Errorf("agent %q: %w", src.Agent, err)
		}
		if !ok {
			if src.Required {
				return nil, fmt.Errorf("agent %q: %w: %s", src.Agent, ErrRequiredSource, src.File)
			}
			logging.LogStage("ingest", "agent", src.Agent, "file", src.File, "status", "skipped")
			res.Skipped = append(res.Skipped, src.Agent)
			continue
		}
		res.Document.ModelBenchmarkData[src.Agent] = scores
		res.Loaded = append(res.Loaded, src.Agent)
		for _, byBench := range scores {
			for _, e := range byBench {
				if e.Fallback != dataset.FallbackNone {
					res.Fallbacks++
				}
			}
		}
		logging.LogStage("ingest", "agent", src.Agent, "file", src.File, "status", "loaded")

		if src.Std == "" {
			continue
		}
		std, ok, err := readStd(dir, src, cfg.Models, benchmarks)
		if err != nil {
			return nil, fmt.Errorf("agent %q std: %w", src.Agent, err)
		}
		if ok {
			res.Document.StdData[src.Agent] = std
		} else {
			logging.LogStage("ingest", "agent", src.Agent, "file", src.Std, "status", "std skipped")
		}
	}

	if in.Aggregates.File != "" {
		if err := readAggregates(dir, in.Aggregates, res.Document.AggregatedScores); err != nil {
			return nil, err
		}
	}

	times, err := readTimes(dir, in.TimeTotals, in.TimeRuns)
	if err != nil {
		return nil, err
	}
	if len(times) > 0 {
		res.Document.TimeData = times
	}
	return res, nil
}

func readWeights(path string) (map[string]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read weights: %w", err)
	}
	var weights map[string]float64
	if err := json.Unmarshal(data, &weights); err != nil {
		return nil, fmt.Errorf("unable to parse weights %s: %w", path, err)
	}
	if len(weights) == 0 {
		return nil, fmt.Errorf("weights file %s is empty", path)
	}
	return weights, nil
}

// rowKey is the CSV row holding model's scores for src.
func rowKey(src appconfig.ScoreSource, m appconfig.Model) (string, error) {
	if !src.Instruct {
		return m.Key, nil
	}
	if m.InstructKey == "" {
		return "", fmt.Errorf("model %q has no instructKey", m.Key)
	}
	return m.InstructKey, nil
}

func readSource(dir string, src appconfig.ScoreSource, models []appconfig.Model, benchmarks []string, markers appconfig.MarkerSettings) (map[string]map[string]dataset.ScoreEntry, bool, error) {
	path, ok, err := resolve(dir, src.File)
	if err != nil || !ok {
		return nil, false, err
	}
	var markerPath string
	if src.Markers != "" {
		markerPath, ok, err = resolve(dir, src.Markers)
		if err != nil || !ok {
			return nil, false, err
		}
	}

	values, err := readTable(path, "model", benchmarks)
	if err != nil {
		return nil, false, err
	}
	var flags *table
	if markerPath != "" {
		if flags, err = readTable(markerPath, "model", benchmarks); err != nil {
			return nil, false, err
		}
	}

	out := make(map[string]map[string]dataset.ScoreEntry, len(models))
	for _, m := range models {
		key, err := rowKey(src, m)
		if err != nil {
			return nil, false, err
		}
		byBench := make(map[string]dataset.ScoreEntry, len(benchmarks))
		for _, b := range benchmarks {
			raw, err := values.cell(key, b)
			if err != nil {
				return nil, false, err
			}
			v, err := percentage(raw)
			if err != nil {
				return nil, false, fmt.Errorf("%s %s/%s: %w", path, key, b, err)
			}
			entry := dataset.ScoreEntry{Value: v}
			if flags != nil {
				flag, err := flags.cell(key, b)
				if err != nil {
					return nil, false, err
				}
				switch flag {
				case markers.NotStoredText():
					entry.Fallback = dataset.FallbackNotStored
				case markers.ErrorText():
					entry.Fallback = dataset.FallbackError
				}
			}
			byBench[b] = entry
		}
		out[m.Key] = byBench
	}
	return out, true, nil
}

func readStd(dir string, src appconfig.ScoreSource, models []appconfig.Model, benchmarks []string) (map[string]map[string]float64, bool, error) {
	path, ok, err := resolve(dir, src.Std)
	if err != nil || !ok {
		return nil, false, err
	}
	t, err := readTable(path, "model", benchmarks)
	if err != nil {
		return nil, false, err
	}
	out := make(map[string]map[string]float64, len(models))
	for _, m := range models {
		key, err := rowKey(src, m)
		if err != nil {
			return nil, false, err
		}
		byBench := make(map[string]float64, len(benchmarks))
		for _, b := range benchmarks {
			raw, err := t.cell(key, b)
			if err != nil {
				return nil, false, err
			}
			v, err := percentage(raw)
			if err != nil {
				return nil, false, fmt.Errorf("%s %s/%s: %w", path, key, b, err)
			}
			byBench[b] = v
		}
		out[m.Key] = byBench
	}
	return out, true, nil
}

func readAggregates(dir string, src appconfig.NamedCSV, into map[string]dataset.AggregateEntry) error {
	path, ok, err := resolve(dir, src.File)
	if err != nil {
		return err
	}
	if !ok {
		logging.LogStage("ingest", "file", src.File, "status", "aggregates skipped")
		return nil
	}
	t, err := readTable(path, "agent", []string{"avg", "std", "n"})
	if err != nil {
		return err
	}
	for _, label := range t.keys() {
		key, ok := src.Lookup(label)
		if !ok {
			continue
		}
		row := t.rows[label]
		avg, err := percentage(row["avg"])
		if err != nil {
			return fmt.Errorf("%s %s: %w", path, label, err)
		}
		std, err := percentage(row["std"])
		if err != nil {
			return fmt.Errorf("%s %s: %w", path, label, err)
		}
		n, err := strconv.Atoi(row["n"])
		if err != nil {
			return fmt.Errorf("%s %s: invalid n %q", path, label, row["n"])
		}
		into[key] = dataset.AggregateEntry{Avg: avg, Std: &std, N: n}
	}
	return nil
}

// readTimes merges per-agent time totals with single-run overviews. Totals
// carry std and win when both name the same agent.
func readTimes(dir string, totals, runs appconfig.NamedCSV) (map[string]dataset.TimeEntry, error) {
	out := make(map[string]dataset.TimeEntry)

	if totals.File != "" {
		path, ok, err := resolve(dir, totals.File)
		if err != nil {
			return nil, err
		}
		if ok {
			t, err := readTable(path, "agent", []string{"avg_time", "std_time", "n"})
			if err != nil {
				return nil, err
			}
			for _, label := range t.keys() {
				key, ok := totals.Lookup(label)
				if !ok {
					continue
				}
				row := t.rows[label]
				hours, err := ParseHours(row["avg_time"])
				if err != nil {
					return nil, fmt.Errorf("%s %s: %w", path, label, err)
				}
				stdHours, err := ParseHours(row["std_time"])
				if err != nil {
					return nil, fmt.Errorf("%s %s: %w", path, label, err)
				}
				n, err := strconv.Atoi(row["n"])
				if err != nil {
					return nil, fmt.Errorf("%s %s: invalid n %q", path, label, row["n"])
				}
				stdTime := FormatClock(row["std_time"])
				out[key] = dataset.TimeEntry{
					Hours:    hours,
					Time:     FormatClock(row["avg_time"]),
					StdHours: &stdHours,
					StdTime:  &stdTime,
					N:        n,
				}
			}
		}
	}

	if runs.File != "" {
		path, ok, err := resolve(dir, runs.File)
		if err != nil {
			return nil, err
		}
		if ok {
			t, err := readTable(path, "method", []string{"average_time"})
			if err != nil {
				return nil, err
			}
			for _, label := range t.keys() {
				key, ok := runs.Lookup(label)
				if !ok {
					continue
				}
				if _, exists := out[key]; exists {
					continue
				}
				hours, err := ParseHours(t.rows[label]["average_time"])
				if err != nil {
					return nil, fmt.Errorf("%s %s: %w", path, label, err)
				}
				out[key] = dataset.TimeEntry{Hours: hours, Time: FormatClock(t.rows[label]["average_time"]), N: 1}
			}
		}
	}
	return out, nil
}

// Encode renders doc as indented JSON and checks it against the scores schema.
func Encode(doc dataset.Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := dataset.ValidateSchema(data); err != nil {
		return nil, fmt.Errorf("generated document is invalid: %w", err)
	}
	return append(data, '\n'), nil
}

// Write encodes doc to path, creating parent directories.
func Write(doc dataset.Document, path string) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// Agents returns the agent keys present in doc, sorted.
func Agents(doc dataset.Document) []string {
	keys := make([]string, 0, len(doc.ModelBenchmarkData))
	for k := range doc.ModelBenchmarkData {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
