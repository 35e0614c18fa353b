// Package dataset loads the scores document and normalises it into an
// immutable Dataset that the leaderboard package aggregates.
package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// FallbackType marks a score that was synthesised rather than measured.
type FallbackType string

const (
	// FallbackNone is a measured score.
	FallbackNone FallbackType = ""
	// FallbackNotStored means the run did not store a value for the cell.
	FallbackNotStored FallbackType = "not_stored"
	// FallbackError means the run errored and the value is a placeholder.
	FallbackError FallbackType = "error"
	// FallbackUnknown is used when the document only says "true".
	FallbackUnknown FallbackType = "unknown"
)

// Document is the on-disk scores document.
type Document struct {
	BenchmarkWeights   map[string]float64                          `json:"benchmarkWeights"`
	ModelBenchmarkData map[string]map[string]map[string]ScoreEntry `json:"modelBenchmarkData"`
	AggregatedScores   map[string]AggregateEntry                   `json:"aggregatedScores,omitempty"`
	StdData            map[string]map[string]map[string]float64    `json:"stdData,omitempty"`
	TimeData           map[string]TimeEntry                        `json:"timeData,omitempty"`
}

// ScoreEntry is one cell of modelBenchmarkData. It decodes both the legacy
// flat number and the {value, std, fallbackType} object.
type ScoreEntry struct {
	Value    float64
	Std      *float64
	Fallback FallbackType
}

// UnmarshalJSON accepts a bare number or a score object.
func (e *ScoreEntry) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return errors.New("empty score entry")
	}
	if trimmed[0] != '{' {
		var v float64
		if err := json.Unmarshal(trimmed, &v); err != nil {
			return fmt.Errorf("score entry: %w", err)
		}
		*e = ScoreEntry{Value: v}
		return nil
	}

	var raw struct {
		Value        *float64        `json:"value"`
		Std          *float64        `json:"std"`
		FallbackType json.RawMessage `json:"fallbackType"`
	}
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return fmt.Errorf("score entry: %w", err)
	}
	if raw.Value == nil {
		return errors.New("score entry: missing value")
	}
	fallback, err := parseFallback(raw.FallbackType)
	if err != nil {
		return err
	}
	*e = ScoreEntry{Value: *raw.Value, Std: raw.Std, Fallback: fallback}
	return nil
}

// MarshalJSON always writes the object form; an absent marker is written as false.
func (e ScoreEntry) MarshalJSON() ([]byte, error) {
	out := struct {
		Value        float64  `json:"value"`
		Std          *float64 `json:"std,omitempty"`
		FallbackType any      `json:"fallbackType"`
	}{
		Value:        e.Value,
		Std:          e.Std,
		FallbackType: false,
	}
	if e.Fallback != FallbackNone {
		out.FallbackType = string(e.Fallback)
	}
	return json.Marshal(out)
}

func parseFallback(raw json.RawMessage) (FallbackType, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return FallbackNone, nil
	}
	switch trimmed[0] {
	case 't', 'f':
		var flag bool
		if err := json.Unmarshal(trimmed, &flag); err != nil {
			return FallbackNone, fmt.Errorf("fallbackType: %w", err)
		}
		if flag {
			return FallbackUnknown, nil
		}
		return FallbackNone, nil
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return FallbackNone, fmt.Errorf("fallbackType: %w", err)
		}
		return FallbackType(s), nil
	default:
		return FallbackNone, fmt.Errorf("fallbackType: unsupported value %s", string(trimmed))
	}
}

// AggregateEntry is a precomputed aggregate that overrides the computed
// average-view score for an agent.
type AggregateEntry struct {
	Avg float64  `json:"avg"`
	Std *float64 `json:"std,omitempty"`
	N   int      `json:"n"`
}

// TimeEntry is the elapsed time an agent spent, averaged over N runs.
type TimeEntry struct {
	Hours    float64  `json:"hours"`
	Time     string   `json:"time"`
	StdHours *float64 `json:"stdHours"`
	StdTime  *string  `json:"stdTime"`
	N        int      `json:"n"`
}
