package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// table is a CSV keyed by one column. Rows keep their raw cell text.
type table struct {
	path string
	rows map[string]map[string]string
}

// readTable loads path and indexes rows by keyColumn. Every column in
// required must be present in the header and keys must be unique.
func readTable(path, keyColumn string, required []string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%s: empty file", path)
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	if _, ok := index[keyColumn]; !ok {
		return nil, fmt.Errorf("%s: missing %q column", path, keyColumn)
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%s: missing %q column", path, col)
		}
	}

	t := &table{path: path, rows: make(map[string]map[string]string)}
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		row := make(map[string]string, len(index))
		for col, i := range index {
			if i < len(record) {
				row[col] = strings.TrimSpace(record[i])
			}
		}
		key := row[keyColumn]
		if _, dup := t.rows[key]; dup {
			line, _ := r.FieldPos(0)
			return nil, fmt.Errorf("%s:%d: duplicate %s %q", path, line, keyColumn, key)
		}
		t.rows[key] = row
	}
	return t, nil
}

func (t *table) cell(key, column string) (string, error) {
	row, ok := t.rows[key]
	if !ok {
		return "", fmt.Errorf("%s: no row for %q", t.path, key)
	}
	v, ok := row[column]
	if !ok {
		return "", fmt.Errorf("%s: no %q value for %q", t.path, column, key)
	}
	return v, nil
}

// keys returns the row keys in sorted order.
func (t *table) keys() []string {
	keys := make([]string, 0, len(t.rows))
	for k := range t.rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// percentage converts a fraction to a percentage with two decimals.
func percentage(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid score %q", raw)
	}
	return roundTo(v*100, 2), nil
}

func roundTo(x float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(x*scale) / scale
}

// resolve returns the file for pattern under dir. Glob patterns pick the
// first match in lexical order. ok is false when nothing matches.
func resolve(dir, pattern string) (string, bool, error) {
	path := pattern
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, pattern)
	}
	if strings.ContainsAny(pattern, "*?[") {
		matches, err := filepath.Glob(path)
		if err != nil {
			return "", false, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return "", false, nil
		}
		sort.Strings(matches)
		return matches[0], true, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return path, true, nil
}
