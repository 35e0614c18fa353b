// internal/appconfig/appconfig_test.go
package appconfig

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestLoad covers a valid configuration, broken JSON, missing required
// sections and a nonexistent file.
func TestLoad(t *testing.T) {
	validConfig := `{
        "title": "Agents Leaderboard",
        "fetchTimeout": 5,
        "models": [{"key": "Qwen3-4B-Base", "name": "Qwen3-4B", "instructKey": "Qwen3-4B"}],
        "agents": [
            {"key": "human", "name": "Instruction Tuned", "baseline": true},
            {"key": "opus", "name": "Opus", "scaffold": "Claude Code"}
        ],
        "chartAgents": ["opus"],
        "benchmarks": [{"key": "bfcl", "title": "BFCL", "difficulty": "medium"}]
    }`
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("Load() with valid config failed: %v", err)
	}
	if len(cfg.Agents) != 2 {
		t.Fatalf("expected 2 agents, got %d", len(cfg.Agents))
	}
	if cfg.FetchTimeoutDuration() != 5*time.Second {
		t.Fatalf("expected fetch timeout 5s, got %v", cfg.FetchTimeoutDuration())
	}
	if cfg.SiteTitle() != "Agents Leaderboard" {
		t.Fatalf("unexpected title %q", cfg.SiteTitle())
	}

	if _, err := Load(writeConfig(t, `{ "agents": [`)); err == nil {
		t.Fatal("Load() with invalid JSON should have failed")
	}
	if _, err := Load(writeConfig(t, `{"agents": [{"key": "a", "name": "A"}]}`)); err == nil {
		t.Fatal("Load() with no models should have failed")
	}
	if _, err := Load("nonexistent.json"); err == nil {
		t.Fatal("Load() with nonexistent file should have failed")
	}
}

func TestDefaults(t *testing.T) {
	var cfg Config
	if cfg.FetchTimeoutDuration() != 30*time.Second {
		t.Fatalf("expected default fetch timeout, got %v", cfg.FetchTimeoutDuration())
	}
	if cfg.LogFilePath() != "benchboard.log" {
		t.Fatalf("unexpected default log file %q", cfg.LogFilePath())
	}
	if cfg.ScoresSource() != "scores.json" || cfg.OutputPath() != "site" {
		t.Fatalf("unexpected defaults: %q %q", cfg.ScoresSource(), cfg.OutputPath())
	}
	if cfg.Ingest.OutputPath() != "scores.json" || cfg.Ingest.FactorsFile() != "factors.json" {
		t.Fatal("unexpected ingest defaults")
	}
	if cfg.Ingest.Markers.NotStoredText() != "not stored" || cfg.Ingest.Markers.ErrorText() != "ERR" {
		t.Fatal("unexpected marker defaults")
	}
}

func TestValidateCrossReferences(t *testing.T) {
	base := func() Config {
		return Config{
			Models: []Model{{Key: "m1"}},
			Agents: []Agent{{Key: "a", Name: "A"}, {Key: "b", Name: "B"}},
		}
	}

	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "unknown chart agent", mutate: func(c *Config) { c.ChartAgents = []string{"zzz"} }, want: "chartAgents"},
		{name: "unknown time agent", mutate: func(c *Config) { c.TimeChartAgents = []string{"zzz"} }, want: "timeChartAgents"},
		{name: "duplicate agent", mutate: func(c *Config) { c.Agents = append(c.Agents, Agent{Key: "a", Name: "Again"}) }, want: "duplicate agent"},
		{name: "duplicate model", mutate: func(c *Config) { c.Models = append(c.Models, Model{Key: "m1"}) }, want: "duplicate model"},
		{name: "bad difficulty", mutate: func(c *Config) { c.Benchmarks = []Benchmark{{Key: "x", Difficulty: "brutal"}} }, want: "Difficulty"},
		{name: "agent without name", mutate: func(c *Config) { c.Agents[0].Name = "" }, want: "Name"},
		{name: "unknown ingest agent", mutate: func(c *Config) {
			c.Ingest.Sources = []ScoreSource{{Agent: "zzz", File: "x.csv"}}
		}, want: "ingest.sources"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.want == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestCatalog(t *testing.T) {
	cfg := Config{
		Models: []Model{{Key: "m1"}, {Key: "m2", Name: "Model Two"}},
		Agents: []Agent{
			{Key: "human", Name: "Instruction Tuned", Baseline: true},
			{Key: "opus", Name: "Opus", Scaffold: "Claude Code"},
			{Key: "glm", Name: "GLM", OpenCode: true},
		},
		ChartAgents:     []string{"human", "opus"},
		TimeChartAgents: []string{"glm"},
		Benchmarks:      []Benchmark{{Key: "gsm8k"}, {Key: "bfcl", Title: "BFCL"}},
	}
	cat := cfg.Catalog()
	if strings.Join(cat.Models, ",") != "m1,m2" || strings.Join(cat.BenchmarkOrder, ",") != "gsm8k,bfcl" {
		t.Fatalf("unexpected catalog order: %+v", cat)
	}
	if !cat.Agents[0].Baseline || !cat.Agents[0].ShowInChart || cat.Agents[0].ShowInTimeChart {
		t.Fatalf("unexpected human flags: %+v", cat.Agents[0])
	}
	if cat.Agents[2].ShowInChart || !cat.Agents[2].ShowInTimeChart || !cat.Agents[2].OpenCode {
		t.Fatalf("unexpected glm flags: %+v", cat.Agents[2])
	}

	cfg.ChartAgents = nil
	for _, a := range cfg.Catalog().Agents {
		if !a.ShowInChart {
			t.Fatalf("empty chart list should show every agent, %s hidden", a.Key)
		}
	}

	if cfg.ModelName("m2") != "Model Two" || cfg.ModelName("m1") != "m1" {
		t.Fatal("unexpected model display names")
	}
	if cfg.BenchmarkInfo("gsm8k").Title != "gsm8k" || cfg.BenchmarkInfo("bfcl").Title != "BFCL" {
		t.Fatal("unexpected benchmark titles")
	}
}

func TestBenchmarkColumns(t *testing.T) {
	cfg := Config{Benchmarks: []Benchmark{{Key: "a"}, {Key: "b"}}}
	if got := strings.Join(cfg.BenchmarkColumns(), ","); got != "a,b" {
		t.Fatalf("expected task card keys, got %q", got)
	}
	cfg.Ingest.Benchmarks = []string{"z"}
	if got := strings.Join(cfg.BenchmarkColumns(), ","); got != "z" {
		t.Fatalf("expected ingest override, got %q", got)
	}
}

func TestNamedCSVLookupIgnoresCase(t *testing.T) {
	n := NamedCSV{Names: map[string]string{"gpt-5.2": "gpt-5.2", "Opus-4.5": "opus-4.5"}}
	if key, ok := n.Lookup("GPT-5.2"); !ok || key != "gpt-5.2" {
		t.Fatalf("case-insensitive lookup failed: %q %v", key, ok)
	}
	if key, ok := n.Lookup("Opus-4.5"); !ok || key != "opus-4.5" {
		t.Fatalf("exact lookup failed: %q %v", key, ok)
	}
	if _, ok := n.Lookup("unknown"); ok {
		t.Fatal("unexpected match")
	}
}

func TestShowConfig(t *testing.T) {
	cfg := &Config{
		Models: []Model{{Key: "m1", Name: "Model One", InstructKey: "m1-it"}},
		Agents: []Agent{{Key: "base", Name: "Base", Baseline: true}},
	}
	var buf bytes.Buffer
	ShowConfig(&buf, "config/config.json", cfg, Config{})
	out := buf.String()
	for _, want := range []string{"Config file: config/config.json", "m1 (Model One) instruct=m1-it", "[baseline]", "Chart Agents:      (all)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	buf.Reset()
	ShowConfig(&buf, "", nil, Config{Title: "Fallback"})
	if !strings.Contains(buf.String(), "No config file loaded") || !strings.Contains(buf.String(), "Fallback") {
		t.Fatalf("unexpected fallback output:\n%s", buf.String())
	}
}
