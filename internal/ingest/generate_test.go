package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/mwiater/benchboard/internal/appconfig"
	"github.com/mwiater/benchboard/internal/dataset"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func fixtureConfig(dir string) appconfig.Config {
	return appconfig.Config{
		Models: []appconfig.Model{
			{Key: "m1-Base", InstructKey: "m1"},
			{Key: "m2-pt", InstructKey: "m2-it"},
		},
		Agents: []appconfig.Agent{
			{Key: "base", Name: "Base", Baseline: true},
			{Key: "human", Name: "Instruction Tuned", Baseline: true},
			{Key: "opus", Name: "Opus"},
			{Key: "glm", Name: "GLM"},
			{Key: "sonnet", Name: "Sonnet"},
			{Key: "ghost", Name: "Ghost"},
		},
		Benchmarks: []appconfig.Benchmark{{Key: "aime2025"}, {Key: "bfcl"}},
		Ingest: appconfig.Ingest{
			DataDir: dir,
			Sources: []appconfig.ScoreSource{
				{Agent: "base", File: "aggregated_baseline.csv", Required: true},
				{Agent: "human", File: "aggregated_baseline.csv", Instruct: true, Required: true},
				{Agent: "opus", File: "aggregated_avg_Opus.csv", Std: "aggregated_std_Opus.csv"},
				{Agent: "glm", File: "final_opencode_glm.csv", Markers: "aggregated_opencode_glm.csv"},
				{Agent: "sonnet", File: "final_claude_sonnet-*.csv"},
				{Agent: "ghost", File: "final_ghost.csv"},
			},
			Aggregates: appconfig.NamedCSV{File: "single_metrics_aggregated.csv", Names: map[string]string{"opus-4.5": "opus"}},
			TimeTotals: appconfig.NamedCSV{File: "time_aggregated.csv", Names: map[string]string{"Opus-4.5": "opus"}},
			TimeRuns:   appconfig.NamedCSV{File: "aggregated_time_overview.csv", Names: map[string]string{"baseline": "human", "opus_run": "opus", "glm_run": "glm"}},
		},
	}
}

var fixtureFiles = map[string]string{
	"factors.json": `{"aime2025": 0.5, "bfcl": 0.5}`,
	"aggregated_baseline.csv": "model,aime2025,bfcl\n" +
		"m1-Base,0.01,0.02\n" +
		"m2-pt,0.03,0.04\n" +
		"m1,0.5,0.6\n" +
		"m2-it,0.7,0.8\n",
	"aggregated_avg_Opus.csv": "model,aime2025,bfcl,extra\n" +
		"m1-Base,0.123456,0.5,x\n" +
		"m2-pt,0.25,0.75,y\n",
	"aggregated_std_Opus.csv": "model,aime2025,bfcl\n" +
		"m1-Base,0.01,0.02\n" +
		"m2-pt,0.03,0.04\n",
	"final_opencode_glm.csv": "model,aime2025,bfcl\n" +
		"m1-Base,0.1,0.2\n" +
		"m2-pt,0.3,0.4\n",
	"aggregated_opencode_glm.csv": "model,aime2025,bfcl\n" +
		"m1-Base,not stored,0.2\n" +
		"m2-pt,0.3,ERR\n",
	"final_claude_sonnet-4-5.csv": "model,aime2025,bfcl\n" +
		"m1-Base,0.9,0.9\n" +
		"m2-pt,0.9,0.9\n",
	"final_claude_sonnet-9-9.csv": "model,aime2025,bfcl\n" +
		"m1-Base,0.1,0.1\n" +
		"m2-pt,0.1,0.1\n",
	"single_metrics_aggregated.csv": "agent,avg,std,n\n" +
		"Opus-4.5,0.31234,0.0111,3\n" +
		"Unknown,0.5,0.1,1\n",
	"time_aggregated.csv": "agent,avg_time,std_time,n\n" +
		"Opus-4.5,08:13:26,0:30:00,3\n",
	"aggregated_time_overview.csv": "method,average_time\n" +
		"baseline,9:59:59\n" +
		"opus_run,1:00:00\n" +
		"glm_run,45:30\n",
}

func TestGenerateBuildsDocument(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, fixtureFiles)

	res, err := Generate(fixtureConfig(dir))
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	doc := res.Document

	if !reflect.DeepEqual(res.Loaded, []string{"base", "human", "opus", "glm", "sonnet"}) {
		t.Fatalf("unexpected loaded agents: %v", res.Loaded)
	}
	if !reflect.DeepEqual(res.Skipped, []string{"ghost"}) {
		t.Fatalf("unexpected skipped agents: %v", res.Skipped)
	}
	if res.Fallbacks != 2 {
		t.Fatalf("expected 2 fallback cells, got %d", res.Fallbacks)
	}

	if got := doc.ModelBenchmarkData["base"]["m2-pt"]["bfcl"].Value; got != 4 {
		t.Fatalf("expected base m2-pt/bfcl = 4, got %v", got)
	}
	if got := doc.ModelBenchmarkData["human"]["m2-pt"]["aime2025"].Value; got != 70 {
		t.Fatalf("expected instruct row mapped onto base key, got %v", got)
	}
	if got := doc.ModelBenchmarkData["opus"]["m1-Base"]["aime2025"].Value; got != 12.35 {
		t.Fatalf("expected percentage rounded to 12.35, got %v", got)
	}
	if got := doc.StdData["opus"]["m2-pt"]["bfcl"]; got != 4 {
		t.Fatalf("expected std 4, got %v", got)
	}
	glm := doc.ModelBenchmarkData["glm"]
	if glm["m1-Base"]["aime2025"].Fallback != dataset.FallbackNotStored || glm["m2-pt"]["bfcl"].Fallback != dataset.FallbackError {
		t.Fatalf("unexpected glm markers: %+v", glm)
	}
	if glm["m1-Base"]["aime2025"].Value != 10 {
		t.Fatalf("flagged cell should keep the final value, got %v", glm["m1-Base"]["aime2025"].Value)
	}
	if got := doc.ModelBenchmarkData["sonnet"]["m1-Base"]["bfcl"].Value; got != 90 {
		t.Fatalf("expected first glob match to win, got %v", got)
	}

	agg, ok := doc.AggregatedScores["opus"]
	if !ok || agg.Avg != 31.23 || agg.Std == nil || *agg.Std != 1.11 || agg.N != 3 {
		t.Fatalf("unexpected aggregate: %+v", agg)
	}
	if len(doc.AggregatedScores) != 1 {
		t.Fatalf("unknown aggregate labels should be ignored: %+v", doc.AggregatedScores)
	}

	opusTime := doc.TimeData["opus"]
	if opusTime.Hours != 8.224 || opusTime.Time != "8:13" || opusTime.N != 3 || *opusTime.StdHours != 0.5 || *opusTime.StdTime != "0:30" {
		t.Fatalf("time totals should win over overview: %+v", opusTime)
	}
	human := doc.TimeData["human"]
	if human.Hours != 10 || human.StdHours != nil || human.StdTime != nil || human.N != 1 {
		t.Fatalf("unexpected overview time: %+v", human)
	}
	if glmTime := doc.TimeData["glm"]; glmTime.Hours != 0.758 || glmTime.Time != "45:30" {
		t.Fatalf("unexpected M:S time: %+v", glmTime)
	}
}

func TestGenerateOutputLoadsIntoDataset(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, fixtureFiles)
	cfg := fixtureConfig(dir)

	res, err := Generate(cfg)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	out := filepath.Join(dir, "out", "scores.json")
	if err := Write(res.Document, out); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	doc, err := dataset.Parse(data)
	if err != nil {
		t.Fatalf("generated document does not parse: %v", err)
	}
	ds, err := dataset.New(doc, cfg.Catalog())
	if err != nil {
		t.Fatalf("generated document does not normalise: %v", err)
	}
	if !ds.HasStd("opus") || ds.HasStd("glm") {
		t.Fatal("unexpected std flags after round trip")
	}
	if got := ds.Skipped(); !reflect.DeepEqual(got, []string{"ghost"}) {
		t.Fatalf("expected ghost skipped, got %v", got)
	}
}

func TestGenerateRequiredSourceMissing(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{}
	for k, v := range fixtureFiles {
		files[k] = v
	}
	delete(files, "aggregated_baseline.csv")
	writeFiles(t, dir, files)

	_, err := Generate(fixtureConfig(dir))
	if !errors.Is(err, ErrRequiredSource) {
		t.Fatalf("expected ErrRequiredSource, got %v", err)
	}
}

func TestGenerateMarkersRequireBothFiles(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{}
	for k, v := range fixtureFiles {
		files[k] = v
	}
	delete(files, "aggregated_opencode_glm.csv")
	writeFiles(t, dir, files)

	res, err := Generate(fixtureConfig(dir))
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if _, ok := res.Document.ModelBenchmarkData["glm"]; ok {
		t.Fatal("glm should be skipped without its markers file")
	}
}

func TestGenerateErrors(t *testing.T) {
	cases := map[string]func(map[string]string){
		"missing factors":   func(f map[string]string) { delete(f, "factors.json") },
		"bad score":         func(f map[string]string) { f["aggregated_avg_Opus.csv"] = "model,aime2025,bfcl\nm1-Base,abc,1\nm2-pt,1,1\n" },
		"missing column":    func(f map[string]string) { f["aggregated_avg_Opus.csv"] = "model,aime2025\nm1-Base,1\nm2-pt,1\n" },
		"missing model row": func(f map[string]string) { f["aggregated_avg_Opus.csv"] = "model,aime2025,bfcl\nm1-Base,1,1\n" },
		"bad time":          func(f map[string]string) { f["time_aggregated.csv"] = "agent,avg_time,std_time,n\nOpus-4.5,soon,0:30:00,3\n" },
		"duplicate row":     func(f map[string]string) { f["aggregated_avg_Opus.csv"] = "model,aime2025,bfcl\nm1-Base,1,1\nm2-pt,1,1\nm1-Base,2,2\n" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			files := map[string]string{}
			for k, v := range fixtureFiles {
				files[k] = v
			}
			mutate(files)
			writeFiles(t, dir, files)
			if _, err := Generate(fixtureConfig(dir)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestReadTableRejectsDuplicateKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aggregated.csv")
	body := "model,aime2025\nQwen3-4B-Base,0.1\ngemma-3-4b-pt,0.2\nQwen3-4B-Base,0.3\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := readTable(path, "model", []string{"aime2025"})
	if err == nil {
		t.Fatal("expected duplicate key error")
	}
	for _, want := range []string{path + ":4", `duplicate model "Qwen3-4B-Base"`} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in error, got %v", want, err)
		}
	}
}

func TestParseHoursAndFormatClock(t *testing.T) {
	cases := []struct {
		in    string
		hours float64
		clock string
	}{
		{in: "08:13:26", hours: 8.224, clock: "8:13"},
		{in: "10:00:00", hours: 10, clock: "10:00"},
		{in: "30:00", hours: 0.5, clock: "30:00"},
	}
	for _, tc := range cases {
		h, err := ParseHours(tc.in)
		if err != nil {
			t.Fatalf("ParseHours(%q) error: %v", tc.in, err)
		}
		if h != tc.hours {
			t.Fatalf("ParseHours(%q) = %v, want %v", tc.in, h, tc.hours)
		}
		if got := FormatClock(tc.in); got != tc.clock {
			t.Fatalf("FormatClock(%q) = %q, want %q", tc.in, got, tc.clock)
		}
	}
	for _, bad := range []string{"", "8", "a:b", "1:2:3:4"} {
		if _, err := ParseHours(bad); err == nil {
			t.Fatalf("ParseHours(%q) should fail", bad)
		}
	}
}
