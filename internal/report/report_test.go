package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/mwiater/benchboard/internal/appconfig"
	"github.com/mwiater/benchboard/internal/dataset"
	"github.com/mwiater/benchboard/internal/leaderboard"
	"gopkg.in/yaml.v3"
)

const fixtureScores = `{
  "benchmarkWeights": {"aime2025": 0.5, "bfcl": 0.5},
  "modelBenchmarkData": {
    "base": {
      "m1": {"aime2025": 10, "bfcl": 10},
      "m2": {"aime2025": 20, "bfcl": 20}
    },
    "opus": {
      "m1": {"aime2025": {"value": 40, "std": 2}, "bfcl": {"value": 60, "std": 4}},
      "m2": {"aime2025": {"value": 20, "std": 2}, "bfcl": {"value": 40, "std": 4}}
    },
    "glm": {
      "m1": {"aime2025": {"value": 5, "fallbackType": "not_stored"}, "bfcl": 5},
      "m2": {"aime2025": 5, "bfcl": {"value": 5, "fallbackType": "error"}}
    }
  },
  "timeData": {
    "opus": {"hours": 8.224, "time": "8:13", "stdHours": 0.5, "stdTime": "0:30", "n": 3},
    "glm": {"hours": 9.5, "time": "9:30", "stdHours": null, "stdTime": null, "n": 1}
  }
}`

func fixtureConfig() appconfig.Config {
	return appconfig.Config{
		Title:  "Agents <Leaderboard>",
		Models: []appconfig.Model{{Key: "m1", Name: "Model One"}, {Key: "m2"}},
		Agents: []appconfig.Agent{
			{Key: "base", Name: "Base Model", Baseline: true, Scaffold: "Zero Shot"},
			{Key: "opus", Name: "Opus", Scaffold: "Claude Code"},
			{Key: "glm", Name: "GLM", OpenCode: true},
		},
		ChartAgents: []string{"base", "opus"},
		Benchmarks: []appconfig.Benchmark{
			{Key: "aime2025", Title: "AIME 2025", Difficulty: "hard", Description: "Olympiad **maths** <script>alert(1)</script>"},
			{Key: "bfcl", Title: "BFCL", Version: "V1", Difficulty: "medium"},
		},
		Setup:    appconfig.Setup{Hardware: "H100 GPU", TimeLimit: "10 hours", Models: []string{"Model One", "m2"}},
		About:    "Agents post-train a *base model*.",
		Citation: "@misc{bench}",
	}
}

func fixtureSite(t *testing.T) *Site {
	t.Helper()
	doc, err := dataset.Parse([]byte(fixtureScores))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	cfg := fixtureConfig()
	ds, err := dataset.New(doc, cfg.Catalog())
	if err != nil {
		t.Fatalf("dataset: %v", err)
	}
	site, err := BuildSite(cfg, ds)
	if err != nil {
		t.Fatalf("BuildSite error: %v", err)
	}
	return site
}

func TestBuildSitePrecomputesEveryView(t *testing.T) {
	site := fixtureSite(t)

	for _, key := range []string{"average", "model:m1", "model:m2", "benchmark:aime2025", "benchmark:bfcl"} {
		if _, ok := site.Views[key]; !ok {
			t.Fatalf("missing view %q", key)
		}
	}
	if len(site.Views) != 5 {
		t.Fatalf("expected 5 views, got %d", len(site.Views))
	}

	avg := site.Average()
	if avg.Rows[0].Key != "opus" || avg.Rows[0].Score != 40 || *avg.Rows[0].Rank != 1 {
		t.Fatalf("unexpected top row: %+v", avg.Rows[0])
	}
	if avg.Rows[1].Key != "base" || avg.Rows[1].Rank != nil {
		t.Fatalf("expected unranked baseline second, got %+v", avg.Rows[1])
	}

	if site.Models[0].Name != "Model One" || site.Models[1].Name != "m2" {
		t.Fatalf("unexpected model options: %+v", site.Models)
	}
	if site.Benchmarks[1].Name != "BFCL V1" {
		t.Fatalf("unexpected benchmark option: %+v", site.Benchmarks[1])
	}
	if site.Stats != (leaderboard.Statistics{Benchmarks: 2, RankedAgents: 2, Models: 2}) {
		t.Fatalf("unexpected stats: %+v", site.Stats)
	}
	if len(site.Time) != 2 || site.Time[0].Key != "glm" {
		t.Fatalf("expected time rows sorted by hours, got %+v", site.Time)
	}
	if len(site.Fallbacks) != 2 {
		t.Fatalf("expected 2 fallback cells, got %v", site.Fallbacks)
	}
	for _, key := range []string{"average", "benchmark:bfcl"} {
		if got := site.Views[key].Chart; len(got) != 2 || got[0] != "opus" || got[1] != "base" {
			t.Fatalf("%s: expected chart keys [opus base], got %v", key, got)
		}
	}
}

func TestRenderHTML(t *testing.T) {
	page, err := RenderHTML(fixtureSite(t))
	if err != nil {
		t.Fatalf("RenderHTML error: %v", err)
	}
	html := string(page)

	for _, want := range []string{
		"<title>Agents &lt;Leaderboard&gt;</title>",
		`<option value="model:m1">Model One</option>`,
		`data-agent="opus"`,
		"<strong>40.00</strong>",
		"<em>base model</em>",
		"<strong>maths</strong>",
		"2 fallback values",
		"<code>glm/m1/aime2025=not_stored</code>",
		"<code>glm/m2/bfcl=error</code>",
		`class="fallback"`,
		"H100 GPU",
		"@misc{bench}",
		"RESIZE_DEBOUNCE_MS = 250",
		"benchboard-theme",
		`"defaultView":"average"`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in page", want)
		}
	}
	if strings.Contains(html, "<script>alert(1)</script>") {
		t.Fatal("raw HTML from markdown must not reach the page")
	}
	if strings.Index(html, `data-agent="opus"`) > strings.Index(html, `data-agent="base"`) {
		t.Fatal("server-rendered rows must follow rank order")
	}

	again, err := RenderHTML(fixtureSite(t))
	if err != nil {
		t.Fatalf("RenderHTML error: %v", err)
	}
	if !bytes.Equal(page, again) {
		t.Fatal("rendering is not deterministic")
	}
}

func TestWriteSiteWithGzip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "site")
	written, err := WriteSite(dir, fixtureSite(t), true)
	if err != nil {
		t.Fatalf("WriteSite error: %v", err)
	}
	if len(written) != 4 {
		t.Fatalf("expected 4 files, got %v", written)
	}

	plain, err := os.ReadFile(filepath.Join(dir, DataFile))
	if err != nil {
		t.Fatalf("read data: %v", err)
	}
	var payload Payload
	if err := json.Unmarshal(plain, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.DefaultView != "average" || len(payload.Views) != 5 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if len(payload.Fallbacks) != 2 || payload.Fallbacks[0] != "glm/m1/aime2025=not_stored" {
		t.Fatalf("expected fallback cells in payload, got %v", payload.Fallbacks)
	}
	if payload.Stats.RankedAgents != 2 || len(payload.Views["average"].Chart) != 2 {
		t.Fatalf("unexpected payload stats or chart keys: %+v %v", payload.Stats, payload.Views["average"].Chart)
	}

	f, err := os.Open(filepath.Join(dir, DataFile+".gz"))
	if err != nil {
		t.Fatalf("open gz: %v", err)
	}
	defer f.Close()
	zr, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	unzipped, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("read gz: %v", err)
	}
	if !bytes.Equal(plain, unzipped) {
		t.Fatal("gzip sibling does not match")
	}

	written, err = WriteSite(filepath.Join(t.TempDir(), "plain"), fixtureSite(t), false)
	if err != nil || len(written) != 2 {
		t.Fatalf("expected 2 files without gzip, got %v, %v", written, err)
	}
}

func TestExportFormats(t *testing.T) {
	site := fixtureSite(t)
	table := site.Average()
	titles := Titles(fixtureConfig(), table.Benchmarks)

	var buf bytes.Buffer
	if err := Export(&buf, table, FormatJSON, titles); err != nil {
		t.Fatalf("json export: %v", err)
	}
	var decoded leaderboard.Table
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if len(decoded.Rows) != 3 || decoded.Rows[0].Key != "opus" {
		t.Fatalf("unexpected json export: %+v", decoded)
	}

	buf.Reset()
	if err := Export(&buf, table, FormatYAML, titles); err != nil {
		t.Fatalf("yaml export: %v", err)
	}
	var generic map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &generic); err != nil {
		t.Fatalf("yaml decode: %v", err)
	}
	if generic["view"] != "average" {
		t.Fatalf("unexpected yaml view: %v", generic["view"])
	}

	buf.Reset()
	if err := Export(&buf, table, FormatMarkdown, titles); err != nil {
		t.Fatalf("markdown export: %v", err)
	}
	md := buf.String()
	for _, want := range []string{"| Rank | Agent | Score | AIME 2025 | BFCL V1 |", "| 1 | Opus (Claude Code) | 40.00 ±2.24 |", "| — | Base Model (Zero Shot) |", "5.00*", "fallback value"} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected %q in markdown:\n%s", want, md)
		}
	}

	buf.Reset()
	if err := Export(&buf, table, FormatCSV, titles); err != nil {
		t.Fatalf("csv export: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("csv decode: %v", err)
	}
	if len(records) != 4 || records[0][0] != "rank" || records[1][1] != "opus" || records[2][0] != "" {
		t.Fatalf("unexpected csv: %v", records)
	}
	if records[3][len(records[3])-1] != "error" {
		t.Fatalf("expected glm bfcl fallback in last column, got %v", records[3])
	}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{"json": FormatJSON, "": FormatJSON, "YML": FormatYAML, "md": FormatMarkdown, "csv": FormatCSV}
	for in, want := range cases {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatal("expected error for xml")
	}
}

func TestMarkdownEmpty(t *testing.T) {
	out, err := Markdown("")
	if err != nil || out != "" {
		t.Fatalf("expected empty output, got %q, %v", out, err)
	}
}

func TestMarkdownOmitsRawHTML(t *testing.T) {
	out, err := Markdown("Olympiad **maths** <script>alert(1)</script>")
	if err != nil {
		t.Fatalf("Markdown error: %v", err)
	}
	got := string(out)
	if strings.Contains(got, "<script>") || strings.Contains(got, "&lt;script&gt;") {
		t.Fatalf("raw HTML should be dropped, not kept or escaped: %s", got)
	}
	if !strings.Contains(got, "<!-- raw HTML omitted -->") || !strings.Contains(got, "<strong>maths</strong>") {
		t.Fatalf("unexpected markdown output: %s", got)
	}
}
