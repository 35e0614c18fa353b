// internal/report/html.go
package report

import (
	"bytes"
	"encoding/json"
	"html/template"
	"strings"

	"github.com/mwiater/benchboard/internal/leaderboard"
)

type pageData struct {
	*Site
	Table    leaderboard.Table
	DataJSON template.JS
}

// RenderHTML renders the standalone leaderboard page. The average view is
// rendered server-side; the embedded payload drives view switching and charts.
func RenderHTML(site *Site) ([]byte, error) {
	payload, err := json.Marshal(site.Payload())
	if err != nil {
		return nil, err
	}
	data := pageData{
		Site:     site,
		Table:    site.Average(),
		DataJSON: template.JS(payload),
	}

	var buf bytes.Buffer
	if err := siteTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var siteFuncs = template.FuncMap{
	"score": leaderboard.FormatScore,
	"std":   leaderboard.FormatStd,
	"rank":  leaderboard.FormatRank,
	"cell": func(row leaderboard.TableRow, key string) leaderboard.TableCell {
		return row.Cells[key]
	},
	"join": strings.Join,
}

var siteTemplate = template.Must(template.New("leaderboard").Funcs(siteFuncs).Parse(siteTemplateHTML))

const siteTemplateHTML = `<!DOCTYPE html>
<html lang="en" data-theme="dark">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{ .Title }}</title>
  <style>
    :root {
      --bg: #FFFFFF;
      --panel: #F1F5F9;
      --text: #0F172A;
      --muted: #64748B;
      --accent: #3B82F6;
      --border: #E2E8F0;
      --warn: #F59E0B;
    }
    [data-theme="dark"] {
      --bg: #0F172A;
      --panel: #0B1220;
      --text: #E2E8F0;
      --muted: #94A3B8;
      --accent: #60A5FA;
      --border: rgba(148, 163, 184, 0.25);
      --warn: #FBBF24;
    }
    body { margin: 0; font-family: ui-monospace, SFMono-Regular, Menlo, monospace; background: var(--bg); color: var(--text); }
    header, section { max-width: 1200px; margin: 0 auto; padding: 1.5rem; }
    header { display: flex; justify-content: space-between; align-items: center; }
    h1 { font-size: 1.6rem; margin: 0; }
    .panel { background: var(--panel); border: 1px solid var(--border); border-radius: 8px; padding: 1rem; }
    .controls { display: flex; gap: 1rem; align-items: center; margin-bottom: 1rem; flex-wrap: wrap; }
    select, button { font: inherit; background: var(--bg); color: var(--text); border: 1px solid var(--border); border-radius: 4px; padding: 0.3rem 0.6rem; }
    table { width: 100%; border-collapse: collapse; }
    th, td { padding: 0.45rem 0.6rem; border-bottom: 1px solid var(--border); text-align: right; white-space: nowrap; }
    th:nth-child(2), td:nth-child(2) { text-align: left; }
    tr.baseline td { color: var(--muted); font-style: italic; }
    .std { color: var(--muted); font-size: 0.8em; margin-left: 0.25rem; }
    .fallback { color: var(--warn); cursor: help; }
    .footnotes { color: var(--muted); font-size: 0.85em; margin-top: 0.75rem; }
    .scaffold { color: var(--muted); font-size: 0.8em; display: block; }
    .stats { display: grid; grid-template-columns: repeat(auto-fit, minmax(160px, 1fr)); gap: 1rem; }
    .stat strong { display: block; font-size: 1.5rem; }
    .tasks { display: grid; grid-template-columns: repeat(auto-fit, minmax(260px, 1fr)); gap: 1rem; }
    .badge { font-size: 0.75rem; padding: 0.1rem 0.4rem; border-radius: 4px; border: 1px solid var(--border); }
    .difficulty-hard { color: #EF4444; }
    .difficulty-medium { color: var(--warn); }
    .difficulty-easy { color: #10B981; }
    .chart-wrapper { position: relative; height: 420px; }
    .table-wrapper { overflow-x: auto; }
    #benchmarkControl { display: none; }
    @media (max-width: 768px) {
      #benchmarkControl { display: inline-flex; }
      .chart-wrapper { height: 300px; min-width: 600px; }
      .chart-scroll { overflow-x: auto; }
    }
    pre { white-space: pre-wrap; }
  </style>
</head>
<body>
  <header>
    <h1>{{ .Title }}</h1>
    <button type="button" id="themeToggle" aria-label="Toggle theme">Theme</button>
  </header>

  <section class="stats">
    <div class="panel stat"><strong id="totalBenchmarks">{{ .Stats.Benchmarks }}</strong>Benchmarks</div>
    <div class="panel stat"><strong id="totalAgents">{{ .Stats.RankedAgents }}</strong>Ranked agents</div>
    <div class="panel stat"><strong id="totalModels">{{ .Stats.Models }}</strong>Base models</div>
    {{- if .Setup.TimeLimit }}
    <div class="panel stat"><strong id="timeLimit">{{ .Setup.TimeLimit }}</strong>Time limit</div>
    {{- end }}
  </section>

  {{- if .About }}
  <section id="about" class="panel">{{ .About }}</section>
  {{- end }}

  <section id="leaderboard">
    <div class="controls">
      <label>View
        <select id="viewSelect">
          <option value="average">Average over models</option>
          {{- range .Models }}
          <option value="model:{{ .Key }}">{{ .Name }}</option>
          {{- end }}
        </select>
      </label>
      <label id="benchmarkControl">Benchmark
        <select id="benchmarkSelect">
          {{- range .Benchmarks }}
          <option value="{{ .Key }}">{{ .Name }}</option>
          {{- end }}
        </select>
      </label>
    </div>
    <div class="panel chart-scroll"><div class="chart-wrapper"><canvas id="overallChart"></canvas></div></div>
    <div class="panel table-wrapper">
      <table id="leaderboardTable">
        <thead>
          <tr>
            <th>Rank</th><th>Agent</th><th>Score</th>
            {{- range .Benchmarks }}<th data-benchmark="{{ .Key }}">{{ .Name }}</th>{{ end }}
          </tr>
        </thead>
        <tbody>
          {{- $benchmarks := .Table.Benchmarks }}
          {{- range .Table.Rows }}
          <tr class="{{ if .Baseline }}baseline{{ end }}" data-agent="{{ .Key }}">
            <td>{{ rank .Rank }}</td>
            <td>{{ .Name }}{{ if .Scaffold }}<span class="scaffold">{{ .Scaffold }}</span>{{ end }}</td>
            <td><strong>{{ score .Score }}</strong>{{ with std .Std }}<span class="std">{{ . }}</span>{{ end }}</td>
            {{- $row := . }}
            {{- range $benchmarks }}
            {{- $c := cell $row . }}
            <td>{{ score $c.Score }}{{ if $c.Fallback }}<span class="fallback" title="{{ join $c.Fallback ", " }}">*</span>{{ end }}</td>
            {{- end }}
          </tr>
          {{- end }}
        </tbody>
      </table>
    </div>
    {{- if .Fallbacks }}
    <details class="footnotes">
      <summary><span class="fallback">*</span> {{ len .Fallbacks }} fallback values (score not stored or run errored)</summary>
      <ul>
        {{- range .Fallbacks }}
        <li><code>{{ . }}</code></li>
        {{- end }}
      </ul>
    </details>
    {{- end }}
  </section>

  <section id="benchmarks">
    <h2>Per-benchmark results</h2>
    <div class="panel chart-scroll"><div class="chart-wrapper"><canvas id="benchmarkChart"></canvas></div></div>
  </section>

  {{- if .Time }}
  <section id="time">
    <h2>Time spent</h2>
    <div class="panel chart-scroll"><div class="chart-wrapper"><canvas id="timeChart"></canvas></div></div>
  </section>
  {{- end }}

  <section id="tasks">
    <h2>Benchmarks</h2>
    <div class="tasks">
      {{- range .Tasks }}
      <div class="panel task" data-benchmark="{{ .Key }}">
        <h3>{{ .Title }}{{ if .Version }} <small>{{ .Version }}</small>{{ end }}</h3>
        {{- if .Difficulty }}<span class="badge difficulty-{{ .Difficulty }}">{{ .Difficulty }}</span>{{ end }}
        {{- if .Category }} <span class="badge">{{ .Category }}</span>{{ end }}
        <span class="badge">weight {{ .Weight }}</span>
        {{ .Description }}
      </div>
      {{- end }}
    </div>
  </section>

  {{- if or .Setup.Hardware .Setup.Models }}
  <section id="setup" class="panel">
    <h2>Setup</h2>
    <ul>
      {{- if .Setup.Hardware }}<li>Hardware: {{ .Setup.Hardware }}</li>{{ end }}
      {{- if .Setup.TimeLimit }}<li>Time limit: {{ .Setup.TimeLimit }}</li>{{ end }}
      {{- if .Setup.ModelsPerAgent }}<li>Models per agent: {{ .Setup.ModelsPerAgent }}</li>{{ end }}
      {{- if .Setup.Models }}<li>Models: {{ join .Setup.Models ", " }}</li>{{ end }}
    </ul>
  </section>
  {{- end }}

  {{- if .Citation }}
  <section id="citation" class="panel">
    <h2>Citation</h2>
    <pre>{{ .Citation }}</pre>
  </section>
  {{- end }}

  <script src="https://cdn.jsdelivr.net/npm/chart.js@4.4.2/dist/chart.umd.min.js"></script>
  <script>
    var payload = {{ .DataJSON }};
  </script>
  <script>
    (function() {
      var RESIZE_DEBOUNCE_MS = 250;
      var NARROW_WIDTH = 768;
      var charts = {};
      var state = { selection: payload.defaultView, benchmark: payload.benchmarks.length ? payload.benchmarks[0].key : '' };

      function cssVar(name) {
        return getComputedStyle(document.documentElement).getPropertyValue(name).trim();
      }

      function isNarrow() {
        return window.innerWidth <= NARROW_WIDTH;
      }

      function currentViewKey() {
        if (isNarrow() && state.selection === 'average' && state.benchmark) {
          return 'benchmark:' + state.benchmark;
        }
        return state.selection;
      }

      function currentView() {
        return payload.views[currentViewKey()] || payload.views[payload.defaultView];
      }

      function fmt(x) {
        return Number(x).toFixed(2);
      }

      function benchmarkName(key) {
        for (var i = 0; i < payload.benchmarks.length; i++) {
          if (payload.benchmarks[i].key === key) {
            return payload.benchmarks[i].name;
          }
        }
        return key;
      }

      function textCell(tr, text, cls) {
        var td = document.createElement('td');
        td.textContent = text;
        if (cls) {
          td.className = cls;
        }
        tr.appendChild(td);
        return td;
      }

      function renderTable(view) {
        var table = document.getElementById('leaderboardTable');
        var head = table.tHead.rows[0];
        while (head.cells.length > 3) {
          head.deleteCell(3);
        }
        view.benchmarks.forEach(function(b) {
          var th = document.createElement('th');
          th.textContent = benchmarkName(b);
          head.appendChild(th);
        });

        var body = table.tBodies[0];
        body.innerHTML = '';
        view.rows.forEach(function(row) {
          var tr = document.createElement('tr');
          if (row.baseline) {
            tr.className = 'baseline';
          }
          textCell(tr, row.rank === null ? '—' : String(row.rank));
          var name = textCell(tr, row.name);
          if (row.scaffold) {
            var s = document.createElement('span');
            s.className = 'scaffold';
            s.textContent = row.scaffold;
            name.appendChild(s);
          }
          var score = textCell(tr, '');
          var strong = document.createElement('strong');
          strong.textContent = fmt(row.score);
          score.appendChild(strong);
          if (row.std !== null) {
            var sd = document.createElement('span');
            sd.className = 'std';
            sd.textContent = '±' + fmt(row.std);
            score.appendChild(sd);
          }
          view.benchmarks.forEach(function(b) {
            var c = row.benchmarks[b];
            var td = textCell(tr, fmt(c.score));
            if (c.fallback && c.fallback.length) {
              var f = document.createElement('span');
              f.className = 'fallback';
              f.title = c.fallback.join(', ');
              f.textContent = '*';
              td.appendChild(f);
            }
          });
          body.appendChild(tr);
        });
      }

      var errorBars = {
        id: 'errorBars',
        afterDatasetsDraw: function(chart) {
          var ctx = chart.ctx;
          chart.data.datasets.forEach(function(ds, i) {
            if (!ds.errors) {
              return;
            }
            var meta = chart.getDatasetMeta(i);
            var horizontal = chart.options.indexAxis === 'y';
            var scale = horizontal ? chart.scales.x : chart.scales.y;
            ctx.save();
            ctx.strokeStyle = cssVar('--text');
            ctx.lineWidth = 1;
            meta.data.forEach(function(bar, j) {
              var err = ds.errors[j];
              if (err === null || err === undefined) {
                return;
              }
              var v = ds.data[j];
              var lo = scale.getPixelForValue(v - err);
              var hi = scale.getPixelForValue(v + err);
              ctx.beginPath();
              if (horizontal) {
                ctx.moveTo(lo, bar.y);
                ctx.lineTo(hi, bar.y);
                ctx.moveTo(lo, bar.y - 4);
                ctx.lineTo(lo, bar.y + 4);
                ctx.moveTo(hi, bar.y - 4);
                ctx.lineTo(hi, bar.y + 4);
              } else {
                ctx.moveTo(bar.x, lo);
                ctx.lineTo(bar.x, hi);
                ctx.moveTo(bar.x - 4, lo);
                ctx.lineTo(bar.x + 4, lo);
                ctx.moveTo(bar.x - 4, hi);
                ctx.lineTo(bar.x + 4, hi);
              }
              ctx.stroke();
            });
            ctx.restore();
          });
        }
      };

      function baseOptions(yTitle) {
        var text = cssVar('--text');
        var muted = cssVar('--muted');
        var border = cssVar('--border');
        return {
          responsive: true,
          maintainAspectRatio: false,
          plugins: { legend: { labels: { color: text } } },
          scales: {
            x: { grid: { display: false }, ticks: { color: muted } },
            y: { beginAtZero: true, grid: { color: border }, ticks: { color: muted }, title: { display: true, text: yTitle, color: text } }
          }
        };
      }

      function destroyCharts() {
        Object.keys(charts).forEach(function(k) {
          charts[k].destroy();
        });
        charts = {};
      }

      function inChart(view) {
        var keys = view.chart || [];
        return view.rows.filter(function(r) { return keys.indexOf(r.key) !== -1; });
      }

      function chartRows(view) {
        return inChart(view).slice().reverse();
      }

      function buildOverallChart(view) {
        var rows = chartRows(view);
        var options = baseOptions('Score (%)');
        options.plugins.legend.display = false;
        options.plugins.tooltip = {
          callbacks: {
            label: function(ctx) {
              var row = rows[ctx.dataIndex];
              var label = 'Score: ' + fmt(row.score) + '%';
              if (row.std !== null) {
                label += ' ±' + fmt(row.std);
              }
              return label;
            }
          }
        };
        charts.overall = new Chart(document.getElementById('overallChart'), {
          type: 'bar',
          data: {
            labels: rows.map(function(r) { return r.name; }),
            datasets: [{
              data: rows.map(function(r) { return r.score; }),
              errors: rows.map(function(r) { return r.std; }),
              backgroundColor: rows.map(function(r) { return r.baseline ? cssVar('--muted') : cssVar('--accent'); }),
              borderRadius: 4
            }]
          },
          options: options,
          plugins: [errorBars]
        });
      }

      function buildBenchmarkChart() {
        var view = payload.views[state.selection] || payload.views[payload.defaultView];
        var rows = inChart(view);
        var palette = ['#3B82F6', '#10B981', '#F59E0B', '#EF4444', '#8B5CF6', '#EC4899', '#14B8A6', '#F97316', '#84CC16', '#06B6D4', '#A855F7', '#64748B', '#EAB308'];
        charts.benchmark = new Chart(document.getElementById('benchmarkChart'), {
          type: 'bar',
          data: {
            labels: view.benchmarks.map(benchmarkName),
            datasets: rows.map(function(r, i) {
              return {
                label: r.name + (r.scaffold ? ' (' + r.scaffold + ')' : ''),
                data: view.benchmarks.map(function(b) { return r.benchmarks[b].score; }),
                errors: view.benchmarks.map(function(b) { return r.benchmarks[b].std; }),
                backgroundColor: palette[i % palette.length]
              };
            })
          },
          options: baseOptions('Score (%)'),
          plugins: [errorBars]
        });
      }

      function buildTimeChart() {
        var canvas = document.getElementById('timeChart');
        var rows = payload.time || [];
        if (!canvas || !rows.length) {
          return;
        }
        var options = baseOptions('Hours');
        options.indexAxis = 'y';
        options.plugins.legend.display = false;
        options.plugins.tooltip = {
          callbacks: {
            label: function(ctx) {
              var row = rows[ctx.dataIndex];
              var label = row.time + ' (' + row.hours + ' h)';
              if (row.stdTime) {
                label += ' ±' + row.stdTime;
              }
              if (row.n > 1) {
                label += ', n=' + row.n;
              }
              return label;
            }
          }
        };
        options.scales = {
          x: { beginAtZero: true, ticks: { color: cssVar('--muted') }, grid: { color: cssVar('--border') } },
          y: { ticks: { color: cssVar('--muted') }, grid: { display: false } }
        };
        charts.time = new Chart(canvas, {
          type: 'bar',
          data: {
            labels: rows.map(function(r) { return r.name; }),
            datasets: [{
              data: rows.map(function(r) { return r.hours; }),
              errors: rows.map(function(r) { return r.stdHours; }),
              backgroundColor: cssVar('--accent'),
              borderRadius: 4
            }]
          },
          options: options,
          plugins: [errorBars]
        });
      }

      function render() {
        var view = currentView();
        renderTable(view);
        destroyCharts();
        buildOverallChart(view);
        buildBenchmarkChart();
        buildTimeChart();
      }

      function applyTheme(theme) {
        var selected = theme === 'light' ? 'light' : 'dark';
        document.documentElement.setAttribute('data-theme', selected);
        try {
          localStorage.setItem('benchboard-theme', selected);
        } catch (e) {}
      }

      var saved = null;
      try {
        saved = localStorage.getItem('benchboard-theme');
      } catch (e) {}
      applyTheme(saved || 'dark');

      document.getElementById('themeToggle').addEventListener('click', function() {
        var current = document.documentElement.getAttribute('data-theme');
        applyTheme(current === 'dark' ? 'light' : 'dark');
        render();
      });

      document.getElementById('viewSelect').addEventListener('change', function(e) {
        state.selection = e.target.value;
        render();
      });

      document.getElementById('benchmarkSelect').addEventListener('change', function(e) {
        state.benchmark = e.target.value;
        render();
      });

      var resizeTimer = null;
      window.addEventListener('resize', function() {
        clearTimeout(resizeTimer);
        resizeTimer = setTimeout(render, RESIZE_DEBOUNCE_MS);
      });

      document.addEventListener('DOMContentLoaded', render);
    })();
  </script>
</body>
</html>
`
