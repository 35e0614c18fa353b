// internal/tui/browser.go
// Package tui provides an interactive terminal browser for the precomputed
// leaderboard views.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mwiater/benchboard/internal/leaderboard"
	"github.com/mwiater/benchboard/internal/logging"
	"github.com/mwiater/benchboard/internal/report"
)

const (
	// resizeDebounce is how long the browser waits for the terminal size to
	// settle before rebuilding the table.
	resizeDebounce = 250 * time.Millisecond
	// narrowWidth is the terminal width at or below which the average view
	// is replaced by a single-benchmark view.
	narrowWidth = 80

	rankWidth      = 5
	agentWidth     = 30
	scoreWidth     = 14
	benchmarkWidth = 12
	chromeHeight   = 6
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	viewBadge     = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("33")).Padding(0, 1).MarginLeft(1)
	narrowBadge   = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("229")).Padding(0, 1).MarginLeft(1)
	footnoteStyle = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
)

// keyMap holds the browser's key bindings.
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Average   key.Binding
	Model     key.Binding
	Benchmark key.Binding
	Quit      key.Binding
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Average, k.Model, k.Benchmark, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Average, k.Model, k.Benchmark}, {k.Quit}}
}

var keys = keyMap{
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Average:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "average")),
	Model:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "next model")),
	Benchmark: key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "next benchmark")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// resizeMsg is delivered once the debounce window after a resize elapses.
// Only the message matching the latest resize sequence is applied.
type resizeMsg struct {
	seq           int
	width, height int
}

// model is the Bubble Tea model for the leaderboard browser.
type model struct {
	site      *report.Site
	selection leaderboard.View
	// benchmark is the benchmark shown when a narrow terminal replaces the
	// average view. It follows the last benchmark picked with "b".
	benchmark int
	modelIdx  int
	narrow    bool
	width     int
	height    int
	resizeSeq int
	table     table.Model
	help      help.Model
	keys      keyMap
	err       error
}

// initialModel creates a browser showing the average view.
func initialModel(site *report.Site) *model {
	m := &model{
		site:      site,
		selection: leaderboard.AverageView(),
		modelIdx:  -1,
		table:     table.New(table.WithFocused(true), table.WithHeight(10)),
		help:      help.New(),
		keys:      keys,
	}
	styles := table.DefaultStyles()
	styles.Header = styles.Header.BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240")).BorderBottom(true).Bold(true)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	m.table.SetStyles(styles)
	m.rebuild()
	return m
}

// Init implements tea.Model.
func (m *model) Init() tea.Cmd { return nil }

// Update handles key presses and debounced resizes.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Average):
			m.selection = leaderboard.AverageView()
			m.modelIdx = -1
			m.rebuild()
			return m, nil
		case key.Matches(msg, m.keys.Model):
			m.nextModel()
			m.rebuild()
			return m, nil
		case key.Matches(msg, m.keys.Benchmark):
			m.nextBenchmark()
			m.rebuild()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.resizeSeq++
		seq := m.resizeSeq
		width, height := msg.Width, msg.Height
		return m, tea.Tick(resizeDebounce, func(time.Time) tea.Msg {
			return resizeMsg{seq: seq, width: width, height: height}
		})

	case resizeMsg:
		if msg.seq != m.resizeSeq {
			return m, nil
		}
		m.width, m.height = msg.width, msg.height
		m.narrow = msg.width > 0 && msg.width <= narrowWidth
		m.help.Width = msg.width
		m.rebuild()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *model) nextModel() {
	if len(m.site.Models) == 0 {
		return
	}
	m.modelIdx = (m.modelIdx + 1) % len(m.site.Models)
	m.selection = leaderboard.ModelView(m.site.Models[m.modelIdx].Key)
}

func (m *model) nextBenchmark() {
	if len(m.site.Benchmarks) == 0 {
		return
	}
	if m.selection.Kind == leaderboard.KindBenchmark || (m.narrow && m.selection.Kind == leaderboard.KindAverage) {
		m.benchmark = (m.benchmark + 1) % len(m.site.Benchmarks)
	}
	m.modelIdx = -1
	m.selection = leaderboard.BenchmarkView(m.site.Benchmarks[m.benchmark].Key)
}

// activeView is the view on screen. A narrow terminal shows one benchmark
// instead of the average.
func (m *model) activeView() leaderboard.View {
	if m.narrow && m.selection.Kind == leaderboard.KindAverage && len(m.site.Benchmarks) > 0 {
		return leaderboard.BenchmarkView(m.site.Benchmarks[m.benchmark].Key)
	}
	return m.selection
}

// rebuild swaps the table contents for the active view. Rows are cleared
// before the columns change so the table never renders rows wider than its
// columns.
func (m *model) rebuild() {
	view := m.activeView()
	t, ok := m.site.Views[view.String()]
	if !ok {
		m.err = fmt.Errorf("view %s is not available", view)
		logging.LogEvent("browse: %v", m.err)
		return
	}
	m.err = nil

	columns := []table.Column{
		{Title: "Rank", Width: rankWidth},
		{Title: "Agent", Width: agentWidth},
		{Title: "Score", Width: scoreWidth},
	}
	for _, b := range t.Benchmarks {
		columns = append(columns, table.Column{Title: m.benchmarkTitle(b), Width: benchmarkWidth})
	}

	rows := make([]table.Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		name := r.Name
		if r.Scaffold != "" {
			name += " (" + r.Scaffold + ")"
		}
		score := leaderboard.FormatScore(r.Score)
		if r.Std != nil {
			score += " " + leaderboard.FormatStd(r.Std)
		}
		row := table.Row{leaderboard.FormatRank(r.Rank), name, score}
		for _, b := range t.Benchmarks {
			c := r.Cells[b]
			text := leaderboard.FormatScore(c.Score)
			if len(c.Fallback) > 0 {
				text += "*"
			}
			row = append(row, text)
		}
		rows = append(rows, row)
	}

	m.table.SetRows(nil)
	m.table.SetColumns(columns)
	m.table.SetRows(rows)
	if m.height > chromeHeight {
		m.table.SetHeight(m.height - chromeHeight)
	}
	m.table.GotoTop()
}

func (m *model) benchmarkTitle(key string) string {
	for _, b := range m.site.Benchmarks {
		if b.Key == key {
			return b.Name
		}
	}
	return key
}

func (m *model) viewLabel() string {
	view := m.activeView()
	switch view.Kind {
	case leaderboard.KindModel:
		for _, o := range m.site.Models {
			if o.Key == view.Model {
				return "Model: " + o.Name
			}
		}
		return "Model: " + view.Model
	case leaderboard.KindBenchmark:
		return "Benchmark: " + m.benchmarkTitle(view.Benchmark)
	}
	return "Average over models"
}

// View renders the browser.
func (m *model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.site.Title))
	b.WriteString(viewBadge.Render(m.viewLabel()))
	if m.narrow && m.selection.Kind == leaderboard.KindAverage {
		b.WriteString(narrowBadge.Render("narrow"))
	}
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	} else {
		b.WriteString(m.table.View())
		b.WriteString("\n")
		b.WriteString(footnoteStyle.Render("* fallback value   — unranked baseline"))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// Run starts the browser and blocks until the user quits or ctx is done.
func Run(ctx context.Context, site *report.Site) error {
	if site == nil {
		return fmt.Errorf("no leaderboard to browse")
	}
	p := tea.NewProgram(initialModel(site), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("browse: %w", err)
	}
	return nil
}
