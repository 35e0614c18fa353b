// Package report renders leaderboards as a static site and as export files.
package report

import (
	"fmt"
	"html/template"

	"github.com/mwiater/benchboard/internal/appconfig"
	"github.com/mwiater/benchboard/internal/dataset"
	"github.com/mwiater/benchboard/internal/leaderboard"
)

// Option is a selectable model or benchmark.
type Option struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Task is one benchmark card.
type Task struct {
	Key         string
	Title       string
	Version     string
	Difficulty  string
	Category    string
	Weight      float64
	Description template.HTML
}

// Site is everything the page needs. Views holds the average view, every
// model view and every benchmark view, keyed by View.String().
type Site struct {
	Title      string
	About      template.HTML
	Citation   string
	Setup      appconfig.Setup
	Stats      leaderboard.Statistics
	Tasks      []Task
	Models     []Option
	Benchmarks []Option
	Views      map[string]leaderboard.Table
	Time       []leaderboard.TimeRow
	// Fallbacks lists flagged cells as "agent/model/benchmark=type".
	Fallbacks []string
}

// Payload is the JSON embedded in the page and written to leaderboard.json.
type Payload struct {
	Title       string                       `json:"title"`
	DefaultView string                       `json:"defaultView"`
	Models      []Option                     `json:"models"`
	Benchmarks  []Option                     `json:"benchmarks"`
	Views       map[string]leaderboard.Table `json:"views"`
	Time        []leaderboard.TimeRow        `json:"time"`
	Stats       leaderboard.Statistics       `json:"stats"`
	Fallbacks   []string                     `json:"fallbacks"`
}

// BuildSite precomputes every view of ds.
func BuildSite(cfg appconfig.Config, ds *dataset.Dataset) (*Site, error) {
	if ds == nil {
		return nil, dataset.ErrNoData
	}
	about, err := Markdown(cfg.About)
	if err != nil {
		return nil, fmt.Errorf("render about: %w", err)
	}

	site := &Site{
		Title:     cfg.SiteTitle(),
		About:     about,
		Citation:  cfg.Citation,
		Setup:     cfg.Setup,
		Views:     make(map[string]leaderboard.Table),
		Time:      leaderboard.TimeRows(ds),
		Fallbacks: ds.FallbackCells(),
	}

	views := []leaderboard.View{leaderboard.AverageView()}
	for _, m := range ds.Models() {
		site.Models = append(site.Models, Option{Key: m, Name: cfg.ModelName(m)})
		views = append(views, leaderboard.ModelView(m))
	}

	weights := ds.Weights()
	for _, b := range ds.Benchmarks() {
		info := cfg.BenchmarkInfo(b)
		desc, err := Markdown(info.Description)
		if err != nil {
			return nil, fmt.Errorf("render %s description: %w", b, err)
		}
		site.Tasks = append(site.Tasks, Task{
			Key:         b,
			Title:       info.Title,
			Version:     info.Version,
			Difficulty:  info.Difficulty,
			Category:    info.Category,
			Weight:      weights[b],
			Description: desc,
		})
		site.Benchmarks = append(site.Benchmarks, Option{Key: b, Name: displayTitle(info)})
		views = append(views, leaderboard.BenchmarkView(b))
	}

	for _, v := range views {
		lb, err := leaderboard.Build(ds, v)
		if err != nil {
			return nil, fmt.Errorf("build %s: %w", v, err)
		}
		if v.Kind == leaderboard.KindAverage {
			site.Stats = leaderboard.Stats(lb)
		}
		site.Views[v.String()] = lb.Table()
	}
	return site, nil
}

func displayTitle(b appconfig.Benchmark) string {
	if b.Version == "" {
		return b.Title
	}
	return b.Title + " " + b.Version
}

// Average returns the default view's table.
func (s *Site) Average() leaderboard.Table {
	return s.Views[leaderboard.AverageView().String()]
}

// Payload returns the client-side data for the page.
func (s *Site) Payload() Payload {
	return Payload{
		Title:       s.Title,
		DefaultView: leaderboard.AverageView().String(),
		Models:      s.Models,
		Benchmarks:  s.Benchmarks,
		Views:       s.Views,
		Time:        s.Time,
		Stats:       s.Stats,
		Fallbacks:   s.Fallbacks,
	}
}

// Titles maps benchmark keys to their display titles.
func Titles(cfg appconfig.Config, keys []string) map[string]string {
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		out[k] = displayTitle(cfg.BenchmarkInfo(k))
	}
	return out
}
