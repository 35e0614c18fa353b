package leaderboard

import (
	"sort"

	"github.com/mwiater/benchboard/internal/dataset"
)

// TimeRow is one bar of the time-spent chart.
type TimeRow struct {
	Key      string   `json:"key" yaml:"key"`
	Name     string   `json:"name" yaml:"name"`
	Hours    float64  `json:"hours" yaml:"hours"`
	Time     string   `json:"time" yaml:"time"`
	StdHours *float64 `json:"stdHours" yaml:"stdHours"`
	StdTime  string   `json:"stdTime,omitempty" yaml:"stdTime,omitempty"`
	N        int      `json:"n" yaml:"n"`
}

// TimeRows returns agents flagged for the time chart that have time data,
// slowest first. Ties keep catalog order.
func TimeRows(ds *dataset.Dataset) []TimeRow {
	if ds == nil {
		return nil
	}
	var rows []TimeRow
	for _, agent := range ds.Agents() {
		if !agent.ShowInTimeChart {
			continue
		}
		rec, ok := ds.Time(agent.Key)
		if !ok {
			continue
		}
		rows = append(rows, TimeRow{
			Key:      agent.Key,
			Name:     agent.Name,
			Hours:    rec.Hours,
			Time:     rec.Time,
			StdHours: rec.StdHours,
			StdTime:  rec.StdTime,
			N:        rec.N,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Hours > rows[j].Hours })
	return rows
}

// Statistics summarises the dataset for the site header.
type Statistics struct {
	Benchmarks   int `json:"benchmarks" yaml:"benchmarks"`
	RankedAgents int `json:"rankedAgents" yaml:"rankedAgents"`
	Models       int `json:"models" yaml:"models"`
}

// Stats counts the columns, ranked rows and models of an average
// leaderboard.
func Stats(lb *Leaderboard) Statistics {
	if lb == nil {
		return Statistics{}
	}
	return Statistics{Benchmarks: len(lb.Benchmarks), RankedAgents: lb.Ranked(), Models: len(lb.Models)}
}
