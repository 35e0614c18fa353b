// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mwiater/benchboard/internal/dataset"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// legacyConfigPath is the path to the configuration file used in previous versions.
	legacyConfigPath = "config.json"
	// defaultFetchTimeout bounds the HTTP fetch of a remote scores document.
	defaultFetchTimeout = 30 * time.Second
	defaultScoresPath   = "scores.json"
	defaultOutputDir    = "site"
	defaultTitle        = "Benchmark Leaderboard"
)

// Config represents the top-level application configuration.
type Config struct {
	Title           string      `json:"title,omitempty"`
	ScoresPath      string      `json:"scoresPath,omitempty"`
	OutputDir       string      `json:"outputDir,omitempty"`
	LogFile         string      `json:"logFile,omitempty"`
	Debug           bool        `json:"debug"`
	Gzip            bool        `json:"gzip"`
	FetchTimeout    int         `json:"fetchTimeout,omitempty" validate:"min=0"`
	Models          []Model     `json:"models" validate:"required,min=1,dive"`
	Agents          []Agent     `json:"agents" validate:"required,min=1,dive"`
	ChartAgents     []string    `json:"chartAgents,omitempty"`
	TimeChartAgents []string    `json:"timeChartAgents,omitempty"`
	Benchmarks      []Benchmark `json:"benchmarks,omitempty" validate:"dive"`
	Setup           Setup       `json:"setup"`
	About           string      `json:"about,omitempty"`
	Citation        string      `json:"citation,omitempty"`
	Ingest          Ingest      `json:"ingest"`
	ConfigPath      string      `json:"-"`
}

// Model is one evaluated base model.
type Model struct {
	Key  string `json:"key" validate:"required"`
	Name string `json:"name,omitempty"`
	// InstructKey names the instruction-tuned counterpart whose scores stand
	// in for the reference agent.
	InstructKey string `json:"instructKey,omitempty"`
}

// Agent is the display metadata for one benchmarked system.
type Agent struct {
	Key         string `json:"key" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
	Scaffold    string `json:"scaffold,omitempty"`
	Baseline    bool   `json:"baseline"`
	OpenCode    bool   `json:"openCode"`
}

// Benchmark describes a task card.
type Benchmark struct {
	Key         string `json:"key" validate:"required"`
	Title       string `json:"title,omitempty"`
	Version     string `json:"version,omitempty"`
	Difficulty  string `json:"difficulty,omitempty" validate:"omitempty,oneof=easy medium hard"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
}

// Setup is the training setup shown on the site.
type Setup struct {
	Hardware       string   `json:"hardware,omitempty"`
	TimeLimit      string   `json:"timeLimit,omitempty"`
	ModelsPerAgent int      `json:"modelsPerAgent,omitempty" validate:"min=0"`
	Models         []string `json:"models,omitempty"`
}

// FetchTimeoutDuration returns the remote scores fetch timeout.
func (c Config) FetchTimeoutDuration() time.Duration {
	if c.FetchTimeout <= 0 {
		return defaultFetchTimeout
	}
	return time.Duration(c.FetchTimeout) * time.Second
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "benchboard.log"
}

// ScoresSource returns the scores document path or URL.
func (c Config) ScoresSource() string {
	if s := strings.TrimSpace(c.ScoresPath); s != "" {
		return s
	}
	return defaultScoresPath
}

// OutputPath returns the directory the site is written to.
func (c Config) OutputPath() string {
	if s := strings.TrimSpace(c.OutputDir); s != "" {
		return s
	}
	return defaultOutputDir
}

// SiteTitle returns the page title.
func (c Config) SiteTitle() string {
	if s := strings.TrimSpace(c.Title); s != "" {
		return s
	}
	return defaultTitle
}

// ModelName returns the display name for a model key, or the key itself.
func (c Config) ModelName(key string) string {
	for _, m := range c.Models {
		if m.Key == key && m.Name != "" {
			return m.Name
		}
	}
	return key
}

// BenchmarkInfo returns the task card for key. Unknown keys get a card
// titled with the key.
func (c Config) BenchmarkInfo(key string) Benchmark {
	for _, b := range c.Benchmarks {
		if b.Key == key {
			if b.Title == "" {
				b.Title = key
			}
			return b
		}
	}
	return Benchmark{Key: key, Title: key}
}

// Catalog converts the configuration into the dataset's view of the world.
// An empty chart list shows every agent; an empty time-chart list shows
// every agent that has time data.
func (c Config) Catalog() dataset.Catalog {
	chart := keySet(c.ChartAgents)
	timeChart := keySet(c.TimeChartAgents)

	cat := dataset.Catalog{
		Models:         make([]string, 0, len(c.Models)),
		Agents:         make([]dataset.Agent, 0, len(c.Agents)),
		BenchmarkOrder: make([]string, 0, len(c.Benchmarks)),
	}
	for _, m := range c.Models {
		cat.Models = append(cat.Models, m.Key)
	}
	for _, a := range c.Agents {
		_, inChart := chart[a.Key]
		_, inTime := timeChart[a.Key]
		name := a.Name
		if name == "" {
			name = a.Key
		}
		cat.Agents = append(cat.Agents, dataset.Agent{
			Key:             a.Key,
			Name:            name,
			Description:     a.Description,
			Scaffold:        a.Scaffold,
			Baseline:        a.Baseline,
			OpenCode:        a.OpenCode,
			ShowInChart:     len(chart) == 0 || inChart,
			ShowInTimeChart: len(timeChart) == 0 || inTime,
		})
	}
	for _, b := range c.Benchmarks {
		cat.BenchmarkOrder = append(cat.BenchmarkOrder, b.Key)
	}
	return cat
}

func keySet(keys []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

// Load reads the application configuration from the specified path, with fallback to a legacy path.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err == nil {
		if err := config.Validate(); err != nil {
			return Config{}, err
		}
		config.ConfigPath = path
		return config, nil
	}

	if errors.Is(err, os.ErrNotExist) {
		if path == DefaultConfigPath {
			config, legacyErr := loadFromPath(legacyConfigPath)
			if legacyErr == nil {
				if err := config.Validate(); err != nil {
					return Config{}, err
				}
				config.ConfigPath = legacyConfigPath
				return config, nil
			}
			if errors.Is(legacyErr, os.ErrNotExist) {
				return Config{}, fmt.Errorf("no configuration file found (searched %q and %q)", DefaultConfigPath, legacyConfigPath)
			}
			return Config{}, fmt.Errorf("could not read config file %q: %w", legacyConfigPath, legacyErr)
		}
		return Config{}, fmt.Errorf("no configuration file found at %q", path)
	}

	return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
}

// loadFromPath is a helper function that loads the configuration from a specific file path.
func loadFromPath(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return Config{}, err
	}
	if config.FetchTimeout <= 0 {
		config.FetchTimeout = int(defaultFetchTimeout.Seconds())
	}

	return config, nil
}
