package appconfig

import (
	"fmt"
	"io"
	"strings"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg *Config, fallback Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	fmt.Fprintln(out, "Current configuration:")
	if cfg == nil {
		cfg = &fallback
	}

	fmt.Fprintf(out, "  Title:           %s\n", cfg.SiteTitle())
	fmt.Fprintf(out, "  Scores:          %s\n", cfg.ScoresSource())
	fmt.Fprintf(out, "  Output Dir:      %s\n", cfg.OutputPath())
	fmt.Fprintf(out, "  Log File:        %s\n", cfg.LogFilePath())
	fmt.Fprintf(out, "  Debug:           %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Gzip:            %v\n", cfg.Gzip)
	fmt.Fprintf(out, "  Fetch Timeout:   %s\n", cfg.FetchTimeoutDuration())

	fmt.Fprintf(out, "  Models (%d):\n", len(cfg.Models))
	for _, m := range cfg.Models {
		line := fmt.Sprintf("    - %s", m.Key)
		if m.Name != "" && m.Name != m.Key {
			line += fmt.Sprintf(" (%s)", m.Name)
		}
		if m.InstructKey != "" {
			line += fmt.Sprintf(" instruct=%s", m.InstructKey)
		}
		fmt.Fprintln(out, line)
	}

	fmt.Fprintf(out, "  Agents (%d):\n", len(cfg.Agents))
	for _, a := range cfg.Agents {
		var flags []string
		if a.Baseline {
			flags = append(flags, "baseline")
		}
		if a.OpenCode {
			flags = append(flags, "opencode")
		}
		line := fmt.Sprintf("    - %-28s %s", a.Key, a.Name)
		if len(flags) > 0 {
			line += " [" + strings.Join(flags, ",") + "]"
		}
		fmt.Fprintln(out, line)
	}

	fmt.Fprintf(out, "  Chart Agents:      %s\n", listOrAll(cfg.ChartAgents))
	fmt.Fprintf(out, "  Time Chart Agents: %s\n", listOrAll(cfg.TimeChartAgents))

	keys := make([]string, 0, len(cfg.Benchmarks))
	for _, b := range cfg.Benchmarks {
		keys = append(keys, b.Key)
	}
	fmt.Fprintf(out, "  Benchmarks:      %s\n", strings.Join(keys, ", "))
	if cfg.Ingest.DataDir != "" {
		fmt.Fprintf(out, "  Ingest Dir:      %s (%d sources)\n", cfg.Ingest.DataDir, len(cfg.Ingest.Sources))
	}
}

func listOrAll(keys []string) string {
	if len(keys) == 0 {
		return "(all)"
	}
	return strings.Join(keys, ", ")
}
