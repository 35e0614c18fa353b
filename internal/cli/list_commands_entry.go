package benchboard

import (
	"fmt"
	"io"
	"strings"

	"github.com/mwiater/benchboard/internal/appconfig"
	"github.com/spf13/cobra"
)

// runListCommands prints the command tree in a two-column layout.
func runListCommands(out io.Writer, rootCmd *cobra.Command) {
	commandData := collectCommandData(rootCmd, "", "")

	maxPathLength := 0
	for _, data := range commandData {
		if len(data.path) > maxPathLength {
			maxPathLength = len(data.path)
		}
	}

	fmt.Fprintln(out, "Commands and Subcommands:")
	for _, data := range commandData {
		if strings.Contains(data.path, "completion") || strings.Contains(data.path, " help") {
			continue
		}
		fmt.Fprintf(out, "  %s%s%s\n", data.path, strings.Repeat(" ", maxPathLength-len(data.path)+2), data.description)
	}
}

// commandInfo holds the path and description of a command for display.
type commandInfo struct {
	path        string
	description string
}

// collectCommandData walks the command tree and returns a flattened slice
// of path/description pairs.
func collectCommandData(cmd *cobra.Command, currentPath string, indent string) []commandInfo {
	var allData []commandInfo

	fullPath := currentPath + cmd.Name()
	if currentPath != "" {
		fullPath = currentPath + " " + cmd.Name()
	}

	allData = append(allData, commandInfo{
		path:        indent + fullPath,
		description: cmd.Short,
	})

	for _, subCmd := range cmd.Commands() {
		allData = append(allData, collectCommandData(subCmd, fullPath, indent+"  ")...)
	}

	return allData
}

// runListCatalog prints the configured catalog.
func runListCatalog(out io.Writer, cfg *appconfig.Config) {
	cat := cfg.Catalog()

	fmt.Fprintf(out, "Models (%d):\n", len(cfg.Models))
	for _, m := range cfg.Models {
		fmt.Fprintf(out, "  %-28s %s\n", m.Key, cfg.ModelName(m.Key))
	}

	fmt.Fprintf(out, "Agents (%d):\n", len(cat.Agents))
	for _, a := range cat.Agents {
		var flags []string
		if a.Baseline {
			flags = append(flags, "baseline")
		}
		if !a.ShowInChart {
			flags = append(flags, "no-chart")
		}
		if !a.ShowInTimeChart {
			flags = append(flags, "no-time-chart")
		}
		line := fmt.Sprintf("  %-28s %s", a.Key, a.Name)
		if len(flags) > 0 {
			line += " [" + strings.Join(flags, ",") + "]"
		}
		fmt.Fprintln(out, line)
	}

	fmt.Fprintf(out, "Benchmarks (%d):\n", len(cfg.Benchmarks))
	for _, b := range cfg.Benchmarks {
		info := cfg.BenchmarkInfo(b.Key)
		fmt.Fprintf(out, "  %-28s %s\n", b.Key, strings.TrimSpace(info.Title+" "+info.Version))
	}
}
