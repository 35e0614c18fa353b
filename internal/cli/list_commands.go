// internal/cli/list_commands.go
package benchboard

import "github.com/spf13/cobra"

// commandsCmd implements 'list commands', which prints the available
// commands and subcommands in a hierarchical, indented, two-column format.
var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List all commands and subcommands in two columns",
	Long:  `The 'commands' subcommand lists all commands and subcommands in a hierarchical, indented format, with the command path in the first column and its short description in the second column.`,
	Run: func(cmd *cobra.Command, args []string) {
		runListCommands(cmd.OutOrStdout(), rootCmd)
	},
}

// listCatalogCmd implements 'list catalog', which prints the configured
// models, agents and benchmarks.
var listCatalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List configured models, agents and benchmarks",
	Long:  `The 'catalog' subcommand prints every configured model, agent and benchmark key with its display name, flagging baselines and agents hidden from the charts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := requireConfig()
		if err != nil {
			return err
		}
		runListCatalog(cmd.OutOrStdout(), cfg)
		return nil
	},
}

func init() {
	listCmd.AddCommand(commandsCmd)
	listCmd.AddCommand(listCatalogCmd)
}
