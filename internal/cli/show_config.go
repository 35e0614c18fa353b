// internal/cli/show_config.go
package benchboard

import (
	"github.com/spf13/cobra"
)

// showConfigCmd implements 'show config', which prints the merged
// configuration after flags have been applied.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON configs are loaded properly and overriden by flags accordingly. Use --dump to print every field.`,
	Run: func(cmd *cobra.Command, args []string) {
		dump, _ := cmd.Flags().GetBool("dump")
		runShowConfig(cmd.OutOrStdout(), dump)
	},
}

func init() {
	showConfigCmd.Flags().Bool("dump", false, "pretty-print the full configuration struct")
	showCmd.AddCommand(showConfigCmd)
}
