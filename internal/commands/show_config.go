// internal/commands/show_config.go
package valet

import (
	"fmt"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"
)

// showConfigCmd implements the 'config' command, which displays the effective
// configuration after file values and flag overrides are merged.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show the effective configuration, with flag overrides applied on top of the config file.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := GetConfig()
		fmt.Fprintf(cmd.OutOrStdout(), "Config file: %s\n", cfg.ConfigPath)
		pp.Fprintln(cmd.OutOrStdout(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(showConfigCmd)
}
