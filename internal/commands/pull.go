// internal/commands/pull.go
package valet

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/tmcfarlane/valet/internal/models"
	"github.com/tmcfarlane/valet/internal/providers/ollama"
)

// pullCmd represents the 'pull' command, which downloads the configured model.
var pullCmd = &cobra.Command{
	Use:   "pull [model]",
	Short: "Pull a model onto the host",
	Long:  `The 'pull' command downloads a model onto the configured host. With no argument it pulls the configured model.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		model := cfg.Model
		if len(args) == 1 {
			model = args[0]
		}

		provider := ollama.New(cfg)
		defer provider.Close()

		return models.Pull(context.Background(), provider, model, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(pullCmd)
}
