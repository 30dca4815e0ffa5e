// internal/commands/serve.go
package valet

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/tmcfarlane/valet/internal/agent"
	"github.com/tmcfarlane/valet/internal/models"
	"github.com/tmcfarlane/valet/internal/providers/ollama"
	"github.com/tmcfarlane/valet/internal/server"
	"github.com/tmcfarlane/valet/internal/tools"
)

// serveCmd represents the 'serve' command, which exposes the agent over HTTP.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the agent over HTTP",
	Long:  `The 'serve' command exposes the tool-calling agent on POST /chat at the configured listen address.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		cfg := GetConfig()

		provider := ollama.New(cfg)
		defer provider.Close()

		// No prompt here: a missing model aborts startup.
		if err := models.EnsureModelAvailable(ctx, provider, cfg.Model, false, os.Stdin, cmd.OutOrStdout()); err != nil {
			return err
		}
		if err := provider.EnsureModelReady(ctx, cfg.Model); err != nil {
			return err
		}

		a := agent.New(cfg, provider, tools.NewRegistry())
		return server.New(a).Run(cfg.ListenAddr())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
