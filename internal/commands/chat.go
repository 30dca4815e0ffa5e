// internal/commands/chat.go
package valet

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/tmcfarlane/valet/internal/agent"
	"github.com/tmcfarlane/valet/internal/models"
	"github.com/tmcfarlane/valet/internal/providers/ollama"
	"github.com/tmcfarlane/valet/internal/tools"
	"github.com/tmcfarlane/valet/internal/tui"
)

// chatCmd represents the 'chat' command, which starts an interactive chat session.
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start a chat session",
	Long:  `The 'chat' command starts an interactive tool-calling session with the configured model.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		cfg := GetConfig()

		provider := ollama.New(cfg)
		defer provider.Close()

		err := models.EnsureModelAvailable(ctx, provider, cfg.Model, true, os.Stdin, cmd.OutOrStdout())
		if errors.Is(err, models.ErrDeclined) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := provider.EnsureModelReady(ctx, cfg.Model); err != nil {
			return err
		}

		a := agent.New(cfg, provider, tools.NewRegistry())
		return tui.Run(ctx, cfg, a)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
