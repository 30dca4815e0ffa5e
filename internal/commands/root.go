// internal/commands/root.go
package valet

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tmcfarlane/valet/internal/appconfig"
	"github.com/tmcfarlane/valet/internal/logging"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "valet",
	Short: "valet — local tool-calling assistant backed by an Ollama model",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := appconfig.Load(cfgFile)
		if err != nil {
			return err
		}

		// Flags win over the config file.
		if cmd.Flags().Changed("debug") || viper.GetBool("debug") {
			cfg.Debug = true
		}
		for _, override := range []struct {
			flag string
			dst  *string
		}{
			{"model", &cfg.Model},
			{"host", &cfg.HostURL},
			{"listen", &cfg.Listen},
			{"logFile", &cfg.LogFile},
		} {
			if cmd.Flags().Changed(override.flag) {
				*override.dst = viper.GetString(override.flag)
			}
		}
		currentConfig = &cfg

		if err := logging.Init(cfg.LogFilePath()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	defer logging.Close()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., config/config.json)")

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("model", "", "model to run (overrides the config file)")
	rootCmd.PersistentFlags().String("host", "", "Ollama host URL (overrides the config file)")
	rootCmd.PersistentFlags().String("listen", "", "HTTP bind address for the serve command")
	rootCmd.PersistentFlags().String("logFile", "", "path to the log file")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("model", rootCmd.PersistentFlags().Lookup("model"))
	_ = viper.BindPFlag("host", rootCmd.PersistentFlags().Lookup("host"))
	_ = viper.BindPFlag("listen", rootCmd.PersistentFlags().Lookup("listen"))
	_ = viper.BindPFlag("logFile", rootCmd.PersistentFlags().Lookup("logFile"))
}

// initConfig points viper at the selected config file.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	return currentConfig
}

// DebugEnabled returns true if debug mode is enabled.
func DebugEnabled() bool { return viper.GetBool("debug") }

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}
