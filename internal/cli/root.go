// Package cli provides the command-line interface for tgpulse.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/nDmitry/tgpulse/internal/app"
	"github.com/nDmitry/tgpulse/internal/config"
	"github.com/nDmitry/tgpulse/internal/entity"
)

// Version is set via ldflags at build time.
var Version = "dev"

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:     "tgpulse",
	Short:   "Telegram channel analytics from the public web preview",
	Long:    "tgpulse collects post history of public Telegram channels through the t.me web preview and derives engagement metrics: view-rates, percentiles, consistency, activity and trends.",
	Version: Version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a config file (optional)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "logging level: DEBUG, INFO, WARNING, ERROR")
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// loadConfig reads the configuration and applies the global flags.
func loadConfig() (*entity.Config, error) {
	cfg, err := config.Read(configPath)

	if err != nil {
		return nil, err
	}

	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	app.SetLevel(cfg.LogLevel)

	return cfg, nil
}
