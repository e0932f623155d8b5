// Package main provides the CLI entrypoint for notifier.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/notifier/internal/config"
	"github.com/jmylchreest/notifier/internal/logging"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global configuration and state
var (
	cfg        *config.Config
	globalOpts struct {
		verbose    bool
		configPath string
		appName    string
		appID      string
		backend    string
	}
	logger *slog.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "notifier",
	Short: "Show desktop notifications from the command line",
	Long: `notifier shows desktop notifications through the platform notification
service, asking for permission first when the platform requires it.

On Linux notifications go through org.freedesktop.Notifications, on Windows
through toast notifications, elsewhere through a portable fallback.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig(globalOpts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		applyGlobalFlags(cmd, cfg)

		return setupLogger(cfg)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if logger != nil {
			logger.Error("command failed", "error", err)
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/notifier/config.toml)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.appName, "app-name", "",
		"Application name shown with notifications")
	rootCmd.PersistentFlags().StringVar(&globalOpts.appID, "app-id", "",
		"Application id used as desktop entry and focus target")
	rootCmd.PersistentFlags().StringVar(&globalOpts.backend, "backend", "",
		"Notification backend (auto, freedesktop, toast, generic)")
}

// applyGlobalFlags overrides config values with explicitly set flags.
func applyGlobalFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("app-name") {
		cfg.App.Name = globalOpts.appName
	}
	if flags.Changed("app-id") {
		cfg.App.ID = globalOpts.appID
	}
	if flags.Changed("backend") {
		cfg.App.Backend = globalOpts.backend
	}
	if globalOpts.verbose {
		cfg.Log.Level = "debug"
	}
}

// setupLogger configures the global slog logger.
func setupLogger(cfg *config.Config) error {
	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}

	// Log to stderr so stdout is clean for output
	logger = logging.New(os.Stderr, level)
	slog.SetDefault(logger)
	return nil
}

// getConfig returns the global config instance.
func getConfig() *config.Config {
	return cfg
}
