// Package cli wires the disk-mosaic commands.
package cli

import (
	"fmt"
	"os"

	"diskmosaic/internal/config"
	"diskmosaic/internal/logging"
	"diskmosaic/internal/services"

	"github.com/spf13/cobra"
)

var (
	cfg *config.Config

	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "disk-mosaic",
	Short: "Scan a directory tree and browse where the space went",
	Long: `disk-mosaic scans a directory tree in parallel and keeps a size tree
that can be browsed while the scan is still running.

Files below the small-file threshold are grouped into one block per
directory. Configuration comes from environment variables
(SMALL_FILE_THRESHOLD, IGNORED_PATHS, SCAN_WORKERS, LISTEN_ADDR, ...).`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (console, json)")

	rootCmd.AddCommand(serveCmd, scanCmd, targetsCmd, tokenCmd)
}

// setup loads configuration and initialises logging and settings.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}

	if err := logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	services.InitSettings(cfg)
	return nil
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	defer logging.Sync()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
