// Package cli implements the command-line interface.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/kbaudit/internal/config"
	"github.com/aidanlsb/kbaudit/internal/ui"
)

var (
	// Global flags
	rootFlag     string
	configPath   string
	logLevelFlag string

	// Resolved values
	resolvedRoot string
	cfg          *config.Config
	logger       *slog.Logger
)

// errSilent marks failures whose output has already been written.
var errSilent = errors.New("command failed")

var rootCmd = &cobra.Command{
	Use:   "kba",
	Short: "kbaudit - consistency checks for a markdown knowledge base",
	Long: `kbaudit validates a corpus of typed, cross-linked markdown documents.

It checks each document against its type's schema, verifies related links,
the manifest, overview coverage and naming conventions, and regenerates the
per-directory index files.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		case "completion", "help", "version":
			setupLogger(logLevelFlag)
			return nil
		}

		root, err := filepath.Abs(rootFlag)
		if err != nil {
			return handleError(ErrRootNotFound, err, "")
		}
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			return handleErrorMsg(ErrRootNotFound, fmt.Sprintf("corpus root not found: %s", root), "pass --root <dir>")
		}
		resolvedRoot = root

		cfg, err = config.Load(root, configPath)
		if err != nil {
			return handleError(ErrConfigInvalid, err, "check "+config.FileName)
		}

		level := cfg.LogLevel
		if cmd.Flags().Changed("log-level") {
			level = logLevelFlag
		}
		setupLogger(level)
		ui.ConfigureTheme(cfg.Accent)
		if isJSONOutput() {
			ui.DisableStyles()
		}
		logger.Debug("config loaded", "root", root, "config", cfg.Path())
		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errSilent) {
		fmt.Fprintln(os.Stderr, ui.Error("error: "+err.Error()))
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", ".", "Corpus root directory")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default <root>/kbaudit.toml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for agent/script use)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "warn", "Log level: debug, info, warn, error")
}

func setupLogger(level string) {
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: config.ParseLevel(level)}))
	slog.SetDefault(logger)
}

// getRoot returns the resolved corpus root.
func getRoot() string {
	return resolvedRoot
}

// getConfig returns the loaded config.
func getConfig() *config.Config {
	return cfg
}
