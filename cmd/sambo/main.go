package main

import (
	"fmt"
	"os"

	"github.com/chris/sambo/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	envFile  string
	logLevel string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "sambo",
	Short: "Sambo habit tracker bot",
	Long: `sambo logs daily routines, coffee, sugary drinks, flour products and
language sessions from short chat commands, and sends a weekly summary.

Run without arguments to start the chat bot.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(envFile)
		if err != nil {
			return err
		}
		level := cfg.LogLevel
		if logLevel != "" {
			level = logLevel
		}
		logger, err = newLogger(level)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runBot,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "load environment from this file instead of ./.env")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")

	weeklyCmd.Flags().BoolVar(&deliverWeekly, "deliver", false, "also post the summary to WEBHOOK_URL")

	rootCmd.AddCommand(runCmd, consoleCmd, weeklyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
