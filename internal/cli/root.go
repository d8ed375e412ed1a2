// Package cli implements the glowmatch command line.
package cli

import (
	"github.com/glowmatch/backend/config"
	"github.com/glowmatch/backend/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const app = "glowmatch"

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	configFile string
	logLevel   string
	jsonLogs   bool
}

// NewRootCommand builds the glowmatch command tree
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           app,
		Short:         "GlowMatch scores skincare products against a shopper's skin profile",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default is config.yaml in ., ./config or /etc/glowmatch)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&opts.jsonLogs, "json-logs", false, "write logs as JSON")

	root.AddCommand(newServeCommand(opts))
	root.AddCommand(newScoreCommand(opts))
	root.AddCommand(newVersionCommand())

	return root
}

// Execute runs the root command
func Execute() error {
	return NewRootCommand().Execute()
}

// logConfig applies flag overrides on top of the configured log settings
func (o *globalOptions) logConfig(base config.LogConfig) config.LogConfig {
	if o.logLevel != "" {
		base.Level = o.logLevel
	}
	if o.jsonLogs {
		base.Format = "json"
	}
	return base
}

// commandLogger builds a logger for commands that run without a config file
func (o *globalOptions) commandLogger() zerolog.Logger {
	return logger.New(o.logConfig(config.LogConfig{Level: "warn", Format: "console"}))
}
