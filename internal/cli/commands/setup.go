// Package commands implements the CrossFrame CLI subcommands.
package commands

import (
	"context"
	"log/slog"

	"github.com/leapstack-labs/crossframe/internal/config"
	"github.com/spf13/cobra"
)

// configKey is used to store config in context.
type configKey struct{}

// loggerKey is used to store logger in context.
type loggerKey struct{}

// WithConfig stores the loaded config in the context.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// WithLogger stores the logger in the context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg    *config.Config
	Logger *slog.Logger
	Format string
}

// NewCommandContext assembles the command dependencies from the cobra
// context. Missing values fall back to defaults so that commands
// remain usable from tests that skip the root PersistentPreRunE.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg, ok := cmd.Context().Value(configKey{}).(*config.Config)
	if !ok {
		cfg = &config.Config{}
		cfg.ApplyDefaults()
	}

	logger, ok := cmd.Context().Value(loggerKey{}).(*slog.Logger)
	if !ok {
		logger = slog.New(slog.DiscardHandler)
	}

	format, _ := cmd.Root().PersistentFlags().GetString("output")
	if format == "" {
		format = "table"
	}

	return &CommandContext{Cfg: cfg, Logger: logger, Format: format}
}
