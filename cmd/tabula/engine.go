package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/tabula"
	"github.com/aretw0/tabula/internal/cli"
	"github.com/aretw0/tabula/internal/config"
	"github.com/aretw0/tabula/pkg/domain"
)

// openEngine builds the engine for the machines selected by --dir and --file.
func openEngine(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, hooks domain.LifecycleHooks) (*tabula.Engine, func() error, error) {
	files, _ := cmd.Flags().GetStringSlice("file")
	return cli.CreateEngine(ctx, cli.EngineOptions{
		Dir:    cfg.Dir,
		Files:  files,
		Config: cfg,
		Hooks:  hooks,
	}, logger)
}
