package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/oronila/antiafk/internal/daemon"
	"github.com/oronila/antiafk/internal/logging"
	"github.com/oronila/antiafk/internal/observe"
)

func newRunCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the daemon in the foreground",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(cmd.Context(), g)
		},
	}
}

func runDaemon(ctx context.Context, g *globalFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}

	res, err := g.load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}
	cfg := res.Config

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Debug: g.Debug})
	if err != nil {
		return err
	}
	if res.File != "" {
		logger.Debugf("Configuration loaded from %s", res.File)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = daemon.Run(ctx, daemon.Options{
		Config:  cfg,
		Logger:  logger,
		Version: version,
	})
	if errors.Is(err, observe.ErrFailSafe) {
		return nil
	}
	return err
}
