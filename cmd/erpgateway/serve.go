package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/garyjia/erp-gateway/internal/container"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Info("Starting ERP gateway",
		zap.String("version", version),
		zap.String("erp", a.cfg.ERP.BaseURL),
		zap.Int("port", a.cfg.Server.Port))

	c, err := container.NewContainer(a.cfg, a.logger)
	if err != nil {
		return err
	}
	if err := c.Start(ctx); err != nil {
		return err
	}

	serveErr := c.Server().Start(ctx)

	if err := c.Close(); err != nil {
		a.logger.Error("Shutdown finished with errors", zap.Error(err))
	}
	if serveErr != nil {
		return serveErr
	}

	a.logger.Info("Server exited successfully")
	return nil
}
