package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/JackVitick/Socialync/internal/http/server"
	"github.com/JackVitick/Socialync/internal/observability/logger"
)

func newServeCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP hasta SIGINT/SIGTERM",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := server.Build(ctx, cfg, server.Options{Version: version})
			if err != nil {
				return err
			}
			defer func() {
				if err := app.Close(); err != nil {
					logger.L().Warn("cleanup error", logger.Err(err))
				}
			}()

			return server.Run(ctx, cfg, server.New(cfg, app.Handler), nil)
		},
	}
}
