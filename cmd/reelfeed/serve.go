package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"reelfeed/internal/api"
	"reelfeed/internal/server"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Load the feed and serve the JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			a.logger.Info().
				Str("version", api.Version).
				Msg("starting reelfeed server")

			if a.cfg.API.Key == "" {
				a.logger.Warn().Msg("no API key configured, requests will be rejected upstream")
			}

			ctrl := a.controller()
			handler := api.NewHandler(ctrl, a.likes, a.logger)
			srv := server.New(a.cfg, a.logger, handler)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			events, unsubscribe := ctrl.Subscribe()
			defer unsubscribe()
			go func() {
				for ev := range events {
					a.logger.Info().
						Str("state", ev.State.String()).
						Int("count", ev.Count).
						Msg("feed state changed")
				}
			}()

			ctrl.Load(ctx)

			go func() {
				<-ctx.Done()
				a.logger.Info().Msg("received shutdown signal")
				if err := srv.Shutdown(context.Background()); err != nil {
					a.logger.Error().Err(err).Msg("shutdown error")
				}
			}()

			if err := srv.Start(); err != nil {
				return err
			}

			a.logger.Info().Msg("server stopped")
			return nil
		},
	}
}
