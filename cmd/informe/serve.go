package main

import (
	"context"

	"github.com/flanksource/commons/logger"
	"github.com/flanksource/informe/server"
	"github.com/flanksource/informe/shutdown"
	"github.com/spf13/cobra"
)

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve POST /api/create-pdf",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, cache, err := a.renderer()
			if err != nil {
				return err
			}

			hooks := shutdown.New()
			hooks.Add("chart cache", shutdown.PriorityStorage, func(context.Context) error {
				return cache.Close()
			})

			ctx, stop := shutdown.NotifyContext(cmd.Context())
			defer stop()

			s := a.cfg.Server
			srv := server.New(renderer, server.Options{
				CORSOrigin:   s.CORSOrigin,
				MaxBodyBytes: s.MaxBodyBytes,
				Version:      version,
			})
			logger.Infof("chart provider %q, cache enabled=%v, fonts %q",
				a.cfg.Chart.Provider, cache.Enabled(), a.cfg.Assets.FontsDir)

			serveErr := srv.ListenAndServe(ctx, s.Addr, s.ReadHeaderTimeout, s.ShutdownTimeout)

			hookCtx, cancel := context.WithTimeout(context.Background(), s.ShutdownTimeout)
			defer cancel()
			if err := hooks.Run(hookCtx); err != nil {
				logger.Errorf("shutdown: %v", err)
			}
			return serveErr
		},
	}
}
