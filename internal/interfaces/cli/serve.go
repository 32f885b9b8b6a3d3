package cli

import (
	"context"
	"os/signal"
	"syscall"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/benzenoid/nomenclator/internal/application/naming"
	"github.com/benzenoid/nomenclator/internal/config"
	"github.com/benzenoid/nomenclator/internal/infrastructure/cache"
	"github.com/benzenoid/nomenclator/internal/infrastructure/monitoring/logging"
	"github.com/benzenoid/nomenclator/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/benzenoid/nomenclator/internal/interfaces/http"
)

func newServeCmd(opts *RootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP naming service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return err
			}
			if opts.LogLevel != "" {
				cfg.Log.Level = opts.LogLevel
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			logger, err := logging.New(cfg.Log)
			if err != nil {
				return err
			}

			tables, err := config.LoadTables(cfg.Tables.Path)
			if err != nil {
				return err
			}

			registry := promclient.NewRegistry()
			metrics := prometheus.New(registry)
			resultCache := cache.New(cfg.Cache, logger)

			svc := naming.NewService(naming.Options{
				Logger:               logger,
				Tables:               tables,
				Cache:                resultCache,
				Metrics:              metrics,
				AromaticityThreshold: cfg.Chemistry.AromaticityThreshold,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if cfg.Tables.Watch && cfg.Tables.Path != "" {
				go func() {
					err := config.WatchTables(ctx, cfg.Tables.Path, logger, svc.ReloadTables)
					if err != nil {
						logger.Warn("tables watcher stopped", logging.Err(err))
					}
				}()
			}

			server := httpserver.NewServer(cfg.Server, svc, logger, registry)

			errCh := make(chan error, 1)
			go func() { errCh <- server.Start() }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				return server.Stop(context.Background())
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides the config file")
	return cmd
}
