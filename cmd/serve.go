package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/harmony/internal/catalog"
	"github.com/desertthunder/harmony/internal/server"
	"github.com/desertthunder/harmony/internal/shared"
)

func (r *Runner) catalogClient() *catalog.Client {
	cfg := r.config.Catalog
	return catalog.New(cfg.BaseURL,
		catalog.WithHTTPClient(r.httpClient),
		catalog.WithTimeout(cfg.Timeout()),
		catalog.WithRateLimit(cfg.RequestsPerSecond, cfg.Burst),
		catalog.WithLogger(shared.WithLogger(r.logger, "component", "catalog")),
	)
}

// Serve runs the HTTP API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Server
	if host := cmd.String("host"); host != "" {
		cfg.Host = host
	}
	if port := cmd.Int("port"); port != 0 {
		cfg.Port = int(port)
	}

	store, closeFn, err := r.openStore()
	if err != nil {
		return err
	}
	defer closeFn()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := shared.WithLogger(r.logger, "component", "api")
	api := server.NewAPI(store, r.catalogClient(), cfg.CORSOrigin, logger)

	r.logger.Info("starting server", "addr", cfg.Addr(), "catalog", r.config.Catalog.BaseURL)
	if err := server.NewServer(cfg.Addr(), api, logger).Run(ctx); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}
