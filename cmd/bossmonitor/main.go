package main

import (
	"context"
	"database/sql"
	"df-boss-monitor/internal/config"
	"df-boss-monitor/internal/constants"
	fxmodules "df-boss-monitor/internal/fx"
	"df-boss-monitor/internal/scheduler"
	"df-boss-monitor/internal/server"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.Invoke(runMonitor),
	).Run()
}

func runMonitor(
	lc fx.Lifecycle,
	runner *scheduler.Runner,
	status *server.StatusServer,
	cfg *config.Config,
	db *sql.DB,
	logger zerolog.Logger,
) {
	var srv *http.Server
	if cfg.StatusPort != "" {
		srv = &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.StatusPort),
			Handler: status.Handler(),
		}
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if srv != nil {
				go func() {
					logger.Info().Str("addr", srv.Addr).Msg("status server starting")
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						logger.Error().Err(err).Msg("status server failed")
					}
				}()
			}
			logger.Info().Str("mode", string(cfg.Mode)).Msg("boss monitor starting")
			runner.Start(context.Background())
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down boss monitor")
			runner.Stop()

			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
			}

			if srv != nil {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					logger.Error().Err(err).Msg("status server shutdown failed")
					return err
				}
			}
			logger.Info().Msg("boss monitor stopped")
			return nil
		},
	})
}
