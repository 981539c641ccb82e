package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/bizlist/internal/config"
	"github.com/deppfellow/bizlist/internal/database"
	"github.com/deppfellow/bizlist/internal/handler"
	"github.com/deppfellow/bizlist/internal/logger"
	"github.com/deppfellow/bizlist/internal/repository"
	"github.com/deppfellow/bizlist/internal/router"
	"github.com/deppfellow/bizlist/internal/server"
	"github.com/deppfellow/bizlist/internal/service"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd(cfg *config.Config) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the background job worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			loggerService := logger.NewLoggerService(cfg.Observability)
			defer loggerService.Shutdown()

			log := logger.NewLoggerWithService(cfg.Observability, loggerService)

			if migrate {
				if err := database.Migrate(cmd.Context(), &log, cfg.Database.DSN()); err != nil {
					return fmt.Errorf("failed to migrate database: %w", err)
				}
			}

			srv, err := server.New(cfg, &log, loggerService)
			if err != nil {
				log.Error().Err(err).Msg("failed to initialize server")
				return err
			}

			repos := repository.NewRepositories(srv)
			services := service.NewServices(srv, repos)
			handlers := handler.NewHandlers(srv, services)
			srv.SetupHTTPServer(router.NewRouter(srv, handlers))

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			serveErr := make(chan error, 1)
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serveErr <- err
				}
				close(serveErr)
			}()

			select {
			case err := <-serveErr:
				if err != nil {
					log.Error().Err(err).Msg("server stopped unexpectedly")
					return err
				}
			case <-ctx.Done():
			}

			log.Info().Msg("shutting down")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("server forced to shutdown")
				return err
			}

			log.Info().Msg("server exited properly")
			return nil
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", cfg.Primary.Env != "local", "apply pending database migrations before serving")

	return cmd
}
