package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"bookingapp/internal/adapter/http/routes"
	"bookingapp/pkg/config"
	"bookingapp/pkg/tracing"
)

// StartServer serves the configured service until ctx is cancelled, then
// drains in-flight requests.
func StartServer(ctx context.Context, cfg *config.AppConfig, metrics *tracing.AppMetrics, logger *config.LokiLogger) error {
	container, err := NewContainer(ctx, cfg, metrics, logger)

	if err != nil {
		return err
	}

	defer container.Close()

	router := routes.SetupRouterWithConfig(container.Handlers, metrics, logger, cfg)

	logger.Logger.Info("Server starting",
		zap.String("service", cfg.Service),
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
		zap.String("database", cfg.Database.Driver),
		zap.Bool("rate_limit_enabled", cfg.RateLimitEnabled),
		zap.Bool("https_enforced", cfg.EnforceHTTPS))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Logger.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
