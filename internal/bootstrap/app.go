package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/yanqian/aqi-insight/internal/domain/dashboard"
	"github.com/yanqian/aqi-insight/internal/domain/health"
	"github.com/yanqian/aqi-insight/internal/domain/mobile"
	"github.com/yanqian/aqi-insight/internal/infra/config"
	"github.com/yanqian/aqi-insight/internal/infra/respcache"
)

const shutdownTimeout = 10 * time.Second

type loaderCloser interface {
	Close()
}

// App encapsulates the HTTP server lifecycle and the session-scoped resources
// released on shutdown.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	server  *http.Server
	cache   *respcache.Cache
	loaders []loaderCloser
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, cache *respcache.Cache, mobileSvc mobile.Service, dashboardSvc dashboard.Service, healthSvc health.Service) *App {
	return &App{
		cfg:     cfg,
		logger:  logger.With("component", "bootstrap"),
		server:  server,
		cache:   cache,
		loaders: []loaderCloser{mobileSvc, dashboardSvc, healthSvc},
	}
}

// Run starts the HTTP server and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("http server starting", "address", a.cfg.HTTP.Address)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutdown signal received")
		err := a.server.Shutdown(shutdownCtx)
		a.release(shutdownCtx)
		return err
	case err := <-errCh:
		a.release(context.Background())
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// release stops in-flight loads and drops the cached responses.
func (a *App) release(ctx context.Context) {
	for _, l := range a.loaders {
		if l != nil {
			l.Close()
		}
	}
	if a.cache == nil {
		return
	}
	if err := a.cache.Close(ctx); err != nil {
		a.logger.Warn("failed to close response cache", "error", err)
	}
}
