package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/frenchreader-backend/internal/config"
	"github.com/heartmarshall/frenchreader-backend/internal/transport/middleware"
	"github.com/heartmarshall/frenchreader-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, wires the
// backends and serves the HTTP API until ctx is canceled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	deps, err := Build(ctx, cfg, logger)
	defer deps.Close()
	if err != nil {
		return err
	}

	return Serve(ctx, cfg, logger, deps)
}

// Serve runs the HTTP server until ctx is canceled, then shuts it down
// gracefully within the configured timeout.
func Serve(ctx context.Context, cfg *config.Config, logger *slog.Logger, deps *Deps) error {
	srv, stop := newServer(cfg, logger, deps)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// newServer builds the http.Server. The returned func releases background
// resources owned by the handler chain.
func newServer(cfg *config.Config, logger *slog.Logger, deps *Deps) (*http.Server, func()) {
	health := map[string]rest.Pinger{}
	if deps.Pool != nil {
		health["database"] = deps.Pool
	}
	if deps.Cache != nil {
		health["redis"] = deps.Cache
	}

	routerDeps := rest.RouterDeps{
		Analysis: rest.NewAnalysisHandler(deps.Analysis, logger, cfg.Server.MaxBodyBytes),
		Health:   rest.NewHealthHandler(Version, health),
		CORS:     cfg.CORS,
		Logger:   logger,
	}
	if cfg.Metrics.Enabled {
		routerDeps.Metrics = deps.Metrics.Handler()
		routerDeps.MetricsPath = cfg.Metrics.Path
	}

	stop := func() {}
	if cfg.RateLimit.Enabled {
		rl := middleware.NewRateLimiter(cfg.RateLimit)
		routerDeps.RateLimiter = rl
		stop = rl.Stop
	}

	return &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      rest.NewRouter(routerDeps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}, stop
}
