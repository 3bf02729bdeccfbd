// Command wavesyncd serves the state synchronization protocol over websockets.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/wavesync/pkg/clientip"
	"github.com/dmitrymomot/wavesync/pkg/config"
	"github.com/dmitrymomot/wavesync/pkg/httpserver"
	"github.com/dmitrymomot/wavesync/pkg/kvstore"
	"github.com/dmitrymomot/wavesync/pkg/logger"
	"github.com/dmitrymomot/wavesync/pkg/patch"
	"github.com/dmitrymomot/wavesync/pkg/requestid"
	"github.com/dmitrymomot/wavesync/pkg/syncserver"
	"github.com/dmitrymomot/wavesync/pkg/transport"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := newLogger(cfg.App)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		log.ErrorContext(ctx, "durable store unavailable", slog.String("driver", cfg.Store.Driver), logger.Error(err))
		return err
	}
	defer store.Close()

	reg := newRegistry()
	srv := syncserver.New(store, patch.NewDMP(),
		syncserver.WithLogger(log),
		syncserver.WithRegisterer(reg),
		syncserver.WithClearOnStart(cfg.Store.ClearOnStart),
		syncserver.WithBroadcastConcurrency(cfg.Sync.BroadcastConcurrency),
	)
	if err := srv.Start(ctx); err != nil {
		log.ErrorContext(ctx, "sync server failed to start", logger.Error(err))
		return err
	}

	router := newRouter(cfg, log, store, srv, reg)

	hs := httpserver.New(append(httpserver.FromConfig(cfg.HTTP),
		httpserver.WithLogger(log),
		httpserver.WithStopHook(srv.Stop),
	)...)
	return hs.Run(ctx, router)
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func newLogger(app config.App) *slog.Logger {
	opts := []logger.Option{
		logger.WithEnvironment(app.Env, app.Name),
		logger.WithContextExtractors(
			requestid.LoggerExtractor(),
			clientip.LoggerExtractor(),
			logger.ConnectionIDExtractor(),
		),
	}
	if app.LogLevel != "" {
		opts = append(opts, logger.WithLevel(logger.ParseLevel(app.LogLevel)))
	}
	if app.LogFormat != "" {
		opts = append(opts, logger.WithFormat(logger.Format(app.LogFormat)))
	}
	return logger.New(opts...)
}

func newRouter(cfg config.Config, log *slog.Logger, store kvstore.Store, srv *syncserver.Server, reg *prometheus.Registry) http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(clientip.Middleware())
	r.Use(middleware.Recoverer)

	r.Method(http.MethodGet, "/ws", transport.New(srv,
		transport.WithLogger(log),
		transport.WithSendBuffer(cfg.Sync.SendBuffer),
		transport.WithIdleTimeout(cfg.Sync.IdleTimeout),
		transport.WithWriteTimeout(cfg.Sync.WriteTimeout),
		transport.WithReadLimit(cfg.Sync.ReadLimit),
		transport.WithAllowedOrigins(cfg.Sync.AllowedOrigins...),
	))

	r.Get("/health/live", httpserver.LivenessHandler())
	r.Get("/health/ready", httpserver.ReadinessHandler(log, 2*time.Second, map[string]httpserver.Check{
		"store": kvstore.Healthcheck(store),
	}))
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{
		Registry:      reg,
		ErrorHandling: promhttp.ContinueOnError,
	}))

	return r
}
