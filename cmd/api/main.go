package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go-chi-calculator/internal/api"
	"go-chi-calculator/internal/config"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/server"
	"go-chi-calculator/internal/session"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {

	var configPath string
	flag.StringVar(&configPath, "config", "", "config file (default is ./calculator.yml)")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(configPath)
	if err != nil {
		panic(err)
	}

	// Logger
	err = observability.InitLogger(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		panic(err)
	}
	defer observability.SyncLogger()

	observability.SetServiceName(cfg.ServiceName)

	// Tracing, metrics, log export
	telemetryShutdown, err := initTelemetry(ctx, cfg)
	if err != nil {
		panic(err)
	}
	defer telemetryShutdown(ctx)

	// Sessions
	store := session.NewStore(cfg.MaxSessions, cfg.SessionTTL, observability.Logger.Named("sessions"))
	if err := observability.RegisterCollector(store.Collector()); err != nil {
		panic(err)
	}

	// Router
	router := server.NewRouter(api.NewHandler(store, cfg.MaxKeys))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	observability.Logger.Info("configuration loaded",
		zap.String("config", cfg.ConfigPath),
		zap.Bool("otlp", cfg.OTLPEnabled),
		zap.Duration("session_ttl", cfg.SessionTTL),
		zap.Int("max_sessions", cfg.MaxSessions),
	)

	if err := serve(srv, cfg.ShutdownTimeout); err != nil {
		observability.Logger.Error("server failed", zap.Error(err))
	}
}

// serve runs srv until SIGINT or SIGTERM, then shuts it down within timeout.
func serve(srv *http.Server, timeout time.Duration) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		observability.Logger.Info("server started",
			zap.String("addr", srv.Addr),
			zap.String("service", observability.ServiceName()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Shut down on a signal, or when ListenAndServe fails.
	g.Go(func() error {
		<-gctx.Done()
		observability.Logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
