package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/MikeSquared-Agency/Hitchyard/internal/api"
	"github.com/MikeSquared-Agency/Hitchyard/internal/config"
	"github.com/MikeSquared-Agency/Hitchyard/internal/hermes"
	"github.com/MikeSquared-Agency/Hitchyard/internal/intake"
	"github.com/MikeSquared-Agency/Hitchyard/internal/metrics"
	"github.com/MikeSquared-Agency/Hitchyard/internal/notify"
	"github.com/MikeSquared-Agency/Hitchyard/internal/scoring"
	"github.com/MikeSquared-Agency/Hitchyard/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}
	logger = newLogger(cfg.Logging)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("hitchyard exited", "error", err)
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry, err := scoring.RegistryFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("build variants: %w", err)
	}
	engine := scoring.NewEngine(registry, logger)
	logger.Info("variants loaded", "default", registry.Default(), "count", len(registry.List()))

	// Lead sink
	db, err := store.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate store: %w", err)
	}
	logger.Info("connected to database", "driver", cfg.Database.Driver)

	// Hermes (optional)
	var hermesClient hermes.Client
	if cfg.Hermes.URL != "" {
		hc, err := hermes.NewNATSClient(ctx, cfg.Hermes.URL, logger)
		if err != nil {
			logger.Warn("failed to connect to hermes, running without events", "error", err)
		} else {
			hermesClient = hc
			defer hc.Close()
			logger.Info("connected to hermes")
		}
	}

	notifier := notify.NewHTTPClient(cfg.Notify.URL, cfg.Notify.APIKey, cfg.Notify.From, cfg.Notify.To, cfg.NotifyTimeout())
	if cfg.Notify.APIKey == "" {
		logger.Warn("RESEND_API_KEY not set, advisor notifications will fail")
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	svc := intake.NewService(engine, db, hermesClient, notifier, cfg.Notify.OnLead, m, logger)

	apiServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: api.NewRouter(svc, db, cfg.Server.AdminToken, cfg.Server.RateLimitPerMin, logger),
	}
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: api.NewMetricsRouter(db),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("API server starting", "port", cfg.Server.Port)
		return serve(apiServer)
	})
	g.Go(func() error {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		return serve(metricsServer)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()
		return errors.Join(apiServer.Shutdown(shutdownCtx), metricsServer.Shutdown(shutdownCtx))
	})
	return g.Wait()
}

func serve(srv *http.Server) error {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen %s: %w", srv.Addr, err)
	}
	return nil
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
