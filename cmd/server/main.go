package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"eventgate/internal/api"
	"eventgate/internal/authz/rotation"
	"eventgate/internal/authz/service"
	"eventgate/internal/authz/store"
	memorystore "eventgate/internal/authz/store/memory"
	postgresstore "eventgate/internal/authz/store/postgres"
	"eventgate/internal/platform/audit"
	"eventgate/internal/platform/config"
	"eventgate/internal/platform/httpserver"
	"eventgate/internal/platform/logger"
	"eventgate/internal/platform/metrics"
	platformredis "eventgate/internal/platform/redis"
	httptransport "eventgate/internal/transport/http"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	installations, cleanup, err := newInstallationStore(ctx, cfg)
	if err != nil {
		log.Error("installation store setup failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	clientOpts := []api.Option{api.WithLogger(log)}
	if cfg.APIBaseURL != "" {
		clientOpts = append(clientOpts, api.WithBaseURL(cfg.APIBaseURL))
	}
	client := api.New(clientOpts...)

	publisher := newAuditPublisher(cfg, log)
	defer publisher.Close()

	opts := []service.Option{
		service.WithBotOnly(cfg.BotOnly),
		service.WithCache(cfg.CacheEnabled),
		service.WithExpirationMinutes(cfg.TokenRotationExpirationMinutes),
		service.WithLogger(log),
		service.WithMetrics(metrics.New()),
		service.WithAuditPublisher(publisher),
	}
	if cfg.ClientID != "" && cfg.ClientSecret != "" {
		opts = append(opts, service.WithRotator(rotation.New(client, cfg.ClientID, cfg.ClientSecret)))
	}

	resolver, err := service.New(installations, client, opts...)
	if err != nil {
		log.Error("resolver setup failed", "error", err)
		os.Exit(1)
	}

	var healthChecks []httptransport.HealthChecker
	redisClient, err := platformredis.New(cfg.Redis())
	if err != nil {
		log.Error("redis setup failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		healthChecks = append(healthChecks, redisClient)
	}

	router := httptransport.NewRouter(httptransport.NewEventHandler(resolver, log), log, healthChecks...)
	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting eventgate", "addr", cfg.Addr, "bot_only", cfg.BotOnly, "cache_enabled", cfg.CacheEnabled)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// newInstallationStore picks PostgreSQL when a DSN is configured and falls
// back to the in-memory store for dev.
func newInstallationStore(ctx context.Context, cfg config.Server) (store.InstallationStore, func(), error) {
	if cfg.PostgresDSN == "" {
		return memorystore.New(), func() {}, nil
	}

	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		return nil, nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	pg := postgresstore.New(db)
	if err := pg.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return pg, func() { _ = db.Close() }, nil
}

func newAuditPublisher(cfg config.Server, log *slog.Logger) audit.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		return audit.Noop{}
	}
	publisher, err := audit.NewKafka(cfg.KafkaBrokers, cfg.AuditTopic, log)
	if err != nil {
		log.Warn("audit publisher unavailable, falling back to noop", "error", err)
		return audit.Noop{}
	}
	return publisher
}
