// Command server runs the onboarding pipeline: document extraction, registry
// verification, and customer registration behind a single HTTP API. main
// wires dependencies and owns the server lifecycle; business logic lives in
// the internal service packages.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"nordkyc/internal/audit"
	"nordkyc/internal/blob"
	"nordkyc/internal/customer"
	customermetrics "nordkyc/internal/customer/metrics"
	"nordkyc/internal/extract"
	extractmetrics "nordkyc/internal/extract/metrics"
	"nordkyc/internal/inference"
	"nordkyc/internal/orchestrator"
	"nordkyc/internal/platform/config"
	"nordkyc/internal/platform/httpserver"
	"nordkyc/internal/platform/logger"
	"nordkyc/internal/platform/metrics"
	platformredis "nordkyc/internal/platform/redis"
	"nordkyc/internal/registry"
	registrymetrics "nordkyc/internal/registry/metrics"
	registrystore "nordkyc/internal/registry/store"
	httptransport "nordkyc/internal/transport/http"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Optional local overrides; absence of a .env file is not an error.
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	log := logger.New(slog.LevelInfo)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	blobs := blob.NewInMemoryStore()
	extractor := extract.NewService(
		inference.NewHTTPClient(cfg.Inference),
		blobs,
		log,
		extract.PolicyFromConfig(cfg.Extraction, cfg.Inference),
		extractmetrics.New(),
	)

	var cache registrystore.Cache
	redisClient, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		cache = registrystore.NewRedisCache(redisClient, cfg.RegistryCache)
		log.Info("registry cache backed by redis")
	} else {
		cache = registrystore.NewInMemoryCache(cfg.RegistryCache)
	}
	verifier := registry.NewService(registry.DefaultClients(), cache, log, registrymetrics.New())

	var customerStore customer.Store
	if cfg.Postgres.URL != "" {
		poolCfg, err := pgxpool.ParseConfig(cfg.Postgres.URL)
		if err != nil {
			return fmt.Errorf("parse postgres URL: %w", err)
		}
		poolCfg.MaxConns = int32(cfg.Postgres.PoolMaxConn)
		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pool.Close()
		customerStore = customer.NewPostgresStore(pool)
		log.Info("customer store backed by postgres")
	} else {
		customerStore = customer.NewInMemoryStore()
	}
	registrar := customer.NewRegistrar(customerStore, log, customermetrics.New(), cfg.Registrar.EmailDomain)

	var publisher audit.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher, err := audit.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.AuditTopic)
		if err != nil {
			return fmt.Errorf("connect kafka: %w", err)
		}
		publisher = kafkaPublisher
		log.Info("audit events published to kafka", "topic", cfg.Kafka.AuditTopic)
	} else {
		publisher = audit.NewInMemoryPublisher()
	}
	defer publisher.Close()

	orch := orchestrator.NewService(
		&orchestrator.LocalInvoker{Extractor: extractor, Verifier: verifier, Registrar: registrar},
		publisher,
		log,
		metrics.New(),
		cfg.DefaultBucket,
	)

	handler := httptransport.NewHandler(orch, extractor, verifier, registrar, log)
	srv := httpserver.New(cfg.Server.Addr, httptransport.NewRouter(handler, log))

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
