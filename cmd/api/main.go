package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/civicreg/constituent-service/internal/api"
	"github.com/civicreg/constituent-service/internal/api/handler"
	"github.com/civicreg/constituent-service/internal/core/ports"
	"github.com/civicreg/constituent-service/internal/core/service"
	"github.com/civicreg/constituent-service/internal/infrastructure/config"
	mongodb "github.com/civicreg/constituent-service/internal/infrastructure/db/mongo"
	"github.com/civicreg/constituent-service/internal/infrastructure/db/postgres"
	redisdb "github.com/civicreg/constituent-service/internal/infrastructure/db/redis"
	"github.com/civicreg/constituent-service/pkg/logger"
)

const serviceName = "constituent-service"

// @title        Constituent Service API
// @version      1.0
// @description  Registers constituents, lists them newest first and exports them as CSV.
// @host         localhost:8080
// @BasePath     /
func main() {
	cfg := config.MustLoad()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("service stopped")
	}
	log.Info().Msg("service stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	repo, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	log.Info().Str("driver", cfg.StoreDriver).Msg("store connected")

	checks := map[string]handler.Pinger{cfg.StoreDriver: repo}
	opts := []service.Option{service.WithZeroAgeAllowed(cfg.AllowZeroAge)}

	if cfg.Redis.Enabled() {
		client, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer client.Close()

		store := redisdb.NewIdempotencyStore(client, cfg.Redis.IdempotencyTTL)
		opts = append(opts, service.WithIdempotencyStore(store))
		checks["redis"] = store
		log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.IdempotencyTTL).Msg("idempotent replay enabled")
	}

	svc := service.NewConstituentService(repo, log, opts...)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	e := api.NewRouter(api.Dependencies{
		Service:     svc,
		Checks:      checks,
		Registry:    reg,
		Logger:      log,
		CORSOrigins: cfg.CORSOrigins,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Dur("timeout", cfg.ShutdownTimeout).Msg("shutting down http server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// openStore connects the configured driver and prepares its schema. The
// returned func releases the connection.
func openStore(ctx context.Context, cfg *config.Config) (ports.ConstituentRepository, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, err
		}
		repo := mongodb.NewConstituentRepository(db, cfg.StoreTimeout)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = mongodb.Disconnect(context.Background(), db)
			return nil, nil, err
		}
		return repo, func() { _ = mongodb.Disconnect(context.Background(), db) }, nil

	default:
		pool, err := postgres.Connect(ctx, postgres.Config{
			DSN:      cfg.Postgres.DSN(),
			MaxConns: cfg.Postgres.MaxConns,
			Timeout:  cfg.StoreTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		if cfg.Postgres.Migrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, nil, err
			}
		}
		return postgres.NewConstituentRepository(pool, cfg.StoreTimeout), pool.Close, nil
	}
}
