// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal service packages.
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

	"golang.org/x/sync/errgroup"

	"geostake/internal/jwtauth"
	"geostake/internal/platform/config"
	"geostake/internal/platform/httpserver"
	"geostake/internal/platform/logger"
	"geostake/internal/platform/postgres"
	platformredis "geostake/internal/platform/redis"
	"geostake/internal/token/handler"
	"geostake/internal/token/metrics"
	"geostake/internal/token/service"
	"geostake/internal/token/store/asset"
	"geostake/internal/token/store/counter"
	"geostake/internal/token/store/locationcache"
	"geostake/internal/token/store/ownership"
	"geostake/internal/token/store/unlockhistory"
	httptransport "geostake/internal/transport/http"
	audit "geostake/pkg/platform/audit"
	"geostake/pkg/platform/audit/publisher"
	kafkaaudit "geostake/pkg/platform/audit/publishers/kafka"
	auditmemory "geostake/pkg/platform/audit/store/memory"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New(slog.LevelInfo)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Persistence: Postgres when configured, in-memory otherwise.
	var (
		db       *sql.DB
		assets   service.AssetStore
		owners   service.OwnershipStore
		history  service.UnlockHistoryStore
		counters service.CounterStore
		txs      service.TxRunner
	)
	if cfg.Postgres.URL != "" {
		var err error
		db, err = postgres.Open(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer db.Close()
		assets = asset.NewPostgresStore(db)
		owners = ownership.NewPostgresStore(db)
		history = unlockhistory.NewPostgresStore(db)
		counters = counter.NewPostgresStore(db)
		txs = service.NewSQLTx(db)
		log.Info("using postgres stores")
	} else {
		assets = asset.NewInMemoryStore()
		owners = ownership.NewInMemoryStore()
		history = unlockhistory.NewInMemoryStore()
		counters = counter.NewInMemoryStore()
		txs = service.NewShardedTx()
		log.Warn("no postgres configured, state will not survive restarts")
	}

	// Optional record cache.
	redisClient, err := platformredis.New(ctx, cfg.Redis.URL)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Audit sink: Kafka when configured, in-memory mirror otherwise.
	var auditStore audit.Store
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaStore, err := kafkaaudit.New(ctx, cfg.Kafka.Brokers, kafkaaudit.WithTopic(cfg.Kafka.Topic))
		if err != nil {
			return err
		}
		defer kafkaStore.Close()
		auditStore = kafkaStore
		log.Info("audit events ship to kafka", "topic", cfg.Kafka.Topic)
	} else {
		auditStore = auditmemory.NewInMemoryStore()
	}
	auditor := publisher.NewPublisher(auditStore, publisher.WithAsyncBuffer(256))
	defer auditor.Close()

	opts := []service.Option{
		service.WithMetrics(metrics.New()),
		service.WithAuditPublisher(auditor),
	}
	if redisClient != nil {
		opts = append(opts, service.WithRecordCache(
			locationcache.NewRedisCache(redisClient.Client, cfg.Redis.CacheTTL)))
	}

	svc, err := service.New(assets, owners, history, counters, txs, log, opts...)
	if err != nil {
		return err
	}

	jwtSvc := jwtauth.NewService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer)
	tokens := handler.New(svc, jwtSvc, log, cfg.Server.RequestTimeout)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Tokens:       tokens,
		Logger:       log,
		AdminKeyHash: cfg.Auth.AdminKeyHash,
		Health:       healthCheck(db, redisClient),
		LastTokenID:  svc.LastTokenID,
	})

	srv := httpserver.New(cfg.Server.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting geostake", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// healthCheck probes whichever backends are configured.
func healthCheck(db *sql.DB, redisClient *platformredis.Client) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if db != nil {
			if err := db.PingContext(ctx); err != nil {
				return err
			}
		}
		if redisClient != nil {
			if err := redisClient.Health(ctx); err != nil {
				return err
			}
		}
		return nil
	}
}
