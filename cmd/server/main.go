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

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"refguard/internal/audit"
	auditpostgres "refguard/internal/audit/store/postgres"
	"refguard/internal/checklist"
	"refguard/internal/entitlement"
	"refguard/internal/events"
	"refguard/internal/fraud"
	fraudmetrics "refguard/internal/fraud/metrics"
	fraudmongo "refguard/internal/fraud/store/mongo"
	httpapi "refguard/internal/http"
	"refguard/internal/identity"
	"refguard/internal/ledger"
	"refguard/internal/maturity"
	"refguard/internal/notify"
	"refguard/internal/platform/config"
	"refguard/internal/platform/httpserver"
	"refguard/internal/platform/kafka"
	"refguard/internal/platform/logger"
	platformmetrics "refguard/internal/platform/metrics"
	"refguard/internal/platform/middleware"
	platformmongo "refguard/internal/platform/mongo"
	platformredis "refguard/internal/platform/redis"
	"refguard/internal/referrer"
	"refguard/internal/triggers"
	"refguard/internal/verification"
	verificationhandler "refguard/internal/verification/handler"
	verificationmetrics "refguard/internal/verification/metrics"
	verificationmongo "refguard/internal/verification/store/mongo"
)

const (
	collTrackedActions = "tracked_actions"
	collReferrerStats  = "referrer_stats"

	busBuffer = 256
)

// main wires the dependency graph and owns the process lifecycle. Business
// logic lives in the internal services; everything here is plumbing.
func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	log := logger.New()
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Datastores.
	mongoClient, err := platformmongo.New(ctx, cfg.Mongo)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Close(shutdownCtx)
	}()

	db, err := sql.Open("postgres", cfg.Postgres.DSN)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return err
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Stores.
	recordStore := verificationmongo.NewStore(mongoClient)
	if err := recordStore.EnsureIndexes(ctx); err != nil {
		return err
	}
	ledgerStore := ledger.NewMongo(mongoClient.Collection(collTrackedActions))
	referrerStore := referrer.NewMongo(mongoClient.Collection(collReferrerStats))

	auditStore := auditpostgres.New(db)
	if err := auditStore.EnsureSchema(ctx); err != nil {
		return err
	}
	auditLog := audit.NewPublisher(auditStore)

	// Fraud scoring.
	engine := fraud.NewEngine(fraudmongo.NewStore(mongoClient),
		fraud.WithLogger(log),
		fraud.WithMetrics(fraudmetrics.New()),
	)

	// Core services.
	bus := events.NewBus(busBuffer)

	svc, err := verification.New(recordStore, referrerStore, engine, ledgerStore, auditLog, bus,
		verification.WithLogger(log),
		verification.WithMetrics(verificationmetrics.New()),
	)
	if err != nil {
		return err
	}

	aggregator, err := checklist.NewAggregator(recordStore, ledgerStore, svc,
		checklist.WithLogger(log),
		checklist.WithBus(bus),
	)
	if err != nil {
		return err
	}

	// Identity resolution: redis-backed cache when configured, in-process
	// LRU otherwise.
	var cache identity.Cache = identity.NewMemoryCache(0)
	if redisClient != nil {
		cache = identity.NewRedisCache(redisClient, cfg.Redis.CacheTTL, log)
	}
	resolver, err := identity.NewResolver(cache, identity.NewMongoDirectory(mongoClient), identity.WithLogger(log))
	if err != nil {
		return err
	}

	// Event ingestion.
	router, err := triggers.NewRouter(aggregator, svc, resolver, log)
	if err != nil {
		return err
	}
	consumer, err := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.ConsumerGroup, triggers.Topics(), router, log)
	if err != nil {
		return err
	}
	defer consumer.Close()
	go func() {
		if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("trigger consumer stopped", "error", err)
		}
	}()

	// Audit outbox relay.
	producer, err := kafka.NewProducer(cfg.Kafka.Brokers)
	if err != nil {
		return err
	}
	defer producer.Close()
	relay := audit.NewRelay(auditStore, producer, cfg.Kafka.AuditTopic, cfg.AuditRelayInterval, log)
	go func() {
		if err := relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("audit relay stopped", "error", err)
		}
	}()

	// Outcome side effects.
	entitlements, err := entitlement.NewClient(cfg.EntitlementURL)
	if err != nil {
		return err
	}
	notifier := notify.NewClient(cfg.NotificationURL, notify.WithLogger(log))

	dispatcher, err := events.NewDispatcher(bus, recordStore, entitlements, notifier, cfg.RewardDays,
		events.WithLogger(log),
		events.WithFraudRefresher(svc),
	)
	if err != nil {
		return err
	}
	go dispatcher.Run(ctx)

	// Maturity sweep.
	sweeper, err := maturity.New(recordStore, svc,
		maturity.WithLogger(log),
		maturity.WithInterval(cfg.SweepInterval),
	)
	if err != nil {
		return err
	}
	if err := sweeper.Start(ctx); err != nil {
		return err
	}
	defer sweeper.Stop()

	// HTTP surface.
	health := map[string]httpapi.HealthChecker{
		"mongo":    mongoClient,
		"postgres": pingChecker{db},
	}
	if redisClient != nil {
		health["redis"] = redisClient
	}

	apiRouter := httpapi.NewRouter(httpapi.Deps{
		Verification: verificationhandler.New(svc, auditLog, log),
		AdminAuth:    middleware.NewHMACValidator(cfg.JWTSigningKey),
		Logger:       log,
		Metrics:      platformmetrics.New(),
		Health:       health,
	})

	srv := httpserver.New(cfg.Addr, apiRouter)

	errCh := make(chan error, 1)
	go func() {
		log.Info("refguard listening", "addr", cfg.Addr)
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
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type pingChecker struct{ db *sql.DB }

func (p pingChecker) Health(ctx context.Context) error {
	return p.db.PingContext(ctx)
}
