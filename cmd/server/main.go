// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal service
// packages. Postgres, Redis and Kafka are all optional: without them the
// process runs on in-memory stores, which is enough for local development.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"permitdesk/internal/audit"
	"permitdesk/internal/certificate"
	"permitdesk/internal/jwttoken"
	"permitdesk/internal/owner"
	"permitdesk/internal/platform/config"
	"permitdesk/internal/platform/database"
	"permitdesk/internal/platform/httpserver"
	"permitdesk/internal/platform/kafka"
	"permitdesk/internal/platform/logger"
	"permitdesk/internal/platform/metrics"
	redisplatform "permitdesk/internal/platform/redis"
	httptransport "permitdesk/internal/transport/http"
	"permitdesk/internal/verification"
	vmetrics "permitdesk/internal/verification/metrics"
	vstore "permitdesk/internal/verification/store"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing permitdesk",
		"addr", cfg.Addr,
		"database", cfg.Database.URL != "",
		"redis", cfg.Redis.URL != "",
		"kafka", cfg.Kafka.Brokers != "",
		"reopen_on_needs_info", cfg.ReopenOnNeedsInfo,
	)

	pool, err := database.New(cfg.Database)
	if err != nil {
		log.Error("database init failed", "error", err)
		os.Exit(1)
	}
	redisClient, err := redisplatform.New(cfg.Redis)
	if err != nil {
		log.Error("redis init failed", "error", err)
		os.Exit(1)
	}
	producer, err := kafka.NewProducer(cfg.Kafka, log)
	if err != nil {
		log.Error("kafka init failed", "error", err)
		os.Exit(1)
	}

	// Stores: postgres when configured, in-memory otherwise.
	var (
		owners    owner.Store
		attempts  verification.AttemptStore
		history   verification.HistoryStore
		documents verification.DocumentStore
		certs     certificate.Store
		auditSink audit.Store
	)
	if pool != nil {
		db := pool.DB()
		owners = owner.NewPostgres(db)
		attempts = vstore.NewPostgresAttemptStore(db)
		history = vstore.NewPostgresHistoryStore(db)
		documents = vstore.NewPostgresDocumentStore(db)
		certs = certificate.NewPostgres(db)
		auditSink = audit.NewPostgres(db)
	} else {
		log.Warn("no DATABASE_URL configured, using in-memory stores")
		owners = owner.NewInMemoryStore()
		attempts = vstore.NewInMemoryAttemptStore()
		history = vstore.NewInMemoryHistoryStore()
		documents = vstore.NewInMemoryDocumentStore()
		certs = certificate.NewInMemoryStore()
		auditSink = audit.NewInMemoryStore()
	}
	if producer != nil {
		auditSink = audit.NewMultiStore(auditSink, audit.NewKafkaStore(producer, cfg.Kafka.AuditTopic))
	}

	publisher := audit.NewPublisher(auditSink,
		audit.WithAsyncBuffer(256),
		audit.WithPublisherLogger(log),
	)

	sharedMetrics := metrics.New()

	verifOpts := []verification.Option{
		verification.WithLogger(log),
		verification.WithAuditPublisher(publisher),
		verification.WithMetrics(vmetrics.New()),
		verification.WithTracer(verification.NewOTelTracer()),
		verification.WithReopenOnNeedsInfo(cfg.ReopenOnNeedsInfo),
	}
	if redisClient != nil {
		verifOpts = append(verifOpts,
			verification.WithDraftCache(vstore.NewRedisDraftCache(redisClient.Client, cfg.Redis.DraftTTL)))
	}
	verifService := verification.NewService(owners, attempts, history, documents, verifOpts...)

	certService := certificate.NewService(owners, attempts, certs,
		certificate.WithLogger(log),
		certificate.WithAuditPublisher(publisher),
	)

	tokens := jwttoken.NewService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)

	health := map[string]func() error{}
	if pool != nil {
		health["database"] = func() error { return pool.Health(context.Background()) }
	}
	if redisClient != nil {
		health["redis"] = func() error { return redisClient.Health(context.Background()) }
	}

	router := httptransport.NewRouter(
		httptransport.NewVerificationHandler(verifService, log),
		httptransport.NewCertificateHandler(certService, log),
		tokens,
		log,
		sharedMetrics,
		httptransport.Health(health),
	)

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting http server", "addr", cfg.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}

	publisher.Close()
	if producer != nil {
		producer.Close()
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if pool != nil {
		_ = pool.Close()
	}

	log.Info("server stopped")
}
