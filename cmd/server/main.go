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

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sgprep/internal/documents"
	"sgprep/internal/jwt_token"
	"sgprep/internal/milestone"
	"sgprep/internal/operation"
	"sgprep/internal/operation/handler"
	opmetrics "sgprep/internal/operation/metrics"
	"sgprep/internal/operation/service"
	"sgprep/internal/operation/store"
	"sgprep/internal/operationinfo"
	"sgprep/internal/platform/config"
	"sgprep/internal/platform/httpserver"
	"sgprep/internal/platform/logger"
	platformmetrics "sgprep/internal/platform/metrics"
	"sgprep/internal/platform/middleware"
	platformredis "sgprep/internal/platform/redis"
	"sgprep/internal/workingday"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eventStore, closeStore, err := newStore(ctx, cfg, log)
	if err != nil {
		log.Error("event store init failed", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	oracle, redisClient := newOracle(ctx, cfg, log)
	if redisClient != nil {
		defer redisClient.Close()
	}

	var commands service.CommandPublisher = milestone.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err := milestone.NewPublisher(ctx, cfg.KafkaBrokers, cfg.KafkaCommandTopic)
		if err != nil {
			log.Error("milestone publisher init failed", "error", err)
			os.Exit(1)
		}
		defer publisher.Close()
		commands = publisher
	} else {
		log.Warn("KAFKA_BROKERS not set, milestone commands will be dropped")
	}

	documentsClient := documents.New(cfg.DocumentServiceURL, nil)
	infoClient := operationinfo.New(cfg.OperationInfoURL, nil)

	svc := service.New(
		eventStore,
		oracle,
		documentsClient,
		commands,
		infoClient,
		log,
		opmetrics.New(),
	)

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, "sgprep", "sgprep-api")
	h := handler.New(svc, log, jwttoken.NewJWTServiceAdapter(jwtService))

	router := chi.NewRouter()
	router.Use(middleware.Metrics(platformmetrics.NewHTTPMetrics()))
	h.Register(router)
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if redisClient != nil {
			if err := redisClient.Health(r.Context()); err != nil {
				log.Warn("healthz: redis unhealthy", "error", err)
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting sgprep", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}

// newStore prefers Postgres when DATABASE_URL is set and falls back to the
// in-memory store for local development.
func newStore(ctx context.Context, cfg config.Server, log *slog.Logger) (service.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL not set, using in-memory event store")
		return store.NewInMemoryStore(), func() {}, nil
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	log.Info("connected to postgres event store")
	return store.NewPostgres(db), func() { _ = db.Close() }, nil
}

// newOracle layers a Redis cache over the working-day service when Redis is
// configured. The returned redis client is nil when uncached; when present the
// health endpoint pings it.
func newOracle(ctx context.Context, cfg config.Server, log *slog.Logger) (operation.WorkingDayOracle, *platformredis.Client) {
	client := workingday.New(cfg.WorkingDayServiceURL, nil)
	if cfg.Redis.URL == "" {
		return client, nil
	}

	rdb, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable, working-day lookups uncached", "error", err)
		return client, nil
	}

	return workingday.NewCachedOracle(client, rdb.Raw(), config.WorkingDayCacheTTL, log), rdb
}
