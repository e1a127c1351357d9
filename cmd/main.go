package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"

	"github.com/eaglebank/onboarding/internal/command"
	"github.com/eaglebank/onboarding/internal/config"
	"github.com/eaglebank/onboarding/internal/handler"
	"github.com/eaglebank/onboarding/internal/jobs"
	"github.com/eaglebank/onboarding/internal/logger"
	"github.com/eaglebank/onboarding/internal/metrics"
	"github.com/eaglebank/onboarding/internal/query"
	"github.com/eaglebank/onboarding/internal/repository"
	"github.com/eaglebank/onboarding/shared/events"
	"github.com/eaglebank/onboarding/shared/middleware"
	redisClient "github.com/eaglebank/onboarding/shared/redis"
	"github.com/eaglebank/onboarding/shared/utils"
)

func main() {
	// Load .env file for local development. In production, env vars are set directly.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}

	logr, closer, err := logger.New(logger.Config{
		Level:    cfg.LogLevel,
		Format:   cfg.LogFormat,
		Output:   cfg.LogOutput,
		FilePath: cfg.LogFile,
	})
	if err != nil {
		log.Fatalf("cannot build logger: %v", err)
	}
	defer closer.Close()
	slog.SetDefault(logr)

	if err := run(cfg, logr); err != nil {
		logr.Error("service stopped", "error", err)
		os.Exit(1)
	}
}

// stores bundles the write side, lookups and aggregate source of one backend.
type stores struct {
	writer    command.ApplicationWriter
	reader    query.ApplicationReader
	analytics query.AnalyticsStore
	views     command.ViewCacher
	ping      func(context.Context) error
}

func run(cfg *config.Config, logr *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Redis backs the read model, report cache and event stream. The memory
	// backend runs without it when it is unreachable.
	var rdb goredis.UniversalClient
	redis, err := redisClient.NewClient(ctx, redisClient.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	switch {
	case err == nil:
		defer redis.Close()
		rdb = redis.Client
	case cfg.StorageBackend == config.StorageMemory:
		logr.Warn("redis unavailable, running without cache and events", "error", err)
	default:
		return err
	}

	st, cleanup, err := openStores(ctx, cfg, rdb)
	if err != nil {
		return err
	}
	defer cleanup()

	m := metrics.New(prometheus.DefaultRegisterer)

	// --- CQRS wiring ---
	cmdOpts := []command.Option{command.WithMetrics(m), command.WithLogger(logr)}
	if st.views != nil {
		cmdOpts = append(cmdOpts, command.WithViewCache(st.views))
	}
	if rdb != nil {
		cmdOpts = append(cmdOpts, command.WithPublisher(events.NewPublisher(rdb)))
	}
	commandSvc := command.NewApplicationCommandService(st.writer, utils.IdentifierGenerator{}, cmdOpts...)
	querySvc := query.NewApplicationQueryService(st.reader)

	analyticsOpts := []query.AnalyticsOption{
		query.WithHighValueThreshold(cfg.HighValueThreshold),
		query.WithAnalyticsMetrics(m),
		query.WithAnalyticsLogger(logr),
	}
	if rdb != nil && cfg.ReportCacheTTL > 0 {
		analyticsOpts = append(analyticsOpts, query.WithReportCache(rdb, cfg.ReportCacheTTL))
	}
	analyticsSvc := query.NewAnalyticsQueryService(st.analytics, analyticsOpts...)

	if rdb != nil {
		subscriber := events.NewSubscriber(rdb, events.SubscriberConfig{
			Group:    "onboarding-analytics-group",
			Consumer: consumerName(),
			Stream:   events.ApplicationEventsStream,
			Handler:  analyticsSvc.HandleApplicationEvent,
			Logger:   logr,
		})
		go func() {
			if err := subscriber.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logr.Error("subscriber stopped", "error", err)
			}
		}()
	}

	if cfg.ReportWarmSchedule != "" && rdb != nil {
		scheduler := jobs.NewScheduler(analyticsSvc, logr)
		if err := scheduler.Start(cfg.ReportWarmSchedule); err != nil {
			return err
		}
		defer func() { <-scheduler.Stop().Done() }()
	}

	router := newRouter(cfg, logr, m, st.ping, rdb,
		handler.NewApplicationHandler(commandSvc, querySvc),
		handler.NewAnalyticsHandler(analyticsSvc))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("onboarding service starting", "port", cfg.Port, "storage", cfg.StorageBackend)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStores(ctx context.Context, cfg *config.Config, rdb goredis.UniversalClient) (stores, func(), error) {
	if cfg.StorageBackend == config.StorageMemory {
		mem := repository.NewMemoryStore()
		return stores{
			writer:    mem,
			reader:    mem,
			analytics: mem,
			ping:      func(context.Context) error { return nil },
		}, func() {}, nil
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return stores{}, nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return stores{}, nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := repository.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return stores{}, nil, err
	}

	readRepo := repository.NewApplicationReadRepository(db, rdb)
	return stores{
		writer:    repository.NewApplicationWriteRepository(db),
		reader:    readRepo,
		analytics: readRepo,
		views:     readRepo,
		ping:      db.PingContext,
	}, func() { db.Close() }, nil
}

func newRouter(
	cfg *config.Config,
	logr *slog.Logger,
	m *metrics.Metrics,
	pingStore func(context.Context) error,
	rdb goredis.UniversalClient,
	applications *handler.ApplicationHandler,
	reports *handler.AnalyticsHandler,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.LoggingMiddleware(logr), m.Middleware())

	router.GET("/health", func(c *gin.Context) {
		status := gin.H{"status": "ok", "storage": "ok"}
		code := http.StatusOK
		if err := pingStore(c.Request.Context()); err != nil {
			status["status"], status["storage"] = "degraded", err.Error()
			code = http.StatusServiceUnavailable
		}
		if rdb != nil {
			status["redis"] = "ok"
			if err := rdb.Ping(c.Request.Context()).Err(); err != nil {
				status["status"], status["redis"] = "degraded", err.Error()
				code = http.StatusServiceUnavailable
			}
		}
		c.JSON(code, status)
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/v1")
	if cfg.AuthDisabled {
		logr.Warn("authentication disabled")
	} else {
		v1.Use(middleware.AuthMiddleware([]byte(cfg.JWTSecret)))
	}
	applications.Register(v1)
	reports.Register(v1)
	return router
}

func consumerName() string {
	host, err := os.Hostname()
	if err != nil {
		return "onboarding-consumer-1"
	}
	return "onboarding-" + host
}
