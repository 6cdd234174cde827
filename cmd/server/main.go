package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/prospect-analyzer/data-validation/internal/auth"
	"github.com/prospect-analyzer/data-validation/internal/config"
	"github.com/prospect-analyzer/data-validation/internal/handlers"
	"github.com/prospect-analyzer/data-validation/internal/metrics"
	"github.com/prospect-analyzer/data-validation/internal/quality"
	"github.com/prospect-analyzer/data-validation/internal/realtime"
	"github.com/prospect-analyzer/data-validation/internal/service"
	"github.com/prospect-analyzer/data-validation/internal/storage"
	"github.com/prospect-analyzer/data-validation/internal/validation"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := newLogger(cfg.Environment, cfg.Monitoring.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting data validation service",
		zap.String("environment", cfg.Environment),
		zap.Int("http_port", cfg.Server.HTTPPort),
		zap.Int("grpc_port", cfg.Server.GRPCPort))

	// Initialize metrics collector
	collector := metrics.NewCollector()

	// Initialize core services
	validator := validation.NewValidator(logger)
	scorer := quality.NewScorer(validator, logger,
		quality.WithAnomalyDetection(cfg.Quality.AnomalyDetection))
	svc := service.New(validator, scorer, logger)

	// Optional Redis-backed report cache and realtime hub
	var (
		redisClient *redis.Client
		reportCache *storage.ReportCache
		hub         *realtime.Hub
	)
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisClient.Close()

		reportCache = storage.NewReportCache(redisClient, cfg.Quality.ReportCacheTTL)
	}

	hub = realtime.NewHub(redisClient, logger)
	go hub.Run()
	if redisClient != nil {
		go hub.SubscribeToRedis()
	}

	// Optional validation history persistence
	var historyRepo *storage.HistoryRepository
	if cfg.Database.Enabled && cfg.Quality.HistoryEnabled {
		dbConfig := cfg.Database
		dbConfig.URL = cfg.GetDatabaseURL()

		db, err := storage.NewDatabase(dbConfig, cfg.Environment)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		if err := db.AutoMigrate(); err != nil {
			logger.Fatal("failed to run database migrations", zap.Error(err))
		}
		historyRepo = storage.NewHistoryRepository(db)

		if cfg.Quality.HistoryRetention > 0 {
			go purgeHistoryLoop(historyRepo, cfg.Quality.HistoryRetention, logger)
		}
	}

	// Optional API authentication
	var authService *auth.Service
	if cfg.Auth.Enabled {
		authService = auth.NewService(cfg.Auth, cfg.GetJWTSecret())
	}

	// Setup HTTP server
	handler := handlers.NewHandler(&cfg, logger, svc, collector, reportCache, historyRepo, hub)
	router := handlers.SetupRouter(&cfg, logger, handler, authService, hub)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		logger.Info("HTTP server starting", zap.String("address", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// gRPC health endpoint for orchestrators
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)

	grpcListener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Server.GRPCPort))
	if err != nil {
		logger.Fatal("failed to listen on gRPC port", zap.Int("port", cfg.Server.GRPCPort), zap.Error(err))
	}

	go func() {
		logger.Info("gRPC server starting", zap.String("address", grpcListener.Addr().String()))
		if err := grpcServer.Serve(grpcListener); err != nil {
			logger.Fatal("gRPC server failed", zap.Error(err))
		}
	}()

	// Metrics endpoint on its own port
	var metricsServer *http.Server
	if cfg.Monitoring.MetricsEnabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Monitoring.MetricsPort),
			Handler: metricsMux,
		}

		go func() {
			logger.Info("metrics server starting", zap.String("address", metricsServer.Addr))
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server failed", zap.Error(err))
			}
		}()
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	} else {
		logger.Info("HTTP server stopped")
	}

	if metricsServer != nil {
		if err := metricsServer.Shutdown(ctx); err != nil {
			logger.Error("metrics server shutdown failed", zap.Error(err))
		}
	}

	done := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("gRPC server stopped")
	case <-ctx.Done():
		grpcServer.Stop()
		logger.Warn("gRPC server force stopped")
	}

	logger.Info("data validation service stopped")
}

// newLogger builds the process logger for the given environment at the
// configured level.
func newLogger(environment, level string) (*zap.Logger, error) {
	var zapConfig zap.Config
	if environment == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	if level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		zapConfig.Level = zap.NewAtomicLevelAt(parsed)
	}

	return zapConfig.Build()
}

// purgeHistoryLoop deletes validation history past the retention window once a day.
func purgeHistoryLoop(repo *storage.HistoryRepository, retention time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		deleted, err := repo.PurgeOlderThan(ctx, time.Now().Add(-retention))
		cancel()
		if err != nil {
			logger.Error("history purge failed", zap.Error(err))
			continue
		}
		if deleted > 0 {
			logger.Info("purged validation history", zap.Int64("deleted", deleted))
		}
	}
}
