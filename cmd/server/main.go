package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	natsAdapter "github.com/Hrishith30/marketplace/internal/adapter/messaging/nats"
	redisCache "github.com/Hrishith30/marketplace/internal/adapter/repository/cache"
	mongoRepo "github.com/Hrishith30/marketplace/internal/adapter/repository/mongodb"
	s3Storage "github.com/Hrishith30/marketplace/internal/adapter/storage/s3"

	"github.com/Hrishith30/marketplace/internal/adapter/httpapi"
	"github.com/Hrishith30/marketplace/internal/config"
	"github.com/Hrishith30/marketplace/internal/listing/usecase"
	"github.com/Hrishith30/marketplace/internal/mailer"
	"github.com/Hrishith30/marketplace/internal/platform/logger"
	"github.com/Hrishith30/marketplace/internal/platform/metrics"
	"github.com/Hrishith30/marketplace/internal/platform/tracer"
)

func main() {
	// .env is optional, for local development
	if err := godotenv.Load(); err != nil {
		fmt.Printf("INFO: .env file not found or error loading: %v. Relying on OS environment variables.\n", err)
	}

	appLogger := logger.New(logger.DefaultConfig())
	defer appLogger.Sync()

	cfg, err := config.LoadConfig(appLogger)
	if err != nil {
		appLogger.Fatal("Failed to load configuration", zap.Error(err))
	}
	appLogger.Info("Application starting", zap.String("service_name", cfg.ServiceName))

	var tp *sdktrace.TracerProvider
	if cfg.OTExporterOTLPEndpoint != "" {
		tp = tracer.InitTracer(cfg.ServiceName, cfg.OTExporterOTLPEndpoint, appLogger)
		defer func() {
			ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancelShutdown()
			if err := tp.Shutdown(ctxShutdown); err != nil {
				appLogger.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()
		appLogger.Info("OpenTelemetry tracer initialized")
	} else {
		appLogger.Info("OpenTelemetry tracer not initialized (OTEL_EXPORTER_OTLP_ENDPOINT not set)")
	}

	mongoClient, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		appLogger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			appLogger.Error("Error disconnecting from MongoDB", zap.Error(err))
		}
	}()
	ctxPing, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()
	if err := mongoClient.Ping(ctxPing, nil); err != nil {
		appLogger.Fatal("Failed to ping MongoDB", zap.Error(err))
	}
	appLogger.Info("Connected to MongoDB", zap.String("database", cfg.MongoDatabase))
	db := mongoClient.Database(cfg.MongoDatabase)

	listingCache, err := redisCache.NewListingCache(cfg.RedisAddress, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := listingCache.Close(); err != nil {
			appLogger.Error("Error closing Redis client", zap.Error(err))
		}
	}()
	appLogger.Info("Redis listing cache initialized", zap.String("address", cfg.RedisAddress))

	photoStorage, err := s3Storage.NewS3Storage(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOBucket, cfg.MinIOUseSSL, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize MinIO storage", zap.Error(err))
	}
	appLogger.Info("MinIO photo storage initialized", zap.String("bucket", cfg.MinIOBucket))

	natsPublisher, err := natsAdapter.NewPublisher(cfg.NATSURL, appLogger, cfg.ServiceName)
	if err != nil {
		appLogger.Fatal("Failed to initialize NATS publisher", zap.Error(err))
	}
	defer natsPublisher.Close()
	appLogger.Info("NATS publisher initialized", zap.String("url", cfg.NATSURL))

	mailSender := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPEmail, cfg.SMTPPassword)

	metricsManager := metrics.NewManager(cfg.ServiceName)

	listingRepo, err := mongoRepo.NewListingRepository(db, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize ListingRepository", zap.Error(err))
	}
	messageRepo, err := mongoRepo.NewMessageRepository(db, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize MessageRepository", zap.Error(err))
	}

	photoUsecase := usecase.NewPhotoUsecase(photoStorage, metricsManager, appLogger)
	listingUsecase := usecase.NewListingUsecase(listingRepo, photoUsecase, listingCache, natsPublisher, mailSender, metricsManager, appLogger)
	messageUsecase := usecase.NewMessageUsecase(messageRepo, listingRepo, natsPublisher, mailSender, metricsManager, appLogger)

	router := httpapi.NewRouter(
		httpapi.NewListingHandler(listingUsecase, photoUsecase, metricsManager, appLogger),
		httpapi.NewMessageHandler(messageUsecase, metricsManager, appLogger),
		metricsManager, appLogger,
	)

	httpSrv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("port", cfg.HTTPPort))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("HTTP server ListenAndServe error", zap.Error(err))
		}
	}()

	if cfg.PrometheusMetricsPort != "" {
		go func() {
			appLogger.Info("Starting Prometheus metrics server", zap.String("port", cfg.PrometheusMetricsPort))
			if err := metrics.StartMetricsServer(cfg.PrometheusMetricsPort, appLogger, metricsManager.Registry); err != nil && !errors.Is(err, http.ErrServerClosed) {
				appLogger.Error("Prometheus metrics server failed", zap.Error(err))
			}
		}()
	} else {
		appLogger.Info("Prometheus metrics server not started (PROMETHEUS_METRICS_PORT not set)")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	appLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpSrv.Shutdown(ctxShutdown); err != nil {
		appLogger.Error("HTTP server shutdown error", zap.Error(err))
	}
	appLogger.Info("Application shutting down")
}
