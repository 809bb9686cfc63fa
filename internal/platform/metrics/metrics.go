package metrics

import (
	"net/http"
	"strings"

	"github.com/Hrishith30/marketplace/internal/platform/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Manager holds the service's Prometheus metrics on a private registry.
type Manager struct {
	Registry             *prometheus.Registry
	ListingsCreatedTotal prometheus.Counter
	MessagesSentTotal    prometheus.Counter
	PhotosUploadedTotal  prometheus.Counter
	UploadRollbacksTotal prometheus.Counter
	APIErrorsTotal       *prometheus.CounterVec
	APILatency           *prometheus.HistogramVec
}

// NewManager initializes and registers the custom metrics. The service
// name becomes the metric namespace, with hyphens mapped to underscores
// since Prometheus rejects them in metric names.
func NewManager(serviceName string) *Manager {
	registry := prometheus.NewRegistry()
	serviceName = strings.ReplaceAll(serviceName, "-", "_")

	listingsCreatedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "listings_created_total",
		Help:      "Total number of listings created.",
	})
	messagesSentTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "messages_sent_total",
		Help:      "Total number of buyer-to-seller messages sent.",
	})
	photosUploadedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "photos_uploaded_total",
		Help:      "Total number of listing photos uploaded to object storage.",
	})
	uploadRollbacksTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "upload_rollbacks_total",
		Help:      "Total number of uploaded photos deleted after a failed listing insert.",
	})
	apiErrorsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "api_errors_total",
		Help:      "Total number of API errors by route and error type.",
	}, []string{"route", "error_type"})
	apiLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: serviceName,
		Name:      "api_request_latency_seconds",
		Help:      "Latency of API requests by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	registry.MustRegister(
		listingsCreatedTotal,
		messagesSentTotal,
		photosUploadedTotal,
		uploadRollbacksTotal,
		apiErrorsTotal,
		apiLatency,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	return &Manager{
		Registry:             registry,
		ListingsCreatedTotal: listingsCreatedTotal,
		MessagesSentTotal:    messagesSentTotal,
		PhotosUploadedTotal:  photosUploadedTotal,
		UploadRollbacksTotal: uploadRollbacksTotal,
		APIErrorsTotal:       apiErrorsTotal,
		APILatency:           apiLatency,
	}
}

// StartMetricsServer exposes /metrics on its own port. Blocks until the
// server exits.
func StartMetricsServer(port string, appLogger *logger.Logger, registry *prometheus.Registry) error {
	if port == "" {
		appLogger.Info("Prometheus metrics server port not configured, server will not start")
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	appLogger.Info("Prometheus metrics server starting", zap.String("port", port), zap.String("path", "/metrics"))

	server := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}
	return server.ListenAndServe()
}
