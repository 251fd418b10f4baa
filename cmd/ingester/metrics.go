package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cloudcatalog/ingester/internal/middleware"
)

const (
	metricsReadTimeout     = 5 * time.Second
	metricsShutdownTimeout = 5 * time.Second
)

// newMetricsHandler serves reg on /metrics and a liveness probe on /healthz.
func newMetricsHandler(reg *prometheus.Registry, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return middleware.Apply(mux,
		middleware.WithRecovery(logger),
		middleware.WithRequestLogger(logger),
	)
}

func startMetricsServer(addr string, reg *prometheus.Registry, logger *slog.Logger) *http.Server {
	server := &http.Server{
		Addr:              addr,
		Handler:           newMetricsHandler(reg, logger),
		ReadHeaderTimeout: metricsReadTimeout,
	}

	go func() {
		logger.Info("Serving metrics", slog.String("address", addr))

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed",
				slog.String("address", addr),
				slog.String("error", err.Error()),
			)
		}
	}()

	return server
}

func shutdownMetricsServer(server *http.Server, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("Metrics server shutdown failed", slog.String("error", err.Error()))
	}
}
