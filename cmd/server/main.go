// File: cmd/server/main.go
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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/iyunix/lexbrief/internal/config"
	"github.com/iyunix/lexbrief/internal/domain"
	"github.com/iyunix/lexbrief/internal/handlers"
	"github.com/iyunix/lexbrief/internal/metrics"
	"github.com/iyunix/lexbrief/internal/services"
	"github.com/iyunix/lexbrief/internal/services/rag"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger, err := services.NewZapLogger("lexbrief-proxy", services.LoggerOptions{
		Level:      services.ParseLogLevel(cfg.LogLevel),
		Structured: cfg.IsProduction(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	// --- Services ---
	ragConfig := &rag.Config{UpstreamURL: cfg.UpstreamURL, Timeout: cfg.UpstreamTimeout}
	if err := ragConfig.Validate(); err != nil {
		logger.Error("invalid upstream configuration", "error", err)
		os.Exit(1)
	}
	forwarder := rag.NewHTTPForwarder(ragConfig)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	proxyMetrics := metrics.NewProxyMetrics(registry)

	proxyService, err := services.NewProxyService(forwarder, proxyMetrics, logger)
	if err != nil {
		logger.Error("failed to initialize proxy service", "error", err)
		os.Exit(1)
	}

	// --- Handlers ---
	chatHandler := handlers.NewChatHandler(proxyService, logger)

	limiter := newChatLimiter(cfg)
	if limiter != nil {
		defer limiter.Close()
	}

	r := newRouter(chatHandler, limiter, registry, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("server starting",
		"product", domain.ProductName,
		"port", cfg.ServerPort,
		"upstream", cfg.UpstreamURL,
		"rate_limit_rps", cfg.RateLimitRPS,
		"environment", cfg.Environment,
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Error("server startup failed", "error", err)
		os.Exit(1)
	case sig := <-stop:
		logger.Info("shutting down server", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", "error", err)
		return
	}
	logger.Info("server stopped gracefully")
}
