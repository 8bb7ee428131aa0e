package main

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/iyunix/lexbrief/internal/config"
	"github.com/iyunix/lexbrief/internal/handlers"
	"github.com/iyunix/lexbrief/internal/metrics"
	"github.com/iyunix/lexbrief/internal/middleware"
	"github.com/iyunix/lexbrief/internal/ratelimit"
	"github.com/iyunix/lexbrief/internal/services"
)

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// newChatLimiter returns the /api/chat limiter, or nil when RATE_LIMIT_RPS
// leaves limiting disabled.
func newChatLimiter(cfg *config.Config) *ratelimit.MemoryRateLimiter {
	limitCfg := ratelimit.DefaultChatConfig()
	limitCfg.RequestsPerSecond = cfg.RateLimitRPS
	limitCfg.Burst = cfg.RateLimitBurst
	if !limitCfg.Enabled() {
		return nil
	}
	return ratelimit.NewMemoryRateLimiter(limitCfg)
}

// newRouter wires the public routes. A nil limiter leaves /api/chat unthrottled.
func newRouter(chat *handlers.ChatHandler, limiter *ratelimit.MemoryRateLimiter, registry *prometheus.Registry, logger services.Logger) *mux.Router {
	r := mux.NewRouter()

	r.Use(corsMiddleware)
	r.Use(middleware.RecoverPanic(logger))
	r.Use(middleware.LoggingMiddleware(logger))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler(registry)).Methods(http.MethodGet)

	var chatRoute http.Handler = http.HandlerFunc(chat.ProxyChat)
	if limiter != nil {
		chatRoute = middleware.RateLimitMiddleware(limiter, "chat", logger)(chatRoute)
	}
	r.Handle("/api/chat", chatRoute).Methods(http.MethodPost, http.MethodOptions)

	r.NotFoundHandler = http.HandlerFunc(handlers.NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(handlers.MethodNotAllowed)

	return r
}
