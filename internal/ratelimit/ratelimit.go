// File: internal/ratelimit/ratelimit.go
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Config holds rate limiting configuration
type Config struct {
	RequestsPerSecond float64       // Sustained rate per client; <= 0 disables limiting
	Burst             int           // Requests a client may issue at once
	IdleTTL           time.Duration // Drop a client's bucket after this much inactivity
	CleanupPeriod     time.Duration // How often to clean up idle buckets
}

// DefaultChatConfig returns defaults for the chat proxy
func DefaultChatConfig() *Config {
	return &Config{
		RequestsPerSecond: 2,
		Burst:             5,
		IdleTTL:           10 * time.Minute,
		CleanupPeriod:     5 * time.Minute,
	}
}

// Enabled reports whether the config asks for any limiting at all.
func (c *Config) Enabled() bool {
	return c != nil && c.RequestsPerSecond > 0
}

// clientBucket tracks one identifier's token bucket
type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryRateLimiter keeps one token bucket per client identifier in memory
type MemoryRateLimiter struct {
	config  *Config
	buckets map[string]*clientBucket
	mu      sync.Mutex
	stopCh  chan struct{}
	once    sync.Once
	now     func() time.Time
}

// NewMemoryRateLimiter creates a new in-memory rate limiter
func NewMemoryRateLimiter(config *Config) *MemoryRateLimiter {
	if config.Burst < 1 {
		config.Burst = 1
	}
	limiter := &MemoryRateLimiter{
		config:  config,
		buckets: make(map[string]*clientBucket),
		stopCh:  make(chan struct{}),
		now:     time.Now,
	}

	if config.CleanupPeriod > 0 {
		go limiter.cleanupLoop()
	}

	return limiter
}

// RateLimitInfo contains information about rate limit status
type RateLimitInfo struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Allow checks if a request from identifier should be admitted now
func (rl *MemoryRateLimiter) Allow(identifier string) (bool, *RateLimitInfo) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	bucket, exists := rl.buckets[identifier]
	if !exists {
		bucket = &clientBucket{
			limiter: rate.NewLimiter(rate.Limit(rl.config.RequestsPerSecond), rl.config.Burst),
		}
		rl.buckets[identifier] = bucket
	}
	bucket.lastSeen = now

	if bucket.limiter.AllowN(now, 1) {
		return true, &RateLimitInfo{
			Allowed:   true,
			Limit:     rl.config.Burst,
			Remaining: int(bucket.limiter.TokensAt(now)),
		}
	}

	// Work out how long until a token is available without consuming it
	r := bucket.limiter.ReserveN(now, 1)
	retryAfter := r.DelayFrom(now)
	r.CancelAt(now)

	return false, &RateLimitInfo{
		Allowed:    false,
		Limit:      rl.config.Burst,
		Remaining:  0,
		RetryAfter: retryAfter,
	}
}

// cleanupLoop periodically removes idle buckets
func (rl *MemoryRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup removes buckets that have been idle longer than IdleTTL
func (rl *MemoryRateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for identifier, bucket := range rl.buckets {
		if now.Sub(bucket.lastSeen) > rl.config.IdleTTL {
			delete(rl.buckets, identifier)
		}
	}
}

// Len returns the number of tracked clients
func (rl *MemoryRateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.buckets)
}

// Close stops the cleanup goroutine
func (rl *MemoryRateLimiter) Close() {
	rl.once.Do(func() { close(rl.stopCh) })
}

// GetClientIP extracts the real client IP from request
func GetClientIP(r *http.Request) string {
	// Check for forwarded IP (behind proxy/load balancer)
	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded != "" {
		// Take the first IP in case of multiple
		if ip := parseFirstIP(forwarded); ip != "" {
			return ip
		}
	}

	// Check for real IP header
	realIP := r.Header.Get("X-Real-IP")
	if realIP != "" {
		return realIP
	}

	// Fall back to remote address
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// parseFirstIP extracts the first valid IP from a comma-separated list
func parseFirstIP(forwarded string) string {
	ips := strings.Split(forwarded, ",")
	if len(ips) > 0 {
		return strings.TrimSpace(ips[0])
	}
	return ""
}
