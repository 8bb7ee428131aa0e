// File: internal/config/config.go
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/iyunix/lexbrief/internal/services/rag"
)

// Config is the proxy server configuration.
type Config struct {
	ServerPort      string
	UpstreamURL     string
	UpstreamTimeout time.Duration // 0 means no timeout
	RateLimitRPS    float64       // 0 disables rate limiting
	RateLimitBurst  int
	LogLevel        string
	Environment     string
}

// IsProduction reports whether ENV=production.
func (c *Config) IsProduction() bool {
	return strings.ToLower(c.Environment) == "production"
}

// Load reads configuration from environment variables or .env file.
func Load() (*Config, error) {
	env := os.Getenv("ENV")
	if strings.ToLower(env) != "production" {
		// A missing .env is normal; variables may come from the environment
		_ = godotenv.Load()
	}

	cfg := &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		UpstreamURL:     getEnv("RAG_UPSTREAM_URL", rag.DefaultUpstreamURL),
		UpstreamTimeout: getEnvAsDuration("RAG_UPSTREAM_TIMEOUT", 0),
		RateLimitRPS:    getEnvAsFloat("RATE_LIMIT_RPS", 0),
		RateLimitBurst:  getEnvAsInt("RATE_LIMIT_BURST", 5),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		Environment:     env,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded values. Production additionally requires the
// upstream to be reached over HTTPS.
func (c *Config) Validate() error {
	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT must not be empty")
	}
	if _, err := strconv.Atoi(c.ServerPort); err != nil {
		return fmt.Errorf("SERVER_PORT must be numeric, got %q", c.ServerPort)
	}

	u, err := url.Parse(c.UpstreamURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("RAG_UPSTREAM_URL must be an absolute URL, got %q", c.UpstreamURL)
	}
	if c.UpstreamTimeout < 0 {
		return fmt.Errorf("RAG_UPSTREAM_TIMEOUT must not be negative")
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must not be negative")
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst < 1 {
		return fmt.Errorf("RATE_LIMIT_BURST must be at least 1 when rate limiting is enabled")
	}

	// Validation for production environments
	if c.IsProduction() {
		missing := []string{}
		if os.Getenv("RAG_UPSTREAM_URL") == "" {
			missing = append(missing, "RAG_UPSTREAM_URL")
		}
		if len(missing) > 0 {
			return fmt.Errorf("missing required production environment variables: %v", missing)
		}
		if u.Scheme != "https" {
			return fmt.Errorf("RAG_UPSTREAM_URL must use https in production")
		}
	}

	return nil
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an env var as an integer, with a fallback.
func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(strValue)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not parse env var %s as integer. Using default value.\n", key)
		return defaultValue
	}
	return intValue
}

// getEnvAsFloat gets an env var as a float, with a fallback.
func getEnvAsFloat(key string, defaultValue float64) float64 {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(strValue, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not parse env var %s as number. Using default value.\n", key)
		return defaultValue
	}
	return f
}

// getEnvAsDuration accepts Go durations ("30s") or bare seconds ("30").
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(strValue); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(secs) * time.Second
	}
	fmt.Fprintf(os.Stderr, "Warning: could not parse env var %s as duration. Using default value.\n", key)
	return defaultValue
}
