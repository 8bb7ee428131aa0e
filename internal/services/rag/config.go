// File: internal/services/rag/config.go
package rag

import (
	"fmt"
	"net/url"
	"time"
)

// DefaultUpstreamURL is the hosted judgement summarizer endpoint.
const DefaultUpstreamURL = "https://court-judgement-summarizer-2.onrender.com/rag"

type Config struct {
	UpstreamURL string
	// Timeout of zero leaves the upstream call unbounded.
	Timeout time.Duration
}

func (c *Config) Validate() error {
	if c.UpstreamURL == "" {
		return fmt.Errorf("RAG_UPSTREAM_URL is required")
	}
	u, err := url.Parse(c.UpstreamURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("RAG_UPSTREAM_URL must be an absolute URL, got %q", c.UpstreamURL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		UpstreamURL: DefaultUpstreamURL,
	}
}
