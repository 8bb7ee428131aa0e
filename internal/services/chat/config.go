// File: internal/services/chat/config.go
package chat

import (
	"fmt"

	"github.com/iyunix/lexbrief/internal/dtos"
)

// Reply texts used when the backend gives nothing usable.
const (
	DefaultErrorReply          = "Sorry, I couldn't reach the legal research service. Please try again."
	DefaultFallbackExplanation = "No explanation provided"
)

type Config struct {
	TopK                int    // Precedents requested per query
	ErrorReply          string // Assistant text when the backend call fails
	FallbackExplanation string // Assistant text when the reply has no explanation
}

func (c *Config) Validate() error {
	if c.TopK <= 0 {
		return fmt.Errorf("top_k must be positive")
	}
	if c.TopK > dtos.MaxTopK {
		return fmt.Errorf("top_k cannot exceed %d", dtos.MaxTopK)
	}
	if c.ErrorReply == "" {
		return fmt.Errorf("error_reply is required")
	}
	if c.FallbackExplanation == "" {
		return fmt.Errorf("fallback_explanation is required")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		TopK:                dtos.DefaultTopK,
		ErrorReply:          DefaultErrorReply,
		FallbackExplanation: DefaultFallbackExplanation,
	}
}
