// File: internal/dtos/chat.go
package dtos

import "github.com/iyunix/lexbrief/internal/domain"

// DefaultTopK is the number of precedents the client asks the backend for.
const DefaultTopK = 5

// MaxTopK is the largest top_k the client will request.
const MaxTopK = 50

// ChatRequestDTO is the query payload sent to POST /api/chat and forwarded upstream.
type ChatRequestDTO struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

// ChatResponseDTO is the expected shape of a successful upstream reply.
// Both fields are optional on the wire.
type ChatResponseDTO struct {
	Explanation string             `json:"explanation,omitempty"`
	Precedents  []domain.Precedent `json:"precedents,omitempty"`
}

// ErrorResponseDTO is the envelope returned on any proxy failure.
type ErrorResponseDTO struct {
	Error string `json:"error"`
}

// RateLimitResponseDTO is returned with 429 when admission control rejects a request.
type RateLimitResponseDTO struct {
	Error      string `json:"error"`
	RetryAfter int    `json:"retryAfter"`
}
