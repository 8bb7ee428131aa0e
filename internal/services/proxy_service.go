// File: internal/services/proxy_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/iyunix/lexbrief/internal/metrics"
	"github.com/iyunix/lexbrief/internal/services/rag"
)

// ProxyService relays chat queries to the research backend without
// interpreting them.
type ProxyService struct {
	forwarder rag.Forwarder
	metrics   *metrics.ProxyMetrics
	logger    Logger
}

func NewProxyService(forwarder rag.Forwarder, m *metrics.ProxyMetrics, logger Logger) (*ProxyService, error) {
	if forwarder == nil {
		return nil, errors.New("forwarder is required")
	}
	if logger == nil {
		logger = &NoOpLogger{}
	}
	return &ProxyService{
		forwarder: forwarder,
		metrics:   m,
		logger:    logger,
	}, nil
}

// Relay forwards body verbatim and returns the upstream JSON reply.
// The only check on body is that it parses as JSON.
func (s *ProxyService) Relay(ctx context.Context, body []byte) (json.RawMessage, error) {
	if !json.Valid(body) {
		s.metrics.Observe(metrics.OutcomeBadRequest, 0)
		return nil, rag.NewValidationError("request body is not valid JSON", nil)
	}

	start := time.Now()
	reply, err := s.forwarder.Forward(ctx, json.RawMessage(body))
	elapsed := time.Since(start)
	if err != nil {
		s.metrics.Observe(metrics.OutcomeUpstreamError, elapsed)
		s.logger.Debug("upstream relay failed", "error", err, "duration_ms", elapsed.Milliseconds())
		return nil, err
	}

	s.metrics.Observe(metrics.OutcomeSuccess, elapsed)
	s.logger.Debug("upstream relay succeeded", "duration_ms", elapsed.Milliseconds(), "bytes", len(reply))
	return reply, nil
}
