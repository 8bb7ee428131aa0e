// File: internal/services/rag/http_provider.go
package rag

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
)

// HTTPForwarder posts payloads to the configured upstream URL.
type HTTPForwarder struct {
	config *Config
	client *http.Client
}

func NewHTTPForwarder(config *Config) *HTTPForwarder {
	return &HTTPForwarder{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

func (p *HTTPForwarder) Forward(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.UpstreamURL, bytes.NewReader(payload))
	if err != nil {
		return nil, NewNetworkError("failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, NewNetworkError("request failed", err)
	}
	defer resp.Body.Close()

	return p.handleResponse(resp)
}

func (p *HTTPForwarder) handleResponse(resp *http.Response) (json.RawMessage, error) {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, NewStatusError(resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewNetworkError("failed to read response body", err)
	}
	if !json.Valid(body) {
		return nil, NewDecodeError("backend returned invalid JSON", nil)
	}
	return json.RawMessage(body), nil
}
