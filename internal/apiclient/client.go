// File: internal/apiclient/client.go
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/iyunix/lexbrief/internal/dtos"
)

// ChatPath is the proxy route queried by the client.
const ChatPath = "/api/chat"

// APIError is returned when the proxy answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("proxy responded with status %d", e.StatusCode)
	}
	return fmt.Sprintf("proxy responded with status %d: %s", e.StatusCode, e.Message)
}

// Client talks to the LexBrief proxy.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the proxy at baseURL. The default http.Client
// has no timeout: a query waits as long as the backend takes.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// Query posts req to the proxy and decodes the research reply.
func (c *Client) Query(ctx context.Context, req dtos.ChatRequestDTO) (*dtos.ChatResponseDTO, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ChatPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var envelope dtos.ErrorResponseDTO
		if json.Unmarshal(body, &envelope) == nil {
			apiErr.Message = envelope.Error
		}
		return nil, apiErr
	}

	var out dtos.ChatResponseDTO
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}
