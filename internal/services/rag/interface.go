// File: internal/services/rag/interface.go
package rag

import (
	"context"
	"encoding/json"
)

// Forwarder relays a JSON payload to the research backend and returns its JSON reply.
type Forwarder interface {
	Forward(ctx context.Context, payload json.RawMessage) (json.RawMessage, error)
}
