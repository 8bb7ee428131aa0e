// File: internal/handlers/chat_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/iyunix/lexbrief/internal/services"
)

// ProxyFailureMessage is the only error text clients ever see from /api/chat.
const ProxyFailureMessage = "Failed to process request. Make sure the RAG service is running."

// maxRequestBody bounds how much of a pasted judgement the proxy will buffer.
const maxRequestBody = 4 << 20

// Relayer forwards a raw JSON body to the research backend.
type Relayer interface {
	Relay(ctx context.Context, body []byte) (json.RawMessage, error)
}

type ChatHandler struct {
	Relayer Relayer
	Logger  services.Logger
}

func NewChatHandler(relayer Relayer, logger services.Logger) *ChatHandler {
	if logger == nil {
		logger = &services.NoOpLogger{}
	}
	return &ChatHandler{Relayer: relayer, Logger: logger}
}

// ProxyChat handles POST /api/chat. Any failure, including an unreadable or
// malformed body, collapses into a 500 with a generic error envelope.
func (h *ChatHandler) ProxyChat(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err != nil {
		h.Logger.Error("API Error: reading request body", "error", err)
		writeError(w, ProxyFailureMessage, http.StatusInternalServerError)
		return
	}

	reply, err := h.Relayer.Relay(r.Context(), body)
	if err != nil {
		h.Logger.Error("API Error", "error", err, "remote_addr", r.RemoteAddr)
		writeError(w, ProxyFailureMessage, http.StatusInternalServerError)
		return
	}

	writeRawJSON(w, http.StatusOK, reply)
}

// writeJSON is a helper for sending JSON responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeRawJSON sends an already-encoded JSON body unchanged.
func writeRawJSON(w http.ResponseWriter, status int, body json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// writeError is a helper for sending JSON error responses.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

// NotFound and MethodNotAllowed keep router errors in the same JSON envelope.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, "The resource you are looking for does not exist.", http.StatusNotFound)
}

func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, "The method is not allowed for this resource.", http.StatusMethodNotAllowed)
}
