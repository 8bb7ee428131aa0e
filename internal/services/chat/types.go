// File: internal/services/chat/types.go
package chat

import (
	"context"

	"github.com/iyunix/lexbrief/internal/domain"
	"github.com/iyunix/lexbrief/internal/dtos"
)

// Logger defines the logging interface used across chat services
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Warn(string, ...interface{})  {}

// Querier sends one research query to the backend.
type Querier interface {
	Query(ctx context.Context, req dtos.ChatRequestDTO) (*dtos.ChatResponseDTO, error)
}

// SessionStore is the durable history the controller reads and writes.
type SessionStore interface {
	List() domain.ChatHistoryCollection
	Get(id string) (domain.ChatSession, bool)
	Upsert(ctx context.Context, session domain.ChatSession) error
	Delete(ctx context.Context, id string) error
}

// EventKind names a controller state change.
type EventKind int

const (
	EventInputChanged EventKind = iota
	EventMessageAppended
	EventRequestStarted
	EventRequestSettled
	EventActiveChanged
	EventSessionDeleted
	EventStoreFailed
)

func (k EventKind) String() string {
	switch k {
	case EventInputChanged:
		return "input_changed"
	case EventMessageAppended:
		return "message_appended"
	case EventRequestStarted:
		return "request_started"
	case EventRequestSettled:
		return "request_settled"
	case EventActiveChanged:
		return "active_changed"
	case EventSessionDeleted:
		return "session_deleted"
	case EventStoreFailed:
		return "store_failed"
	default:
		return "unknown"
	}
}

// Event is delivered to the observer after a state change. Err is set for
// EventStoreFailed.
type Event struct {
	Kind      EventKind
	SessionID string
	Err       error
}
