// File: internal/services/chat/errors.go
package chat

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned by Submit when the draft is blank.
	ErrEmptyInput = errors.New("chat: input is empty")
	// ErrRequestPending is returned by Submit while the active session awaits a reply.
	ErrRequestPending = errors.New("chat: a request is already pending for this session")
	// ErrSessionNotFound is returned when an id does not name a stored session.
	ErrSessionNotFound = errors.New("chat: session not found")
)

type ErrorType string

const (
	ErrTypeConfig     ErrorType = "CONFIG"
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeBackend    ErrorType = "BACKEND"
	ErrTypeStore      ErrorType = "STORE"
)

type ChatError struct {
	Type      ErrorType
	Operation string
	Message   string
	SessionID string
	Cause     error
}

func (e *ChatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("Chat %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("Chat %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *ChatError) Unwrap() error {
	return e.Cause
}

func NewConfigError(msg string, cause error) *ChatError {
	return &ChatError{Type: ErrTypeConfig, Operation: "configure", Message: msg, Cause: cause}
}

func NewBackendError(sessionID string, cause error) *ChatError {
	return &ChatError{Type: ErrTypeBackend, Operation: "query", Message: "backend request failed", SessionID: sessionID, Cause: cause}
}

func NewStoreError(operation, sessionID string, cause error) *ChatError {
	return &ChatError{Type: ErrTypeStore, Operation: operation, Message: "history store write failed", SessionID: sessionID, Cause: cause}
}
