// File: internal/services/rag/errors.go
package rag

import "fmt"

type ErrorType string

const (
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeNetwork    ErrorType = "NETWORK"
	ErrTypeStatus     ErrorType = "STATUS"
	ErrTypeDecode     ErrorType = "DECODE"
)

// UpstreamError describes why a forwarded request did not produce a usable reply.
type UpstreamError struct {
	Type    ErrorType
	Code    int
	Message string
	Cause   error
}

func (e *UpstreamError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("RAG %s error: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	if e.Code != 0 {
		return fmt.Sprintf("RAG %s error: %s (status %d)", e.Type, e.Message, e.Code)
	}
	return fmt.Sprintf("RAG %s error: %s", e.Type, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

func NewValidationError(msg string, cause error) *UpstreamError {
	return &UpstreamError{Type: ErrTypeValidation, Message: msg, Cause: cause}
}

func NewNetworkError(msg string, cause error) *UpstreamError {
	return &UpstreamError{Type: ErrTypeNetwork, Message: msg, Cause: cause}
}

func NewStatusError(code int) *UpstreamError {
	return &UpstreamError{Type: ErrTypeStatus, Code: code, Message: "backend responded with non-success status"}
}

func NewDecodeError(msg string, cause error) *UpstreamError {
	return &UpstreamError{Type: ErrTypeDecode, Message: msg, Cause: cause}
}
