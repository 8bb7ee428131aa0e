// File: internal/domain/message.go
package domain

import "time"

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Precedent is a prior case cited by the research backend.
type Precedent struct {
	CaseName string `json:"case_name"`
	Excerpt  string `json:"excerpt"`
}

// Message represents a single message within a chat. Messages are never
// edited after creation.
type Message struct {
	ID         string      `json:"id"`
	Role       Role        `json:"role"`
	Content    string      `json:"content"`
	Timestamp  time.Time   `json:"timestamp"`
	Precedents []Precedent `json:"precedents,omitempty"`
}

// IsUser reports whether the message was typed by the user.
func (m Message) IsUser() bool {
	return m.Role == RoleUser
}
