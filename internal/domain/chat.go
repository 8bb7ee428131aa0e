// File: internal/domain/chat.go
package domain

import (
	"time"
	"unicode/utf8"
)

// TitleMaxLength is the number of characters kept from the first message
// when deriving a session title.
const TitleMaxLength = 50

// ChatSession represents a single conversation thread.
type ChatSession struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	Timestamp time.Time `json:"timestamp"` // last update
}

// ChatHistoryCollection is the full persisted history, newest first.
type ChatHistoryCollection []ChatSession

// DeriveTitle returns the first message's content truncated to TitleMaxLength runes.
func DeriveTitle(messages []Message) string {
	if len(messages) == 0 {
		return ""
	}
	content := messages[0].Content
	if utf8.RuneCountInString(content) <= TitleMaxLength {
		return content
	}
	return string([]rune(content)[:TitleMaxLength])
}

// Index returns the position of the session with the given id, or -1.
func (c ChatHistoryCollection) Index(id string) int {
	for i := range c {
		if c[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a copy that shares no slices with c.
func (c ChatHistoryCollection) Clone() ChatHistoryCollection {
	if c == nil {
		return nil
	}
	out := make(ChatHistoryCollection, len(c))
	for i, s := range c {
		out[i] = s.Clone()
	}
	return out
}

// Clone returns a copy of the session with its own message slice.
func (s ChatSession) Clone() ChatSession {
	s.Messages = append([]Message(nil), s.Messages...)
	return s
}
