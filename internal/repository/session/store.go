// File: internal/repository/session/store.go
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/iyunix/lexbrief/internal/domain"
	"github.com/iyunix/lexbrief/internal/repository/kv"
)

// HistoryKey is the single key holding the whole chat history.
const HistoryKey = "lexbrief-chat-history"

// ErrHistoryUnavailable is returned by writes while the persisted history
// could not be read. Writing then would replace history that still exists.
var ErrHistoryUnavailable = errors.New("chat history could not be read")

// Logger is the logging contract this package needs.
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

// Store keeps the chat history in memory and writes the whole collection
// through to the backing key/value store on every mutation.
type Store struct {
	backend kv.Store
	logger  Logger

	mu       sync.RWMutex
	sessions domain.ChatHistoryCollection
	// loadErr is the backend read error of the last Load; writes are
	// refused while it is set.
	loadErr error
}

// NewStore creates a history store over backend. Call Load before use.
func NewStore(backend kv.Store, logger Logger) *Store {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Store{backend: backend, logger: logger}
}

// Load reads the persisted history. A missing, unreadable or malformed value
// yields an empty collection; the problem is logged, never returned.
// After a read error the store stays read-only until a later Load succeeds.
func (s *Store) Load(ctx context.Context) domain.ChatHistoryCollection {
	raw, found, err := s.backend.Get(ctx, HistoryKey)
	var loaded domain.ChatHistoryCollection
	var loadErr error
	switch {
	case err != nil:
		s.logger.Warn("failed to read chat history, starting empty and read-only", "error", err)
		loadErr = err
	case !found:
		s.logger.Debug("no chat history persisted yet")
	default:
		if err := json.Unmarshal(raw, &loaded); err != nil {
			s.logger.Warn("malformed chat history, starting empty", "error", err, "bytes", len(raw))
			loaded = nil
		}
	}
	if loaded == nil {
		loaded = domain.ChatHistoryCollection{}
	}

	s.mu.Lock()
	s.sessions = loaded
	s.loadErr = loadErr
	s.mu.Unlock()

	s.logger.Info("chat history loaded", "sessions", len(loaded))
	return loaded.Clone()
}

// Save replaces the whole history with collection and persists it.
func (s *Store) Save(ctx context.Context, collection domain.ChatHistoryCollection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = collection.Clone()
	return s.persistLocked(ctx)
}

// Upsert replaces the session with the same id in place, or prepends it
// when it is new, then persists.
func (s *Store) Upsert(ctx context.Context, session domain.ChatSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session = session.Clone()
	if i := s.sessions.Index(session.ID); i >= 0 {
		s.sessions[i] = session
	} else {
		s.sessions = append(domain.ChatHistoryCollection{session}, s.sessions...)
	}
	return s.persistLocked(ctx)
}

// Delete removes the session with id and persists. Unknown ids are a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.sessions.Index(id)
	if i < 0 {
		return nil
	}
	s.sessions = append(s.sessions[:i:i], s.sessions[i+1:]...)
	return s.persistLocked(ctx)
}

// Get returns a copy of the session with id.
func (s *Store) Get(id string) (domain.ChatSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.sessions.Index(id)
	if i < 0 {
		return domain.ChatSession{}, false
	}
	return s.sessions[i].Clone(), true
}

// List returns a copy of the history, newest first.
func (s *Store) List() domain.ChatHistoryCollection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions.Clone()
}

func (s *Store) persistLocked(ctx context.Context) error {
	if s.loadErr != nil {
		s.logger.Warn("not persisting chat history, last load failed", "error", s.loadErr, "sessions", len(s.sessions))
		return fmt.Errorf("%w: %v", ErrHistoryUnavailable, s.loadErr)
	}
	collection := s.sessions
	if collection == nil {
		collection = domain.ChatHistoryCollection{}
	}
	data, err := json.Marshal(collection)
	if err != nil {
		return fmt.Errorf("encode chat history: %w", err)
	}
	if err := s.backend.Put(ctx, HistoryKey, data); err != nil {
		s.logger.Error("failed to persist chat history", "error", err, "sessions", len(collection))
		return fmt.Errorf("persist chat history: %w", err)
	}
	return nil
}
