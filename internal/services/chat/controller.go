// File: internal/services/chat/controller.go
package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iyunix/lexbrief/internal/domain"
	"github.com/iyunix/lexbrief/internal/dtos"
)

// Controller owns the conversation workflow: the input draft, the active
// session, in-flight requests and every write to the history store. The
// visible conversation is always read back from the store by active id.
type Controller struct {
	config  *Config
	querier Querier
	store   SessionStore
	logger  Logger

	now   func() time.Time
	newID func() string

	mu       sync.Mutex
	input    string
	activeID string
	inFlight map[string]struct{}
	observer func(Event)
}

// NewController wires a controller. A nil config means DefaultConfig.
func NewController(config *Config, querier Querier, store SessionStore, logger Logger) (*Controller, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, NewConfigError("invalid chat config", err)
	}
	if querier == nil {
		return nil, NewConfigError("querier is required", nil)
	}
	if store == nil {
		return nil, NewConfigError("session store is required", nil)
	}
	if logger == nil {
		logger = noopLogger{}
	}
	return &Controller{
		config:   config,
		querier:  querier,
		store:    store,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
		inFlight: make(map[string]struct{}),
	}, nil
}

// SetObserver registers fn to receive every Event. fn runs on the goroutine
// that caused the change and must not call back into the controller
// synchronously.
func (c *Controller) SetObserver(fn func(Event)) {
	c.mu.Lock()
	c.observer = fn
	c.mu.Unlock()
}

// SetInput replaces the draft.
func (c *Controller) SetInput(text string) {
	c.mu.Lock()
	c.input = text
	id := c.activeID
	c.mu.Unlock()
	c.emit(Event{Kind: EventInputChanged, SessionID: id})
}

// Input returns the draft.
func (c *Controller) Input() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

// ActiveID returns the id of the visible session, or "" for a fresh chat.
func (c *Controller) ActiveID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeID
}

// Messages returns the visible conversation.
func (c *Controller) Messages() []domain.Message {
	c.mu.Lock()
	id := c.activeID
	c.mu.Unlock()
	if id == "" {
		return nil
	}
	session, ok := c.store.Get(id)
	if !ok {
		return nil
	}
	return session.Messages
}

// Sessions returns the persisted history, newest first.
func (c *Controller) Sessions() domain.ChatHistoryCollection {
	return c.store.List()
}

// Awaiting reports whether the active session has a request in flight.
func (c *Controller) Awaiting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, pending := c.inFlight[c.activeID]
	return c.activeID != "" && pending
}

// InFlight reports whether the session with id has a request in flight.
func (c *Controller) InFlight(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, pending := c.inFlight[id]
	return pending
}

// CanSubmit reports whether Submit would do anything right now.
func (c *Controller) CanSubmit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if strings.TrimSpace(c.input) == "" {
		return false
	}
	_, pending := c.inFlight[c.activeID]
	return c.activeID == "" || !pending
}

// Submit sends the draft as a user message and blocks until the reply (or
// the fixed failure reply) is appended to the session it was asked in.
// Returns ErrEmptyInput or ErrRequestPending without side effects.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if strings.TrimSpace(c.input) == "" {
		c.mu.Unlock()
		return ErrEmptyInput
	}
	if _, pending := c.inFlight[c.activeID]; c.activeID != "" && pending {
		c.mu.Unlock()
		return ErrRequestPending
	}

	if c.activeID == "" {
		c.activeID = c.newID()
	}
	sessionID := c.activeID
	query := c.input
	userMsg := domain.Message{
		ID:        c.newID(),
		Role:      domain.RoleUser,
		Content:   query,
		Timestamp: c.now(),
	}
	storeErr := c.appendLocked(ctx, sessionID, userMsg)
	c.input = ""
	c.inFlight[sessionID] = struct{}{}
	c.mu.Unlock()

	c.emit(Event{Kind: EventMessageAppended, SessionID: sessionID})
	c.emitStoreError(sessionID, storeErr)
	c.emit(Event{Kind: EventRequestStarted, SessionID: sessionID})

	defer func() {
		c.mu.Lock()
		delete(c.inFlight, sessionID)
		c.mu.Unlock()
		c.emit(Event{Kind: EventRequestSettled, SessionID: sessionID})
	}()

	c.logger.Info("submitting query", "session_id", sessionID, "query_chars", len(query))
	start := c.now()
	resp, err := c.querier.Query(ctx, dtos.ChatRequestDTO{Query: query, TopK: c.config.TopK})
	reply := c.replyFor(resp, err, sessionID)
	c.logger.Debug("query settled", "session_id", sessionID, "duration_ms", c.now().Sub(start).Milliseconds(), "failed", err != nil)

	c.mu.Lock()
	if _, ok := c.store.Get(sessionID); !ok {
		// Deleted while the request was in flight
		c.mu.Unlock()
		c.logger.Warn("dropping reply for deleted session", "session_id", sessionID)
		return nil
	}
	storeErr = c.appendLocked(ctx, sessionID, reply)
	c.mu.Unlock()

	c.emit(Event{Kind: EventMessageAppended, SessionID: sessionID})
	c.emitStoreError(sessionID, storeErr)
	return nil
}

func (c *Controller) replyFor(resp *dtos.ChatResponseDTO, err error, sessionID string) domain.Message {
	msg := domain.Message{
		ID:        c.newID(),
		Role:      domain.RoleAssistant,
		Timestamp: c.now(),
	}
	if err != nil || resp == nil {
		if err == nil {
			err = NewBackendError(sessionID, nil)
		}
		c.logger.Error("research backend request failed", "session_id", sessionID, "error", err)
		msg.Content = c.config.ErrorReply
		return msg
	}

	msg.Content = resp.Explanation
	if msg.Content == "" {
		msg.Content = c.config.FallbackExplanation
	}
	msg.Precedents = append([]domain.Precedent{}, resp.Precedents...)
	return msg
}

// appendLocked adds msg to the stored session and upserts it with a fresh
// title and timestamp. Caller holds c.mu.
func (c *Controller) appendLocked(ctx context.Context, sessionID string, msg domain.Message) error {
	session, ok := c.store.Get(sessionID)
	if !ok {
		session = domain.ChatSession{ID: sessionID}
	}
	session.Messages = append(session.Messages, msg)
	session.Title = domain.DeriveTitle(session.Messages)
	session.Timestamp = c.now()

	if err := c.store.Upsert(ctx, session); err != nil {
		c.logger.Error("failed to save chat session", "session_id", sessionID, "error", err)
		return NewStoreError("upsert", sessionID, err)
	}
	return nil
}

// NewChat clears the active session and the draft. Stored sessions are untouched.
func (c *Controller) NewChat() {
	c.mu.Lock()
	c.activeID = ""
	c.input = ""
	c.mu.Unlock()
	c.emit(Event{Kind: EventActiveChanged})
}

// LoadChat makes the stored session with id the visible conversation.
func (c *Controller) LoadChat(id string) error {
	if _, ok := c.store.Get(id); !ok {
		return ErrSessionNotFound
	}
	c.mu.Lock()
	c.activeID = id
	c.mu.Unlock()
	c.emit(Event{Kind: EventActiveChanged, SessionID: id})
	return nil
}

// DeleteChat removes the session with id. Deleting the active session
// behaves like NewChat.
func (c *Controller) DeleteChat(ctx context.Context, id string) error {
	if _, ok := c.store.Get(id); !ok {
		return ErrSessionNotFound
	}

	c.mu.Lock()
	err := c.store.Delete(ctx, id)
	wasActive := c.activeID == id
	if wasActive {
		c.activeID = ""
		c.input = ""
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Error("failed to delete chat session", "session_id", id, "error", err)
		err = NewStoreError("delete", id, err)
		c.emitStoreError(id, err)
	}
	c.emit(Event{Kind: EventSessionDeleted, SessionID: id})
	if wasActive {
		c.emit(Event{Kind: EventActiveChanged})
	}
	return err
}

func (c *Controller) emitStoreError(sessionID string, err error) {
	if err != nil {
		c.emit(Event{Kind: EventStoreFailed, SessionID: sessionID, Err: err})
	}
}

func (c *Controller) emit(e Event) {
	c.mu.Lock()
	fn := c.observer
	c.mu.Unlock()
	if fn != nil {
		fn(e)
	}
}
