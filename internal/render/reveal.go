// File: internal/render/reveal.go
package render

import (
	"context"
	"sync"
	"time"
)

// DefaultRevealInterval is the delay between revealed characters.
const DefaultRevealInterval = 10 * time.Millisecond

// Caret is appended to partially revealed text.
const Caret = "▌"

// Frame is one step of a reveal.
type Frame struct {
	MessageID string
	Visible   string
	Done      bool
}

// Text returns the visible text with the caret while the reveal is running.
func (f Frame) Text() string {
	if f.Done {
		return f.Visible
	}
	return f.Visible + Caret
}

// Revealer runs at most one character reveal at a time, keyed by message id.
// Starting a reveal cancels the previous one. Frames are delivered on a
// single channel; a stale frame may still arrive right after a restart, so
// consumers compare Frame.MessageID with Current.
type Revealer struct {
	interval time.Duration
	frames   chan Frame

	mu      sync.Mutex
	cancel  context.CancelFunc
	current string
	wg      sync.WaitGroup
}

// NewRevealer creates a revealer with the given per-character cadence.
// A non-positive interval reveals everything in one frame.
func NewRevealer(interval time.Duration) *Revealer {
	return &Revealer{
		interval: interval,
		frames:   make(chan Frame),
	}
}

// Frames is the stream of reveal frames.
func (r *Revealer) Frames() <-chan Frame {
	return r.frames
}

// Current is the id of the message being revealed, or "" when idle.
func (r *Revealer) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Start cancels any running reveal and begins revealing text for id.
func (r *Revealer) Start(id, text string) {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.current = id
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.run(ctx, id, []rune(text))
		r.finish(id)
	}()
}

// Stop cancels the running reveal and waits for its goroutine to exit.
func (r *Revealer) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.current = ""
	r.mu.Unlock()
	r.wg.Wait()
}

func (r *Revealer) run(ctx context.Context, id string, runes []rune) {
	if r.interval <= 0 || len(runes) == 0 {
		r.send(ctx, Frame{MessageID: id, Visible: string(runes), Done: true})
		return
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for n := 1; n <= len(runes); n++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		frame := Frame{MessageID: id, Visible: string(runes[:n]), Done: n == len(runes)}
		if !r.send(ctx, frame) {
			return
		}
	}
}

func (r *Revealer) send(ctx context.Context, f Frame) bool {
	if ctx.Err() != nil {
		return false
	}
	select {
	case <-ctx.Done():
		return false
	case r.frames <- f:
		return true
	}
}

func (r *Revealer) finish(id string) {
	r.mu.Lock()
	if r.current == id {
		r.current = ""
	}
	r.mu.Unlock()
}
