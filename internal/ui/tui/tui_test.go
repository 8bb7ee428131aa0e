package tui

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/lexbrief/internal/domain"
	"github.com/iyunix/lexbrief/internal/dtos"
	"github.com/iyunix/lexbrief/internal/render"
	"github.com/iyunix/lexbrief/internal/repository/kv"
	"github.com/iyunix/lexbrief/internal/repository/session"
	"github.com/iyunix/lexbrief/internal/services/chat"
)

type stubQuerier struct {
	resp *dtos.ChatResponseDTO
}

func (s stubQuerier) Query(context.Context, dtos.ChatRequestDTO) (*dtos.ChatResponseDTO, error) {
	return s.resp, nil
}

// blockingQuerier answers only after release is closed.
type blockingQuerier struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
}

func newBlockingQuerier() *blockingQuerier {
	return &blockingQuerier{started: make(chan struct{}, 8), release: make(chan struct{})}
}

func (b *blockingQuerier) Query(ctx context.Context, _ dtos.ChatRequestDTO) (*dtos.ChatResponseDTO, error) {
	b.calls.Add(1)
	b.started <- struct{}{}
	select {
	case <-b.release:
		return &dtos.ChatResponseDTO{Explanation: "Settled."}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func newTestModel(t *testing.T) *Model {
	t.Helper()
	return newTestModelWith(t, stubQuerier{resp: &dtos.ChatResponseDTO{
		Explanation: "The appeal fails. Costs follow the event.",
		Precedents:  []domain.Precedent{{CaseName: "Hadley v Baxendale", Excerpt: "remoteness"}},
	}})
}

func newTestModelWith(t *testing.T, q chat.Querier) *Model {
	t.Helper()
	store := session.NewStore(kv.NewMemoryStore(), nil)
	store.Load(context.Background())
	ctrl, err := chat.NewController(nil, q, store, nil)
	require.NoError(t, err)

	m := New(context.Background(), ctrl, Options{Theme: "light", RevealInterval: 0})
	t.Cleanup(m.Close)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func typeText(m *Model, s string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func press(m *Model, k tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: k})
	return cmd
}

// drainEvents feeds queued controller events back into the model.
func drainEvents(m *Model) {
	for {
		select {
		case e := <-m.events:
			m.Update(controllerEventMsg(e))
		default:
			return
		}
	}
}

func submitAndSettle(t *testing.T, m *Model, text string) {
	t.Helper()
	typeText(m, text)
	cmd := press(m, tea.KeyEnter)
	require.NotNil(t, cmd)
	m.Update(cmd())
	drainEvents(m)
}

func TestTyping_UpdatesControllerDraft(t *testing.T) {
	m := newTestModel(t)
	typeText(m, "duty of care")
	assert.Equal(t, "duty of care", m.ctrl.Input())

	m.Update(tea.KeyMsg{Type: tea.KeyEnter, Alt: true})
	typeText(m, "second line")
	assert.Equal(t, "duty of care\nsecond line", m.ctrl.Input())
}

func TestEnter_EmptyInputDoesNothing(t *testing.T) {
	m := newTestModel(t)
	assert.Nil(t, press(m, tea.KeyEnter))
	typeText(m, "   ")
	assert.Nil(t, press(m, tea.KeyEnter))
	assert.Empty(t, m.ctrl.Sessions())
}

func TestSubmit_AppendsAndReveals(t *testing.T) {
	m := newTestModel(t)
	submitAndSettle(t, m, "Was the loss too remote?")

	msgs := m.ctrl.Messages()
	require.Len(t, msgs, 2)
	assert.Empty(t, m.input.Value())
	assert.False(t, m.submitting)
	assert.Equal(t, msgs[1].ID, m.revealID)

	select {
	case f := <-m.revealer.Frames():
		m.Update(revealFrameMsg(f))
	case <-time.After(2 * time.Second):
		t.Fatal("no reveal frame")
	}
	assert.True(t, m.frame.Done)
	assert.Equal(t, render.AssistantMarkdown(msgs[1].Content), m.frame.Visible)

	view := m.View()
	assert.Contains(t, view, "Was the loss too remote?")
	assert.Contains(t, view, "Baxendale")
	assert.Contains(t, view, domain.Disclaimer)
}

func TestLoadedHistoryIsNotRevealed(t *testing.T) {
	m := newTestModel(t)
	submitAndSettle(t, m, "first")
	first := m.ctrl.ActiveID()

	press(m, tea.KeyCtrlN)
	assert.Empty(t, m.ctrl.ActiveID())
	assert.Empty(t, m.revealID)

	press(m, tea.KeyTab)
	require.Equal(t, focusSidebar, m.focus)
	press(m, tea.KeyEnter)
	drainEvents(m)

	assert.Equal(t, first, m.ctrl.ActiveID())
	assert.Equal(t, focusInput, m.focus)
	assert.Empty(t, m.revealID)
}

func TestSidebar_NavigateAndDelete(t *testing.T) {
	m := newTestModel(t)
	submitAndSettle(t, m, "older question")
	press(m, tea.KeyCtrlN)
	submitAndSettle(t, m, "newer question")
	newer := m.ctrl.ActiveID()

	press(m, tea.KeyTab)
	assert.Equal(t, 0, m.selected)
	press(m, tea.KeyDown)
	assert.Equal(t, 1, m.selected)
	press(m, tea.KeyDown)
	assert.Equal(t, 1, m.selected)

	press(m, tea.KeyCtrlD)
	drainEvents(m)
	sessions := m.ctrl.Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, newer, sessions[0].ID)
	assert.Equal(t, newer, m.ctrl.ActiveID())
	assert.Equal(t, 0, m.selected)
}

func TestCtrlD_InInputDeletesActiveChat(t *testing.T) {
	m := newTestModel(t)
	submitAndSettle(t, m, "to be deleted")

	press(m, tea.KeyCtrlD)
	drainEvents(m)

	assert.Empty(t, m.ctrl.ActiveID())
	assert.Empty(t, m.ctrl.Sessions())
	assert.Empty(t, m.ctrl.Messages())
}

func TestToggles(t *testing.T) {
	m := newTestModel(t)

	assert.True(t, m.sidebarOpen)
	press(m, tea.KeyCtrlB)
	assert.False(t, m.sidebarOpen)
	press(m, tea.KeyTab)
	assert.Equal(t, focusInput, m.focus, "sidebar cannot take focus while hidden")
	press(m, tea.KeyCtrlB)
	assert.True(t, m.sidebarOpen)

	assert.Equal(t, "light", m.theme.Name)
	press(m, tea.KeyCtrlT)
	assert.Equal(t, "dark", m.theme.Name)
	press(m, tea.KeyCtrlT)
	press(m, tea.KeyCtrlT)
	assert.Equal(t, "sunset", m.theme.Name)
	press(m, tea.KeyCtrlT)
	assert.Equal(t, "light", m.theme.Name)
}

func TestView_WelcomeAndHeader(t *testing.T) {
	m := newTestModel(t)
	view := m.View()
	assert.Contains(t, view, domain.ProductName)
	assert.Contains(t, view, domain.Tagline)
	assert.Contains(t, view, "No conversations yet")
	assert.Contains(t, view, "court judgement text")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab…", truncate("abcdef", 3))
	assert.Equal(t, "a b", truncate("a\nb", 5))
	assert.Equal(t, "", truncate("abc", 0))
}

func TestInputLockedWhileAwaitingReply(t *testing.T) {
	q := newBlockingQuerier()
	m := newTestModelWith(t, q)

	typeText(m, "Is the clause enforceable?")
	cmd := press(m, tea.KeyEnter)
	require.NotNil(t, cmd)

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	select {
	case <-q.started:
	case <-time.After(2 * time.Second):
		t.Fatal("query never reached the backend")
	}
	drainEvents(m)
	require.True(t, m.ctrl.Awaiting())

	assert.Nil(t, press(m, tea.KeyEnter))
	typeText(m, "x")
	assert.Nil(t, press(m, tea.KeyEnter))

	assert.Empty(t, m.input.Value())
	assert.Empty(t, m.ctrl.Input())
	assert.Equal(t, int32(1), q.calls.Load())
	assert.Len(t, m.ctrl.Messages(), 1)
	assert.Contains(t, m.View(), "Researching precedents...")

	close(q.release)
	select {
	case msg := <-done:
		m.Update(msg)
	case <-time.After(2 * time.Second):
		t.Fatal("submit did not finish")
	}
	drainEvents(m)

	assert.False(t, m.ctrl.Awaiting())
	assert.Len(t, m.ctrl.Messages(), 2)
	assert.Equal(t, int32(1), q.calls.Load())

	typeText(m, "follow up")
	assert.Equal(t, "follow up", m.input.Value())
}
