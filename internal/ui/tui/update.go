package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iyunix/lexbrief/internal/domain"
	"github.com/iyunix/lexbrief/internal/render"
	"github.com/iyunix/lexbrief/internal/services/chat"
	"github.com/iyunix/lexbrief/internal/ui/styles"
)

// Update handles Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.layout()
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case revealFrameMsg:
		if msg.MessageID == m.revealID {
			m.frame = render.Frame(msg)
			m.refresh()
		}
		return m, waitForFrame(m.revealer.Frames())

	case controllerEventMsg:
		m.handleEvent(chat.Event(msg))
		return m, waitForEvent(m.events)

	case submitDoneMsg:
		m.submitting = false
		if msg.err != nil && !errors.Is(msg.err, chat.ErrEmptyInput) && !errors.Is(msg.err, chat.ErrRequestPending) {
			m.setError(msg.err.Error())
		}
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.ctrl.Awaiting() {
			m.refresh()
		}
		return m, cmd
	}

	return m, nil
}

func (m *Model) handleEvent(e chat.Event) {
	m.logger.Debug("controller event", "kind", e.Kind.String(), "session_id", e.SessionID)

	switch e.Kind {
	case chat.EventRequestStarted:
		m.submitting = false
		m.status = ""
	case chat.EventStoreFailed:
		m.setError("Could not save chat history: " + errString(e.Err))
	case chat.EventMessageAppended:
		if e.SessionID == m.ctrl.ActiveID() {
			m.syncReveal(true)
		}
	case chat.EventActiveChanged, chat.EventSessionDeleted:
		m.clampSelection()
	}
	m.refresh()
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.NewChat):
		m.stopReveal()
		m.ctrl.NewChat()
		m.input.Reset()
		m.focusInput()
		m.status = ""
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.ToggleSidebar):
		m.sidebarOpen = !m.sidebarOpen
		if !m.sidebarOpen {
			m.focusInput()
		}
		m.layout()
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.applyTheme(styles.Next(m.theme.Name))
		m.setStatus("Theme: " + m.theme.Name)
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.FocusSidebar):
		if m.focus == focusSidebar {
			m.focusInput()
		} else if m.sidebarOpen {
			m.focus = focusSidebar
			m.input.Blur()
			m.selectActive()
		}
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	if m.focus == focusSidebar {
		return m.handleSidebarKey(msg)
	}
	return m.handleInputKey(msg)
}

func (m *Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sessions := m.ctrl.Sessions()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Down):
		if m.selected < len(sessions)-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.Open):
		if m.selected < len(sessions) {
			m.openSession(sessions[m.selected].ID)
			m.focusInput()
		}
	case key.Matches(msg, m.keys.Delete):
		if m.selected < len(sessions) {
			m.deleteSession(sessions[m.selected])
		}
	case msg.String() == "esc":
		m.focusInput()
	}
	m.refresh()
	return m, nil
}

func (m *Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+d":
		if id := m.ctrl.ActiveID(); id != "" {
			if s, ok := findSession(m.ctrl.Sessions(), id); ok {
				m.deleteSession(s)
			}
		}
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m, m.submit()
	}

	if m.inputLocked() {
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.ctrl.SetInput(m.input.Value())
	return m, cmd
}

func (m *Model) submit() tea.Cmd {
	if m.inputLocked() || !m.ctrl.CanSubmit() {
		return nil
	}
	m.submitting = true
	m.status = ""
	m.input.Reset()

	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return submitDoneMsg{err: ctrl.Submit(ctx)}
	}
}

func (m *Model) openSession(id string) {
	m.stopReveal()
	if err := m.ctrl.LoadChat(id); err != nil {
		m.setError(err.Error())
		return
	}
	m.markSeen()
	m.viewport.GotoBottom()
}

func (m *Model) deleteSession(s domain.ChatSession) {
	if s.ID == m.ctrl.ActiveID() {
		m.stopReveal()
		m.input.Reset()
	}
	if err := m.ctrl.DeleteChat(m.ctx, s.ID); err != nil && !errors.Is(err, chat.ErrSessionNotFound) {
		m.setError(err.Error())
		return
	}
	m.setStatus("Deleted \"" + truncate(s.Title, 30) + "\"")
	m.clampSelection()
}

// syncReveal marks new messages as seen. When live is set and the newest
// message is an assistant reply, its reveal starts.
func (m *Model) syncReveal(live bool) {
	msgs := m.ctrl.Messages()
	for i, msg := range msgs {
		if m.seen[msg.ID] {
			continue
		}
		m.seen[msg.ID] = true
		if live && i == len(msgs)-1 && msg.Role == domain.RoleAssistant {
			m.revealID = msg.ID
			m.frame = render.Frame{MessageID: msg.ID}
			m.revealer.Start(msg.ID, render.AssistantMarkdown(msg.Content))
		}
	}
}

func (m *Model) stopReveal() {
	if m.revealID == "" {
		return
	}
	m.revealer.Stop()
	m.revealID = ""
	m.frame = render.Frame{}
}

func (m *Model) focusInput() {
	m.focus = focusInput
	m.input.Focus()
}

func (m *Model) selectActive() {
	sessions := m.ctrl.Sessions()
	for i, s := range sessions {
		if s.ID == m.ctrl.ActiveID() {
			m.selected = i
			return
		}
	}
	m.clampSelection()
}

func (m *Model) clampSelection() {
	n := len(m.ctrl.Sessions())
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.statusErr = true
	m.logger.Warn("ui error", "message", s)
}

func findSession(sessions domain.ChatHistoryCollection, id string) (domain.ChatSession, bool) {
	if i := sessions.Index(id); i >= 0 {
		return sessions[i], true
	}
	return domain.ChatSession{}, false
}

func errString(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
