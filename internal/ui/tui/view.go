package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/iyunix/lexbrief/internal/domain"
	"github.com/iyunix/lexbrief/internal/render"
)

// View renders the whole screen.
func (m *Model) View() string {
	if !m.ready {
		return "Loading " + domain.ProductName + "..."
	}

	body := m.viewport.View()
	if m.sidebarOpen {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), body)
	}

	inputStyle := m.theme.Input
	if m.inputLocked() || m.focus != focusInput {
		inputStyle = m.theme.InputDisabled
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		inputStyle.Render(m.input.View()),
		m.renderStatus(),
		m.theme.Footer.Width(m.width).Render(domain.Disclaimer),
	)
}

func (m *Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("⚖ " + domain.ProductName)
	subtitle := m.theme.HeaderSubtitle.Render(domain.Tagline)
	width := m.width
	if width <= 0 {
		width = 80
	}
	return m.theme.Header.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, title, subtitle))
}

func (m *Model) renderSidebar() string {
	inner := sidebarWidth - 2
	var b strings.Builder
	b.WriteString(m.theme.SidebarTitle.Render("Chat History"))
	b.WriteString("\n")

	sessions := m.ctrl.Sessions()
	if len(sessions) == 0 {
		b.WriteString(m.theme.SidebarMeta.Render("No conversations yet"))
	}
	activeID := m.ctrl.ActiveID()
	for i, s := range sessions {
		title := s.Title
		if title == "" {
			title = "Untitled"
		}
		prefix := "  "
		if s.ID == activeID {
			prefix = "▸ "
		}
		line := prefix + truncate(title, inner-2)

		style := m.theme.SidebarItem
		switch {
		case m.focus == focusSidebar && i == m.selected:
			style = m.theme.SidebarSelected
		case s.ID == activeID:
			style = m.theme.SidebarActive
		}
		b.WriteString(style.Width(inner).Render(line))
		b.WriteString("\n")

		meta := fmt.Sprintf("  %s · %d msgs", humanize.Time(s.Timestamp), len(s.Messages))
		if m.ctrl.InFlight(s.ID) {
			meta += " · …"
		}
		b.WriteString(m.theme.SidebarMeta.Render(truncate(meta, inner)))
		b.WriteString("\n")
	}

	return m.theme.Sidebar.
		Width(sidebarWidth).
		Height(m.viewport.Height).
		MaxHeight(m.viewport.Height).
		Render(strings.TrimRight(b.String(), "\n"))
}

func (m *Model) renderStatus() string {
	var left string
	switch {
	case m.ctrl.Awaiting() || m.submitting:
		left = m.spinner.View() + " Researching precedents..."
	case m.status != "" && m.statusErr:
		return m.theme.StatusError.Width(m.width).Render(m.status)
	case m.status != "":
		left = m.status
	default:
		left = helpLine(m.keys.ShortHelp())
	}
	return m.theme.Status.Width(m.width).Render(left)
}

// refresh rebuilds the timeline content and keeps it pinned to the bottom
// when the user has not scrolled up.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(m.renderTimeline())
	if atBottom || m.revealID != "" && !m.frame.Done {
		m.viewport.GotoBottom()
	}
}

func (m *Model) renderTimeline() string {
	width := m.timelineWidth() - 2
	msgs := m.ctrl.Messages()
	if len(msgs) == 0 {
		return m.theme.Timeline.Render(m.renderWelcome(width))
	}

	blocks := make([]string, 0, len(msgs)+1)
	for _, msg := range msgs {
		blocks = append(blocks, m.renderMessage(msg, width))
	}
	if m.ctrl.Awaiting() {
		blocks = append(blocks, m.theme.Thinking.Render(m.spinner.View()+" Analyzing judgement and finding precedents..."))
	}
	return m.theme.Timeline.Render(strings.Join(blocks, "\n\n"))
}

func (m *Model) renderWelcome(width int) string {
	lines := []string{
		m.theme.AssistantLabel.Render("Welcome to " + domain.ProductName),
		"",
		"Paste the text of a court judgement to get a structured summary,",
		"or ask a legal question to find relevant precedents.",
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderMessage(msg domain.Message, width int) string {
	clock := m.theme.Timestamp.Render(render.FormatClock(msg.Timestamp))

	if msg.IsUser() {
		label := m.theme.UserLabel.Render("You") + "  " + clock
		bubble := m.theme.UserBubble.Width(width - 2).Render(msg.Content)
		return label + "\n" + bubble
	}

	label := m.theme.AssistantLabel.Render(domain.ProductName) + "  " + clock

	text := render.AssistantMarkdown(msg.Content)
	revealing := msg.ID == m.revealID && !m.frame.Done
	if revealing {
		text = m.frame.Text()
	}
	body := m.markdown.Render(text)
	if !revealing {
		if precedents := render.PrecedentsMarkdown(msg.Precedents); precedents != "" {
			body += "\n\n" + m.markdown.Render(precedents)
		}
	}
	return label + "\n" + m.theme.AssistantBubble.Width(width-2).Render(body)
}

func helpLine(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " · ")
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string([]rune(s)[:n-1]) + "…"
}
