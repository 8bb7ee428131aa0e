// Package tui is the Bubble Tea front end of the LexBrief client.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/iyunix/lexbrief/internal/render"
	"github.com/iyunix/lexbrief/internal/services/chat"
	"github.com/iyunix/lexbrief/internal/ui/styles"
)

// InputPlaceholder is shown in the empty input box.
const InputPlaceholder = "Paste court judgement text or ask a legal query..."

const (
	sidebarWidth = 34
	inputHeight  = 3
	eventBuffer  = 64
)

type focusArea int

const (
	focusInput focusArea = iota
	focusSidebar
)

// Logger is the logging contract the UI needs.
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

// Options configure a Model.
type Options struct {
	Theme          string
	RevealInterval time.Duration
	Logger         Logger
}

// Model is the Bubble Tea model for the whole client screen.
type Model struct {
	ctx      context.Context
	ctrl     *chat.Controller
	revealer *render.Revealer
	events   chan chat.Event
	logger   Logger

	theme    *styles.Theme
	markdown *render.TerminalRenderer
	keys     KeyMap

	viewport viewport.Model
	input    textarea.Model
	spinner  spinner.Model

	width       int
	height      int
	ready       bool
	sidebarOpen bool
	focus       focusArea
	selected    int

	// reveal state for the newest live assistant reply
	revealID string
	frame    render.Frame
	seen     map[string]bool

	submitting bool
	status     string
	statusErr  bool
}

// New creates the client model around ctrl.
func New(ctx context.Context, ctrl *chat.Controller, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = noopLogger{}
	}

	ta := textarea.New()
	ta.Placeholder = InputPlaceholder
	ta.ShowLineNumbers = false
	ta.Prompt = "▍ "
	ta.CharLimit = 0
	ta.SetHeight(inputHeight)
	ta.KeyMap.InsertNewline.SetKeys("alt+enter")
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.BlurredStyle.CursorLine = lipgloss.NewStyle()
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		ctx:         ctx,
		ctrl:        ctrl,
		revealer:    render.NewRevealer(opts.RevealInterval),
		events:      make(chan chat.Event, eventBuffer),
		logger:      opts.Logger,
		keys:        DefaultKeyMap(),
		viewport:    viewport.New(80, 20),
		input:       ta,
		spinner:     sp,
		sidebarOpen: true,
		seen:        make(map[string]bool),
	}
	m.applyTheme(opts.Theme)

	ctrl.SetObserver(func(e chat.Event) {
		select {
		case m.events <- e:
		default:
			m.logger.Warn("dropping controller event, UI is behind", "kind", e.Kind.String())
		}
	})
	m.markSeen()
	return m
}

// Init starts the cursor blink, the spinner and the reveal/event listeners.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
		waitForFrame(m.revealer.Frames()),
		waitForEvent(m.events),
	)
}

// Close cancels any running reveal.
func (m *Model) Close() {
	m.revealer.Stop()
}

func (m *Model) applyTheme(name string) {
	m.theme = styles.ByName(name)
	m.spinner.Style = m.theme.Thinking
	m.input.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(m.theme.Palette.Muted)
	m.input.BlurredStyle.Placeholder = lipgloss.NewStyle().Foreground(m.theme.Palette.Muted)
	m.rebuildMarkdown()
}

func (m *Model) rebuildMarkdown() {
	width := m.timelineWidth() - 6
	if m.markdown != nil && m.markdown.Style() == m.theme.GlamourStyle && m.markdown.Width() == width {
		return
	}
	md, err := render.NewTerminalRenderer(m.theme.GlamourStyle, width)
	if err != nil {
		m.logger.Error("markdown renderer unavailable, falling back to plain text", "style", m.theme.GlamourStyle, "error", err)
		md = nil
	}
	m.markdown = md
}

func (m *Model) timelineWidth() int {
	w := m.width
	if w <= 0 {
		w = 80
	}
	if m.sidebarOpen {
		w -= sidebarWidth + 1
	}
	if w < 20 {
		w = 20
	}
	return w
}

func (m *Model) layout() {
	headerH := lipgloss.Height(m.renderHeader())
	// input box border (2) + status line + footer line
	chromeH := headerH + inputHeight + 2 + 2
	vh := m.height - chromeH
	if vh < 3 {
		vh = 3
	}
	tw := m.timelineWidth()
	m.viewport.Width = tw
	m.viewport.Height = vh
	m.input.SetWidth(tw - 2)
	m.rebuildMarkdown()
}

func (m *Model) markSeen() {
	for _, msg := range m.ctrl.Messages() {
		m.seen[msg.ID] = true
	}
}

// inputLocked reports whether typing is disabled right now.
func (m *Model) inputLocked() bool {
	return m.submitting || m.ctrl.Awaiting()
}
