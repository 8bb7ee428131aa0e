package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iyunix/lexbrief/internal/render"
	"github.com/iyunix/lexbrief/internal/services/chat"
)

type revealFrameMsg render.Frame

type controllerEventMsg chat.Event

type submitDoneMsg struct {
	err error
}

func waitForFrame(frames <-chan render.Frame) tea.Cmd {
	return func() tea.Msg {
		return revealFrameMsg(<-frames)
	}
}

func waitForEvent(events <-chan chat.Event) tea.Cmd {
	return func() tea.Msg {
		return controllerEventMsg(<-events)
	}
}
