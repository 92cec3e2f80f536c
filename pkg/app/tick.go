package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/lumen/pkg/engine"
)

// TickCmd returns a Cmd that sends a TickEvent after d.
func TickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickEvent{Time: t}
	})
}

// FocusCmd returns a Cmd that delivers a FocusEvent for toggle.
func FocusCmd(toggle bool) tea.Cmd {
	return func() tea.Msg {
		return FocusEvent{Toggle: toggle}
	}
}

// StatusHook returns an adapter status hook that forwards each change to
// send, usually (*tea.Program).Send.
func StatusHook(send func(tea.Msg)) func(engine.Status, error) {
	return func(s engine.Status, err error) {
		send(EngineStatusEvent{Status: s, Err: err})
	}
}
