// Package app is the bubbletea front end: a control panel of sliders above
// a live preview of the engine's latest frame.
package app

import (
	"time"

	"gitlab.com/tinyland/lab/lumen/pkg/engine"
)

// TickEvent drives the preview refresh. Each tick samples the frame slot
// and the engine status.
type TickEvent struct {
	Time time.Time
}

// FocusEvent is emitted whenever a commit flips the config's focus toggle.
// The model answers by highlighting the preview pane.
type FocusEvent struct {
	Toggle bool
}

// EngineStatusEvent carries an adapter status change pushed from the
// engine goroutine through tea.Program.Send.
type EngineStatusEvent struct {
	Status engine.Status
	Err    error
}
