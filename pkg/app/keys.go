package app

import (
	"github.com/charmbracelet/bubbles/key"

	"gitlab.com/tinyland/lab/lumen/pkg/input"
)

// KeyMap holds the panel-level bindings. It implements help.KeyMap together
// with the focused slider's bindings.
type KeyMap struct {
	Next  key.Binding
	Prev  key.Binding
	Reset key.Binding
	Help  key.Binding
	Quit  key.Binding

	slider input.SliderKeyMap
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next:   key.NewBinding(key.WithKeys("tab", "down", "j"), key.WithHelp("tab/↓", "next")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab", "up", "k"), key.WithHelp("shift+tab/↑", "prev")),
		Reset:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		slider: input.DefaultSliderKeyMap(),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.slider.Decrease, k.slider.Increase, k.Next, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.slider.Decrease, k.slider.Increase, k.slider.DecreaseFast, k.slider.IncreaseFast},
		{k.slider.Edit, k.slider.Cancel},
		{k.Next, k.Prev, k.Reset},
		{k.Help, k.Quit},
	}
}
