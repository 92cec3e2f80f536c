package input

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/lumen/pkg/components"
)

// SliderKeyMap holds the key bindings a focused Slider responds to.
type SliderKeyMap struct {
	Decrease     key.Binding
	Increase     key.Binding
	DecreaseFast key.Binding
	IncreaseFast key.Binding
	Edit         key.Binding
	Confirm      key.Binding
	Cancel       key.Binding
}

// DefaultSliderKeyMap returns the standard slider bindings.
func DefaultSliderKeyMap() SliderKeyMap {
	return SliderKeyMap{
		Decrease:     key.NewBinding(key.WithKeys("left", "h", "-"), key.WithHelp("←/h", "decrease")),
		Increase:     key.NewBinding(key.WithKeys("right", "l", "+", "="), key.WithHelp("→/l", "increase")),
		DecreaseFast: key.NewBinding(key.WithKeys("shift+left", "H", "pgdown"), key.WithHelp("H", "decrease ×10")),
		IncreaseFast: key.NewBinding(key.WithKeys("shift+right", "L", "pgup"), key.WithHelp("L", "increase ×10")),
		Edit:         key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("enter", "type value")),
		Confirm:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "commit")),
		Cancel:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// Slider is the bubbletea widget for a BoundedInput: a bar that arrow keys
// nudge and a text field for typed entry. The text field holds the transient
// display value; only a confirmed entry reaches the BoundedInput.
type Slider struct {
	id    string
	label string
	input *BoundedInput
	text  textinput.Model
	keys  SliderKeyMap
	style components.SliderStyle

	focused bool
	editing bool
}

// NewSlider wraps in with a label. id identifies the slider for mouse zones.
func NewSlider(id, label string, in *BoundedInput) *Slider {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 12
	ti.Width = 10
	return &Slider{
		id:    id,
		label: label,
		input: in,
		text:  ti,
		keys:  DefaultSliderKeyMap(),
		style: components.DefaultSliderStyle(),
	}
}

// ID returns the slider identifier.
func (s *Slider) ID() string { return s.id }

// Label returns the display label.
func (s *Slider) Label() string { return s.label }

// Input returns the underlying BoundedInput.
func (s *Slider) Input() *BoundedInput { return s.input }

// Keys returns the slider's key bindings.
func (s *Slider) Keys() SliderKeyMap { return s.keys }

// SetStyle replaces the bar colors.
func (s *Slider) SetStyle(st components.SliderStyle) { s.style = st }

// Focus gives the slider keyboard focus.
func (s *Slider) Focus() { s.focused = true }

// Blur removes keyboard focus and abandons any in-progress entry.
func (s *Slider) Blur() {
	s.focused = false
	s.cancelEdit()
}

// Focused reports whether the slider has focus.
func (s *Slider) Focused() bool { return s.focused }

// Editing reports whether the text field is open.
func (s *Slider) Editing() bool { return s.editing }

// Update handles a message. Keys are ignored unless the slider is focused.
func (s *Slider) Update(msg tea.Msg) tea.Cmd {
	if !s.focused {
		return nil
	}
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		if s.editing {
			var cmd tea.Cmd
			s.text, cmd = s.text.Update(msg)
			return cmd
		}
		return nil
	}

	if s.editing {
		switch {
		case key.Matches(km, s.keys.Confirm):
			s.input.SetDisplay(s.text.Value())
			s.input.CommitDisplay()
			s.cancelEdit()
			return nil
		case key.Matches(km, s.keys.Cancel):
			s.cancelEdit()
			return nil
		}
		var cmd tea.Cmd
		s.text, cmd = s.text.Update(km)
		s.input.SetDisplay(s.text.Value())
		return cmd
	}

	switch {
	case key.Matches(km, s.keys.Decrease):
		s.input.Nudge(-1)
	case key.Matches(km, s.keys.Increase):
		s.input.Nudge(1)
	case key.Matches(km, s.keys.DecreaseFast):
		s.input.Nudge(-10)
	case key.Matches(km, s.keys.IncreaseFast):
		s.input.Nudge(10)
	case key.Matches(km, s.keys.Edit):
		s.editing = true
		s.text.SetValue(s.input.Format(s.input.Committed()))
		s.text.CursorEnd()
		return s.text.Focus()
	}
	return nil
}

// SetRatio commits the value at ratio of the range, as from a mouse click.
func (s *Slider) SetRatio(ratio float64) {
	s.input.OnChange(s.input.Min() + ratio*(s.input.Max()-s.input.Min()))
}

func (s *Slider) cancelEdit() {
	s.editing = false
	s.text.Blur()
	s.text.SetValue("")
	s.input.SetDisplay(s.input.Format(s.input.Committed()))
}

var (
	sliderLabelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	sliderFocusedLabel = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	sliderValueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#E5E7EB"))
)

// Layout widths shared by View and the mouse hit test.
const (
	sliderLabelWidth = 10
	sliderValueWidth = 10
)

// BarWidth returns the bar width View uses for a row of the given width.
func BarWidth(width int) int {
	w := width - sliderLabelWidth - sliderValueWidth - 2
	if w < 4 {
		w = 4
	}
	return w
}

// BarOffset returns the column where the bar starts within a row.
func BarOffset() int { return sliderLabelWidth + 1 }

// View renders the slider as a single line of the given width.
func (s *Slider) View(width int) string {
	labelStyle := sliderLabelStyle
	marker := "  "
	if s.focused {
		labelStyle = sliderFocusedLabel
		marker = "› "
	}
	label := components.PadRight(labelStyle.Render(marker+s.label), sliderLabelWidth)

	bar := components.RenderSlider(s.input.Committed(), s.input.Min(), s.input.Max(), BarWidth(width), s.focused, s.style)

	value := sliderValueStyle.Render(s.input.Display())
	if s.editing {
		value = s.text.View()
	}
	value = components.PadLeft(components.Truncate(value, sliderValueWidth), sliderValueWidth)

	var b strings.Builder
	b.WriteString(label)
	b.WriteString(" ")
	b.WriteString(bar)
	b.WriteString(" ")
	b.WriteString(value)
	return b.String()
}
