package app

// FocusNext moves focus to the next slider, wrapping after the last.
func (m *AppModel) FocusNext() {
	if len(m.sliders) == 0 {
		return
	}
	m.setFocus((m.focused + 1) % len(m.sliders))
}

// FocusPrev moves focus to the previous slider, wrapping before the first.
func (m *AppModel) FocusPrev() {
	if len(m.sliders) == 0 {
		return
	}
	m.setFocus((m.focused - 1 + len(m.sliders)) % len(m.sliders))
}

// FocusSlider focuses the slider with id. Unknown ids leave focus alone.
func (m *AppModel) FocusSlider(id string) {
	for i, s := range m.sliders {
		if s.ID() == id {
			m.setFocus(i)
			return
		}
	}
}

// FocusedID returns the id of the focused slider.
func (m *AppModel) FocusedID() string {
	if len(m.sliders) == 0 {
		return ""
	}
	return m.sliders[m.focused].ID()
}

func (m *AppModel) setFocus(i int) {
	m.sliders[m.focused].Blur()
	m.focused = i
	m.sliders[i].Focus()
}
