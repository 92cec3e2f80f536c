// Package theme holds the named color palettes for the panel.
package theme

import (
	"slices"
	"strings"

	"gitlab.com/tinyland/lab/lumen/pkg/components"
)

// Theme is a palette of hex colors.
type Theme struct {
	Name string

	Foreground string
	Dim        string
	Accent     string

	Border      string // preview border
	BorderFocus string // preview border while highlighted

	StatusOK      string
	StatusWarn    string
	StatusError   string
	StatusUnknown string

	SliderFilled string
	SliderEmpty  string

	HelpKey  string
	HelpDesc string
}

// DefaultName is the palette used when none is configured.
const DefaultName = "default"

var builtins = map[string]Theme{
	"default": {
		Foreground: "#d4d4d4", Dim: "#6b6b6b", Accent: "#7C3AED",
		Border: "#3e3e3e", BorderFocus: "#7C3AED",
		StatusOK: "#4ec970", StatusWarn: "#e5c07b", StatusError: "#e06c75", StatusUnknown: "#6b6b6b",
		SliderFilled: "#6B7280", SliderEmpty: "#262626",
		HelpKey: "#7C3AED", HelpDesc: "#6b6b6b",
	},
	"gruvbox": {
		Foreground: "#ebdbb2", Dim: "#928374", Accent: "#fe8019",
		Border: "#504945", BorderFocus: "#fe8019",
		StatusOK: "#b8bb26", StatusWarn: "#fabd2f", StatusError: "#fb4934", StatusUnknown: "#928374",
		SliderFilled: "#928374", SliderEmpty: "#3c3836",
		HelpKey: "#fe8019", HelpDesc: "#928374",
	},
	"nord": {
		Foreground: "#eceff4", Dim: "#4c566a", Accent: "#88c0d0",
		Border: "#3b4252", BorderFocus: "#88c0d0",
		StatusOK: "#a3be8c", StatusWarn: "#ebcb8b", StatusError: "#bf616a", StatusUnknown: "#4c566a",
		SliderFilled: "#4c566a", SliderEmpty: "#3b4252",
		HelpKey: "#88c0d0", HelpDesc: "#4c566a",
	},
	"catppuccin": {
		Foreground: "#cdd6f4", Dim: "#6c7086", Accent: "#cba6f7",
		Border: "#313244", BorderFocus: "#cba6f7",
		StatusOK: "#a6e3a1", StatusWarn: "#f9e2af", StatusError: "#f38ba8", StatusUnknown: "#6c7086",
		SliderFilled: "#6c7086", SliderEmpty: "#313244",
		HelpKey: "#cba6f7", HelpDesc: "#6c7086",
	},
	"tokyo-night": {
		Foreground: "#c0caf5", Dim: "#565f89", Accent: "#7aa2f7",
		Border: "#292e42", BorderFocus: "#7aa2f7",
		StatusOK: "#9ece6a", StatusWarn: "#e0af68", StatusError: "#f7768e", StatusUnknown: "#565f89",
		SliderFilled: "#565f89", SliderEmpty: "#292e42",
		HelpKey: "#7aa2f7", HelpDesc: "#565f89",
	},
}

// Get returns the named palette and whether it exists. Unknown names
// return the default palette.
func Get(name string) (Theme, bool) {
	key := strings.ToLower(name)
	t, ok := builtins[key]
	if !ok {
		key = DefaultName
		t = builtins[key]
	}
	t.Name = key
	return t, ok
}

// Default returns the default palette.
func Default() Theme {
	t, _ := Get(DefaultName)
	return t
}

// Names returns the palette names, sorted.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Slider returns the slider bar colors for t.
func (t Theme) Slider() components.SliderStyle {
	return components.SliderStyle{
		FilledColor:  t.SliderFilled,
		EmptyColor:   t.SliderEmpty,
		FocusedColor: t.Accent,
	}
}
