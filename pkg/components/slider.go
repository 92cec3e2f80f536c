// Package components renders the panel's ANSI building blocks.
package components

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Block characters for sub-cell precision (8 levels per cell).
var sliderBlocks = [9]rune{
	' ',
	'▏',
	'▎',
	'▍',
	'▌',
	'▋',
	'▊',
	'▉',
	'█',
}

// SliderStyle configures the colors of a slider bar.
type SliderStyle struct {
	FilledColor  string // hex color for the filled portion
	EmptyColor   string // hex color for the track
	FocusedColor string // hex color for the filled portion when focused
}

// DefaultSliderStyle returns the panel's slider colors.
func DefaultSliderStyle() SliderStyle {
	return SliderStyle{
		FilledColor:  "#6B7280",
		EmptyColor:   "#262626",
		FocusedColor: "#7C3AED",
	}
}

// RenderSlider draws a horizontal bar of width cells whose filled portion
// represents value within [min, max]. The ratio is clamped to [0, 1].
func RenderSlider(value, min, max float64, width int, focused bool, style SliderStyle) string {
	if width <= 0 {
		return ""
	}

	ratio := 0.0
	if max > min {
		ratio = (value - min) / (max - min)
	}
	if math.IsNaN(ratio) || ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}

	fill := style.FilledColor
	if focused && style.FocusedColor != "" {
		fill = style.FocusedColor
	}

	totalUnits := width * 8
	filledUnits := int(math.Round(ratio * float64(totalUnits)))
	fullCells := filledUnits / 8
	partial := filledUnits % 8
	emptyCells := width - fullCells
	if partial > 0 {
		emptyCells--
	}

	fg := ansiColor(fill, 38)
	bg := ansiColor(style.EmptyColor, 48)

	var b strings.Builder
	b.WriteString(fg)
	b.WriteString(bg)
	b.WriteString(strings.Repeat(string(sliderBlocks[8]), fullCells))
	if partial > 0 {
		b.WriteRune(sliderBlocks[partial])
	}
	if emptyCells > 0 {
		b.WriteString(strings.Repeat(" ", emptyCells))
	}
	b.WriteString("\x1b[0m")
	return b.String()
}

// RatioAt converts a column offset within a slider of width cells into a
// ratio in [0, 1]. Used to resolve mouse clicks on the bar.
func RatioAt(col, width int) float64 {
	if width <= 1 {
		return 0
	}
	r := float64(col) / float64(width-1)
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}

// ansiColor returns a 24-bit SGR sequence for hex ("#rrggbb" or "rrggbb");
// layer is 38 for foreground and 48 for background. Malformed input yields "".
func ansiColor(hex string, layer int) string {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return ""
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("\x1b[%d;2;%d;%d;%dm", layer, v>>16&0xFF, v>>8&0xFF, v&0xFF)
}
