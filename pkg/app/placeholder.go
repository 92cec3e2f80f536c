package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/lumen/pkg/components"
)

var (
	placeholderTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	placeholderDim   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

// renderPlaceholder fills a width x height area with a title and a detail
// line, centered vertically. It stands in for the preview when there is no
// frame to show.
func renderPlaceholder(title, detail string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	var lines []string
	for i := 0; i < max((height-2)/2, 0); i++ {
		lines = append(lines, "")
	}
	lines = append(lines, placeholderTitle.Render(components.Truncate(title, width)))
	if height > 1 && detail != "" {
		lines = append(lines, placeholderDim.Render(components.Truncate(detail, width)))
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	if len(lines) > height {
		lines = lines[:height]
	}

	style := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	for i, l := range lines {
		lines[i] = style.Render(l)
	}
	return strings.Join(lines, "\n")
}
