package components

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Width is the number of terminal cells s occupies, ignoring escapes.
func Width(s string) int {
	return ansi.StringWidth(s)
}

// Truncate cuts s to at most n cells. Escapes before the cut survive.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	return ansi.Truncate(s, n, "")
}

// PadRight left-aligns s in a field of n cells.
func PadRight(s string, n int) string {
	return s + fill(s, n)
}

// PadLeft right-aligns s in a field of n cells.
func PadLeft(s string, n int) string {
	return fill(s, n) + s
}

func fill(s string, n int) string {
	if w := Width(s); w < n {
		return strings.Repeat(" ", n-w)
	}
	return ""
}
