package terminal

import (
	"os"
	"strconv"

	"github.com/charmbracelet/x/term"
	"github.com/mattn/go-isatty"
)

// Size is the terminal size in cells, plus the cell size in pixels when
// the terminal reports it.
type Size struct {
	Cols  int
	Rows  int
	CellW int // 0 if unknown
	CellH int // 0 if unknown
}

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// GetSize measures f, falling back to COLUMNS/LINES and then 80x24.
func GetSize(f *os.File) Size {
	cols, rows, err := term.GetSize(f.Fd())
	if err != nil || cols <= 0 || rows <= 0 {
		return sizeFromEnv(os.Getenv)
	}
	s := Size{Cols: cols, Rows: rows}
	if pw, ph := pixelSize(f.Fd()); pw > 0 || ph > 0 {
		s.CellW, s.CellH = cellSize(pw, ph, cols, rows)
	}
	return s
}

// cellSize divides the window pixel size by its cell count. A zero pixel
// dimension stays unknown.
func cellSize(pw, ph, cols, rows int) (int, int) {
	var w, h int
	if pw > 0 && cols > 0 {
		w = pw / cols
	}
	if ph > 0 && rows > 0 {
		h = ph / rows
	}
	return w, h
}

func sizeFromEnv(env Env) Size {
	return Size{
		Cols: envInt(env, "COLUMNS", 80),
		Rows: envInt(env, "LINES", 24),
	}
}

func envInt(env Env, name string, fallback int) int {
	n, err := strconv.Atoi(env(name))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
