// Package terminal identifies the terminal emulator, picks a graphics
// protocol for the live preview and measures the screen.
//
// Detection only inspects environment variables. It performs no terminal
// queries, so it is safe to call before the TUI takes over stdin.
package terminal

import (
	"os"
	"strings"
)

// Env looks up an environment variable. os.Getenv satisfies it; tests pass
// a map-backed lookup.
type Env func(string) string

// MapEnv adapts a map to Env.
func MapEnv(m map[string]string) Env {
	return func(k string) string { return m[k] }
}

// Terminal identifies the terminal emulator in use.
type Terminal int

const (
	TermGeneric Terminal = iota
	TermGhostty
	TermKitty
	TermWezTerm
	TermITerm2
	TermVSCode
	TermAlacritty
	TermVTE
	TermTmux
	TermScreen
)

var terminalNames = [...]string{
	TermGeneric:   "generic",
	TermGhostty:   "ghostty",
	TermKitty:     "kitty",
	TermWezTerm:   "wezterm",
	TermITerm2:    "iterm2",
	TermVSCode:    "vscode",
	TermAlacritty: "alacritty",
	TermVTE:       "vte",
	TermTmux:      "tmux",
	TermScreen:    "screen",
}

func (t Terminal) String() string {
	if int(t) < len(terminalNames) {
		return terminalNames[t]
	}
	return "unknown"
}

// TrueColor reports whether the emulator is known to render 24-bit color.
func (t Terminal) TrueColor() bool {
	switch t {
	case TermGhostty, TermKitty, TermWezTerm, TermITerm2,
		TermVSCode, TermAlacritty, TermVTE:
		return true
	}
	return false
}

// Detect identifies the terminal from the process environment.
func Detect() Terminal {
	return DetectFrom(os.Getenv)
}

// DetectFrom identifies the terminal using env. Signals are checked from
// most to least specific: TERM_PROGRAM, TERM, emulator-specific variables,
// then multiplexers.
func DetectFrom(env Env) Terminal {
	switch strings.ToLower(env("TERM_PROGRAM")) {
	case "ghostty":
		return TermGhostty
	case "kitty":
		return TermKitty
	case "wezterm":
		return TermWezTerm
	case "iterm.app":
		return TermITerm2
	case "vscode":
		return TermVSCode
	case "alacritty":
		return TermAlacritty
	case "tmux":
		return TermTmux
	}

	term := env("TERM")
	switch {
	case term == "xterm-ghostty":
		return TermGhostty
	case term == "xterm-kitty":
		return TermKitty
	case strings.HasPrefix(term, "alacritty"):
		return TermAlacritty
	}

	switch {
	case env("KITTY_WINDOW_ID") != "":
		return TermKitty
	case env("WEZTERM_EXECUTABLE") != "":
		return TermWezTerm
	case env("ITERM_SESSION_ID") != "", env("LC_TERMINAL") == "iTerm2":
		return TermITerm2
	case env("VTE_VERSION") != "":
		return TermVTE
	case env("TMUX") != "":
		return TermTmux
	case env("STY") != "":
		return TermScreen
	}
	return TermGeneric
}

// IsSSH reports whether env describes an SSH session.
func IsSSH(env Env) bool {
	return env("SSH_TTY") != "" ||
		env("SSH_CONNECTION") != "" ||
		env("SSH_CLIENT") != ""
}
