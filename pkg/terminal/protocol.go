package terminal

import (
	"fmt"
	"strings"
)

// GraphicsProtocol identifies how preview frames are drawn.
type GraphicsProtocol int

const (
	ProtocolNone       GraphicsProtocol = iota // preview disabled
	ProtocolHalfblocks                         // ▀ cells with fg/bg colors
	ProtocolKitty
	ProtocolITerm2
	ProtocolSixel
)

var protocolNames = [...]string{
	ProtocolNone:       "none",
	ProtocolHalfblocks: "halfblocks",
	ProtocolKitty:      "kitty",
	ProtocolITerm2:     "iterm2",
	ProtocolSixel:      "sixel",
}

func (p GraphicsProtocol) String() string {
	if int(p) < len(protocolNames) {
		return protocolNames[p]
	}
	return "unknown"
}

// ParseProtocol parses a configured protocol name. "auto" and "" report
// auto=true and leave the choice to SelectProtocol.
func ParseProtocol(s string) (p GraphicsProtocol, auto bool, err error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return ProtocolNone, true, nil
	case "none", "off":
		return ProtocolNone, false, nil
	case "halfblocks", "half-blocks", "unicode":
		return ProtocolHalfblocks, false, nil
	case "kitty":
		return ProtocolKitty, false, nil
	case "iterm2":
		return ProtocolITerm2, false, nil
	case "sixel":
		return ProtocolSixel, false, nil
	}
	return ProtocolNone, false, fmt.Errorf("unknown graphics protocol %q", s)
}

// SelectProtocol returns the best protocol for term. Image protocols are
// unreliable over SSH and inside multiplexers, so those fall back to
// halfblocks.
func SelectProtocol(term Terminal, ssh bool) GraphicsProtocol {
	if ssh {
		return ProtocolHalfblocks
	}
	switch term {
	case TermGhostty, TermKitty, TermWezTerm:
		return ProtocolKitty
	case TermITerm2:
		return ProtocolITerm2
	}
	return ProtocolHalfblocks
}

// ResolveProtocol honors an explicit override and otherwise detects.
func ResolveProtocol(override string, env Env) (GraphicsProtocol, error) {
	p, auto, err := ParseProtocol(override)
	if err != nil {
		return ProtocolNone, err
	}
	if !auto {
		return p, nil
	}
	return SelectProtocol(DetectFrom(env), IsSSH(env)), nil
}
