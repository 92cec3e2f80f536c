package terminal

import "os"

// Capabilities summarizes what the preview can use on this terminal.
type Capabilities struct {
	Term        Terminal
	Protocol    GraphicsProtocol
	TrueColor   bool
	SSH         bool
	Interactive bool // stdout is a TTY
}

// Probe inspects the process environment and stdout. override is the
// configured preview protocol.
func Probe(override string) (Capabilities, error) {
	caps, err := ProbeEnv(override, os.Getenv)
	if err != nil {
		return caps, err
	}
	caps.Interactive = IsTerminal(os.Stdout)
	return caps, nil
}

// ProbeEnv is Probe without the TTY check.
func ProbeEnv(override string, env Env) (Capabilities, error) {
	t := DetectFrom(env)
	p, err := ResolveProtocol(override, env)
	if err != nil {
		return Capabilities{Term: t}, err
	}
	ct := env("COLORTERM")
	return Capabilities{
		Term:      t,
		Protocol:  p,
		TrueColor: t.TrueColor() || ct == "truecolor" || ct == "24bit",
		SSH:       IsSSH(env),
	}, nil
}
