// Package panel owns the canonical ApplicationConfig for a session and is the
// only writer of the StateBridge.
package panel

import (
	"context"
	"fmt"
	"log/slog"

	"gitlab.com/tinyland/lab/lumen/pkg/bridge"
	"gitlab.com/tinyland/lab/lumen/pkg/input"
	"gitlab.com/tinyland/lab/lumen/pkg/scene"
)

// ControlPanel applies committed values to the canonical config and
// republishes it. It is not safe for concurrent use; it lives on the UI
// goroutine.
type ControlPanel struct {
	bridge   *bridge.StateBridge
	cfg      *scene.ApplicationConfig
	defaults *scene.ApplicationConfig
	logger   *slog.Logger
	onCommit func(scene.Field, *scene.ApplicationConfig)
}

// Option configures a ControlPanel.
type Option func(*ControlPanel)

// WithLogger sets the logger used for commit diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(p *ControlPanel) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithCommitHook registers fn to run after every publish.
func WithCommitHook(fn func(scene.Field, *scene.ApplicationConfig)) Option {
	return func(p *ControlPanel) { p.onCommit = fn }
}

// New returns a ControlPanel whose canonical config starts as b.Read().
func New(b *bridge.StateBridge, opts ...Option) *ControlPanel {
	p := &ControlPanel{
		bridge: b,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.cfg = b.Read()
	p.defaults = p.cfg
	return p
}

// Config returns the canonical config.
func (p *ControlPanel) Config() *scene.ApplicationConfig {
	return p.cfg
}

// Commit replaces field f with v, flips the focus toggle and publishes the
// result. Only the subtree owning f is new; every other subtree is shared
// with the previous version.
func (p *ControlPanel) Commit(f scene.Field, v float64) error {
	next, err := p.cfg.With(f, v)
	if err != nil {
		return fmt.Errorf("panel: commit %s: %w", f, err)
	}
	next.FocusToggle = !p.cfg.FocusToggle
	p.publish(f, next)
	return nil
}

// Bind returns a consumer callback for a BoundedInput editing f.
func (p *ControlPanel) Bind(f scene.Field) func(float64) {
	return func(v float64) {
		if err := p.Commit(f, v); err != nil {
			p.logger.Error("commit failed", "field", string(f), "error", err)
		}
	}
}

// NewInput returns a BoundedInput for f with the field's declared range,
// starting at the canonical value and committing into this panel.
func (p *ControlPanel) NewInput(f scene.Field) (*input.BoundedInput, error) {
	r, ok := scene.RangeOf(f)
	if !ok {
		return nil, fmt.Errorf("panel: %w: %q", scene.ErrUnknownField, f)
	}
	v, err := p.cfg.Value(f)
	if err != nil {
		return nil, err
	}
	return input.New(p.Bind(f),
		input.WithBounds(r.Min, r.Max),
		input.WithStep(r.Step),
		input.WithInitial(v),
	), nil
}

// Reset republishes the startup config with the focus toggle flipped.
func (p *ControlPanel) Reset() {
	next := *p.defaults
	next.FocusToggle = !p.cfg.FocusToggle
	p.publish("", &next)
}

func (p *ControlPanel) publish(f scene.Field, next *scene.ApplicationConfig) {
	p.cfg = next
	p.bridge.Publish(next)
	if p.logger.Enabled(context.Background(), slog.LevelDebug) {
		v, _ := next.Value(f)
		p.logger.Debug("config published",
			"field", string(f),
			"value", v,
			"version", p.bridge.Version(),
			"focus_toggle", next.FocusToggle,
		)
	}
	if p.onCommit != nil {
		p.onCommit(f, next)
	}
}
