// Package scene defines ApplicationConfig, the immutable configuration value
// handed from the control panel to the render engine.
//
// A config is never mutated after construction. Edits go through With, which
// copies only the subtree that owns the edited field and shares the rest by
// pointer, so a reader holding an older *ApplicationConfig never observes a
// half-applied change.
package scene

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gitlab.com/tinyland/lab/lumen/pkg/input"
)

// ErrUnknownField is returned when a field path does not name a numeric field.
var ErrUnknownField = errors.New("scene: unknown field")

// Field is a dotted path to a numeric field of ApplicationConfig.
type Field string

const (
	FieldWidth        Field = "render.width"
	FieldHeight       Field = "render.height"
	FieldSkyIntensity Field = "render.skyIntensity"
	FieldAperture     Field = "camera.aperture"
	FieldFieldOfView  Field = "camera.fieldOfView"
)

// Fields lists every addressable field in display order.
var Fields = []Field{FieldAperture, FieldFieldOfView, FieldSkyIntensity, FieldWidth, FieldHeight}

// Range is the physical range and resolution of a field.
type Range struct {
	Min  float64
	Max  float64
	Step float64
}

var ranges = map[Field]Range{
	FieldWidth:        {Min: 16, Max: 4096, Step: 1},
	FieldHeight:       {Min: 16, Max: 4096, Step: 1},
	FieldSkyIntensity: {Min: 0, Max: 1, Step: 0.01},
	FieldAperture:     {Min: 0, Max: 1, Step: 0.01},
	FieldFieldOfView:  {Min: 10, Max: 360, Step: 0.01},
}

// RangeOf returns the declared range for f.
func RangeOf(f Field) (Range, bool) {
	r, ok := ranges[f]
	return r, ok
}

// Normalize quantizes v to the range step and clamps it into [Min, Max].
func (r Range) Normalize(v float64) float64 {
	return input.Clamp(input.Quantize(v, r.Step), r.Min, r.Max)
}

// Contains reports whether v lies within [Min, Max].
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// RenderConfig is the output surface description.
type RenderConfig struct {
	Width        int
	Height       int
	SkyIntensity float64
}

// CameraConfig is the lens description.
type CameraConfig struct {
	Aperture    float64
	FieldOfView float64
}

// ApplicationConfig is one published version of the configuration.
//
// Render and Camera must be treated as read-only; they are shared between
// versions.
type ApplicationConfig struct {
	Render *RenderConfig
	Camera *CameraConfig

	// FocusToggle flips on every committed edit. It signals the surrounding
	// UI to run side effects and is not part of the rendered scene.
	FocusToggle bool
}

// Default returns the startup configuration.
func Default() *ApplicationConfig {
	return &ApplicationConfig{
		Render: &RenderConfig{Width: 960, Height: 540, SkyIntensity: 1},
		Camera: &CameraConfig{Aperture: 0.2, FieldOfView: 50},
	}
}

// With returns a copy of c with field f set to v. The value is quantized and
// clamped to the field's range; out-of-range input is never an error. Only
// the subtree that owns f is copied.
func (c *ApplicationConfig) With(f Field, v float64) (*ApplicationConfig, error) {
	r, ok := ranges[f]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	if math.IsNaN(v) {
		return nil, fmt.Errorf("scene: %s: value is NaN", f)
	}
	v = r.Normalize(v)

	next := *c
	switch f {
	case FieldWidth, FieldHeight, FieldSkyIntensity:
		rc := *c.Render
		switch f {
		case FieldWidth:
			rc.Width = int(v)
		case FieldHeight:
			rc.Height = int(v)
		default:
			rc.SkyIntensity = v
		}
		next.Render = &rc
	case FieldAperture, FieldFieldOfView:
		cc := *c.Camera
		if f == FieldAperture {
			cc.Aperture = v
		} else {
			cc.FieldOfView = v
		}
		next.Camera = &cc
	}
	return &next, nil
}

// WithFocusToggled returns a shallow copy of c with FocusToggle flipped.
// Render and Camera remain shared.
func (c *ApplicationConfig) WithFocusToggled() *ApplicationConfig {
	next := *c
	next.FocusToggle = !c.FocusToggle
	return &next
}

// Value returns the current value of field f.
func (c *ApplicationConfig) Value(f Field) (float64, error) {
	switch f {
	case FieldWidth:
		return float64(c.Render.Width), nil
	case FieldHeight:
		return float64(c.Render.Height), nil
	case FieldSkyIntensity:
		return c.Render.SkyIntensity, nil
	case FieldAperture:
		return c.Camera.Aperture, nil
	case FieldFieldOfView:
		return c.Camera.FieldOfView, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownField, f)
}

// Aspect returns width / height.
func (c *ApplicationConfig) Aspect() float64 {
	if c.Render.Height <= 0 {
		return 1
	}
	return float64(c.Render.Width) / float64(c.Render.Height)
}

// Validate reports every field that lies outside its declared range.
func (c *ApplicationConfig) Validate() error {
	if c.Render == nil || c.Camera == nil {
		return errors.New("scene: render and camera sections are required")
	}
	var bad []string
	for _, f := range Fields {
		v, _ := c.Value(f)
		r := ranges[f]
		if math.IsNaN(v) || !r.Contains(v) {
			bad = append(bad, fmt.Sprintf("%s=%g not in [%g, %g]", f, v, r.Min, r.Max))
		}
	}
	if len(bad) > 0 {
		return fmt.Errorf("scene: invalid config: %s", strings.Join(bad, "; "))
	}
	return nil
}

// Normalized returns a copy of c with every field quantized and clamped.
func (c *ApplicationConfig) Normalized() *ApplicationConfig {
	out := c
	for _, f := range Fields {
		v, _ := c.Value(f)
		if math.IsNaN(v) {
			d, _ := Default().Value(f)
			v = d
		}
		out, _ = out.With(f, v)
	}
	return out
}

// Label returns a short human-readable name for f.
func (f Field) Label() string {
	switch f {
	case FieldWidth:
		return "Width"
	case FieldHeight:
		return "Height"
	case FieldSkyIntensity:
		return "Sky"
	case FieldAperture:
		return "Aperture"
	case FieldFieldOfView:
		return "FOV"
	}
	return string(f)
}
