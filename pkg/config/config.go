// Package config loads lumen's startup configuration from TOML or YAML
// files and LUMEN_* environment variables.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"gitlab.com/tinyland/lab/lumen/pkg/scene"
	"gitlab.com/tinyland/lab/lumen/pkg/theme"
)

// Config is the complete on-disk configuration.
type Config struct {
	Engine  EngineConfig  `toml:"engine" yaml:"engine" envPrefix:"ENGINE_"`
	Render  RenderConfig  `toml:"render" yaml:"render" envPrefix:"RENDER_"`
	Camera  CameraConfig  `toml:"camera" yaml:"camera" envPrefix:"CAMERA_"`
	Preview PreviewConfig `toml:"preview" yaml:"preview" envPrefix:"PREVIEW_"`
	Log     LogConfig     `toml:"log" yaml:"log" envPrefix:"LOG_"`
	UI      UIConfig      `toml:"ui" yaml:"ui" envPrefix:"UI_"`
}

// EngineConfig tunes the built-in preview engine.
type EngineConfig struct {
	Hz          int      `toml:"hz" yaml:"hz" env:"HZ"`
	MaxDepth    int      `toml:"max_depth" yaml:"max_depth" env:"MAX_DEPTH"`
	Samples     int      `toml:"samples" yaml:"samples" env:"SAMPLES"`
	LoadTimeout Duration `toml:"load_timeout" yaml:"load_timeout" env:"LOAD_TIMEOUT"`
	Scale       int      `toml:"scale" yaml:"scale" env:"SCALE"`
}

// RenderConfig seeds the render subtree of the scene.
type RenderConfig struct {
	Width        int     `toml:"width" yaml:"width" env:"WIDTH"`
	Height       int     `toml:"height" yaml:"height" env:"HEIGHT"`
	SkyIntensity float64 `toml:"sky_intensity" yaml:"sky_intensity" env:"SKY_INTENSITY"`
}

// CameraConfig seeds the camera subtree of the scene.
type CameraConfig struct {
	Aperture    float64 `toml:"aperture" yaml:"aperture" env:"APERTURE"`
	FieldOfView float64 `toml:"field_of_view" yaml:"field_of_view" env:"FIELD_OF_VIEW"`
}

// PreviewConfig controls how frames are drawn in the terminal.
type PreviewConfig struct {
	// Protocol is one of "auto", "halfblocks", "kitty", "iterm2", "sixel"
	// or "none".
	Protocol string   `toml:"protocol" yaml:"protocol" env:"PROTOCOL"`
	Refresh  Duration `toml:"refresh" yaml:"refresh" env:"REFRESH"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level string `toml:"level" yaml:"level" env:"LEVEL"`
	File  string `toml:"file" yaml:"file" env:"FILE"`
}

// UIConfig controls the panel's appearance.
type UIConfig struct {
	Theme string `toml:"theme" yaml:"theme" env:"THEME"`
}

var (
	validProtocols = []string{"auto", "halfblocks", "kitty", "iterm2", "sixel", "none"}
	validLevels    = []string{"debug", "info", "warn", "error"}
)

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Engine.Hz < 1 || c.Engine.Hz > 240 {
		errs = append(errs, fmt.Errorf("engine.hz must be in [1, 240], got %d", c.Engine.Hz))
	}
	if c.Engine.Scale < 1 {
		errs = append(errs, fmt.Errorf("engine.scale must be positive, got %d", c.Engine.Scale))
	}
	if c.Engine.MaxDepth < 1 {
		errs = append(errs, fmt.Errorf("engine.max_depth must be positive, got %d", c.Engine.MaxDepth))
	}
	if c.Engine.Samples < 1 {
		errs = append(errs, fmt.Errorf("engine.samples must be positive, got %d", c.Engine.Samples))
	}
	if !slices.Contains(validProtocols, c.Preview.Protocol) {
		errs = append(errs, fmt.Errorf("preview.protocol %q is not one of %s",
			c.Preview.Protocol, strings.Join(validProtocols, ", ")))
	}
	if !slices.Contains(validLevels, strings.ToLower(c.Log.Level)) {
		errs = append(errs, fmt.Errorf("log.level %q is not one of %s",
			c.Log.Level, strings.Join(validLevels, ", ")))
	}
	if _, ok := theme.Get(c.UI.Theme); !ok {
		errs = append(errs, fmt.Errorf("ui.theme %q is not one of %s",
			c.UI.Theme, strings.Join(theme.Names(), ", ")))
	}
	if err := c.rawScene().Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Scene returns the startup scene configuration, quantized and clamped to
// the field ranges.
func (c *Config) Scene() *scene.ApplicationConfig {
	return c.rawScene().Normalized()
}

func (c *Config) rawScene() *scene.ApplicationConfig {
	return &scene.ApplicationConfig{
		Render: &scene.RenderConfig{
			Width:        c.Render.Width,
			Height:       c.Render.Height,
			SkyIntensity: c.Render.SkyIntensity,
		},
		Camera: &scene.CameraConfig{
			Aperture:    c.Camera.Aperture,
			FieldOfView: c.Camera.FieldOfView,
		},
	}
}
