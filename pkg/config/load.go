package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"gitlab.com/tinyland/lab/lumen/pkg/scene"
	"gitlab.com/tinyland/lab/lumen/pkg/theme"
)

// EnvPrefix prefixes every environment override, e.g. LUMEN_ENGINE_HZ.
const EnvPrefix = "LUMEN_"

// Format selects the decoder used by LoadFromReader.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

// FormatFor picks a decoder from the file extension. Anything that is not
// .yaml or .yml is read as TOML.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatTOML
}

// Load reads configuration from the standard config path.
// Search order:
//  1. $XDG_CONFIG_HOME/lumen/config.toml
//  2. ~/.config/lumen/config.toml
//
// If no file exists, returns DefaultConfig() with environment overrides.
func Load() (*Config, error) {
	for _, p := range configSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return LoadFromFile(p)
		}
	}
	cfg := DefaultConfig()
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile reads configuration from a specific file path. A missing
// file yields the defaults.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			if err := applyEnvOverrides(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, err
	}
	defer f.Close()

	cfg, err := LoadFromReader(f, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes r over the defaults, then applies environment
// overrides.
func LoadFromReader(r io.Reader, format Format) (*Config, error) {
	cfg := DefaultConfig()
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(cfg); err != nil && err != io.EOF {
			return nil, err
		}
	default:
		if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
			return nil, err
		}
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	s := scene.Default()
	return &Config{
		Engine: EngineConfig{
			Hz:          60,
			MaxDepth:    4,
			Samples:     1,
			LoadTimeout: Duration{5 * time.Second},
			Scale:       8,
		},
		Render: RenderConfig{
			Width:        s.Render.Width,
			Height:       s.Render.Height,
			SkyIntensity: s.Render.SkyIntensity,
		},
		Camera: CameraConfig{
			Aperture:    s.Camera.Aperture,
			FieldOfView: s.Camera.FieldOfView,
		},
		Preview: PreviewConfig{
			Protocol: "auto",
			Refresh:  Duration{100 * time.Millisecond},
		},
		Log: LogConfig{
			Level: "info",
		},
		UI: UIConfig{
			Theme: theme.DefaultName,
		},
	}
}

// applyEnvOverrides overwrites any field whose LUMEN_* variable is set.
func applyEnvOverrides(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	return nil
}

// configSearchPaths returns the ordered list of config file paths to try.
func configSearchPaths() []string {
	home, _ := os.UserHomeDir()
	var paths []string

	xdg := xdgConfigHome(home)
	paths = append(paths, filepath.Join(xdg, "lumen", "config.toml"))

	defaultXDG := filepath.Join(home, ".config")
	if xdg != defaultXDG {
		paths = append(paths, filepath.Join(defaultXDG, "lumen", "config.toml"))
	}
	return paths
}

func xdgConfigHome(home string) string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".config")
}
