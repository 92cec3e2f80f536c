package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadFromReaderTOML(t *testing.T) {
	in := `
[engine]
hz = 30
load_timeout = "2s"

[camera]
aperture = 0.5

[preview]
protocol = "halfblocks"
refresh = "250ms"
`
	cfg, err := LoadFromReader(strings.NewReader(in), FormatTOML)
	if err != nil {
		t.Fatal(err)
	}

	want := DefaultConfig()
	want.Engine.Hz = 30
	want.Engine.LoadTimeout = Duration{2 * time.Second}
	want.Camera.Aperture = 0.5
	want.Preview.Protocol = "halfblocks"
	want.Preview.Refresh = Duration{250 * time.Millisecond}

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFromReaderYAML(t *testing.T) {
	in := `
render:
  width: 640
  sky_intensity: 0.25
log:
  level: debug
engine:
  load_timeout: 750ms
`
	cfg, err := LoadFromReader(strings.NewReader(in), FormatYAML)
	if err != nil {
		t.Fatal(err)
	}

	want := DefaultConfig()
	want.Render.Width = 640
	want.Render.SkyIntensity = 0.25
	want.Log.Level = "debug"
	want.Engine.LoadTimeout = Duration{750 * time.Millisecond}

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestEmptyYAMLKeepsDefaults(t *testing.T) {
	cfg, err := LoadFromReader(strings.NewReader(""), FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestInvalidDuration(t *testing.T) {
	in := "[preview]\nrefresh = \"soon\"\n"
	if _, err := LoadFromReader(strings.NewReader(in), FormatTOML); err == nil {
		t.Error("expected error for invalid duration")
	}
	in = "[preview]\nrefresh = \"-1s\"\n"
	if _, err := LoadFromReader(strings.NewReader(in), FormatTOML); err == nil {
		t.Error("expected error for negative duration")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LUMEN_ENGINE_HZ", "15")
	t.Setenv("LUMEN_PREVIEW_PROTOCOL", "kitty")
	t.Setenv("LUMEN_RENDER_SKY_INTENSITY", "0.4")
	t.Setenv("LUMEN_LOG_FILE", "/tmp/lumen.log")
	t.Setenv("LUMEN_ENGINE_LOAD_TIMEOUT", "3s")
	t.Setenv("LUMEN_UI_THEME", "nord")

	cfg, err := LoadFromReader(strings.NewReader("[engine]\nhz = 30\n"), FormatTOML)
	if err != nil {
		t.Fatal(err)
	}

	want := DefaultConfig()
	want.Engine.Hz = 15
	want.Engine.LoadTimeout = Duration{3 * time.Second}
	want.Preview.Protocol = "kitty"
	want.Render.SkyIntensity = 0.4
	want.Log.File = "/tmp/lumen.log"
	want.UI.Theme = "nord"

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestBadEnvOverride(t *testing.T) {
	t.Setenv("LUMEN_ENGINE_HZ", "fast")
	if _, err := LoadFromReader(strings.NewReader(""), FormatTOML); err == nil {
		t.Error("expected error for non-numeric LUMEN_ENGINE_HZ")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFromFilePicksFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lumen.yml")
	if err := os.WriteFile(path, []byte("camera:\n  field_of_view: 90\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Camera.FieldOfView != 90 {
		t.Errorf("expected field of view 90, got %v", cfg.Camera.FieldOfView)
	}
}

func TestLoadFromFileReportsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(path, []byte("[engine\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadFromFile(path)
	if err == nil || !strings.Contains(err.Error(), path) {
		t.Errorf("expected error mentioning %s, got %v", path, err)
	}
}

func TestLoadSearchesXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if err := os.MkdirAll(filepath.Join(dir, "lumen"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "lumen", "config.toml"), []byte("[engine]\nscale = 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Engine.Scale != 4 {
		t.Errorf("expected scale 4 from XDG config, got %d", cfg.Engine.Scale)
	}
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"config.toml", FormatTOML},
		{"config.yaml", FormatYAML},
		{"CONFIG.YML", FormatYAML},
		{"config", FormatTOML},
	}
	for _, tt := range tests {
		if got := FormatFor(tt.path); got != tt.want {
			t.Errorf("FormatFor(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Engine.Hz = 0
	cfg.Preview.Protocol = "vga"
	cfg.Log.Level = "loud"
	cfg.Camera.Aperture = 3
	cfg.UI.Theme = "neon"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"engine.hz", "preview.protocol", "log.level", "camera.aperture", "ui.theme"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in error: %v", want, err)
		}
	}
}

func TestSceneNormalizes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Camera.Aperture = 1.37
	cfg.Camera.FieldOfView = 5

	s := cfg.Scene()
	if s.Camera.Aperture != 1 {
		t.Errorf("expected aperture clamped to 1, got %v", s.Camera.Aperture)
	}
	if s.Camera.FieldOfView != 10 {
		t.Errorf("expected field of view clamped to 10, got %v", s.Camera.FieldOfView)
	}
	if s.FocusToggle {
		t.Error("expected focus toggle to start false")
	}
}
