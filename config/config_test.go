package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *cfg != *Defaults() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadExampleFile(t *testing.T) {
	cfg, err := Load(DefaultPath)
	if err != nil {
		t.Fatalf("load example: %v", err)
	}
	if cfg.Render.Workers != 4 {
		t.Fatalf("expected workers=4 from example, got %d", cfg.Render.Workers)
	}
	if cfg.Level.Name != "default.json" {
		t.Fatalf("unexpected level %q", cfg.Level.Name)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
[render]
fov = 75
door_debug = true

[assets]
dir = "art"

[logging]
level = "debug"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Render.FOV != 75 || !cfg.Render.DoorDebug {
		t.Fatalf("render section not applied: %+v", cfg.Render)
	}
	if cfg.Render.Width != Defaults().Render.Width {
		t.Fatalf("unset render width should keep default, got %d", cfg.Render.Width)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Fatalf("logging %+v", cfg.Logging)
	}
	if cfg.Assets.Dir != "art" || cfg.Prefabs.Dir != Defaults().Prefabs.Dir {
		t.Fatalf("dirs: assets %q prefabs %q", cfg.Assets.Dir, cfg.Prefabs.Dir)
	}
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"bad_toml", "[render\nfov = 1"},
		{"wrong_type", "[render]\nfov = \"wide\""},
		{"zero_fov", "[render]\nfov = 0"},
		{"huge_fov", "[render]\nfov = 180"},
		{"negative_window", "[window]\nwidth = -1"},
		{"zero_render_height", "[render]\nheight = 0"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, c.body)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("explicit missing path should fail")
	}
}

func TestResolve(t *testing.T) {
	t.Setenv(EnvPath, "")
	if got := Resolve("flag.toml"); got != "flag.toml" {
		t.Fatalf("flag should win, got %q", got)
	}
	// the example config sits in this directory
	if got := Resolve(""); got != DefaultPath {
		t.Fatalf("expected default path, got %q", got)
	}
	t.Setenv(EnvPath, "/etc/gridcaster.toml")
	if got := Resolve(""); got != "/etc/gridcaster.toml" {
		t.Fatalf("env should beat the default path, got %q", got)
	}
}

func TestNewLogger(t *testing.T) {
	cases := []struct {
		name string
		cfg  LoggingConfig
	}{
		{"console", LoggingConfig{Level: "debug", Format: "console"}},
		{"json", LoggingConfig{Level: "warn", Format: "json"}},
		{"bad_level", LoggingConfig{Level: "loud"}},
		{"file_output", LoggingConfig{Level: "info", Format: "json", Output: filepath.Join(t.TempDir(), "gridcaster.log")}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			log, err := NewLogger(c.cfg)
			if err != nil {
				t.Fatalf("new logger: %v", err)
			}
			if log == nil {
				t.Fatalf("nil logger")
			}
		})
	}

	log, _ := NewLogger(LoggingConfig{Level: "loud"})
	if !log.Core().Enabled(0) || log.Core().Enabled(-1) {
		t.Fatalf("unknown level should fall back to info")
	}
}
