package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvPath overrides the config file location when no -config flag is given.
const EnvPath = "GRIDCASTER_CONFIG"

// DefaultPath is read when present; its absence is not an error.
const DefaultPath = "gridcaster.toml"

type Config struct {
	Window  WindowConfig  `toml:"window"`
	Render  RenderConfig  `toml:"render"`
	Level   LevelConfig   `toml:"level"`
	Sim     SimConfig     `toml:"sim"`
	Prefabs PrefabsConfig `toml:"prefabs"`
	Assets  AssetsConfig  `toml:"assets"`
	Logging LoggingConfig `toml:"logging"`
}

type WindowConfig struct {
	Title      string `toml:"title"`
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	TPS        int    `toml:"tps"`
	Fullscreen bool   `toml:"fullscreen"`
	GrabCursor bool   `toml:"grab_cursor"`
}

type RenderConfig struct {
	FOV        float64 `toml:"fov"` // degrees
	Width      int     `toml:"width"`
	Height     int     `toml:"height"`
	WallHeight float64 `toml:"wall_height"`
	Workers    int     `toml:"workers"` // column bands cast in parallel; <=1 is serial
	DoorDebug  bool    `toml:"door_debug"`
}

type LevelConfig struct {
	Name string `toml:"name"`
}

type SimConfig struct {
	Seed int64 `toml:"seed"` // 0 picks a time-based seed
}

type PrefabsConfig struct {
	Dir       string `toml:"dir"`
	HotReload bool   `toml:"hot_reload"`
}

// AssetsConfig points at PNG texture overrides.
type AssetsConfig struct {
	Dir string `toml:"dir"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
	Output string `toml:"output"` // file path; empty logs to stderr
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve picks the config file: the flag value, then $GRIDCASTER_CONFIG, then
// DefaultPath if it exists. It returns "" when none apply.
func Resolve(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if env := os.Getenv(EnvPath); env != "" {
		return env
	}
	if _, err := os.Stat(DefaultPath); err == nil {
		return DefaultPath
	}
	return ""
}

func defaults() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "gridcaster",
			Width:      800,
			Height:     600,
			TPS:        60,
			GrabCursor: true,
		},
		Render: RenderConfig{
			FOV:        60,
			Width:      400,
			Height:     300,
			WallHeight: 1,
			Workers:    1,
		},
		Level: LevelConfig{
			Name: "default.json",
		},
		Prefabs: PrefabsConfig{
			Dir:       "prefabs",
			HotReload: true,
		},
		Assets: AssetsConfig{
			Dir: "assets",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Defaults returns a fresh default config.
func Defaults() *Config {
	return defaults()
}

func (c *Config) validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	case c.Render.Width <= 0 || c.Render.Height <= 0:
		return fmt.Errorf("render size %dx%d must be positive", c.Render.Width, c.Render.Height)
	case c.Render.FOV <= 0 || c.Render.FOV >= 180:
		return fmt.Errorf("render fov %v must be within (0, 180)", c.Render.FOV)
	case c.Window.TPS < 0:
		return fmt.Errorf("window tps %d must not be negative", c.Window.TPS)
	}
	return nil
}

// NewLogger builds a zap logger: JSON for "json", colored console otherwise.
func NewLogger(cfg LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	if cfg.Output != "" {
		zapCfg.OutputPaths = []string{cfg.Output}
		zapCfg.ErrorOutputPaths = []string{cfg.Output}
	}

	return zapCfg.Build()
}
