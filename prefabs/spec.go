package prefabs

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidSpec is returned for specs whose values cannot drive the game.
var ErrInvalidSpec = errors.New("prefabs: invalid spec")

// Spec file names.
const (
	PlayerFile = "player.yaml"
	EnemyFile  = "enemy.yaml"
	DoorFile   = "door.yaml"
	BulletFile = "bullet.yaml"
	RenderFile = "render.yaml"
)

func LoadSpec[T any](dir, filename string) (T, error) {
	var zero T
	data, err := Load(dir, filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type PlayerSpec struct {
	MoveSpeed         float64 `yaml:"move_speed"`
	RotSpeed          float64 `yaml:"rot_speed"`
	MouseSensitivity  float64 `yaml:"mouse_sensitivity"`
	MouseSensitivityY float64 `yaml:"mouse_sensitivity_y"`
	MaxPitch          float64 `yaml:"max_pitch"`
}

type EnemySpec struct {
	Speed              float64 `yaml:"speed"`
	Health             int     `yaml:"health"`
	KillRadius         float64 `yaml:"kill_radius"`
	RespawnDelay       float64 `yaml:"respawn_delay"`
	DirectDelay        float64 `yaml:"direct_delay"`
	SightStep          float64 `yaml:"sight_step"`
	RespawnAttempts    int     `yaml:"respawn_attempts"`
	MinRespawnDistance float64 `yaml:"min_respawn_distance"`
	// Script names an optional Tengo file that scales Speed per enemy.
	Script string `yaml:"script"`
}

type DoorSpec struct {
	OpenDistance float64 `yaml:"open_distance"`
	AnimDuration float64 `yaml:"anim_duration"`
	CloseDelay   float64 `yaml:"close_delay"`
}

type BulletSpec struct {
	Speed       float64 `yaml:"speed"`
	Lifespan    float64 `yaml:"lifespan"`
	HitRadius   float64 `yaml:"hit_radius"`
	SpawnOffset float64 `yaml:"spawn_offset"`
}

type PowerupSpec struct {
	RotSpeed float64 `yaml:"rot_speed"`
	Height   float64 `yaml:"height"`
}

type RenderSpec struct {
	Ceiling       YAMLColor   `yaml:"ceiling"`
	Floor         YAMLColor   `yaml:"floor"`
	WallX         YAMLColor   `yaml:"wall_x"`
	WallY         YAMLColor   `yaml:"wall_y"`
	Door          YAMLColor   `yaml:"door"`
	HitFlash      YAMLColor   `yaml:"hit_flash"`
	HitFlashMs    int         `yaml:"hit_flash_ms"`
	AnimFrameMs   int         `yaml:"anim_frame_ms"`
	Powerup       PowerupSpec `yaml:"powerup"`
	WallTexture   string      `yaml:"wall_texture"`
	DoorTexture   string      `yaml:"door_texture"`
	PowerupImage  string      `yaml:"powerup_texture"`
	EnemyTextures []string    `yaml:"enemy_textures"`
}

// Tuning aggregates every gameplay spec the simulation consumes.
type Tuning struct {
	Player PlayerSpec
	Enemy  EnemySpec
	Door   DoorSpec
	Bullet BulletSpec
	Render RenderSpec
}

// DefaultTuning matches the embedded YAML files and backs tests that must not
// depend on the filesystem.
func DefaultTuning() Tuning {
	return Tuning{
		Player: PlayerSpec{
			MoveSpeed:         1.7,
			RotSpeed:          2.5,
			MouseSensitivity:  0.003,
			MouseSensitivityY: 1.0,
			MaxPitch:          200,
		},
		Enemy: EnemySpec{
			Speed:              1.0,
			Health:             5,
			KillRadius:         0.3,
			RespawnDelay:       3.0,
			DirectDelay:        1.0,
			SightStep:          0.1,
			RespawnAttempts:    100,
			MinRespawnDistance: 2.0,
		},
		Door: DoorSpec{
			OpenDistance: 1.5,
			AnimDuration: 0.6,
			CloseDelay:   2.0,
		},
		Bullet: BulletSpec{
			Speed:       8.0,
			Lifespan:    2.0,
			HitRadius:   0.3,
			SpawnOffset: 0.2,
		},
		Render: RenderSpec{
			Ceiling:     YAMLColor{color.NRGBA{R: 30, G: 30, B: 30, A: 255}},
			Floor:       YAMLColor{color.NRGBA{R: 50, G: 50, B: 50, A: 255}},
			WallX:       YAMLColor{color.NRGBA{R: 100, G: 100, B: 100, A: 255}},
			WallY:       YAMLColor{color.NRGBA{R: 70, G: 70, B: 70, A: 255}},
			Door:        YAMLColor{color.NRGBA{R: 120, G: 80, B: 40, A: 255}},
			HitFlash:    YAMLColor{color.NRGBA{R: 255, G: 0, B: 0, A: 96}},
			HitFlashMs:  150,
			AnimFrameMs: 300,
			Powerup:     PowerupSpec{RotSpeed: 1.0, Height: 0.25},
		},
	}
}

// LoadTuning reads every spec file from dir, falling back to the embedded
// copies. Each file overlays DefaultTuning, so a file may set only the keys it
// cares about.
func LoadTuning(dir string) (Tuning, error) {
	t := DefaultTuning()
	if err := loadInto(dir, PlayerFile, &t.Player); err != nil {
		return Tuning{}, err
	}
	if err := loadInto(dir, EnemyFile, &t.Enemy); err != nil {
		return Tuning{}, err
	}
	if err := loadInto(dir, DoorFile, &t.Door); err != nil {
		return Tuning{}, err
	}
	if err := loadInto(dir, BulletFile, &t.Bullet); err != nil {
		return Tuning{}, err
	}
	if err := loadInto(dir, RenderFile, &t.Render); err != nil {
		return Tuning{}, err
	}
	if err := t.Validate(); err != nil {
		return Tuning{}, err
	}
	return t, nil
}

func loadInto[T any](dir, filename string, dst *T) error {
	data, err := Load(dir, filename)
	if err != nil {
		return fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	return nil
}

// Validate rejects values that would stall or break the simulation.
func (t Tuning) Validate() error {
	switch {
	case t.Player.MoveSpeed < 0:
		return fmt.Errorf("player move_speed %v: %w", t.Player.MoveSpeed, ErrInvalidSpec)
	case t.Player.MaxPitch < 0:
		return fmt.Errorf("player max_pitch %v: %w", t.Player.MaxPitch, ErrInvalidSpec)
	case t.Enemy.Health <= 0:
		return fmt.Errorf("enemy health %d: %w", t.Enemy.Health, ErrInvalidSpec)
	case t.Enemy.SightStep <= 0:
		return fmt.Errorf("enemy sight_step %v: %w", t.Enemy.SightStep, ErrInvalidSpec)
	case t.Enemy.RespawnAttempts <= 0:
		return fmt.Errorf("enemy respawn_attempts %d: %w", t.Enemy.RespawnAttempts, ErrInvalidSpec)
	case t.Door.OpenDistance < 0:
		return fmt.Errorf("door open_distance %v: %w", t.Door.OpenDistance, ErrInvalidSpec)
	case t.Door.AnimDuration < 0 || t.Door.CloseDelay < 0:
		return fmt.Errorf("door timings must not be negative: %w", ErrInvalidSpec)
	case t.Bullet.Lifespan <= 0:
		return fmt.Errorf("bullet lifespan %v: %w", t.Bullet.Lifespan, ErrInvalidSpec)
	case t.Bullet.HitRadius <= 0:
		return fmt.Errorf("bullet hit_radius %v: %w", t.Bullet.HitRadius, ErrInvalidSpec)
	}
	return nil
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}

// Or returns the color, or fallback when the spec left it unset.
func (c YAMLColor) Or(fallback color.Color) color.Color {
	if c.Color == nil {
		return fallback
	}
	return c.Color
}
