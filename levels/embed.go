package levels

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/milk9111/gridcaster/common"
)

//go:embed *.json
var LevelsFS embed.FS

// DefaultName is the embedded level used when no level is requested.
const DefaultName = "default.json"

// Tile codes used in world files.
const (
	TileEmpty = 0
	TileWall  = 1
	TileDoor  = 2
)

const defaultSpriteHeight = 0.25

// ErrMalformed is returned for world files that cannot produce a world.
var ErrMalformed = errors.New("levels: malformed world definition")

// Level is a validated world definition. Angles are in radians.
type Level struct {
	Name    string
	Tiles   [][]int
	Width   int
	Height  int
	Player  PlayerStart
	Powerup *Powerup
	Sprites []Sprite
	Enemies []EnemySpawn
}

type PlayerStart struct {
	Pos   common.Vec2
	Angle float64
}

// Powerup is the optional single rotating pickup.
type Powerup struct {
	Pos   common.Vec2
	Angle float64
}

// Sprite is a static decoration. Multiple textures form a ping-pong animation.
type Sprite struct {
	Pos      common.Vec2
	Height   float64
	Textures []string
}

// EnemySpawn describes an enemy placed in the world file. Health is nil when the
// file does not override the default.
type EnemySpawn struct {
	Pos      common.Vec2
	Health   *int
	Height   float64
	Textures []string
}

type fileLevel struct {
	Map     [][]int      `json:"map"`
	Player  *filePose    `json:"player,omitempty"`
	Powerup *filePose    `json:"powerup,omitempty"`
	Sprites []fileSprite `json:"sprites,omitempty"`
}

type filePose struct {
	Pos   []float64 `json:"pos"`
	Angle float64   `json:"angle"`
}

type fileSprite struct {
	Pos      []float64 `json:"pos"`
	Height   *float64  `json:"height,omitempty"`
	Textures []string  `json:"textures,omitempty"`
	Enemy    bool      `json:"enemy,omitempty"`
	Health   *int      `json:"health,omitempty"`
}

// LoadLevelFromFS loads a level embedded in the binary.
func LoadLevelFromFS(name string) (*Level, error) {
	clean := cleanLevelName(name)
	data, err := fs.ReadFile(LevelsFS, clean)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	return Parse(clean, data)
}

// LoadLevel loads a level from a path on disk.
func LoadLevel(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	return Parse(filepath.Base(path), data)
}

// Load resolves name against the levels/ directory on disk first and falls back
// to the embedded copy, so edited levels are picked up without a rebuild.
func Load(name string) (*Level, error) {
	clean := cleanLevelName(name)
	if data, err := os.ReadFile(filepath.Join("levels", clean)); err == nil {
		return Parse(clean, data)
	}
	if data, err := os.ReadFile(name); err == nil {
		return Parse(filepath.Base(name), data)
	}
	return LoadLevelFromFS(clean)
}

// Parse decodes and validates a world definition.
func Parse(name string, data []byte) (*Level, error) {
	var raw fileLevel
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal level %s: %w: %v", name, ErrMalformed, err)
	}

	if len(raw.Map) == 0 || len(raw.Map[0]) == 0 {
		return nil, fmt.Errorf("level %s: missing map: %w", name, ErrMalformed)
	}
	width := len(raw.Map[0])
	for y, row := range raw.Map {
		if len(row) != width {
			return nil, fmt.Errorf("level %s: row %d has %d tiles, want %d: %w", name, y, len(row), width, ErrMalformed)
		}
		for x, t := range row {
			if t != TileEmpty && t != TileWall && t != TileDoor {
				return nil, fmt.Errorf("level %s: unknown tile %d at (%d,%d): %w", name, t, x, y, ErrMalformed)
			}
		}
	}

	lvl := &Level{
		Name:   name,
		Tiles:  raw.Map,
		Width:  width,
		Height: len(raw.Map),
	}

	if raw.Player != nil {
		pos, err := point(raw.Player.Pos)
		if err != nil {
			return nil, fmt.Errorf("level %s: player: %w", name, err)
		}
		lvl.Player = PlayerStart{Pos: pos, Angle: radians(raw.Player.Angle)}
	} else {
		start, ok := firstEmpty(raw.Map)
		if !ok {
			return nil, fmt.Errorf("level %s: no empty cell for player: %w", name, ErrMalformed)
		}
		lvl.Player = PlayerStart{Pos: start.Center()}
	}

	if raw.Powerup != nil {
		pos, err := point(raw.Powerup.Pos)
		if err != nil {
			return nil, fmt.Errorf("level %s: powerup: %w", name, err)
		}
		lvl.Powerup = &Powerup{Pos: pos, Angle: radians(raw.Powerup.Angle)}
	}

	for i, sp := range raw.Sprites {
		pos, err := point(sp.Pos)
		if err != nil {
			return nil, fmt.Errorf("level %s: sprite %d: %w", name, i, err)
		}
		height := defaultSpriteHeight
		if sp.Height != nil && *sp.Height > 0 {
			height = *sp.Height
		}
		if sp.Enemy {
			lvl.Enemies = append(lvl.Enemies, EnemySpawn{
				Pos:      pos,
				Health:   sp.Health,
				Height:   height,
				Textures: sp.Textures,
			})
			continue
		}
		lvl.Sprites = append(lvl.Sprites, Sprite{Pos: pos, Height: height, Textures: sp.Textures})
	}

	return lvl, nil
}

func point(v []float64) (common.Vec2, error) {
	if len(v) != 2 {
		return common.Vec2{}, fmt.Errorf("pos needs 2 coordinates, got %d: %w", len(v), ErrMalformed)
	}
	if math.IsNaN(v[0]) || math.IsNaN(v[1]) {
		return common.Vec2{}, fmt.Errorf("pos is NaN: %w", ErrMalformed)
	}
	return common.Vec2{X: v[0], Y: v[1]}, nil
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func firstEmpty(tiles [][]int) (common.Cell, bool) {
	for y, row := range tiles {
		for x, t := range row {
			if t == TileEmpty {
				return common.Cell{X: x, Y: y}, true
			}
		}
	}
	return common.Cell{}, false
}

func cleanLevelName(name string) string {
	if name == "" {
		return DefaultName
	}
	s := filepath.ToSlash(name)
	s = strings.TrimPrefix(s, "levels/")
	if !strings.HasSuffix(strings.ToLower(s), ".json") {
		s += ".json"
	}
	return s
}
