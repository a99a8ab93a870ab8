package levels

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultLevel(t *testing.T) {
	lvl, err := LoadLevelFromFS(DefaultName)
	if err != nil {
		t.Fatalf("load default: %v", err)
	}
	if lvl.Width != 16 || lvl.Height != 12 {
		t.Fatalf("expected 16x12, got %dx%d", lvl.Width, lvl.Height)
	}
	if lvl.Powerup == nil {
		t.Fatalf("expected powerup")
	}
	if lvl.Powerup.Pos.X != 3.5 || lvl.Powerup.Pos.Y != 5.5 {
		t.Fatalf("unexpected powerup pos %+v", lvl.Powerup.Pos)
	}
	if math.Abs(lvl.Powerup.Angle-math.Pi/4) > 1e-9 {
		t.Fatalf("powerup angle should be converted to radians, got %v", lvl.Powerup.Angle)
	}
	if math.Abs(lvl.Player.Angle-math.Pi) > 1e-9 {
		t.Fatalf("player angle should be pi, got %v", lvl.Player.Angle)
	}
	if len(lvl.Enemies) != 2 {
		t.Fatalf("expected 2 enemy spawns, got %d", len(lvl.Enemies))
	}
	if lvl.Enemies[0].Health != nil {
		t.Fatalf("first enemy should use the default health")
	}
	if lvl.Enemies[1].Health == nil || *lvl.Enemies[1].Health != 4 {
		t.Fatalf("second enemy should override health to 4")
	}
	if len(lvl.Sprites) != 1 || len(lvl.Sprites[0].Textures) != 3 {
		t.Fatalf("expected one animated decoration, got %+v", lvl.Sprites)
	}
}

func TestParse(t *testing.T) {
	cases := []struct {
		name      string
		data      string
		malformed bool
	}{
		{"minimal", `{"map": [[0,1],[1,0]]}`, false},
		{"missing_map", `{"sprites": []}`, true},
		{"empty_row", `{"map": [[]]}`, true},
		{"ragged", `{"map": [[0,0],[0]]}`, true},
		{"bad_tile", `{"map": [[0,7]]}`, true},
		{"bad_json_type", `{"map": "nope"}`, true},
		{"bad_coordinate_type", `{"map": [[0]], "powerup": {"pos": ["a", 1]}}`, true},
		{"short_coordinate", `{"map": [[0]], "sprites": [{"pos": [1]}]}`, true},
		{"no_empty_cell", `{"map": [[1,1]]}`, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			lvl, err := Parse(c.name, []byte(c.data))
			if c.malformed {
				if !errors.Is(err, ErrMalformed) {
					t.Fatalf("expected ErrMalformed, got %v", err)
				}
				if lvl != nil {
					t.Fatalf("expected no partial level")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestParseDefaults(t *testing.T) {
	lvl, err := Parse("x", []byte(`{"map": [[1,1,1],[1,0,1]], "sprites": [{"pos": [1.5, 1.5], "enemy": true}]}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if lvl.Powerup != nil {
		t.Fatalf("expected no powerup")
	}
	if lvl.Player.Pos.X != 1.5 || lvl.Player.Pos.Y != 1.5 {
		t.Fatalf("player should start in first empty cell, got %+v", lvl.Player.Pos)
	}
	if len(lvl.Enemies) != 1 || lvl.Enemies[0].Height != defaultSpriteHeight {
		t.Fatalf("expected default height enemy, got %+v", lvl.Enemies)
	}
}

func TestLoadLevelFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "room.json")
	if err := os.WriteFile(path, []byte(`{"map": [[0,2,0]]}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	lvl, err := LoadLevel(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if lvl.Name != "room.json" || lvl.Width != 3 {
		t.Fatalf("unexpected level %+v", lvl)
	}
	if _, err := LoadLevel(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
