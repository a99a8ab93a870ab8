package prefabs

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
	"gopkg.in/yaml.v3"
)

func sameColor(a, b color.Color) bool {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	return ar == br && ag == bg && ab == bb && aa == ba
}

func TestEmbeddedTuningMatchesDefaults(t *testing.T) {
	got, err := LoadTuning(t.TempDir())
	if err != nil {
		t.Fatalf("load tuning: %v", err)
	}
	want := DefaultTuning()
	if got.Player != want.Player {
		t.Fatalf("player %+v, want %+v", got.Player, want.Player)
	}
	if got.Enemy != want.Enemy {
		t.Fatalf("enemy %+v, want %+v", got.Enemy, want.Enemy)
	}
	if got.Door != want.Door {
		t.Fatalf("door %+v, want %+v", got.Door, want.Door)
	}
	if got.Bullet != want.Bullet {
		t.Fatalf("bullet %+v, want %+v", got.Bullet, want.Bullet)
	}
	colors := []struct {
		name      string
		got, want YAMLColor
	}{
		{"ceiling", got.Render.Ceiling, want.Render.Ceiling},
		{"floor", got.Render.Floor, want.Render.Floor},
		{"wall_x", got.Render.WallX, want.Render.WallX},
		{"wall_y", got.Render.WallY, want.Render.WallY},
		{"door", got.Render.Door, want.Render.Door},
		{"hit_flash", got.Render.HitFlash, want.Render.HitFlash},
	}
	for _, c := range colors {
		if !sameColor(c.got, c.want) {
			t.Fatalf("%s color %v, want %v", c.name, c.got.Color, c.want.Color)
		}
	}
	if got.Render.Powerup != want.Render.Powerup || got.Render.AnimFrameMs != want.Render.AnimFrameMs {
		t.Fatalf("render timing mismatch: %+v", got.Render)
	}
}

func TestDiskSpecOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, EnemyFile), []byte("health: 9\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := LoadTuning(dir)
	if err != nil {
		t.Fatalf("load tuning: %v", err)
	}
	if got.Enemy.Health != 9 {
		t.Fatalf("disk health not applied: %d", got.Enemy.Health)
	}
	if got.Enemy.Speed != DefaultTuning().Enemy.Speed {
		t.Fatalf("unset keys should keep defaults, speed=%v", got.Enemy.Speed)
	}

	spec, err := LoadSpec[EnemySpec](dir, EnemyFile)
	if err != nil {
		t.Fatalf("load spec: %v", err)
	}
	if spec.Health != 9 || spec.Speed != 0 {
		t.Fatalf("LoadSpec should decode the raw file: %+v", spec)
	}
	if _, ok := ModTime(dir, EnemyFile); !ok {
		t.Fatalf("expected mod time for disk spec")
	}
	if _, ok := ModTime(dir, DoorFile); ok {
		t.Fatalf("embedded-only spec should have no mod time")
	}
}

func TestTuningDirsAreIndependent(t *testing.T) {
	tuned := t.TempDir()
	if err := os.WriteFile(filepath.Join(tuned, EnemyFile), []byte("health: 7\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	plain := t.TempDir()

	a, err := LoadTuning(tuned)
	if err != nil {
		t.Fatalf("load %s: %v", tuned, err)
	}
	b, err := LoadTuning(plain)
	if err != nil {
		t.Fatalf("load %s: %v", plain, err)
	}
	embedded, err := LoadTuning("")
	if err != nil {
		t.Fatalf("load embedded: %v", err)
	}
	if a.Enemy.Health != 7 {
		t.Fatalf("tuned dir health %d, want 7", a.Enemy.Health)
	}
	want := DefaultTuning().Enemy.Health
	if b.Enemy.Health != want || embedded.Enemy.Health != want {
		t.Fatalf("other loads picked up the tuned dir: %d, %d", b.Enemy.Health, embedded.Enemy.Health)
	}
	if _, ok := ModTime("", EnemyFile); ok {
		t.Fatalf("embedded reads should have no mod time")
	}
}

func TestLoadTuningRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, BulletFile), []byte("lifespan: 0\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadTuning(dir); !errors.Is(err, ErrInvalidSpec) {
		t.Fatalf("expected ErrInvalidSpec, got %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, BulletFile), []byte("lifespan: [1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadTuning(dir); err == nil {
		t.Fatalf("expected yaml error")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Tuning)
		ok     bool
	}{
		{"defaults", func(*Tuning) {}, true},
		{"negative_speed", func(t *Tuning) { t.Player.MoveSpeed = -1 }, false},
		{"negative_pitch", func(t *Tuning) { t.Player.MaxPitch = -1 }, false},
		{"zero_health", func(t *Tuning) { t.Enemy.Health = 0 }, false},
		{"zero_sight_step", func(t *Tuning) { t.Enemy.SightStep = 0 }, false},
		{"zero_attempts", func(t *Tuning) { t.Enemy.RespawnAttempts = 0 }, false},
		{"negative_close_delay", func(t *Tuning) { t.Door.CloseDelay = -1 }, false},
		{"zero_hit_radius", func(t *Tuning) { t.Bullet.HitRadius = 0 }, false},
		{"instant_doors", func(t *Tuning) { t.Door.AnimDuration = 0 }, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tun := DefaultTuning()
			c.mutate(&tun)
			err := tun.Validate()
			if c.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !c.ok && !errors.Is(err, ErrInvalidSpec) {
				t.Fatalf("expected ErrInvalidSpec, got %v", err)
			}
		})
	}
}

func TestYAMLColor(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want color.NRGBA
		err  bool
	}{
		{"rgb", `"#102030"`, color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}, false},
		{"rgba", `"#10203040"`, color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0x40}, false},
		{"no_hash", `"ffffff"`, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, false},
		{"short", `"#fff"`, color.NRGBA{}, true},
		{"bad_hex", `"#zz0000"`, color.NRGBA{}, true},
		{"not_scalar", `[1, 2]`, color.NRGBA{}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var got YAMLColor
			err := yaml.Unmarshal([]byte(c.in), &got)
			if c.err {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if !sameColor(got, c.want) {
				t.Fatalf("got %v, want %v", got.Color, c.want)
			}
		})
	}

	var unset YAMLColor
	if unset.Or(color.White) != color.White {
		t.Fatalf("unset color should fall back")
	}
}

func TestWatcherReportsSpecWrites(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(zaptest.NewLogger(t), dir)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	target := filepath.Join(dir, DoorFile)
	if err := os.WriteFile(target, []byte("close_delay: 1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	timeout := time.After(5 * time.Second)
	for {
		select {
		case name := <-w.Events:
			if filepath.Ext(name) != ".yaml" {
				t.Fatalf("non-spec file reported: %s", name)
			}
			if filepath.Base(name) == DoorFile {
				return
			}
		case err := <-w.Errors:
			t.Fatalf("watcher error: %v", err)
		case <-timeout:
			t.Fatalf("timed out waiting for %s", target)
		}
	}
}

func TestWatchedExtensions(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"prefabs/enemy.yaml", true},
		{"prefabs/ENEMY.YML", true},
		{"prefabs/enrage.tengo", true},
		{"prefabs/notes.txt", false},
		{"prefabs/enemy.yaml~", false},
	}
	for _, c := range cases {
		t.Run(c.path, func(t *testing.T) {
			if got := isSpecFile(c.path) || isScriptFile(c.path); got != c.want {
				t.Fatalf("watched(%q) = %v, want %v", c.path, got, c.want)
			}
		})
	}
}

func TestEmbeddedScript(t *testing.T) {
	data, err := Load("", "enrage.tengo")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("enrage.tengo is empty")
	}
}
