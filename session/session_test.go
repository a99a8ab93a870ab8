package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/milk9111/gridcaster/common"
	"github.com/milk9111/gridcaster/config"
	"github.com/milk9111/gridcaster/sim"
)

func openTestSession(t *testing.T, mutate func(*config.Config)) *Session {
	t.Helper()
	cfg := config.Defaults()
	cfg.Prefabs.HotReload = false
	cfg.Sim.Seed = 7
	if mutate != nil {
		mutate(cfg)
	}
	s, err := Open(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenDefaultLevel(t *testing.T) {
	s := openTestSession(t, nil)
	if s.Level.Name != "default.json" {
		t.Fatalf("level %q", s.Level.Name)
	}
	if len(s.Sim.Enemies) != 2 || s.Sim.Powerup == nil {
		t.Fatalf("unexpected population: %d enemies", len(s.Sim.Enemies))
	}

	f := s.Cast()
	if len(f.Columns) != s.Config.Render.Width {
		t.Fatalf("frame has %d columns", len(f.Columns))
	}
	for col, c := range f.Columns {
		if c.Hit.Perp <= 0 {
			t.Fatalf("column %d has no wall", col)
		}
	}

	s.Resize(80, 40)
	if f2 := s.Cast(); len(f2.Columns) != 80 || f2 != f {
		t.Fatalf("resize should reuse the frame and change its width")
	}
}

func TestOpenRejectsUnknownLevel(t *testing.T) {
	cfg := config.Defaults()
	cfg.Prefabs.HotReload = false
	cfg.Level.Name = "missing.json"
	if _, err := Open(cfg, zaptest.NewLogger(t)); err == nil {
		t.Fatalf("expected error")
	}
}

func TestHitFlash(t *testing.T) {
	s := openTestSession(t, nil)
	target := s.Sim.Enemies[0]
	// the player starts facing west along row 8
	target.Pos = common.Vec2{X: 10.5, Y: 8.5}

	dt := 1.0 / 60
	s.Tick(sim.Input{Fire: true}, dt)
	hit := false
	for range 20 {
		s.Tick(sim.Input{}, dt)
		if s.Flashing(target.ID) {
			hit = true
			break
		}
	}
	if !hit {
		t.Fatalf("enemy never flashed, health %d", target.Health)
	}
	if target.Health != target.MaxHealth-1 {
		t.Fatalf("health %d", target.Health)
	}
	for range 30 {
		s.Tick(sim.Input{}, dt)
	}
	if s.Flashing(target.ID) {
		t.Fatalf("flash should have expired")
	}
}

func TestSpritesFarthestFirst(t *testing.T) {
	s := openTestSession(t, nil)
	s.Sim.Enemies[0].Pos = common.Vec2{X: 10.5, Y: 8.5}

	sprites := s.Sprites(s.Cast())
	if len(sprites) < 2 {
		t.Fatalf("expected the lamp and the enemy, got %d sprites", len(sprites))
	}
	for i := 1; i < len(sprites); i++ {
		if sprites[i].Dist > sprites[i-1].Dist {
			t.Fatalf("sprites not sorted: %v then %v", sprites[i-1].Dist, sprites[i].Dist)
		}
	}
	last := sprites[len(sprites)-1]
	if last.Texture != "imp_0.png" && last.Texture != "imp_1.png" {
		t.Fatalf("nearest sprite should be the enemy, got %q", last.Texture)
	}
}

func TestHotReloadAppliesTuning(t *testing.T) {
	dir := t.TempDir()
	s := openTestSession(t, func(cfg *config.Config) {
		cfg.Prefabs.Dir = dir
		cfg.Prefabs.HotReload = true
	})

	if err := os.WriteFile(filepath.Join(dir, "enemy.yaml"), []byte("speed: 2.5\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		s.Tick(sim.Input{}, 1.0/60)
		if s.Sim.Tuning().Enemy.Speed == 2.5 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("tuning not reloaded, speed %v", s.Sim.Tuning().Enemy.Speed)
}

func TestSessionsKeepTheirPrefabDirs(t *testing.T) {
	tuned := t.TempDir()
	if err := os.WriteFile(filepath.Join(tuned, "enemy.yaml"), []byte("health: 4\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	a := openTestSession(t, func(cfg *config.Config) { cfg.Prefabs.Dir = tuned })
	b := openTestSession(t, func(cfg *config.Config) { cfg.Prefabs.Dir = t.TempDir() })

	if got := a.Sim.Tuning().Enemy.Health; got != 4 {
		t.Fatalf("tuned session health %d, want 4", got)
	}
	if got := b.Sim.Tuning().Enemy.Health; got == 4 {
		t.Fatalf("second session picked up the first session's prefabs")
	}

	// a reload after the second Open must still read the first session's dir
	if err := a.ReloadTuning(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := a.Sim.Tuning().Enemy.Health; got != 4 {
		t.Fatalf("reloaded health %d, want 4", got)
	}
}
