// Package session wires config, tuning, level, world, simulation and caster
// into the state both frontends drive.
package session

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/milk9111/gridcaster/assets"
	"github.com/milk9111/gridcaster/config"
	"github.com/milk9111/gridcaster/levels"
	"github.com/milk9111/gridcaster/prefabs"
	"github.com/milk9111/gridcaster/raycast"
	"github.com/milk9111/gridcaster/sim"
	"github.com/milk9111/gridcaster/world"
)

type Session struct {
	Config   *config.Config
	Level    *levels.Level
	World    *world.GridWorld
	Sim      *sim.Sim
	Caster   *raycast.Caster
	Textures *assets.Library

	log     *zap.Logger
	watcher *prefabs.Watcher
	frame   *raycast.Frame
	flash   map[int]float64
}

// Open builds a session from cfg. Hot reload failures are logged and leave
// the session running on the loaded tuning.
func Open(cfg *config.Config, log *zap.Logger) (*Session, error) {
	if log == nil {
		log = zap.NewNop()
	}
	tuning, err := prefabs.LoadTuning(cfg.Prefabs.Dir)
	if err != nil {
		return nil, fmt.Errorf("load tuning: %w", err)
	}
	lvl, err := levels.Load(cfg.Level.Name)
	if err != nil {
		return nil, fmt.Errorf("load level: %w", err)
	}
	w, err := world.FromLevel(lvl, DoorConfig(tuning.Door))
	if err != nil {
		return nil, fmt.Errorf("build world %s: %w", lvl.Name, err)
	}

	seed := cfg.Sim.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s, err := sim.New(w, lvl, sim.Options{
		Tuning:    &tuning,
		Seed:      seed,
		Logger:    log,
		PrefabDir: cfg.Prefabs.Dir,
	})
	if err != nil {
		return nil, err
	}
	s.SetDoorDebug(cfg.Render.DoorDebug)

	tex, err := assets.NewLibrary(cfg.Assets.Dir, log)
	if err != nil {
		return nil, fmt.Errorf("load textures: %w", err)
	}

	sess := &Session{
		Config:   cfg,
		Level:    lvl,
		World:    w,
		Sim:      s,
		Caster:   raycast.NewCaster(Viewport(cfg.Render), cfg.Render.Workers),
		Textures: tex,
		log:      log.Named("session"),
		flash:    make(map[int]float64),
	}

	if cfg.Prefabs.HotReload {
		watcher, err := prefabs.NewWatcher(log, cfg.Prefabs.Dir)
		if err != nil {
			sess.log.Warn("prefab hot reload disabled", zap.String("dir", cfg.Prefabs.Dir), zap.Error(err))
		} else {
			sess.watcher = watcher
		}
	}

	sess.log.Info("session open",
		zap.String("level", lvl.Name),
		zap.Int("width", lvl.Width),
		zap.Int("height", lvl.Height),
		zap.Int("rooms", w.Rooms().Count()),
		zap.Int("doors", len(w.Doors())),
	)
	return sess, nil
}

// Viewport converts the render config. FOV is configured in degrees.
func Viewport(r config.RenderConfig) raycast.Viewport {
	return raycast.Viewport{
		Width:      r.Width,
		Height:     r.Height,
		FOV:        r.FOV * math.Pi / 180,
		WallHeight: r.WallHeight,
	}
}

func DoorConfig(d prefabs.DoorSpec) world.DoorConfig {
	return world.DoorConfig{
		OpenDistance: d.OpenDistance,
		AnimDuration: d.AnimDuration,
		CloseDelay:   d.CloseDelay,
	}
}

// Resize changes the cast resolution.
func (s *Session) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.Caster.View.Width = width
	s.Caster.View.Height = height
}

// Tick applies pending tuning reloads, steps the simulation and returns the
// events it produced.
func (s *Session) Tick(in sim.Input, dt float64) []sim.Event {
	s.pollReload()
	s.Sim.Step(in, dt)
	events := s.Sim.Events()

	if !s.Sim.Paused() {
		for id, left := range s.flash {
			if left -= dt; left <= 0 {
				delete(s.flash, id)
			} else {
				s.flash[id] = left
			}
		}
	}
	flashFor := float64(s.Sim.Tuning().Render.HitFlashMs) / 1000
	for _, e := range events {
		switch e.Kind {
		case sim.EventEnemyHit:
			s.flash[e.Enemy] = flashFor
		case sim.EventEnemyRespawned:
			delete(s.flash, e.Enemy)
		}
	}
	return events
}

// Flashing reports whether enemy id was hit within the flash window.
func (s *Session) Flashing(id int) bool {
	_, ok := s.flash[id]
	return ok
}

// Camera is the player's eye.
func (s *Session) Camera() raycast.Camera {
	p := s.Sim.Player
	return raycast.Camera{Pos: p.Pos, Angle: p.Angle, Pitch: p.Pitch}
}

// Cast renders the world from the player's eye, reusing the previous frame's
// buffers.
func (s *Session) Cast() *raycast.Frame {
	if s.frame == nil {
		s.frame = s.Caster.Cast(s.World, s.Camera())
	} else {
		s.Caster.CastInto(s.frame, s.World, s.Camera())
	}
	return s.frame
}

// ReloadTuning rereads every prefab file and applies it when valid.
func (s *Session) ReloadTuning() error {
	tuning, err := prefabs.LoadTuning(s.Config.Prefabs.Dir)
	if err != nil {
		return err
	}
	s.Sim.SetTuning(tuning)
	s.Textures.Invalidate()
	return nil
}

func (s *Session) pollReload() {
	if s.watcher == nil {
		return
	}
	changed := false
drain:
	for {
		select {
		case name, ok := <-s.watcher.Events:
			if !ok {
				s.watcher = nil
				break drain
			}
			s.log.Debug("prefab changed", zap.String("file", name))
			changed = true
		case err, ok := <-s.watcher.Errors:
			if ok {
				s.log.Warn("prefab watcher", zap.Error(err))
			}
		default:
			break drain
		}
	}
	if !changed {
		return
	}
	if err := s.ReloadTuning(); err != nil {
		s.log.Warn("tuning reload rejected, keeping previous values", zap.Error(err))
		return
	}
	s.log.Info("tuning reloaded")
}

func (s *Session) Close() error {
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}
