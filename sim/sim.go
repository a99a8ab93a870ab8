package sim

import (
	"errors"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/milk9111/gridcaster/common"
	"github.com/milk9111/gridcaster/ecs"
	"github.com/milk9111/gridcaster/levels"
	"github.com/milk9111/gridcaster/nav"
	"github.com/milk9111/gridcaster/prefabs"
	"github.com/milk9111/gridcaster/world"
)

// Arena is the world surface the simulation runs on.
type Arena interface {
	world.Walkable
	Width() int
	Height() int
}

// Optional arena hooks. GridWorld implements both.
type (
	doorConfigurer interface {
		SetDoorConfig(cfg world.DoorConfig)
	}
	doorObservable interface {
		SetDoorObserver(fn world.DoorObserver)
	}
)

// Options configure a Sim. A nil Tuning selects prefabs.DefaultTuning and a
// nil Logger discards output.
type Options struct {
	Tuning *prefabs.Tuning
	Seed   int64
	Logger *zap.Logger
	// PrefabDir is searched for the enemy speed script before the embedded
	// prefabs.
	PrefabDir string
}

// Input is one tick of player intent. Pause and ToggleDoorDebug are edge
// triggered; the rest are held states.
type Input struct {
	Forward     bool
	Back        bool
	StrafeLeft  bool
	StrafeRight bool
	TurnLeft    bool
	TurnRight   bool
	MouseDX     float64
	MouseDY     float64
	Fire        bool

	Pause           bool
	ToggleDoorDebug bool
}

// Sim owns the mutable game state and advances it one tick at a time.
type Sim struct {
	Player      Player
	Enemies     []*Enemy
	Powerup     *levels.Powerup
	Decorations []levels.Sprite

	arena  Arena
	walk   nav.WalkFunc
	tuning prefabs.Tuning
	speed  *SpeedScript
	prefab string
	log    *zap.Logger
	rng    *rand.Rand

	ents    *ecs.World
	bullets *ecs.SparseSet[Bullet]
	sched   *ecs.Scheduler[*Sim]
	events  ecs.EventQueue[Event]

	input     Input
	paused    bool
	doorDebug bool
	clock     float64
	ticks     uint64
}

// New builds a simulation for lvl on arena.
func New(arena Arena, lvl *levels.Level, opts Options) (*Sim, error) {
	if arena == nil {
		return nil, errors.New("sim: nil arena")
	}
	if lvl == nil {
		return nil, errors.New("sim: nil level")
	}

	tuning := prefabs.DefaultTuning()
	if opts.Tuning != nil {
		tuning = *opts.Tuning
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	seed := uint64(opts.Seed)

	s := &Sim{
		Player:  Player{Pos: lvl.Player.Pos, Angle: lvl.Player.Angle},
		arena:   arena,
		walk:    nav.Walkable(arena),
		prefab:  opts.PrefabDir,
		log:     log.Named("sim"),
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		ents:    ecs.NewWorld(),
		bullets: ecs.NewSparseSet[Bullet](),
	}
	if lvl.Powerup != nil {
		p := *lvl.Powerup
		s.Powerup = &p
	}
	s.Decorations = append(s.Decorations, lvl.Sprites...)
	for i, sp := range lvl.Enemies {
		s.Enemies = append(s.Enemies, NewEnemy(i, sp, arena, tuning.Enemy))
	}

	if obs, ok := arena.(doorObservable); ok {
		obs.SetDoorObserver(s.onDoorChanged)
	}
	s.SetTuning(tuning)

	s.sched = ecs.NewScheduler[*Sim](
		ecs.SystemFunc[*Sim](doorSystem),
		ecs.SystemFunc[*Sim](inputSystem),
		ecs.SystemFunc[*Sim](powerupSystem),
		ecs.SystemFunc[*Sim](chaseSystem),
		ecs.SystemFunc[*Sim](contactSystem),
		ecs.SystemFunc[*Sim](bulletSystem),
		ecs.SystemFunc[*Sim](respawnSystem),
	)

	s.log.Info("simulation ready",
		zap.String("level", lvl.Name),
		zap.Int("enemies", len(s.Enemies)),
		zap.Int("decorations", len(s.Decorations)),
		zap.Int64("seed", opts.Seed),
	)
	return s, nil
}

// Step advances the simulation by dt seconds. Paused steps only process the
// pause and debug toggles.
func (s *Sim) Step(in Input, dt float64) {
	if in.Pause {
		s.SetPaused(!s.paused)
	}
	if in.ToggleDoorDebug {
		s.doorDebug = !s.doorDebug
	}
	if s.paused || dt <= 0 {
		return
	}
	s.input = in
	s.sched.Update(s, dt)
	s.input = Input{}
	s.clock += dt
	s.ticks++
}

// Fire spawns a bullet just ahead of the player.
func (s *Sim) Fire() ecs.Entity {
	spec := s.tuning.Bullet
	pos := s.Player.Pos.Add(s.Player.Forward().Scale(spec.SpawnOffset))
	e := s.ents.CreateEntity()
	s.bullets.Set(e, NewBullet(pos, s.Player.Angle, spec))
	s.events.Push(Event{Kind: EventFired, Pos: pos})
	return e
}

// Events drains the events emitted since the last call.
func (s *Sim) Events() []Event {
	return s.events.Drain()
}

// Bullets returns the live bullets in storage order.
func (s *Sim) Bullets() []Bullet {
	return s.bullets.Values()
}

func (s *Sim) BulletCount() int {
	return s.bullets.Len()
}

// SetTuning swaps gameplay values. Enemy max health is left alone since it
// may come from the level file.
func (s *Sim) SetTuning(t prefabs.Tuning) {
	s.tuning = t
	if dc, ok := s.arena.(doorConfigurer); ok {
		dc.SetDoorConfig(world.DoorConfig{
			OpenDistance: t.Door.OpenDistance,
			AnimDuration: t.Door.AnimDuration,
			CloseDelay:   t.Door.CloseDelay,
		})
	}

	s.speed = nil
	if name := t.Enemy.Script; name != "" {
		script, err := LoadSpeedScript(s.prefab, name)
		if err != nil {
			s.log.Warn("enemy speed script disabled", zap.Error(err))
			return
		}
		s.speed = script
	}
}

// chaseSpeed is the enemy speed after the optional speed script. A failing
// script is dropped until the next tuning change.
func (s *Sim) chaseSpeed(e *Enemy, target common.Vec2) float64 {
	base := s.tuning.Enemy.Speed
	if s.speed == nil {
		return base
	}
	scale, err := s.speed.Scale(e, e.Pos.Dist(target))
	if err != nil {
		s.log.Warn("enemy speed script failed", zap.Int("enemy", e.ID), zap.Error(err))
		s.speed = nil
		return base
	}
	return base * scale
}

func (s *Sim) Tuning() prefabs.Tuning { return s.tuning }

func (s *Sim) Paused() bool { return s.paused }

func (s *Sim) SetPaused(paused bool) {
	if s.paused == paused {
		return
	}
	s.paused = paused
	s.log.Debug("pause toggled", zap.Bool("paused", paused))
}

func (s *Sim) DoorDebug() bool { return s.doorDebug }

func (s *Sim) SetDoorDebug(on bool) { s.doorDebug = on }

// Clock is the simulated time in seconds, excluding paused time.
func (s *Sim) Clock() float64 { return s.clock }

func (s *Sim) Ticks() uint64 { return s.ticks }

// PlayerRoom resolves the room the player stands in.
func (s *Sim) PlayerRoom() (int, bool) {
	return s.arena.RoomID(s.Player.Pos.X, s.Player.Pos.Y)
}

func (s *Sim) onDoorChanged(d *world.Door, prev world.DoorState) {
	s.events.Push(Event{
		Kind:      EventDoorChanged,
		Pos:       d.Center(),
		Door:      d.Cell,
		DoorState: d.State,
		DoorPrev:  prev,
	})
	s.log.Debug("door changed",
		zap.Int("x", d.Cell.X),
		zap.Int("y", d.Cell.Y),
		zap.Stringer("from", prev),
		zap.Stringer("to", d.State),
	)
}

func (s *Sim) emitKill(e *Enemy, cause KillCause) {
	s.events.Push(Event{Kind: EventEnemyKilled, Enemy: e.ID, Pos: e.Pos, Cause: cause})
	s.log.Debug("enemy killed", zap.Int("enemy", e.ID), zap.Stringer("cause", cause))
}

// occupied reports whether an enemy other than self stands in cell.
func (s *Sim) occupied(cell common.Cell, self *Enemy) bool {
	for _, o := range s.Enemies {
		if o != self && o.Pos.Cell() == cell {
			return true
		}
	}
	return false
}

// respawnPoint picks where e comes back: its spawn if it has one, else a
// random free cell out of the player's sight.
func (s *Sim) respawnPoint(e *Enemy) (common.Vec2, bool) {
	if e.Spawn != nil {
		return *e.Spawn, true
	}
	spec := s.tuning.Enemy
	w, h := s.arena.Width(), s.arena.Height()
	if w <= 0 || h <= 0 {
		return common.Vec2{}, false
	}
	playerCell := s.Player.Pos.Cell()
	for range spec.RespawnAttempts {
		c := common.Cell{X: s.rng.IntN(w), Y: s.rng.IntN(h)}
		center := c.Center()
		if s.arena.IsWall(center.X, center.Y) || c == playerCell {
			continue
		}
		if s.occupied(c, e) {
			continue
		}
		if center.Dist(s.Player.Pos) < spec.MinRespawnDistance {
			continue
		}
		if LineOfSight(s.arena, center, s.Player.Pos, spec.SightStep) {
			continue
		}
		return center, true
	}
	return common.Vec2{}, false
}
