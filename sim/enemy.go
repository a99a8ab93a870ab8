package sim

import (
	"github.com/milk9111/gridcaster/common"
	"github.com/milk9111/gridcaster/levels"
	"github.com/milk9111/gridcaster/prefabs"
	"github.com/milk9111/gridcaster/world"
)

// ChaseMode records how an enemy moved on its last active tick.
type ChaseMode uint8

const (
	ChaseIdle ChaseMode = iota
	ChasePath
	ChaseDirect
	ChaseHold
)

func (m ChaseMode) String() string {
	switch m {
	case ChasePath:
		return "path"
	case ChaseDirect:
		return "direct"
	case ChaseHold:
		return "hold"
	default:
		return "idle"
	}
}

// Enemy is a chasing actor. Spawn is nil when the enemy respawns at a random
// free cell instead of a fixed point. HomeRoom never changes after creation.
type Enemy struct {
	ID           int
	Pos          common.Vec2
	Spawn        *common.Vec2
	Health       int
	MaxHealth    int
	RespawnTimer float64
	SightTimer   float64
	HomeRoom     int
	HasHome      bool
	Mode         ChaseMode

	Height   float64
	Textures []string
}

// NewEnemy places an enemy from a level spawn. A spawn without a health
// override uses the tuning default.
func NewEnemy(id int, sp levels.EnemySpawn, w world.Walkable, spec prefabs.EnemySpec) *Enemy {
	health := spec.Health
	if sp.Health != nil && *sp.Health > 0 {
		health = *sp.Health
	}
	spawn := sp.Pos
	e := &Enemy{
		ID:        id,
		Pos:       sp.Pos,
		Spawn:     &spawn,
		Health:    health,
		MaxHealth: health,
		Height:    sp.Height,
		Textures:  sp.Textures,
	}
	e.HomeRoom, e.HasHome = w.RoomID(sp.Pos.X, sp.Pos.Y)
	return e
}

func (e *Enemy) Alive() bool {
	return e.Health > 0
}

// kill drops the enemy and arms its respawn countdown.
func (e *Enemy) kill(delay float64) {
	e.Health = 0
	e.RespawnTimer = delay
	e.SightTimer = 0
	e.Mode = ChaseIdle
}

func (e *Enemy) revive(pos common.Vec2) {
	e.Pos = pos
	e.Health = e.MaxHealth
	e.RespawnTimer = 0
	e.SightTimer = 0
	e.Mode = ChaseIdle
}

// stepToward moves at most maxStep toward target without overshooting. The
// move is dropped if the destination cell is a wall.
func (e *Enemy) stepToward(target common.Vec2, maxStep float64, w world.Walkable) bool {
	d := target.Sub(e.Pos)
	dist := d.Len()
	if dist <= 1e-6 {
		return false
	}
	step := min(maxStep, dist)
	next := e.Pos.Add(d.Scale(step / dist))
	if w.IsWall(next.X, next.Y) {
		return false
	}
	e.Pos = next
	return true
}
