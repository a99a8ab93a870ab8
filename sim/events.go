package sim

import (
	"github.com/milk9111/gridcaster/common"
	"github.com/milk9111/gridcaster/world"
)

type EventKind uint8

const (
	EventEnemyHit EventKind = iota
	EventEnemyKilled
	EventEnemyRespawned
	EventDoorChanged
	EventFired
)

func (k EventKind) String() string {
	switch k {
	case EventEnemyHit:
		return "enemy_hit"
	case EventEnemyKilled:
		return "enemy_killed"
	case EventEnemyRespawned:
		return "enemy_respawned"
	case EventDoorChanged:
		return "door_changed"
	case EventFired:
		return "fired"
	default:
		return "unknown"
	}
}

// KillCause says what put an enemy down.
type KillCause uint8

const (
	CauseBullet KillCause = iota
	CauseContact
)

func (c KillCause) String() string {
	if c == CauseContact {
		return "contact"
	}
	return "bullet"
}

// Event is emitted by Step and drained by the frontend after each tick.
type Event struct {
	Kind  EventKind
	Enemy int
	Pos   common.Vec2
	Cause KillCause

	Door      common.Cell
	DoorState world.DoorState
	DoorPrev  world.DoorState
}
