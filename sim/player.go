package sim

import (
	"math"

	"github.com/milk9111/gridcaster/common"
	"github.com/milk9111/gridcaster/prefabs"
	"github.com/milk9111/gridcaster/world"
)

// Player is the camera-carrying actor. Pitch is a horizon offset in pixels.
type Player struct {
	Pos   common.Vec2
	Angle float64
	Pitch float64
}

// Forward is the unit view direction.
func (p *Player) Forward() common.Vec2 {
	return common.FromAngle(p.Angle)
}

// Move steps forward (dir 1) or back (dir -1). The step is dropped when the
// destination lies in a wall.
func (p *Player) Move(dir float64, w world.Walkable, spec prefabs.PlayerSpec, dt float64) bool {
	d := spec.MoveSpeed * dt * dir
	return p.tryStep(common.Vec2{X: math.Cos(p.Angle) * d, Y: math.Sin(p.Angle) * d}, w)
}

// Strafe steps right (dir 1) or left (dir -1).
func (p *Player) Strafe(dir float64, w world.Walkable, spec prefabs.PlayerSpec, dt float64) bool {
	d := spec.MoveSpeed * dt * dir
	return p.tryStep(common.Vec2{X: -math.Sin(p.Angle) * d, Y: math.Cos(p.Angle) * d}, w)
}

func (p *Player) tryStep(delta common.Vec2, w world.Walkable) bool {
	next := p.Pos.Add(delta)
	if w.IsWall(next.X, next.Y) {
		return false
	}
	p.Pos = next
	return true
}

// Rotate turns right (dir 1) or left (dir -1).
func (p *Player) Rotate(dir float64, spec prefabs.PlayerSpec, dt float64) {
	p.Angle += spec.RotSpeed * dt * dir
}

// Look applies relative mouse motion. Pitch is clamped to MaxPitch.
func (p *Player) Look(dx, dy float64, spec prefabs.PlayerSpec) {
	p.Angle += dx * spec.MouseSensitivity
	p.Pitch -= dy * spec.MouseSensitivityY
	p.Pitch = common.Clamp(p.Pitch, -spec.MaxPitch, spec.MaxPitch)
}
