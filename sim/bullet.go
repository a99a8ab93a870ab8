package sim

import (
	"github.com/milk9111/gridcaster/common"
	"github.com/milk9111/gridcaster/prefabs"
)

// Bullet is a player projectile moving in a straight line.
type Bullet struct {
	Pos      common.Vec2
	Vel      common.Vec2
	Angle    float64
	Lifespan float64
	Active   bool
}

// NewBullet starts a bullet at pos travelling along angle.
func NewBullet(pos common.Vec2, angle float64, spec prefabs.BulletSpec) Bullet {
	return Bullet{
		Pos:      pos,
		Vel:      common.FromAngle(angle).Scale(spec.Speed),
		Angle:    angle,
		Lifespan: spec.Lifespan,
		Active:   true,
	}
}

// Update advances the bullet and deactivates it once its lifespan runs out.
func (b *Bullet) Update(dt float64) {
	b.Pos = b.Pos.Add(b.Vel.Scale(dt))
	b.Lifespan -= dt
	if b.Lifespan <= 0 {
		b.Active = false
	}
}
