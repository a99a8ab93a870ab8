package sim

import (
	"go.uber.org/zap"

	"github.com/milk9111/gridcaster/common"
	"github.com/milk9111/gridcaster/ecs"
	"github.com/milk9111/gridcaster/nav"
)

func doorSystem(s *Sim, dt float64) {
	s.arena.UpdateDoors(s.Player.Pos, dt)
}

func inputSystem(s *Sim, dt float64) {
	in := s.input
	p := &s.Player
	spec := s.tuning.Player

	if in.MouseDX != 0 || in.MouseDY != 0 {
		p.Look(in.MouseDX, in.MouseDY, spec)
	}
	if in.TurnLeft {
		p.Rotate(-1, spec, dt)
	}
	if in.TurnRight {
		p.Rotate(1, spec, dt)
	}
	if in.Forward {
		p.Move(1, s.arena, spec, dt)
	}
	if in.Back {
		p.Move(-1, s.arena, spec, dt)
	}
	if in.StrafeLeft {
		p.Strafe(-1, s.arena, spec, dt)
	}
	if in.StrafeRight {
		p.Strafe(1, s.arena, spec, dt)
	}
	if in.Fire {
		s.Fire()
	}
}

func powerupSystem(s *Sim, dt float64) {
	if s.Powerup != nil {
		s.Powerup.Angle += s.tuning.Render.Powerup.RotSpeed * dt
	}
}

// chaseSystem moves enemies that share the player's room. An enemy that has
// kept the player in sight for DirectDelay seconds heads straight at them;
// otherwise it walks to the next cell of an A* path.
func chaseSystem(s *Sim, dt float64) {
	spec := s.tuning.Enemy
	target := s.Player.Pos
	room, inRoom := s.PlayerRoom()
	playerCell := target.Cell()

	for _, e := range s.Enemies {
		if !e.Alive() {
			continue
		}
		if !inRoom || !e.HasHome || e.HomeRoom != room {
			e.Mode = ChaseIdle
			continue
		}

		if LineOfSight(s.arena, e.Pos, target, spec.SightStep) {
			e.SightTimer += dt
		} else {
			e.SightTimer = 0
		}

		var goal common.Vec2
		if e.SightTimer >= spec.DirectDelay {
			goal = target
			e.Mode = ChaseDirect
		} else {
			path := nav.FindPath(e.Pos.Cell(), playerCell, s.walk)
			switch {
			case len(path) > 1:
				goal = path[1].Center()
			case len(path) == 1:
				goal = target
			default:
				e.Mode = ChaseHold
				continue
			}
			e.Mode = ChasePath
		}
		e.stepToward(goal, s.chaseSpeed(e, target)*dt, s.arena)
	}
}

func contactSystem(s *Sim, _ float64) {
	spec := s.tuning.Enemy
	for _, e := range s.Enemies {
		if !e.Alive() {
			continue
		}
		if e.Pos.Dist(s.Player.Pos) < spec.KillRadius {
			e.kill(spec.RespawnDelay)
			s.emitKill(e, CauseContact)
		}
	}
}

// bulletSystem moves bullets, resolves hits against the first live enemy in
// range and then drops every inactive bullet.
func bulletSystem(s *Sim, dt float64) {
	hitRadius := s.tuning.Bullet.HitRadius
	delay := s.tuning.Enemy.RespawnDelay

	s.bullets.Each(func(_ ecs.Entity, b *Bullet) {
		b.Update(dt)
		if !b.Active {
			return
		}
		if s.arena.IsWall(b.Pos.X, b.Pos.Y) {
			b.Active = false
			return
		}
		for _, e := range s.Enemies {
			if !e.Alive() || e.Pos.Dist(b.Pos) >= hitRadius {
				continue
			}
			b.Active = false
			e.Health--
			s.events.Push(Event{Kind: EventEnemyHit, Enemy: e.ID, Pos: e.Pos})
			if e.Health <= 0 {
				e.kill(delay)
				s.emitKill(e, CauseBullet)
			}
			break
		}
	})

	spent := s.bullets.RemoveIf(func(_ ecs.Entity, b *Bullet) bool { return !b.Active })
	for _, ent := range spent {
		s.ents.DestroyEntity(ent)
	}
}

func respawnSystem(s *Sim, dt float64) {
	for _, e := range s.Enemies {
		if e.Alive() {
			continue
		}
		e.RespawnTimer -= dt
		if e.RespawnTimer > 0 {
			continue
		}
		pos, ok := s.respawnPoint(e)
		if !ok {
			e.RespawnTimer = 0
			s.log.Debug("no respawn cell, retrying", zap.Int("enemy", e.ID))
			continue
		}
		e.revive(pos)
		s.events.Push(Event{Kind: EventEnemyRespawned, Enemy: e.ID, Pos: pos})
		s.log.Debug("enemy respawned",
			zap.Int("enemy", e.ID),
			zap.Float64("x", pos.X),
			zap.Float64("y", pos.Y),
		)
	}
}
