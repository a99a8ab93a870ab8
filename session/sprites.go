package session

import (
	"sort"

	"github.com/milk9111/gridcaster/common"
	"github.com/milk9111/gridcaster/raycast"
)

// Sprite is one projected sprite ready to draw.
type Sprite struct {
	Texture string
	Strips  []raycast.Strip
	Dist    float64
	Flash   bool
}

// Sprites projects decorations, live enemies and the powerup into f and
// returns them farthest first.
func (s *Session) Sprites(f *raycast.Frame) []Sprite {
	render := s.Sim.Tuning().Render
	frameDur := float64(render.AnimFrameMs) / 1000
	clock := s.Sim.Clock()
	eye := f.Camera.Pos

	var out []Sprite
	add := func(tex string, pos common.Vec2, strips []raycast.Strip, flash bool) {
		if len(strips) == 0 {
			return
		}
		out = append(out, Sprite{Texture: tex, Strips: strips, Dist: eye.Dist2(pos), Flash: flash})
	}

	for _, d := range s.Sim.Decorations {
		tex := pick(d.Textures, clock, frameDur)
		add(tex, d.Pos, raycast.ProjectBillboard(f, d.Pos, d.Height, s.aspect(tex)), false)
	}
	for _, e := range s.Sim.Enemies {
		if !e.Alive() {
			continue
		}
		textures := e.Textures
		if len(textures) == 0 {
			textures = render.EnemyTextures
		}
		tex := pick(textures, clock, frameDur)
		add(tex, e.Pos, raycast.ProjectBillboard(f, e.Pos, e.Height, s.aspect(tex)), s.Flashing(e.ID))
	}
	if p := s.Sim.Powerup; p != nil {
		tex := render.PowerupImage
		add(tex, p.Pos, raycast.ProjectPlanar(f, p.Pos, p.Angle, render.Powerup.Height, s.aspect(tex)), false)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Dist > out[j].Dist })
	return out
}

func pick(textures []string, clock, frameDur float64) string {
	if len(textures) == 0 {
		return ""
	}
	return textures[raycast.PingPongFrame(len(textures), clock, frameDur)]
}

func (s *Session) aspect(tex string) float64 {
	b := s.Textures.Image(tex).Bounds()
	if b.Dy() == 0 {
		return 1
	}
	return float64(b.Dx()) / float64(b.Dy())
}
