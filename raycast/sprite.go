package raycast

import (
	"math"

	"github.com/milk9111/gridcaster/common"
)

// Strip is one visible column of a projected sprite.
type Strip struct {
	Col  int
	U    float64
	Perp float64
	Span Span
}

// ProjectBillboard projects a camera-facing sprite standing on the floor at pos.
// height is in tiles and aspect is texture width over height. Columns hidden by
// walls are dropped.
func ProjectBillboard(f *Frame, pos common.Vec2, height, aspect float64) []Strip {
	toCam := f.Camera.Pos.Sub(pos)
	l := toCam.Len()
	if l < 1e-6 {
		return nil
	}
	normal := toCam.Scale(1 / l)
	return projectPlane(f, pos, normal, height, aspect, true)
}

// ProjectPlanar projects a sprite whose plane faces the world angle facing. It
// is centered on the horizon, the way the powerup floats.
func ProjectPlanar(f *Frame, pos common.Vec2, facing, height, aspect float64) []Strip {
	return projectPlane(f, pos, common.FromAngle(facing), height, aspect, false)
}

func projectPlane(f *Frame, pos, normal common.Vec2, height, aspect float64, grounded bool) []Strip {
	if f == nil || height <= 0 || aspect <= 0 {
		return nil
	}
	worldW := height * aspect
	halfW := worldW / 2
	// u runs left to right as seen from the side the normal points to
	tangent := common.Vec2{X: normal.Y, Y: -normal.X}
	origin := f.Camera.Pos
	num := normal.X*(pos.X-origin.X) + normal.Y*(pos.Y-origin.Y)
	d := f.View.ProjectionDistance()
	wallH := f.View.wallHeight()
	mid := f.Horizon()

	var out []Strip
	for col := range f.Columns {
		off := f.View.ColumnOffset(col)
		ray := f.Camera.Ray(off)
		denom := normal.X*ray.X + normal.Y*ray.Y
		if math.Abs(denom) < 1e-6 {
			continue
		}
		t := num / denom
		if t <= 0 {
			continue
		}
		perp := t * math.Cos(off)
		if perp <= 0 || f.Occluded(col, perp) {
			continue
		}
		hit := origin.Add(ray.Scale(t))
		proj := hit.Sub(pos)
		along := proj.X*tangent.X + proj.Y*tangent.Y
		if math.Abs(along) > halfW {
			continue
		}

		h := d / perp * height * wallH
		var span Span
		if grounded {
			floor := mid + d/perp*wallH/2
			span = Span{Top: floor - h, Bottom: floor}
		} else {
			span = Span{Top: mid - h/2, Bottom: mid + h/2}
		}
		out = append(out, Strip{
			Col:  col,
			U:    (along + halfW) / worldW,
			Perp: perp,
			Span: span,
		})
	}
	return out
}

// PingPongFrame picks the texture index for an n-frame animation that plays
// forward then backward, holding each frame for frameDuration seconds.
func PingPongFrame(n int, elapsed, frameDuration float64) int {
	if n <= 1 || frameDuration <= 0 || elapsed < 0 {
		return 0
	}
	cycle := 2*n - 2
	t := int(elapsed/frameDuration) % cycle
	if t < n {
		return t
	}
	return cycle - t
}
