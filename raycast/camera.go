package raycast

import (
	"math"

	"github.com/milk9111/gridcaster/common"
)

// Epsilon floors perpendicular distances so slice heights stay finite.
const Epsilon = 1e-3

// Viewport describes the projection surface. WallHeight scales slices; 1 means
// a wall one tile tall fills d/perp pixels.
type Viewport struct {
	Width      int
	Height     int
	FOV        float64
	WallHeight float64
}

// ProjectionDistance is the distance from the eye to the projection plane in
// pixels.
func (v Viewport) ProjectionDistance() float64 {
	if v.FOV <= 0 {
		return 0
	}
	return (float64(v.Width) / 2) / math.Tan(v.FOV/2)
}

// ColumnOffset is the angle of column col relative to the view direction.
func (v Viewport) ColumnOffset(col int) float64 {
	if v.Width <= 0 {
		return 0
	}
	return -v.FOV/2 + float64(col)*(v.FOV/float64(v.Width))
}

func (v Viewport) wallHeight() float64 {
	if v.WallHeight <= 0 {
		return 1
	}
	return v.WallHeight
}

// Camera is the eye position. Pitch shifts the horizon in pixels.
type Camera struct {
	Pos   common.Vec2
	Angle float64
	Pitch float64
}

// Ray returns the unit direction of a ray offset from the view direction.
func (c Camera) Ray(offset float64) common.Vec2 {
	return common.FromAngle(c.Angle + offset)
}
