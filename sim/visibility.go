package sim

import (
	"github.com/milk9111/gridcaster/common"
	"github.com/milk9111/gridcaster/world"
)

// LineOfSight samples the segment from a to b every step tiles and reports
// whether none of the interior samples falls in a wall. The endpoints are not
// tested.
func LineOfSight(w world.Walkable, a, b common.Vec2, step float64) bool {
	if step <= 0 {
		step = 0.1
	}
	d := b.Sub(a)
	steps := max(int(d.Len()/step), 1)
	for i := 1; i < steps; i++ {
		t := float64(i) / float64(steps)
		if w.IsWall(a.X+d.X*t, a.Y+d.Y*t) {
			return false
		}
	}
	return true
}
