package raycast

import (
	"math"
	"testing"

	"github.com/milk9111/gridcaster/common"
	"github.com/milk9111/gridcaster/world"
)

func TestProjectBillboard(t *testing.T) {
	codes := boxed(12, 3)
	scene := mustScene(t, codes)
	view := Viewport{Width: 64, Height: 48, FOV: math.Pi / 2}
	f := NewCaster(view, 1).Cast(scene, Camera{Pos: common.Vec2{X: 1.5, Y: 1.5}})

	strips := ProjectBillboard(f, common.Vec2{X: 4.5, Y: 1.5}, 0.5, 1)
	if len(strips) == 0 {
		t.Fatalf("expected visible strips")
	}
	prevU := -1.0
	for _, s := range strips {
		if f.Occluded(s.Col, s.Perp) {
			t.Fatalf("strip %d should have passed the depth test", s.Col)
		}
		if s.U < 0 || s.U > 1 {
			t.Fatalf("strip u out of range: %v", s.U)
		}
		if s.U <= prevU {
			t.Fatalf("u should increase across columns: %v after %v", s.U, prevU)
		}
		prevU = s.U
		if s.Span.Bottom <= s.Span.Top {
			t.Fatalf("empty span %+v", s.Span)
		}
	}

	mid := strips[len(strips)/2]
	if math.Abs(mid.Perp-3) > 0.01 {
		t.Fatalf("center strip perp %v, want ~3", mid.Perp)
	}
	floor := f.Horizon() + view.ProjectionDistance()/mid.Perp/2
	if math.Abs(mid.Span.Bottom-floor) > 1e-9 {
		t.Fatalf("billboard should stand on the floor: bottom %v, floor %v", mid.Span.Bottom, floor)
	}
}

func TestProjectBillboardBehindWall(t *testing.T) {
	codes := boxed(12, 3)
	codes[1][3] = 1
	scene := mustScene(t, codes)
	f := NewCaster(Viewport{Width: 64, Height: 48, FOV: math.Pi / 2}, 1).Cast(scene, Camera{Pos: common.Vec2{X: 1.5, Y: 1.5}})

	if strips := ProjectBillboard(f, common.Vec2{X: 5.5, Y: 1.5}, 0.5, 1); len(strips) != 0 {
		t.Fatalf("sprite behind a wall should be culled, got %d strips", len(strips))
	}
}

func TestProjectBillboardBehindCamera(t *testing.T) {
	scene := mustScene(t, boxed(12, 3))
	f := NewCaster(Viewport{Width: 64, Height: 48, FOV: math.Pi / 2}, 1).Cast(scene, Camera{Pos: common.Vec2{X: 5.5, Y: 1.5}})

	if strips := ProjectBillboard(f, common.Vec2{X: 2.5, Y: 1.5}, 0.5, 1); len(strips) != 0 {
		t.Fatalf("sprite behind the camera should not project, got %d strips", len(strips))
	}
	if strips := ProjectBillboard(f, common.Vec2{X: 5.5, Y: 1.5}, 0.5, 1); strips != nil {
		t.Fatalf("sprite on the camera should not project")
	}
}

func TestProjectPlanar(t *testing.T) {
	scene := mustScene(t, boxed(12, 3))
	f := NewCaster(Viewport{Width: 64, Height: 48, FOV: math.Pi / 2}, 1).Cast(scene, Camera{Pos: common.Vec2{X: 1.5, Y: 1.5}})
	pos := common.Vec2{X: 4.5, Y: 1.5}

	facing := ProjectPlanar(f, pos, math.Pi, 0.5, 1)
	if len(facing) == 0 {
		t.Fatalf("plane facing the camera should be visible")
	}
	for _, s := range facing {
		if math.Abs((s.Span.Top+s.Span.Bottom)/2-f.Horizon()) > 1e-9 {
			t.Fatalf("planar sprite should center on the horizon")
		}
	}

	edgeOn := ProjectPlanar(f, pos, math.Pi/2, 0.5, 1)
	if len(edgeOn) >= len(facing) {
		t.Fatalf("edge-on plane should cover fewer columns: %d vs %d", len(edgeOn), len(facing))
	}
}

func TestPingPongFrame(t *testing.T) {
	const frame = 0.3
	cases := []struct {
		name    string
		n       int
		elapsed float64
		want    int
	}{
		{"single", 1, 5, 0},
		{"none", 0, 5, 0},
		{"two_first", 2, 0.1, 0},
		{"two_second", 2, 0.4, 1},
		{"two_wrap", 2, 0.7, 0},
		{"three_0", 3, 0.0, 0},
		{"three_1", 3, 0.31, 1},
		{"three_2", 3, 0.61, 2},
		{"three_back", 3, 0.91, 1},
		{"three_wrap", 3, 1.21, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := PingPongFrame(c.n, c.elapsed, frame); got != c.want {
				t.Fatalf("PingPongFrame(%d, %v) = %d, want %d", c.n, c.elapsed, got, c.want)
			}
		})
	}
}

var _ Scene = (*world.GridWorld)(nil)
