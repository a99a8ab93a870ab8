package raycast

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/milk9111/gridcaster/common"
	"github.com/milk9111/gridcaster/world"
)

// Scene is the read-only grid view the caster walks.
type Scene interface {
	InBounds(cx, cy int) bool
	Tile(cx, cy int) world.Tile
	DoorAt(cx, cy int) (*world.Door, bool)
}

// Side values for Hit.Side.
const (
	SideX = 0 // crossed a vertical grid line
	SideY = 1 // crossed a horizontal grid line
)

// Hit is the solid surface a column ray stopped on.
type Hit struct {
	Cell common.Cell
	Tile world.Tile
	Side int
	Dist float64
	Perp float64
	U    float64
	// OutOfBounds marks rays that left the grid without meeting a wall.
	OutOfBounds bool
}

// DoorHit records the first mid-slide door a column ray passed through. Offset
// is how far the slab has retracted along the face, signed by the slide
// direction; it stays 0 on faces across the slide axis, where the slab moves
// in depth instead. Visible is false when the ray slipped past the slab.
type DoorHit struct {
	Cell     common.Cell
	Side     int
	Dist     float64
	Perp     float64
	U        float64
	Offset   float64
	Progress float64
	Visible  bool
}

// SlabU maps the face coordinate into slab texture space.
func (d DoorHit) SlabU() float64 {
	return d.U - d.Offset
}

// Column is the cast result for one screen column.
type Column struct {
	Offset  float64
	Hit     Hit
	Door    DoorHit
	HasDoor bool
}

// Caster casts one ray per viewport column. Workers > 1 splits the columns into
// bands cast concurrently; the scene must not be mutated during Cast.
type Caster struct {
	View    Viewport
	Workers int
}

// NewCaster returns a caster for the viewport.
func NewCaster(view Viewport, workers int) *Caster {
	return &Caster{View: view, Workers: workers}
}

// Cast fills a new frame.
func (c *Caster) Cast(scene Scene, cam Camera) *Frame {
	f := newFrame(c.View, cam)
	c.CastInto(f, scene, cam)
	return f
}

// CastInto reuses f's buffers. f is resized when the viewport width changed.
func (c *Caster) CastInto(f *Frame, scene Scene, cam Camera) {
	// a background context is never done, so the cast cannot fail
	_ = c.CastContext(context.Background(), f, scene, cam)
}

// CastContext is CastInto that gives up once ctx is done. Columns not yet
// cast keep their previous contents when it returns ctx's error.
func (c *Caster) CastContext(ctx context.Context, f *Frame, scene Scene, cam Camera) error {
	f.reset(c.View, cam)
	w := c.View.Width
	if w <= 0 || scene == nil {
		return nil
	}

	workers := c.Workers
	if workers <= 1 || w < workers*2 {
		return castRange(ctx, f, scene, cam, 0, w)
	}

	band := (w + workers - 1) / workers
	g, ctx := errgroup.WithContext(ctx)
	for lo := 0; lo < w; lo += band {
		hi := min(lo+band, w)
		g.Go(func() error {
			return castRange(ctx, f, scene, cam, lo, hi)
		})
	}
	return g.Wait()
}

func castRange(ctx context.Context, f *Frame, scene Scene, cam Camera, lo, hi int) error {
	for col := lo; col < hi; col++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		off := f.View.ColumnOffset(col)
		f.Columns[col] = castColumn(scene, cam.Pos, cam.Ray(off), off)
		f.Depth[col] = f.Columns[col].Hit.Perp
	}
	return nil
}

func castColumn(scene Scene, origin, dir common.Vec2, off float64) Column {
	col := Column{Offset: off}

	mapX := int(math.Floor(origin.X))
	mapY := int(math.Floor(origin.Y))

	deltaX := 1e9
	if dir.X != 0 {
		deltaX = math.Abs(1 / dir.X)
	}
	deltaY := 1e9
	if dir.Y != 0 {
		deltaY = math.Abs(1 / dir.Y)
	}

	var stepX, stepY int
	var sideX, sideY float64
	if dir.X < 0 {
		stepX = -1
		sideX = (origin.X - float64(mapX)) * deltaX
	} else {
		stepX = 1
		sideX = (float64(mapX) + 1 - origin.X) * deltaX
	}
	if dir.Y < 0 {
		stepY = -1
		sideY = (origin.Y - float64(mapY)) * deltaY
	} else {
		stepY = 1
		sideY = (float64(mapY) + 1 - origin.Y) * deltaY
	}

	cosOff := math.Cos(off)
	side := SideX
	for {
		if sideX < sideY {
			sideX += deltaX
			mapX += stepX
			side = SideX
		} else {
			sideY += deltaY
			mapY += stepY
			side = SideY
		}

		cell := common.Cell{X: mapX, Y: mapY}
		if !scene.InBounds(mapX, mapY) {
			col.Hit = makeHit(origin, dir, cell, world.TileWall, side, stepX, stepY, cosOff)
			col.Hit.OutOfBounds = true
			return col
		}

		tile := scene.Tile(mapX, mapY)
		switch tile {
		case world.TileEmpty:
			continue
		case world.TileDoor:
			d, ok := scene.DoorAt(mapX, mapY)
			if !ok {
				break
			}
			if d.State == world.DoorOpen {
				continue
			}
			if d.Partial() {
				if !col.HasDoor {
					col.Door = makeDoorHit(origin, dir, d, side, stepX, stepY, cosOff)
					col.HasDoor = true
				}
				continue
			}
		}

		col.Hit = makeHit(origin, dir, cell, tile, side, stepX, stepY, cosOff)
		return col
	}
}

func makeHit(origin, dir common.Vec2, cell common.Cell, tile world.Tile, side, stepX, stepY int, cosOff float64) Hit {
	dist := rayDistance(origin, dir, cell, side, stepX, stepY)
	return Hit{
		Cell: cell,
		Tile: tile,
		Side: side,
		Dist: dist,
		Perp: math.Max(dist*cosOff, Epsilon),
		U:    faceU(origin, dir, dist, side),
	}
}

// makeDoorHit places the slab of a partially open door. On faces that run
// along the slide axis the slab shifts sideways in face space, leaving a gap.
// On faces across the slide axis the slab moves toward or away from the ray,
// so the visible face sits SlideDir*Progress tiles from the cell boundary.
func makeDoorHit(origin, dir common.Vec2, d *world.Door, side, stepX, stepY int, cosOff float64) DoorHit {
	dist := rayDistance(origin, dir, d.Cell, side, stepX, stepY)
	shift := float64(d.SlideDir) * d.Progress
	hit := DoorHit{
		Cell:     d.Cell,
		Side:     side,
		Progress: d.Progress,
	}

	if alongSlide(side, d.SlideAxis) {
		hit.U = faceU(origin, dir, dist, side)
		hit.Offset = shift
		slab := hit.U - shift
		hit.Visible = slab >= 0 && slab <= 1
	} else {
		// the slab face is parallel to the crossed grid line, shifted by shift
		if side == SideX {
			dist += shift / dir.X
		} else {
			dist += shift / dir.Y
		}
		var across, lo float64
		if side == SideX {
			across, lo = origin.Y+dist*dir.Y, float64(d.Cell.Y)
		} else {
			across, lo = origin.X+dist*dir.X, float64(d.Cell.X)
		}
		hit.U = across - lo
		hit.Visible = dist > 0 && hit.U >= 0 && hit.U <= 1
	}

	hit.Dist = dist
	hit.Perp = math.Max(dist*cosOff, Epsilon)
	return hit
}

// alongSlide reports whether the face crossed on side runs parallel to axis.
// SideX faces are vertical grid lines and run along y.
func alongSlide(side int, axis world.Axis) bool {
	if side == SideX {
		return axis == world.AxisY
	}
	return axis == world.AxisX
}

// rayDistance is the distance along the ray to the grid line crossed when
// entering cell.
func rayDistance(origin, dir common.Vec2, cell common.Cell, side, stepX, stepY int) float64 {
	if side == SideX {
		return (float64(cell.X) - origin.X + float64(1-stepX)/2) / dir.X
	}
	return (float64(cell.Y) - origin.Y + float64(1-stepY)/2) / dir.Y
}

func faceU(origin, dir common.Vec2, dist float64, side int) float64 {
	var wallX float64
	if side == SideX {
		wallX = origin.Y + dist*dir.Y
	} else {
		wallX = origin.X + dist*dir.X
	}
	return wallX - math.Floor(wallX)
}
