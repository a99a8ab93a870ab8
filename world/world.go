package world

import (
	"errors"
	"fmt"
	"math"

	"github.com/milk9111/gridcaster/common"
	"github.com/milk9111/gridcaster/levels"
)

// ErrMalformedGrid is returned when a tile grid cannot back a world.
var ErrMalformedGrid = errors.New("world: malformed grid")

// Walkable is the query surface shared by the simulation, the pathfinder and
// the renderer. GridWorld implements it; tests substitute lightweight doubles.
type Walkable interface {
	IsWall(x, y float64) bool
	RoomID(x, y float64) (int, bool)
	UpdateDoors(player common.Vec2, dt float64)
}

// DoorObserver is notified after a door changes state during UpdateDoors.
type DoorObserver func(d *Door, prev DoorState)

// GridWorld owns the tile grid, its doors and the room index.
type GridWorld struct {
	width  int
	height int
	tiles  [][]Tile
	doors  map[common.Cell]*Door
	order  []*Door
	rooms  *RoomIndex

	doorCfg  DoorConfig
	observer DoorObserver
}

// NewGridWorld validates tiles and builds doors and rooms.
func NewGridWorld(tiles [][]Tile, cfg DoorConfig) (*GridWorld, error) {
	if len(tiles) == 0 || len(tiles[0]) == 0 {
		return nil, fmt.Errorf("empty grid: %w", ErrMalformedGrid)
	}
	width := len(tiles[0])
	for y, row := range tiles {
		if len(row) != width {
			return nil, fmt.Errorf("row %d has %d tiles, want %d: %w", y, len(row), width, ErrMalformedGrid)
		}
		for x, t := range row {
			if t > TileDoor {
				return nil, fmt.Errorf("unknown tile %d at (%d,%d): %w", t, x, y, ErrMalformedGrid)
			}
		}
	}

	w := &GridWorld{
		width:   width,
		height:  len(tiles),
		tiles:   tiles,
		doors:   make(map[common.Cell]*Door),
		doorCfg: cfg,
	}

	for y, row := range tiles {
		for x, t := range row {
			if t != TileDoor {
				continue
			}
			cell := common.Cell{X: x, Y: y}
			axis, dir := w.slideOrientation(cell)
			d := newDoor(cell, axis, dir)
			w.doors[cell] = d
			w.order = append(w.order, d)
		}
	}
	w.rooms = BuildRoomIndex(tiles)
	return w, nil
}

// FromLevel builds a world from a validated level definition.
func FromLevel(lvl *levels.Level, cfg DoorConfig) (*GridWorld, error) {
	if lvl == nil {
		return nil, fmt.Errorf("nil level: %w", ErrMalformedGrid)
	}
	return NewGridWorld(TilesFromCodes(lvl.Tiles), cfg)
}

// TilesFromCodes converts raw tile codes. Codes outside the Tile range map to
// an invalid tile so NewGridWorld rejects them.
func TilesFromCodes(codes [][]int) [][]Tile {
	out := make([][]Tile, len(codes))
	for y, row := range codes {
		out[y] = make([]Tile, len(row))
		for x, c := range row {
			if c < 0 || c > int(TileDoor) {
				out[y][x] = math.MaxUint8
				continue
			}
			out[y][x] = Tile(c)
		}
	}
	return out
}

func (w *GridWorld) slideOrientation(cell common.Cell) (Axis, int) {
	for _, s := range slideScan {
		if w.Tile(cell.X+s.dx, cell.Y+s.dy) == TileEmpty {
			return s.axis, s.dir
		}
	}
	return AxisX, 1
}

func (w *GridWorld) inBounds(cx, cy int) bool {
	return cx >= 0 && cy >= 0 && cx < w.width && cy < w.height
}

// InBounds reports whether the cell lies inside the grid.
func (w *GridWorld) InBounds(cx, cy int) bool {
	return w != nil && w.inBounds(cx, cy)
}

func (w *GridWorld) Width() int  { return w.width }
func (w *GridWorld) Height() int { return w.height }

// Tile returns the tile at a cell. Out of bounds cells read as walls.
func (w *GridWorld) Tile(cx, cy int) Tile {
	if !w.inBounds(cx, cy) {
		return TileWall
	}
	return w.tiles[cy][cx]
}

// DoorAt returns the door occupying a cell.
func (w *GridWorld) DoorAt(cx, cy int) (*Door, bool) {
	d, ok := w.doors[common.Cell{X: cx, Y: cy}]
	return d, ok
}

// Doors returns doors in row-major order.
func (w *GridWorld) Doors() []*Door {
	return w.order
}

// Rooms returns the immutable room index.
func (w *GridWorld) Rooms() *RoomIndex {
	return w.rooms
}

// DoorConfig returns the active door timing.
func (w *GridWorld) DoorConfig() DoorConfig {
	return w.doorCfg
}

// SetDoorConfig swaps door timing, e.g. after a tuning reload.
func (w *GridWorld) SetDoorConfig(cfg DoorConfig) {
	w.doorCfg = cfg
}

// SetDoorObserver registers a callback for door state changes.
func (w *GridWorld) SetDoorObserver(fn DoorObserver) {
	w.observer = fn
}

// IsWall reports whether the cell containing (x, y) blocks movement.
func (w *GridWorld) IsWall(x, y float64) bool {
	return w.IsWallCell(int(math.Floor(x)), int(math.Floor(y)))
}

// IsWallCell reports whether a cell blocks movement. A door cell blocks unless
// its door is fully open, which also covers a slab that is mid-slide.
func (w *GridWorld) IsWallCell(cx, cy int) bool {
	if !w.inBounds(cx, cy) {
		return true
	}
	switch w.tiles[cy][cx] {
	case TileWall:
		return true
	case TileDoor:
		d, ok := w.DoorAt(cx, cy)
		return !ok || !d.Passable()
	default:
		return false
	}
}

// RoomID returns the room containing (x, y). An open door cell resolves to the
// first neighboring room scanning up, right, down, left.
func (w *GridWorld) RoomID(x, y float64) (int, bool) {
	cx, cy := int(math.Floor(x)), int(math.Floor(y))
	if !w.inBounds(cx, cy) {
		return NoRoom, false
	}
	switch w.tiles[cy][cx] {
	case TileEmpty:
		id := w.rooms.Label(cx, cy)
		return id, id != NoRoom
	case TileDoor:
		d, ok := w.DoorAt(cx, cy)
		if !ok || d.State != DoorOpen {
			return NoRoom, false
		}
		for _, n := range roomScan {
			if id := w.rooms.Label(cx+n[0], cy+n[1]); id != NoRoom {
				return id, true
			}
		}
	}
	return NoRoom, false
}

// UpdateDoors advances every door state machine.
func (w *GridWorld) UpdateDoors(player common.Vec2, dt float64) {
	for _, d := range w.order {
		prev := d.State
		if d.Update(player, dt, w.doorCfg) && w.observer != nil {
			w.observer(d, prev)
		}
	}
}

var _ Walkable = (*GridWorld)(nil)
