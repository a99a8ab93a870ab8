package world

import "github.com/milk9111/gridcaster/levels"

// Tile is a grid cell code.
type Tile uint8

const (
	TileEmpty Tile = levels.TileEmpty
	TileWall  Tile = levels.TileWall
	TileDoor  Tile = levels.TileDoor
)

func (t Tile) String() string {
	switch t {
	case TileEmpty:
		return "empty"
	case TileWall:
		return "wall"
	case TileDoor:
		return "door"
	default:
		return "unknown"
	}
}

// Axis selects a grid axis.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	if a == AxisY {
		return "y"
	}
	return "x"
}

// neighbor scan orders
var (
	// slideScan is the order used to pick a door's slide orientation.
	slideScan = []struct {
		dx, dy int
		axis   Axis
		dir    int
	}{
		{1, 0, AxisX, 1},
		{-1, 0, AxisX, -1},
		{0, 1, AxisY, 1},
		{0, -1, AxisY, -1},
	}

	// roomScan is up, right, down, left.
	roomScan = [][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}
)
