package world

import "github.com/milk9111/gridcaster/common"

// NoRoom labels cells that are not part of any room.
const NoRoom = -1

// RoomIndex labels each maximal 4-connected component of empty cells. It is
// computed once and never changes afterwards.
type RoomIndex struct {
	width  int
	height int
	labels []int
	count  int
}

// BuildRoomIndex flood-fills empty cells. Seeds are picked in row-major order so
// IDs are reproducible for a given grid.
func BuildRoomIndex(tiles [][]Tile) *RoomIndex {
	ri := &RoomIndex{}
	if len(tiles) == 0 {
		return ri
	}
	ri.height = len(tiles)
	ri.width = len(tiles[0])
	ri.labels = make([]int, ri.width*ri.height)
	for i := range ri.labels {
		ri.labels[i] = NoRoom
	}

	stack := make([]common.Cell, 0, 64)
	for y := 0; y < ri.height; y++ {
		for x := 0; x < ri.width; x++ {
			if tiles[y][x] != TileEmpty || ri.labels[y*ri.width+x] != NoRoom {
				continue
			}
			id := ri.count
			ri.count++

			stack = append(stack[:0], common.Cell{X: x, Y: y})
			ri.labels[y*ri.width+x] = id
			for len(stack) > 0 {
				cur := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				for _, d := range roomScan {
					nx, ny := cur.X+d[0], cur.Y+d[1]
					if nx < 0 || ny < 0 || nx >= ri.width || ny >= ri.height {
						continue
					}
					idx := ny*ri.width + nx
					if tiles[ny][nx] != TileEmpty || ri.labels[idx] != NoRoom {
						continue
					}
					ri.labels[idx] = id
					stack = append(stack, common.Cell{X: nx, Y: ny})
				}
			}
		}
	}
	return ri
}

// Label returns the room of a cell, or NoRoom.
func (ri *RoomIndex) Label(cx, cy int) int {
	if ri == nil || cx < 0 || cy < 0 || cx >= ri.width || cy >= ri.height {
		return NoRoom
	}
	return ri.labels[cy*ri.width+cx]
}

// Count returns the number of rooms.
func (ri *RoomIndex) Count() int {
	if ri == nil {
		return 0
	}
	return ri.count
}

// Cells returns every cell in room id, in row-major order.
func (ri *RoomIndex) Cells(id int) []common.Cell {
	if ri == nil || id < 0 || id >= ri.count {
		return nil
	}
	var out []common.Cell
	for i, l := range ri.labels {
		if l == id {
			out = append(out, common.Cell{X: i % ri.width, Y: i / ri.width})
		}
	}
	return out
}
