package nav

import (
	"container/heap"

	"github.com/milk9111/gridcaster/common"
	"github.com/milk9111/gridcaster/world"
)

// WalkFunc reports whether a cell may be entered.
type WalkFunc func(common.Cell) bool

// cellWalls is the integer lookup GridWorld offers next to IsWall.
type cellWalls interface {
	IsWallCell(cx, cy int) bool
}

// Walkable adapts a world to a cell predicate. Out of bounds cells are walls.
// Worlds with a cell lookup skip the cell-center conversion.
func Walkable(w world.Walkable) WalkFunc {
	if cw, ok := w.(cellWalls); ok {
		return func(c common.Cell) bool {
			return !cw.IsWallCell(c.X, c.Y)
		}
	}
	return func(c common.Cell) bool {
		return !w.IsWall(float64(c.X)+0.5, float64(c.Y)+0.5)
	}
}

// Manhattan is the 4-connected grid distance between two cells.
func Manhattan(a, b common.Cell) int {
	return common.Abs(a.X-b.X) + common.Abs(a.Y-b.Y)
}

// neighbor expansion order
var steps = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// FindPath runs A* from start to goal over 4-connected unit-cost cells and
// returns the cells from start to goal inclusive. The result is empty when the
// goal is not walkable or cannot be reached. The start cell itself is never
// tested against walkable.
func FindPath(start, goal common.Cell, walkable WalkFunc) []common.Cell {
	if walkable == nil || !walkable(goal) {
		return nil
	}
	if start == goal {
		return []common.Cell{start}
	}

	open := &openSet{}
	heap.Init(open)

	var seq uint64
	cameFrom := make(map[common.Cell]common.Cell)
	gScore := map[common.Cell]int{start: 0}
	closed := make(map[common.Cell]bool)

	heap.Push(open, &openItem{cell: start, f: Manhattan(start, goal), seq: seq})

	for open.Len() > 0 {
		cur := heap.Pop(open).(*openItem)
		if closed[cur.cell] {
			continue
		}
		if cur.cell == goal {
			return reconstructPath(cameFrom, start, goal)
		}
		closed[cur.cell] = true

		g := gScore[cur.cell]
		for _, s := range steps {
			n := cur.cell.Add(s[0], s[1])
			if closed[n] || !walkable(n) {
				continue
			}
			tentative := g + 1
			if old, ok := gScore[n]; ok && tentative >= old {
				continue
			}
			cameFrom[n] = cur.cell
			gScore[n] = tentative
			seq++
			heap.Push(open, &openItem{cell: n, f: tentative + Manhattan(n, goal), seq: seq})
		}
	}

	return nil
}

func reconstructPath(cameFrom map[common.Cell]common.Cell, start, goal common.Cell) []common.Cell {
	path := []common.Cell{goal}
	cur := goal
	for cur != start {
		prev, ok := cameFrom[cur]
		if !ok {
			return nil
		}
		path = append(path, prev)
		cur = prev
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

type openItem struct {
	cell  common.Cell
	f     int
	seq   uint64
	index int
}

type openSet []*openItem

func (o openSet) Len() int { return len(o) }
func (o openSet) Less(i, j int) bool {
	if o[i].f != o[j].f {
		return o[i].f < o[j].f
	}
	return o[i].seq < o[j].seq
}
func (o openSet) Swap(i, j int) {
	o[i], o[j] = o[j], o[i]
	o[i].index = i
	o[j].index = j
}
func (o *openSet) Push(x any) {
	item := x.(*openItem)
	item.index = len(*o)
	*o = append(*o, item)
}
func (o *openSet) Pop() any {
	old := *o
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*o = old[:n-1]
	return item
}
