// Command mapinfo prints what a level contains: rooms, doors, spawns and the
// route each enemy would take to the player start.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/gridcaster/common"
	"github.com/milk9111/gridcaster/levels"
	"github.com/milk9111/gridcaster/nav"
	"github.com/milk9111/gridcaster/world"
)

type summary struct {
	Level   string       `yaml:"level"`
	Width   int          `yaml:"width"`
	Height  int          `yaml:"height"`
	Rooms   []roomInfo   `yaml:"rooms"`
	Doors   []doorInfo   `yaml:"doors"`
	Player  spawnInfo    `yaml:"player"`
	Enemies []enemyInfo  `yaml:"enemies"`
	Powerup *spawnInfo   `yaml:"powerup,omitempty"`
	Sprites []spriteInfo `yaml:"sprites,omitempty"`
}

type roomInfo struct {
	ID    int `yaml:"id"`
	Cells int `yaml:"cells"`
}

type doorInfo struct {
	X    int    `yaml:"x"`
	Y    int    `yaml:"y"`
	Axis string `yaml:"axis"`
	Dir  int    `yaml:"dir"`
}

type spawnInfo struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Angle float64 `yaml:"angle"`
	Room  *int    `yaml:"room,omitempty"`
}

type enemyInfo struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Health *int    `yaml:"health,omitempty"`
	Room   *int    `yaml:"room,omitempty"`
	// Steps is the A* route length to the player start, -1 when unreachable.
	Steps int `yaml:"steps"`
}

type spriteInfo struct {
	X        float64  `yaml:"x"`
	Y        float64  `yaml:"y"`
	Textures []string `yaml:"textures"`
}

func summarize(lvl *levels.Level, w *world.GridWorld) summary {
	room := func(p common.Vec2) *int {
		if id, ok := w.RoomID(p.X, p.Y); ok {
			return &id
		}
		return nil
	}

	s := summary{Level: lvl.Name, Width: w.Width(), Height: w.Height()}
	rooms := w.Rooms()
	for id := range rooms.Count() {
		s.Rooms = append(s.Rooms, roomInfo{ID: id, Cells: len(rooms.Cells(id))})
	}
	for _, d := range w.Doors() {
		s.Doors = append(s.Doors, doorInfo{X: d.Cell.X, Y: d.Cell.Y, Axis: d.SlideAxis.String(), Dir: d.SlideDir})
	}

	s.Player = spawnInfo{X: lvl.Player.Pos.X, Y: lvl.Player.Pos.Y, Angle: lvl.Player.Angle, Room: room(lvl.Player.Pos)}
	walk := nav.Walkable(w)
	goal := lvl.Player.Pos.Cell()
	for _, e := range lvl.Enemies {
		steps := -1
		if path := nav.FindPath(e.Pos.Cell(), goal, walk); path != nil {
			steps = len(path) - 1
		}
		s.Enemies = append(s.Enemies, enemyInfo{X: e.Pos.X, Y: e.Pos.Y, Health: e.Health, Room: room(e.Pos), Steps: steps})
	}
	if p := lvl.Powerup; p != nil {
		s.Powerup = &spawnInfo{X: p.Pos.X, Y: p.Pos.Y, Angle: p.Angle, Room: room(p.Pos)}
	}
	for _, sp := range lvl.Sprites {
		s.Sprites = append(s.Sprites, spriteInfo{X: sp.Pos.X, Y: sp.Pos.Y, Textures: sp.Textures})
	}
	return s
}

// drawMap renders the grid: '#' wall, 'D' door, room ids in base 36 on floor,
// 'P' player and 'E' enemies.
func drawMap(out io.Writer, lvl *levels.Level, w *world.GridWorld) error {
	marks := map[common.Cell]byte{lvl.Player.Pos.Cell(): 'P'}
	for _, e := range lvl.Enemies {
		marks[e.Pos.Cell()] = 'E'
	}
	rooms := w.Rooms()
	const digits = "0123456789abcdefghijklmnopqrstuvwxyz"

	var b strings.Builder
	for y := range w.Height() {
		for x := range w.Width() {
			if m, ok := marks[common.Cell{X: x, Y: y}]; ok {
				b.WriteByte(m)
				continue
			}
			switch w.Tile(x, y) {
			case world.TileWall:
				b.WriteByte('#')
			case world.TileDoor:
				b.WriteByte('D')
			default:
				if id := rooms.Label(x, y); id >= 0 && id < len(digits) {
					b.WriteByte(digits[id])
				} else {
					b.WriteByte('.')
				}
			}
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(out, b.String())
	return err
}

func writeText(out io.Writer, s summary) {
	fmt.Fprintf(out, "level %s  %dx%d\n", s.Level, s.Width, s.Height)
	fmt.Fprintf(out, "rooms %d\n", len(s.Rooms))
	for _, r := range s.Rooms {
		fmt.Fprintf(out, "  room %d  %d cells\n", r.ID, r.Cells)
	}
	fmt.Fprintf(out, "doors %d\n", len(s.Doors))
	for _, d := range s.Doors {
		fmt.Fprintf(out, "  door %d,%d  slides %s %+d\n", d.X, d.Y, d.Axis, d.Dir)
	}
	fmt.Fprintf(out, "player %.2f,%.2f  room %s\n", s.Player.X, s.Player.Y, roomText(s.Player.Room))
	for i, e := range s.Enemies {
		route := "unreachable"
		if e.Steps >= 0 {
			route = fmt.Sprintf("%d steps", e.Steps)
		}
		fmt.Fprintf(out, "enemy %d %.2f,%.2f  room %s  route %s\n", i, e.X, e.Y, roomText(e.Room), route)
	}
	if p := s.Powerup; p != nil {
		fmt.Fprintf(out, "powerup %.2f,%.2f  room %s\n", p.X, p.Y, roomText(p.Room))
	}
	for _, sp := range s.Sprites {
		fmt.Fprintf(out, "sprite %.2f,%.2f  %s\n", sp.X, sp.Y, strings.Join(sp.Textures, ","))
	}
}

func roomText(id *int) string {
	if id == nil {
		return "-"
	}
	return fmt.Sprint(*id)
}

func run(out io.Writer, name string, asYAML, showMap bool) error {
	lvl, err := levels.Load(name)
	if err != nil {
		return err
	}
	w, err := world.FromLevel(lvl, world.DefaultDoorConfig())
	if err != nil {
		return fmt.Errorf("build world %s: %w", lvl.Name, err)
	}

	s := summarize(lvl, w)
	if asYAML {
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
	} else {
		writeText(out, s)
	}
	if showMap {
		return drawMap(out, lvl, w)
	}
	return nil
}

func main() {
	levelName := flag.String("level", "default", "level name in levels/ or a world file path")
	asYAML := flag.Bool("yaml", false, "print the summary as YAML")
	showMap := flag.Bool("map", false, "draw the grid with room ids")
	flag.Parse()

	if err := run(os.Stdout, *levelName, *asYAML, *showMap); err != nil {
		log.Fatal(err)
	}
}
