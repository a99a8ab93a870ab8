package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"

	"github.com/milk9111/gridcaster/raycast"
	"github.com/milk9111/gridcaster/session"
	"github.com/milk9111/gridcaster/world"
)

const (
	minimapCell = 3
	lineHeight  = 13
)

// HUD draws the crosshair, the status line and the door debug overlay.
type HUD struct {
	face text.Face
}

func NewHUD() *HUD {
	return &HUD{face: text.NewGoXFace(basicfont.Face7x13)}
}

func (h *HUD) Draw(screen *ebiten.Image, sess *session.Session, f *raycast.Frame) {
	w, ht := float32(f.View.Width), float32(f.View.Height)
	cx, cy := w/2, ht/2
	vector.StrokeLine(screen, cx-4, cy, cx+4, cy, 1, colornames.White, false)
	vector.StrokeLine(screen, cx, cy-4, cx, cy+4, 1, colornames.White, false)

	alive := 0
	for _, e := range sess.Sim.Enemies {
		if e.Alive() {
			alive++
		}
	}
	room := "-"
	if id, ok := sess.Sim.PlayerRoom(); ok {
		room = fmt.Sprint(id)
	}
	status := fmt.Sprintf("FPS %.0f  enemies %d/%d  room %s  bullets %d",
		ebiten.ActualFPS(), alive, len(sess.Sim.Enemies), room, sess.Sim.BulletCount())
	h.text(screen, status, 4, float64(ht)-lineHeight-2, colornames.Lightgrey)

	if sess.Sim.DoorDebug() {
		h.drawDoorDebug(screen, sess)
	}
}

func (h *HUD) text(screen *ebiten.Image, s string, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, h.face, op)
}

// drawDoorDebug draws a minimap with door states and lists every door.
func (h *HUD) drawDoorDebug(screen *ebiten.Image, sess *session.Session) {
	wld := sess.World
	const ox, oy = 4, 4
	for y := range wld.Height() {
		for x := range wld.Width() {
			var clr color.Color
			switch wld.Tile(x, y) {
			case world.TileWall:
				clr = colornames.Dimgray
			case world.TileDoor:
				d, _ := wld.DoorAt(x, y)
				clr = doorColor(d)
			default:
				clr = colornames.Black
			}
			vector.FillRect(screen, float32(ox+x*minimapCell), float32(oy+y*minimapCell), minimapCell, minimapCell, clr, false)
		}
	}
	dot := func(px, py float64, clr color.Color) {
		vector.FillRect(screen, float32(ox+px*minimapCell-1), float32(oy+py*minimapCell-1), 2, 2, clr, false)
	}
	for _, e := range sess.Sim.Enemies {
		if e.Alive() {
			dot(e.Pos.X, e.Pos.Y, colornames.Red)
		}
	}
	p := sess.Sim.Player
	dot(p.Pos.X, p.Pos.Y, colornames.Cyan)

	y := float64(oy + wld.Height()*minimapCell + 4)
	for _, d := range wld.Doors() {
		line := fmt.Sprintf("door %d,%d %-7s %.2f", d.Cell.X, d.Cell.Y, d.State, d.Progress)
		h.text(screen, line, ox, y, doorColor(d))
		y += lineHeight
	}
}

func doorColor(d *world.Door) color.Color {
	if d == nil {
		return colornames.Magenta
	}
	switch d.State {
	case world.DoorOpen:
		return colornames.Limegreen
	case world.DoorOpening:
		return colornames.Gold
	case world.DoorClosing:
		return colornames.Orange
	default:
		return colornames.Firebrick
	}
}
