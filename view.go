package main

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/milk9111/gridcaster/prefabs"
	"github.com/milk9111/gridcaster/raycast"
	"github.com/milk9111/gridcaster/session"
	"github.com/milk9111/gridcaster/world"
)

// sideShade darkens faces that crossed a horizontal grid line.
const sideShade = 0.7

type cachedTexture struct {
	src image.Image
	img *ebiten.Image
}

// View draws a cast frame: ceiling, floor, textured wall columns, door slabs
// and sprites.
type View struct {
	sess     *session.Session
	textures map[string]cachedTexture
}

func NewView(sess *session.Session) *View {
	return &View{sess: sess, textures: make(map[string]cachedTexture)}
}

// texture converts a library image once. A reload that replaced the source
// image is picked up by the identity check.
func (v *View) texture(name string) *ebiten.Image {
	src := v.sess.Textures.Image(name)
	if c, ok := v.textures[name]; ok && c.src == src {
		return c.img
	}
	img := ebiten.NewImageFromImage(src)
	v.textures[name] = cachedTexture{src: src, img: img}
	return img
}

func (v *View) Draw(screen *ebiten.Image, f *raycast.Frame) {
	render := v.sess.Sim.Tuning().Render
	w, h := float32(f.View.Width), float32(f.View.Height)
	horizon := float32(math.Max(0, math.Min(float64(h), f.Horizon())))

	vector.FillRect(screen, 0, 0, w, horizon, render.Ceiling.Or(color.Black), false)
	vector.FillRect(screen, 0, horizon, w, h-horizon, render.Floor.Or(color.Black), false)

	for col := range f.Columns {
		c := &f.Columns[col]
		v.drawWall(screen, col, c, f.Slice(col), render)
		if span, visible := f.DoorSlice(col); visible {
			v.drawColumn(screen, col, render.DoorTexture, c.Door.SlabU(), span, c.Door.Side, render.Door)
		}
	}

	for _, s := range v.sess.Sprites(f) {
		tex := v.texture(s.Texture)
		for _, strip := range s.Strips {
			op := &ebiten.DrawImageOptions{}
			if s.Flash {
				op.ColorScale.ScaleWithColor(opaque(render.HitFlash.Or(color.NRGBA{R: 255, A: 255})))
			}
			drawStrip(screen, tex, strip.Col, strip.U, strip.Span, op)
		}
	}
}

func (v *View) drawWall(screen *ebiten.Image, col int, c *raycast.Column, span raycast.Span, render prefabs.RenderSpec) {
	tex := render.WallTexture
	flat := render.WallX
	if c.Hit.Side == raycast.SideY {
		flat = render.WallY
	}
	if c.Hit.Tile == world.TileDoor {
		tex, flat = render.DoorTexture, render.Door
	}
	v.drawColumn(screen, col, tex, c.Hit.U, span, c.Hit.Side, flat)
}

// drawColumn draws one textured column, or a flat column when no texture is
// configured.
func (v *View) drawColumn(screen *ebiten.Image, col int, tex string, u float64, span raycast.Span, side int, flat prefabs.YAMLColor) {
	if tex == "" {
		vector.FillRect(screen, float32(col), float32(span.Top), 1, float32(span.Height()), flat.Or(color.Gray{Y: 100}), false)
		return
	}
	op := &ebiten.DrawImageOptions{}
	if side == raycast.SideY {
		op.ColorScale.Scale(sideShade, sideShade, sideShade, 1)
	}
	drawStrip(screen, v.texture(tex), col, u, span, op)
}

// drawStrip stretches texture column u over span at screen column col.
func drawStrip(screen, tex *ebiten.Image, col int, u float64, span raycast.Span, op *ebiten.DrawImageOptions) {
	b := tex.Bounds()
	tw, th := b.Dx(), b.Dy()
	if tw == 0 || th == 0 || span.Height() <= 0 {
		return
	}
	tx := int(u * float64(tw))
	tx = max(0, min(tw-1, tx))
	sub, ok := tex.SubImage(image.Rect(b.Min.X+tx, b.Min.Y, b.Min.X+tx+1, b.Max.Y)).(*ebiten.Image)
	if !ok {
		return
	}
	op.GeoM.Scale(1, span.Height()/float64(th))
	op.GeoM.Translate(float64(col), span.Top)
	screen.DrawImage(sub, op)
}

func opaque(c color.Color) color.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = 0xff
	return n
}
