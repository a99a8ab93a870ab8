package main

import (
	"image"
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/milk9111/gridcaster/assets"
	"github.com/milk9111/gridcaster/prefabs"
	"github.com/milk9111/gridcaster/raycast"
	"github.com/milk9111/gridcaster/session"
	"github.com/milk9111/gridcaster/world"
)

const (
	sideShade = 0.7
	fogRate   = 0.15
	minLight  = 0.25
	// upper half block: foreground paints the top pixel, background the bottom
	halfBlock = '▀'
)

// raster is an RGBA framebuffer with two pixels per terminal cell.
type raster struct {
	w, h int
	pix  []color.NRGBA
}

func (r *raster) resize(w, h int) {
	r.w, r.h = max(w, 0), max(h, 0)
	if n := r.w * r.h; cap(r.pix) < n {
		r.pix = make([]color.NRGBA, n)
	} else {
		r.pix = r.pix[:n]
	}
}

func (r *raster) at(x, y int) color.NRGBA {
	return r.pix[y*r.w+x]
}

func (r *raster) set(x, y int, c color.NRGBA) {
	if x < 0 || y < 0 || x >= r.w || y >= r.h {
		return
	}
	r.pix[y*r.w+x] = c
}

// draw rasterizes f. The frame's viewport must match the raster size.
func (r *raster) draw(sess *session.Session, f *raycast.Frame) {
	render := sess.Sim.Tuning().Render
	ceil := toNRGBA(render.Ceiling.Or(color.Black))
	floor := toNRGBA(render.Floor.Or(color.Black))
	horizon := f.Horizon()

	for x := 0; x < r.w && x < len(f.Columns); x++ {
		col := &f.Columns[x]
		wall := f.Slice(x)
		wallTex, wallFlat := render.WallTexture, render.WallX
		if col.Hit.Side == raycast.SideY {
			wallFlat = render.WallY
		}
		if col.Hit.Tile == world.TileDoor {
			wallTex, wallFlat = render.DoorTexture, render.Door
		}
		wallImg := texture(sess, wallTex)
		wallLight := light(col.Hit.Perp, col.Hit.Side)

		slab, slabVisible := f.DoorSlice(x)
		doorImg := texture(sess, render.DoorTexture)
		doorLight := light(col.Door.Perp, col.Door.Side)

		for y := range r.h {
			fy := float64(y) + 0.5
			var c color.NRGBA
			switch {
			case slabVisible && fy >= slab.Top && fy < slab.Bottom:
				c = surface(doorImg, render.Door, col.Door.SlabU(), (fy-slab.Top)/slab.Height(), doorLight)
			case fy >= wall.Top && fy < wall.Bottom:
				c = surface(wallImg, wallFlat, col.Hit.U, (fy-wall.Top)/wall.Height(), wallLight)
			case fy < horizon:
				c = ceil
			default:
				c = floor
			}
			r.pix[y*r.w+x] = c
		}
	}

	tint := toNRGBA(render.HitFlash.Or(color.NRGBA{R: 255, A: 255}))
	for _, s := range sess.Sprites(f) {
		img := sess.Textures.Image(s.Texture)
		for _, strip := range s.Strips {
			top := max(0, int(math.Floor(strip.Span.Top)))
			bottom := min(r.h, int(math.Ceil(strip.Span.Bottom)))
			for y := top; y < bottom; y++ {
				v := (float64(y) + 0.5 - strip.Span.Top) / strip.Span.Height()
				c := assets.Sample(img, strip.U, v)
				if c.A < 128 {
					continue
				}
				if s.Flash {
					c = mix(c, tint, 0.6)
				}
				r.set(strip.Col, y, shadeColor(c, light(strip.Perp, raycast.SideX)))
			}
		}
	}
}

// blit writes the raster into screen rows starting at row 0.
func (r *raster) blit(screen tcell.Screen) {
	for cy := 0; cy*2 < r.h; cy++ {
		for x := range r.w {
			top := r.at(x, cy*2)
			bottom := top
			if cy*2+1 < r.h {
				bottom = r.at(x, cy*2+1)
			}
			style := tcell.StyleDefault.Foreground(rgb(top)).Background(rgb(bottom))
			screen.SetContent(x, cy, halfBlock, nil, style)
		}
	}
}

func texture(sess *session.Session, name string) image.Image {
	if name == "" {
		return nil
	}
	return sess.Textures.Image(name)
}

// surface samples img, or falls back to the flat color when img is nil.
func surface(img image.Image, flat prefabs.YAMLColor, u, v, lightLevel float64) color.NRGBA {
	var c color.NRGBA
	if img == nil {
		c = toNRGBA(flat.Or(color.Gray{Y: 100}))
	} else {
		c = assets.Sample(img, u, v)
	}
	return shadeColor(c, lightLevel)
}

func light(perp float64, side int) float64 {
	l := 1 / (1 + perp*fogRate)
	if side == raycast.SideY {
		l *= sideShade
	}
	return math.Max(l, minLight)
}

func shadeColor(c color.NRGBA, f float64) color.NRGBA {
	return color.NRGBA{
		R: uint8(float64(c.R) * f),
		G: uint8(float64(c.G) * f),
		B: uint8(float64(c.B) * f),
		A: 255,
	}
}

func mix(a, b color.NRGBA, t float64) color.NRGBA {
	lerp := func(x, y uint8) uint8 { return uint8(float64(x) + (float64(y)-float64(x))*t) }
	return color.NRGBA{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: 255}
}

func toNRGBA(c color.Color) color.NRGBA {
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}

func rgb(c color.NRGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
