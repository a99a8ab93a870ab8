package assets

import (
	"image"
	"image/color"
	"math"
)

const defaultSize = 64

type painter func(img *image.NRGBA, spec TextureSpec)

var patterns = map[string]painter{
	"bricks":   paintBricks,
	"planks":   paintPlanks,
	"checker":  paintChecker,
	"disc":     paintDisc,
	"creature": paintCreature,
	"flame":    paintFlame,
}

// Generate draws spec into a new square image.
func Generate(spec TextureSpec) image.Image {
	size := spec.Size
	if size <= 0 {
		size = defaultSize
	}
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	paint, ok := patterns[spec.Pattern]
	if !ok {
		paint = paintChecker
	}
	paint(img, spec)
	return img
}

func missing() image.Image {
	return Generate(TextureSpec{
		Pattern: "checker",
		Size:    16,
	})
}

// Sample reads img at texture coordinates u, v in [0, 1].
func Sample(img image.Image, u, v float64) color.NRGBA {
	b := img.Bounds()
	x := b.Min.X + clampIndex(int(u*float64(b.Dx())), b.Dx())
	y := b.Min.Y + clampIndex(int(v*float64(b.Dy())), b.Dy())
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// grain is a cheap positional hash in [0, 1).
func grain(x, y int) float64 {
	h := uint32(x)*374761393 + uint32(y)*668265263
	h = (h ^ (h >> 13)) * 1274126177
	return float64((h^(h>>16))&0xffff) / 65536
}

func shade(c color.NRGBA, f float64) color.NRGBA {
	scale := func(v uint8) uint8 {
		return uint8(math.Min(255, math.Max(0, float64(v)*f)))
	}
	return color.NRGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: c.A}
}

func paintBricks(img *image.NRGBA, spec TextureSpec) {
	brick := spec.color(0, color.NRGBA{R: 122, G: 59, B: 46, A: 255})
	mortar := spec.color(1, color.NRGBA{R: 60, G: 60, B: 60, A: 255})
	size := img.Rect.Dx()
	rowH := max(size/8, 2)
	brickW := max(size/4, 2)
	for y := range size {
		row := y / rowH
		offset := 0
		if row%2 == 1 {
			offset = brickW / 2
		}
		for x := range size {
			if y%rowH == 0 || (x+offset)%brickW == 0 {
				img.SetNRGBA(x, y, mortar)
				continue
			}
			img.SetNRGBA(x, y, shade(brick, 0.85+0.3*grain(x, y)))
		}
	}
}

func paintPlanks(img *image.NRGBA, spec TextureSpec) {
	wood := spec.color(0, color.NRGBA{R: 120, G: 80, B: 40, A: 255})
	seam := spec.color(1, color.NRGBA{R: 50, G: 32, B: 16, A: 255})
	size := img.Rect.Dx()
	plankW := max(size/4, 2)
	barTop, barBottom := size*3/8, size*5/8
	for y := range size {
		for x := range size {
			switch {
			case x%plankW == 0:
				img.SetNRGBA(x, y, seam)
			case y == barTop || y == barBottom:
				img.SetNRGBA(x, y, seam)
			case y > barTop && y < barBottom:
				img.SetNRGBA(x, y, shade(wood, 0.7))
			default:
				f := 0.9 + 0.2*grain(x/plankW, y/3)
				if (x/plankW)%2 == 1 {
					f -= 0.08
				}
				img.SetNRGBA(x, y, shade(wood, f))
			}
		}
	}
}

func paintChecker(img *image.NRGBA, spec TextureSpec) {
	a := spec.color(0, color.NRGBA{R: 255, G: 0, B: 255, A: 255})
	b := spec.color(1, color.NRGBA{A: 255})
	size := img.Rect.Dx()
	cell := max(size/8, 1)
	for y := range size {
		for x := range size {
			if (x/cell+y/cell)%2 == 0 {
				img.SetNRGBA(x, y, a)
			} else {
				img.SetNRGBA(x, y, b)
			}
		}
	}
}

func paintDisc(img *image.NRGBA, spec TextureSpec) {
	fill := spec.color(0, color.NRGBA{R: 80, G: 200, B: 255, A: 255})
	rim := spec.color(1, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	size := float64(img.Rect.Dx())
	c := size / 2
	r := size * 0.45
	for y := range img.Rect.Dy() {
		for x := range img.Rect.Dx() {
			d := math.Hypot(float64(x)+0.5-c, float64(y)+0.5-c)
			switch {
			case d > r:
			case d > r*0.85:
				img.SetNRGBA(x, y, rim)
			default:
				img.SetNRGBA(x, y, shade(fill, 1.2-0.5*d/r))
			}
		}
	}
}

// paintCreature draws a squat body with eyes. Frame shifts the feet so a
// two-frame pair reads as a walk cycle.
func paintCreature(img *image.NRGBA, spec TextureSpec) {
	body := spec.color(0, color.NRGBA{R: 150, G: 60, B: 40, A: 255})
	eye := spec.color(1, color.NRGBA{R: 255, G: 220, B: 0, A: 255})
	s := float64(img.Rect.Dx())
	cx, cy := s/2, s*0.45
	rx, ry := s*0.32, s*0.36
	stride := s * 0.1
	if spec.Frame%2 == 1 {
		stride = -stride
	}
	for y := range img.Rect.Dy() {
		for x := range img.Rect.Dx() {
			fx, fy := float64(x)+0.5, float64(y)+0.5
			nx, ny := (fx-cx)/rx, (fy-cy)/ry
			if nx*nx+ny*ny <= 1 {
				img.SetNRGBA(x, y, shade(body, 0.8+0.4*(1-ny)/2))
			}
			// feet
			if fy > s*0.8 && fy < s*0.97 {
				if math.Abs(fx-(cx-s*0.15+stride)) < s*0.07 || math.Abs(fx-(cx+s*0.15-stride)) < s*0.07 {
					img.SetNRGBA(x, y, shade(body, 0.6))
				}
			}
			for _, ex := range []float64{cx - s*0.12, cx + s*0.12} {
				if math.Hypot(fx-ex, fy-s*0.35) < s*0.06 {
					img.SetNRGBA(x, y, eye)
				}
			}
		}
	}
}

// paintFlame draws a lamp post whose flame height varies with Frame.
func paintFlame(img *image.NRGBA, spec TextureSpec) {
	flame := spec.color(0, color.NRGBA{R: 255, G: 170, B: 40, A: 255})
	post := spec.color(1, color.NRGBA{R: 70, G: 70, B: 80, A: 255})
	s := float64(img.Rect.Dx())
	cx := s / 2
	height := s * (0.22 + 0.05*float64(spec.Frame%3))
	base := s * 0.4
	for y := range img.Rect.Dy() {
		for x := range img.Rect.Dx() {
			fx, fy := float64(x)+0.5, float64(y)+0.5
			if fy > base && math.Abs(fx-cx) < s*0.05 {
				img.SetNRGBA(x, y, post)
				continue
			}
			if fy <= base && fy >= base-height {
				t := (base - fy) / height
				half := s * 0.14 * (1 - t*t)
				if math.Abs(fx-cx) < half {
					img.SetNRGBA(x, y, shade(flame, 1.1-0.3*t))
				}
			}
		}
	}
}
